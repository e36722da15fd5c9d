// Package config handles the configuration directory, settings file, and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskdash"

	// SettingsFile is the optional YAML settings filename.
	SettingsFile = "config.yaml"

	// TokenFile is the stored session token filename.
	TokenFile = "token"

	// OAuthClientFile is the Google OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// GoogleTokenFile is the stored Google OAuth token filename.
	GoogleTokenFile = "google_token.json"

	// DashboardLogFile receives dashboard logs when --debug is set.
	DashboardLogFile = "dashboard.log"
)

// Backend names.
const (
	BackendREST        = "rest"
	BackendGoogleTasks = "googletasks"
)

// Defaults.
const (
	DefaultAPIURL         = "https://todo-backend-6c6i.onrender.com"
	DefaultPageSize       = 20
	DefaultRequestTimeout = 30 * time.Second
	DefaultTimeLayout     = "15:04:05 2/1/2006"
	DefaultGoogleListID   = "@default"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings holds values from config.yaml, .env, and the environment.
	Settings Settings
}

// Settings are the tunable values of the client.
type Settings struct {
	APIURL         string        `yaml:"api_url"`
	Backend        string        `yaml:"backend"`
	PageSize       int           `yaml:"page_size"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	TimeLayout     string        `yaml:"time_layout"`
	TimeZone       string        `yaml:"time_zone"`
	Google         GoogleConfig  `yaml:"google"`
	Log            LogConfig     `yaml:"log"`
}

// GoogleConfig configures the Google Tasks backend.
type GoogleConfig struct {
	ListID  string `yaml:"list_id"`
	Account string `yaml:"account"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdash or $HOME/.config/taskdash.
// Settings are read from config.yaml in that directory, then .env files, then
// TASKDASH_* environment variables.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir, Settings: DefaultSettings()}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		APIURL:         DefaultAPIURL,
		Backend:        BackendREST,
		PageSize:       DefaultPageSize,
		RequestTimeout: DefaultRequestTimeout,
		TimeLayout:     DefaultTimeLayout,
		TimeZone:       "Local",
		Google:         GoogleConfig{ListID: DefaultGoogleListID},
		Log:            LogConfig{Level: "warn", Encoding: "console"},
	}
}

func (c *Config) loadSettings() error {
	data, err := os.ReadFile(c.SettingsPath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c.Settings); err != nil {
			return fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("read %s: %w", SettingsFile, err)
	}

	// godotenv.Load never overrides variables that are already set.
	for _, path := range []string{".env", filepath.Join(c.Dir, ".env")} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	s := &c.Settings
	s.APIURL = getString("TASKDASH_API_URL", s.APIURL)
	s.Backend = getString("TASKDASH_BACKEND", s.Backend)
	s.PageSize = getInt("TASKDASH_PAGE_SIZE", s.PageSize)
	s.RequestTimeout = getDuration("TASKDASH_REQUEST_TIMEOUT", s.RequestTimeout)
	s.TimeLayout = getString("TASKDASH_TIME_LAYOUT", s.TimeLayout)
	s.TimeZone = getString("TASKDASH_TIME_ZONE", s.TimeZone)
	s.Google.ListID = getString("TASKDASH_GOOGLE_LIST", s.Google.ListID)
	s.Log.Level = getString("TASKDASH_LOG_LEVEL", s.Log.Level)

	return s.validate()
}

func (s *Settings) validate() error {
	if s.PageSize < 1 {
		return fmt.Errorf("invalid page_size: %d", s.PageSize)
	}
	switch s.Backend {
	case BackendREST, BackendGoogleTasks:
	default:
		return fmt.Errorf("unknown backend: %s", s.Backend)
	}
	if s.TimeLayout == "" {
		s.TimeLayout = DefaultTimeLayout
	}
	if s.Google.ListID == "" {
		s.Google.ListID = DefaultGoogleListID
	}
	return nil
}

// Location returns the time zone used to format timestamps.
func (s Settings) Location() *time.Location {
	switch s.TimeZone {
	case "", "Local":
		return time.Local
	}
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// TokenPath returns the path to the stored session token.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// OAuthClientPath returns the path to the Google OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// GoogleTokenPath returns the path to the stored Google OAuth token.
func (c *Config) GoogleTokenPath() string {
	return filepath.Join(c.Dir, GoogleTokenFile)
}

// DashboardLogPath returns the path of the dashboard debug log.
func (c *Config) DashboardLogPath() string {
	return filepath.Join(c.Dir, DashboardLogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the Google OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasGoogleToken checks if the Google token file exists.
func (c *Config) HasGoogleToken() bool {
	_, err := os.Stat(c.GoogleTokenPath())
	return err == nil
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
