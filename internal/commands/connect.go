package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"taskdash/internal/backend/googletasks"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

const (
	// OAuth callback timeout
	oauthCallbackTimeout = 5 * time.Minute

	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Starting port for OAuth callback server
	oauthStartPort = 8085

	// Max port attempts
	oauthMaxPortAttempts = 5
)

func init() {
	Register(&ConnectCmd{})
}

// ConnectCmd authorizes the Google Tasks backend and starts a session for it.
type ConnectCmd struct{}

func (c *ConnectCmd) Name() string       { return "connect" }
func (c *ConnectCmd) Aliases() []string  { return nil }
func (c *ConnectCmd) Synopsis() string   { return "Authorize the Google Tasks backend" }
func (c *ConnectCmd) Usage() string      { return "taskdash connect" }
func (c *ConnectCmd) NeedsService() bool { return false }

func (c *ConnectCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ConnectCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !cfg.HasOAuthClient() {
		fmt.Fprintf(errOut, "error: %s not found in %s\n\n", config.OAuthClientFile, cfg.Dir)
		fmt.Fprintln(errOut, "To use Google Tasks as the task store, you need OAuth credentials:")
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "1. Go to https://console.cloud.google.com/apis/credentials")
		fmt.Fprintln(errOut, "2. Enable the Google Tasks API for your project")
		fmt.Fprintln(errOut, "3. Create an OAuth client ID of type 'Desktop app' and download the JSON")
		fmt.Fprintln(errOut, "4. Save it as:")
		fmt.Fprintf(errOut, "   %s/%s\n", cfg.Dir, config.OAuthClientFile)
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "Then set 'backend: googletasks' in config.yaml and run 'taskdash connect' again.")
		return exitcode.AuthError
	}

	oauthConfig, err := googletasks.LoadOAuthConfig(cfg)
	if err != nil {
		return report(errOut, err)
	}

	if cfg.HasGoogleToken() && tokenStillWorks(ctx, cfg, oauthConfig) {
		if code := c.startSession(cfg, errOut); code != exitcode.Success {
			return code
		}
		if !cfg.Quiet {
			fmt.Fprintln(out, "already connected")
		}
		return exitcode.Success
	}

	port, listener, err := findAvailablePort()
	if err != nil {
		fmt.Fprintln(errOut, "error: could not bind to local port for OAuth callback")
		return exitcode.AuthError
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	code, err := awaitCallback(ctx, listener, state)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()
	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to exchange code for token: %v\n", err)
		return exitcode.AuthError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := googletasks.SaveToken(cfg.GoogleTokenPath(), token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}
	if code := c.startSession(cfg, errOut); code != exitcode.Success {
		return code
	}
	return ok(cfg, out)
}

// startSession stores the marker that session resolution accepts for the
// Google backend.
func (c *ConnectCmd) startSession(cfg *config.Config, errOut io.Writer) int {
	if err := tokenStore(cfg).Save(googletasks.SessionMarker); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}
	return exitcode.Success
}

type callbackResult struct {
	code string
	err  error
}

// awaitCallback serves the OAuth redirect on listener until a code for
// state arrives.
func awaitCallback(ctx context.Context, listener net.Listener, state string) (string, error) {
	results := make(chan callbackResult, 1)
	send := func(r callbackResult) {
		select {
		case results <- r:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "State mismatch", http.StatusBadRequest)
			send(callbackResult{err: errors.New("oauth state mismatch")})
			return
		}
		if msg := q.Get("error"); msg != "" {
			http.Error(w, "Authorization denied", http.StatusForbidden)
			send(callbackResult{err: fmt.Errorf("authorization denied: %s", msg)})
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			send(callbackResult{err: errors.New("no code in callback")})
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>taskdash is connected</h1><p>You may close this window.</p></body></html>")
		send(callbackResult{code: code})
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			send(callbackResult{err: err})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	timer := time.NewTimer(oauthCallbackTimeout)
	defer timer.Stop()
	select {
	case r := <-results:
		return r.code, r.err
	case <-timer.C:
		return "", errors.New("oauth callback timed out")
	case <-ctx.Done():
		return "", errors.New("cancelled")
	}
}

// findAvailablePort listens on the first free port in the callback range.
func findAvailablePort() (int, net.Listener, error) {
	for port := oauthStartPort; port < oauthStartPort+oauthMaxPortAttempts; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, errors.New("no available port found")
}

// tokenStillWorks reports whether the stored Google token can still be
// refreshed into an access token.
func tokenStillWorks(ctx context.Context, cfg *config.Config, oauthConfig *oauth2.Config) bool {
	token, err := googletasks.LoadToken(cfg.GoogleTokenPath())
	if err != nil || token.RefreshToken == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err = oauthConfig.TokenSource(ctx, token).Token()
	return err == nil
}
