package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskdash/internal/commands"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
)

func TestLoginCommand(t *testing.T) {
	cfg := testConfig(t, "")

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, cfg, seededService(), "tok-root")

	expectSuccess(t, stderr, code)
	if stdout != "ok root (admin)\n" {
		t.Errorf("expected 'ok root (admin)', got %q", stdout)
	}
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		t.Fatalf("token not written: %v", err)
	}
	if string(data) != "tok-root\n" {
		t.Errorf("expected stored token, got %q", data)
	}
}

func TestLoginCommand_CreatesConfigDir(t *testing.T) {
	cfg := &config.Config{Dir: filepath.Join(t.TempDir(), "nested"), Settings: config.DefaultSettings()}

	_, stderr, code := runCommand(t, &commands.LoginCmd{}, cfg, seededService(), "tok-alice")

	expectSuccess(t, stderr, code)
	if _, err := os.Stat(cfg.TokenPath()); err != nil {
		t.Errorf("token file missing: %v", err)
	}
}

func TestLoginCommand_RejectedToken(t *testing.T) {
	cfg := testConfig(t, "")

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, cfg, seededService(), "nope")

	expectError(t, stderr, code, exitcode.AuthError, "error: token rejected\n")
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if _, err := os.Stat(cfg.TokenPath()); !os.IsNotExist(err) {
		t.Error("rejected token must not be stored")
	}
}

func TestLoginCommand_KeepsPreviousTokenOnReject(t *testing.T) {
	cfg := testConfig(t, "tok-alice")

	_, _, code := runCommand(t, &commands.LoginCmd{}, cfg, seededService(), "nope")

	if code != exitcode.AuthError {
		t.Fatalf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	data, _ := os.ReadFile(cfg.TokenPath())
	if string(data) != "tok-alice\n" {
		t.Errorf("previous token should survive, got %q", data)
	}
}

func TestLoginCommand_NoToken(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.LoginCmd{}, testConfig(t, ""), seededService())

	expectError(t, stderr, code, exitcode.UserError, "error: token required\n")
}

func TestLogoutCommand(t *testing.T) {
	cfg := testConfig(t, "tok-alice")
	oauthPath := filepath.Join(cfg.Dir, config.OAuthClientFile)
	if err := os.WriteFile(oauthPath, []byte(`{"installed":{"client_id":"test"}}`), 0600); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, cfg, nil)

	expectSuccess(t, stderr, code)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if _, err := os.Stat(cfg.TokenPath()); !os.IsNotExist(err) {
		t.Error("token should have been deleted")
	}
	if _, err := os.Stat(oauthPath); err != nil {
		t.Error("oauth_client.json should NOT have been deleted")
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, testConfig(t, ""), nil)

	expectSuccess(t, stderr, code)
	if stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in', got %q", stdout)
	}
}

func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Quiet = true

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, cfg, nil)

	expectSuccess(t, stderr, code)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}

func TestConnectCommand_NoOAuthClient(t *testing.T) {
	cfg := testConfig(t, "")

	stdout, stderr, code := runCommand(t, &commands.ConnectCmd{}, cfg, nil)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "error: oauth_client.json not found in ") {
		t.Errorf("expected setup instructions, got %q", stderr)
	}
	if _, err := os.Stat(cfg.TokenPath()); !os.IsNotExist(err) {
		t.Error("no session should be stored")
	}
}
