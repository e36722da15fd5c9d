package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskdash/internal/cli"
	"taskdash/internal/commands"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
	"taskdash/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

// run dispatches args with an isolated config directory.
func run(t *testing.T, factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	dir := t.TempDir()
	return runIn(t, dir, factory, args...)
}

func runIn(t *testing.T, dir string, factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var outBuf, errBuf bytes.Buffer
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		args = append([]string{args[0], "--config", dir}, args[1:]...)
	}
	code = dispatcher.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func loggedIn(t *testing.T) (string, *testutil.FakeService) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.TokenFile), []byte("tok-alice\n"), 0600); err != nil {
		t.Fatal(err)
	}
	svc := testutil.NewFakeService()
	svc.AddUser("2", "alice", service.RoleUser, "tok-alice")
	svc.AddTask(service.Task{ID: "10", Text: "Buy milk", UserID: "2", Order: testutil.Order(0)})
	return dir, svc
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := run(t, testFactory(svc), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := run(t, testFactory(svc), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, testFactory(testutil.NewFakeService()), "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	stdout, stderr, code := run(t, testFactory(testutil.NewFakeService()), "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskdash 0.1.0\n" {
		t.Errorf("expected 'taskdash 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "list", "--page")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -page\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_AliasResolves(t *testing.T) {
	dir, svc := loggedIn(t)

	stdout, stderr, code := runIn(t, dir, testFactory(svc), "star", "10")

	if code != exitcode.Success {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	if stdout != "ok priority\n" {
		t.Errorf("got %q", stdout)
	}
}

func TestDispatcher_NotLoggedIn(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "list")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: not logged in (run: taskdash login <token>)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, service.NewError(service.CodeUnauthorized, "not connected (run: taskdash connect)")
	}

	_, stderr, code := run(t, factory, "list")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not connected (run: taskdash connect)\n" {
		t.Errorf("got %q", stderr)
	}
}

func TestDispatcher_QuietSuppressesOK(t *testing.T) {
	dir, svc := loggedIn(t)

	stdout, stderr, code := runIn(t, dir, testFactory(svc), "done", "--quiet", "10")

	if code != exitcode.Success {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if task, _ := svc.Task("10"); task.Status != service.StatusCompleted {
		t.Errorf("status = %v, want completed", task.Status)
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	dir, svc := loggedIn(t)

	_, stderr, code := runIn(t, dir, testFactory(svc), "list", "--debug")

	if code != exitcode.Success {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stderr, "session resolved") {
		t.Errorf("expected debug log on stderr, got %q", stderr)
	}
}
