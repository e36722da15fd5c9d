package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&LoginCmd{})
	Register(&LogoutCmd{})
}

// LoginCmd validates a session token with the store and saves it.
type LoginCmd struct{}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Store a session token" }
func (c *LoginCmd) Usage() string      { return "taskdash login <token>" }
func (c *LoginCmd) NeedsService() bool { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, "token required")
	}

	// Ensure config directory exists
	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}

	sess, err := resolver(ctx, cfg, svc).Login(ctx, args[0])
	if err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s (%s)\n", sess.User.Username, sess.User.Role)
	}
	return exitcode.Success
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string       { return "logout" }
func (c *LogoutCmd) Aliases() []string  { return nil }
func (c *LogoutCmd) Synopsis() string   { return "Remove the stored session token" }
func (c *LogoutCmd) Usage() string      { return "taskdash logout" }
func (c *LogoutCmd) NeedsService() bool { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	store := tokenStore(cfg)
	token, err := store.Load()
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to read token: %v\n", err)
		return exitcode.AuthError
	}
	if token == "" {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	if err := store.Clear(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.AuthError
	}
	return ok(cfg, out)
}
