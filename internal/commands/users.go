package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/output"
	"taskdash/internal/service"
)

func init() {
	Register(&UsersCmd{})
	Register(&WhoamiCmd{})
}

// UsersCmd prints the user directory.
type UsersCmd struct{}

func (c *UsersCmd) Name() string       { return "users" }
func (c *UsersCmd) Aliases() []string  { return nil }
func (c *UsersCmd) Synopsis() string   { return "List users" }
func (c *UsersCmd) Usage() string      { return "taskdash users" }
func (c *UsersCmd) NeedsService() bool { return true }

func (c *UsersCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UsersCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	m, code := openManager(ctx, cfg, svc, errOut)
	if m == nil {
		return code
	}
	users := m.Users()
	if len(users) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no users found")
		}
		return exitcode.Success
	}
	for _, u := range users {
		output.FormatUser(out, u)
	}
	return exitcode.Success
}

// WhoamiCmd prints the session identity.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string       { return "whoami" }
func (c *WhoamiCmd) Aliases() []string  { return nil }
func (c *WhoamiCmd) Synopsis() string   { return "Show the logged-in user" }
func (c *WhoamiCmd) Usage() string      { return "taskdash whoami" }
func (c *WhoamiCmd) NeedsService() bool { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	sess, err := resolver(ctx, cfg, svc).Load(ctx)
	if err != nil {
		return report(errOut, err)
	}
	output.FormatUser(out, sess.User)
	return exitcode.Success
}
