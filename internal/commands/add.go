package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	owner string
}

// SetOwner sets the owner id (for testing).
func (c *AddCmd) SetOwner(id string) {
	c.owner = id
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "taskdash add [--owner <user-id>] <text...>" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.owner, "owner", "", "")
	fs.StringVar(&c.owner, "o", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// Join args to form the description
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return usageError(errOut, "task description required")
	}

	m, code := openManager(ctx, cfg, svc, errOut)
	if m == nil {
		return code
	}
	if c.owner != "" && !m.Session().IsAdmin() {
		return usageError(errOut, "--owner requires an admin session")
	}

	task, err := m.Add(ctx, text, service.ID(c.owner))
	if err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok #%s\n", task.ID)
	}
	return exitcode.Success
}
