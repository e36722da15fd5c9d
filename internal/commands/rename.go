package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"taskdash/internal/config"
	"taskdash/internal/service"
)

func init() {
	Register(&RenameCmd{})
}

// RenameCmd replaces a task description.
type RenameCmd struct {
	filters filterFlags
}

func (c *RenameCmd) Name() string       { return "rename" }
func (c *RenameCmd) Aliases() []string  { return []string{"edit"} }
func (c *RenameCmd) Synopsis() string   { return "Edit a task description" }
func (c *RenameCmd) Usage() string      { return "taskdash rename <ref> <text...>" }
func (c *RenameCmd) NeedsService() bool { return true }

func (c *RenameCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filters.register(fs)
}

func (c *RenameCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		return usageError(errOut, "task reference and description required")
	}
	target, code := lookupTasks(ctx, cfg, svc, &c.filters, args[:1], errOut)
	if target.m == nil {
		return code
	}
	if err := target.m.Rename(ctx, target.ids[0], strings.Join(args[1:], " ")); err != nil {
		return report(errOut, err)
	}
	return ok(cfg, out)
}
