package commands

import (
	"context"
	"flag"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	filters filterFlags
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete tasks" }
func (c *RmCmd) Usage() string      { return "taskdash rm <ref...>" }
func (c *RmCmd) NeedsService() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filters.register(fs)
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	target, code := lookupTasks(ctx, cfg, svc, &c.filters, args, errOut)
	if target.m == nil {
		return code
	}

	if len(target.ids) == 1 {
		if err := target.m.Remove(ctx, target.ids[0]); err != nil {
			return report(errOut, err)
		}
		return ok(cfg, out)
	}

	n, err := target.m.BulkDelete(ctx, target.ids)
	if err != nil {
		return report(errOut, err)
	}
	if n == 0 {
		return nothingToDo(cfg, out)
	}
	return ok(cfg, out)
}
