package commands

import (
	"context"
	"flag"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/service"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd sets the status of one or more tasks.
type StatusCmd struct {
	filters filterFlags
}

func (c *StatusCmd) Name() string       { return "status" }
func (c *StatusCmd) Aliases() []string  { return nil }
func (c *StatusCmd) Synopsis() string   { return "Set task status" }
func (c *StatusCmd) Usage() string      { return "taskdash status <new|incomplete|completed> <ref...>" }
func (c *StatusCmd) NeedsService() bool { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filters.register(fs)
}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(errOut, "status required")
	}
	status, valid := service.ParseStatus(args[0])
	if !valid {
		return usageError(errOut, "invalid status: %s", args[0])
	}
	return runSetStatus(ctx, cfg, svc, &c.filters, status, args[1:], out, errOut)
}

// runSetStatus is shared by done and status. One reference is a single
// update; several go through the bulk path.
func runSetStatus(ctx context.Context, cfg *config.Config, svc service.Service, filters *filterFlags, status service.Status, args []string, out, errOut io.Writer) int {
	target, code := lookupTasks(ctx, cfg, svc, filters, args, errOut)
	if target.m == nil {
		return code
	}

	if len(target.ids) == 1 {
		if err := target.m.SetStatus(ctx, target.ids[0], status); err != nil {
			return report(errOut, err)
		}
		return ok(cfg, out)
	}

	n, err := target.m.BulkSetStatus(ctx, target.ids, status)
	if err != nil {
		return report(errOut, err)
	}
	if n == 0 {
		return nothingToDo(cfg, out)
	}
	return ok(cfg, out)
}
