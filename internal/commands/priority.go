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
	Register(&PriorityCmd{})
}

// PriorityCmd toggles the priority flag of a task.
type PriorityCmd struct {
	filters filterFlags
}

func (c *PriorityCmd) Name() string       { return "priority" }
func (c *PriorityCmd) Aliases() []string  { return []string{"star"} }
func (c *PriorityCmd) Synopsis() string   { return "Toggle task priority" }
func (c *PriorityCmd) Usage() string      { return "taskdash priority <ref>" }
func (c *PriorityCmd) NeedsService() bool { return true }

func (c *PriorityCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filters.register(fs)
}

func (c *PriorityCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, "exactly one task reference required")
	}
	target, code := lookupTasks(ctx, cfg, svc, &c.filters, args, errOut)
	if target.m == nil {
		return code
	}
	on, err := target.m.TogglePriority(ctx, target.ids[0])
	if err != nil {
		return report(errOut, err)
	}
	if !cfg.Quiet {
		if on {
			fmt.Fprintln(out, "ok priority")
		} else {
			fmt.Fprintln(out, "ok normal")
		}
	}
	return exitcode.Success
}
