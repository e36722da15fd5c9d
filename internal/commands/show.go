package commands

import (
	"context"
	"flag"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/output"
	"taskdash/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd prints every field of one task.
type ShowCmd struct {
	filters filterFlags
}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return []string{"details"} }
func (c *ShowCmd) Synopsis() string   { return "Show task details" }
func (c *ShowCmd) Usage() string      { return "taskdash show <ref>" }
func (c *ShowCmd) NeedsService() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filters.register(fs)
}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, "exactly one task reference required")
	}
	m, task, code := lookupTask(ctx, cfg, svc, &c.filters, args[0], errOut)
	if m == nil {
		return code
	}
	tf := output.TimeFormat{Layout: cfg.Settings.TimeLayout, Location: cfg.Settings.Location()}
	output.FormatTaskDetails(out, task, output.NewNames(m.Users()).Of(task.UserID), tf)
	return exitcode.Success
}
