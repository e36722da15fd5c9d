package commands

import (
	"context"
	"flag"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	filters filterFlags
}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return nil }
func (c *DoneCmd) Synopsis() string   { return "Mark tasks completed" }
func (c *DoneCmd) Usage() string      { return "taskdash done <ref...>" }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filters.register(fs)
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetStatus(ctx, cfg, svc, &c.filters, service.StatusCompleted, args, out, errOut)
}
