package commands

import (
	"context"
	"flag"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/filter"
	"taskdash/internal/output"
	"taskdash/internal/service"
)

func init() {
	Register(&StatsCmd{})
}

// StatsCmd prints the stat widgets for the filtered list.
type StatsCmd struct {
	filters filterFlags
}

func (c *StatsCmd) Name() string       { return "stats" }
func (c *StatsCmd) Aliases() []string  { return nil }
func (c *StatsCmd) Synopsis() string   { return "Show task counts" }
func (c *StatsCmd) Usage() string      { return "taskdash stats [filter flags]" }
func (c *StatsCmd) NeedsService() bool { return true }

func (c *StatsCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filters.register(fs)
}

func (c *StatsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	m, code := openManager(ctx, cfg, svc, errOut)
	if m == nil {
		return code
	}
	filtered, err := c.filters.apply(m)
	if err != nil {
		return report(errOut, err)
	}
	output.FormatStats(out, filter.Summarize(filtered))
	return exitcode.Success
}
