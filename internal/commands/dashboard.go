package commands

import (
	"context"
	"flag"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/export"
	"taskdash/internal/logging"
	"taskdash/internal/service"
	"taskdash/internal/tui"
)

func init() {
	Register(&DashboardCmd{})
}

// DashboardCmd starts the interactive dashboard.
type DashboardCmd struct{}

func (c *DashboardCmd) Name() string       { return "dashboard" }
func (c *DashboardCmd) Aliases() []string  { return []string{"ui"} }
func (c *DashboardCmd) Synopsis() string   { return "Open the interactive dashboard" }
func (c *DashboardCmd) Usage() string      { return "taskdash dashboard" }
func (c *DashboardCmd) NeedsService() bool { return true }
func (c *DashboardCmd) Interactive() bool  { return true }

func (c *DashboardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DashboardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	m, code := openManager(ctx, cfg, svc, errOut)
	if m == nil {
		return code
	}
	err := tui.Run(ctx, m, tui.Options{
		PageSize:   cfg.Settings.PageSize,
		TimeLayout: cfg.Settings.TimeLayout,
		Location:   cfg.Settings.Location(),
		ExportPath: export.DefaultFileName,
		Logger:     logging.FromContext(ctx),
	})
	if err != nil {
		return report(errOut, service.WrapError(service.CodeBackend, "dashboard", err))
	}
	return exitcode.Success
}
