package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/filter"
	"taskdash/internal/output"
	"taskdash/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskdash` (no args) and `taskdash list [filters]`.
type ListCmd struct {
	filters filterFlags
	page    int
}

// SetPage sets the page number (for testing).
func (c *ListCmd) SetPage(page int) {
	c.page = page
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "taskdash list [filter flags] [--page <n>]" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filters.register(fs)
	fs.IntVar(&c.page, "page", 1, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.page < 1 {
		return usageError(errOut, "invalid page number: %d", c.page)
	}
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}

	m, code := openManager(ctx, cfg, svc, errOut)
	if m == nil {
		return code
	}
	filtered, err := c.filters.apply(m)
	if err != nil {
		return report(errOut, err)
	}

	if len(filtered) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	view := filter.Paginate(filtered, c.page, cfg.Settings.PageSize, false)
	names := output.NewNames(m.Users())
	for i, task := range view.Tasks {
		output.FormatTask(out, view.Offset+i+1, task, names.Of(task.UserID))
	}
	if !cfg.Quiet {
		output.FormatPageFooter(out, view)
	}
	return exitcode.Success
}
