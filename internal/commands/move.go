package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/filter"
	"taskdash/internal/service"
)

func init() {
	Register(&MoveCmd{})
}

// MoveCmd moves a task to another position of the filtered list.
// Positions are 1-based rows over the whole filtered list, not a page.
type MoveCmd struct {
	filters filterFlags
}

func (c *MoveCmd) Name() string       { return "move" }
func (c *MoveCmd) Aliases() []string  { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string   { return "Move a task to another position" }
func (c *MoveCmd) Usage() string      { return "taskdash move [filter flags] <from> <to>" }
func (c *MoveCmd) NeedsService() bool { return true }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filters.register(fs)
}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		return usageError(errOut, "source and destination positions required")
	}
	from, err := parsePosition(args[0])
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	to, err := parsePosition(args[1])
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	m, code := openManager(ctx, cfg, svc, errOut)
	if m == nil {
		return code
	}
	filtered, err := c.filters.apply(m)
	if err != nil {
		return report(errOut, err)
	}
	if from > len(filtered) || to > len(filtered) {
		return usageError(errOut, "position out of range (1-%d)", len(filtered))
	}

	n, err := m.Reorder(ctx, filter.IDs(filtered), from-1, to-1)
	if err != nil {
		return report(errOut, err)
	}
	if n == 0 {
		return nothingToDo(cfg, out)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "ok (%d reordered)\n", n)
	}
	return exitcode.Success
}

// parsePosition parses a 1-based list position.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position: %s", s)
	}
	return n, nil
}
