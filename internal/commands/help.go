package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskdash help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, HelpText(DefaultRegistry))
	return exitcode.Success
}

// HelpText renders usage for every command in r.
func HelpText(r *Registry) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  taskdash                   List tasks (same as: taskdash list)\n")
	for _, cmd := range r.All() {
		fmt.Fprintf(&b, "  %s\n", cmd.Usage())
		syn := cmd.Synopsis()
		if len(cmd.Aliases()) > 0 {
			syn += " (alias: " + strings.Join(cmd.Aliases(), ", ") + ")"
		}
		fmt.Fprintf(&b, "      %s\n", syn)
	}
	b.WriteString(helpFooter)
	return b.String()
}

const helpFooter = `
Task references:
  <id>             The task id shown after '#' in list output
  #<n>             Row n of the list, with the same filter flags

Filter flags:
  --status <s>     all, new, incomplete, completed
  --priority <p>   all, priority, normal
  --search <text>  Task text contains text (case-insensitive)
  --user <name>    Owner username contains name (case-insensitive)
  --owner <id>     Owner id (admin only)

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
