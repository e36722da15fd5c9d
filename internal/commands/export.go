package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/export"
	"taskdash/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd writes the filtered list to a CSV or PDF file.
type ExportCmd struct {
	filters filterFlags
	format  string
	output  string
}

func (c *ExportCmd) Name() string       { return "export" }
func (c *ExportCmd) Aliases() []string  { return nil }
func (c *ExportCmd) Synopsis() string   { return "Export tasks to CSV or PDF" }
func (c *ExportCmd) Usage() string      { return "taskdash export [filter flags] [--format csv|pdf] [--output <file>|-]" }
func (c *ExportCmd) NeedsService() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filters.register(fs)
	fs.StringVar(&c.format, "format", "", "")
	fs.StringVar(&c.output, "output", "", "")
	fs.StringVar(&c.output, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	format, err := export.ParseFormat(c.format)
	if err != nil {
		return report(errOut, err)
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
		return report(errOut, export.ErrNothingToExport)
	}

	opts := export.Options{TimeLayout: cfg.Settings.TimeLayout, Location: cfg.Settings.Location()}
	write := export.CSV
	if format == export.FormatPDF {
		write = export.PDF
	}

	if c.output == "-" {
		if err := write(out, filtered, m.Users(), opts); err != nil {
			return report(errOut, service.WrapError(service.CodeBackend, "export failed", err))
		}
		return exitcode.Success
	}

	path := c.output
	if path == "" {
		path = export.FileName(format)
	}
	if err := writeFile(path, func(w io.Writer) error {
		return write(w, filtered, m.Users(), opts)
	}); err != nil {
		return report(errOut, service.WrapError(service.CodeBackend, "export failed", err))
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s (%d tasks)\n", path, len(filtered))
	}
	return exitcode.Success
}

// writeFile creates path and streams fn's output into it.
func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
