// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"taskdash/internal/commands"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/logging"
	"taskdash/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Create config
	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	log, closeLog := d.logger(cmd, cfg, errOut)
	defer closeLog()
	ctx = logging.WithLogger(ctx, log.With(zap.String("command", cmd.Name())))

	var svc service.Service
	if cmd.NeedsService() && d.factory != nil {
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.FromError(err)
		}
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// logger builds the command's logger. Interactive commands own the
// terminal, so they log to a file with --debug and nowhere otherwise.
func (d *Dispatcher) logger(cmd commands.Command, cfg *config.Config, errOut io.Writer) (*zap.Logger, func()) {
	lc := logging.Config{Level: cfg.Settings.Log.Level, Encoding: cfg.Settings.Log.Encoding}
	if cfg.Debug {
		lc.Level = "debug"
	}

	if ic, ok := cmd.(commands.Interactive); !ok || !ic.Interactive() {
		log := logging.New(lc, errOut)
		return log, func() { _ = log.Sync() }
	}

	if !cfg.Debug {
		return zap.NewNop(), func() {}
	}
	if err := cfg.EnsureDir(); err != nil {
		return zap.NewNop(), func() {}
	}
	f, err := os.OpenFile(cfg.DashboardLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return zap.NewNop(), func() {}
	}
	log := logging.New(lc, f)
	return log, func() {
		_ = log.Sync()
		f.Close()
	}
}

// flagError rewrites flag package errors in the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	// Check for missing flag value
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		flagPart := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + flagPart
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}
	return errStr
}
