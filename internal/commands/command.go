// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"taskdash/internal/config"
	"taskdash/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsService returns true if the command talks to the task store.
	// Commands like help, version, logout, connect return false.
	NeedsService() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// svc is nil if NeedsService() returns false.
	// args contains positional arguments after flag parsing.
	// The logger travels in ctx (see logging.FromContext).
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// Interactive is implemented by commands that take over the terminal.
// Their logs go to a file instead of stderr.
type Interactive interface {
	Interactive() bool
}
