// Package main is the entry point for the taskdash CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskdash/internal/backend/googletasks"
	"taskdash/internal/backend/rest"
	"taskdash/internal/cli"
	"taskdash/internal/commands"
	"taskdash/internal/config"
	"taskdash/internal/logging"
	"taskdash/internal/service"
	"taskdash/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newService)
	return dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// newService builds the backend selected in the settings.
func newService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	log := logging.FromContext(ctx)

	switch cfg.Settings.Backend {
	case config.BackendGoogleTasks:
		return googletasks.New(ctx, cfg, googletasks.WithLogger(log))
	default:
		token, err := session.FileTokenStore{Path: cfg.TokenPath()}.Load()
		if err != nil {
			return nil, service.WrapError(service.CodeBackend, "read token", err)
		}
		return rest.New(ctx, cfg.Settings.APIURL, token,
			rest.WithLogger(log),
			rest.WithTimeout(cfg.Settings.RequestTimeout))
	}
}
