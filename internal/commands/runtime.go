package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"taskdash/internal/collection"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/logging"
	"taskdash/internal/service"
	"taskdash/internal/session"
)

// tokenStore returns the session token store in the config directory.
func tokenStore(cfg *config.Config) session.FileTokenStore {
	return session.FileTokenStore{Path: cfg.TokenPath()}
}

// resolver builds a session resolver for svc.
func resolver(ctx context.Context, cfg *config.Config, svc service.Service) *session.Resolver {
	return session.NewResolver(svc, tokenStore(cfg), logging.FromContext(ctx))
}

// openManager resolves the session and loads the task collection.
// On failure it reports the error and returns a non-zero exit code.
func openManager(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (*collection.Manager, int) {
	sess, err := resolver(ctx, cfg, svc).Load(ctx)
	if err != nil {
		return nil, report(errOut, err)
	}
	m := collection.New(svc, sess, logging.FromContext(ctx))
	if err := m.Load(ctx); err != nil {
		return nil, report(errOut, err)
	}
	return m, exitcode.Success
}

// report prints err to errOut and returns the matching exit code.
func report(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, session.ErrLoggedOut):
		fmt.Fprintln(errOut, "error: not logged in (run: taskdash login <token>)")
	case errors.Is(err, session.ErrInvalidSession):
		fmt.Fprintln(errOut, "error: session expired, token cleared (run: taskdash login <token>)")
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.FromError(err)
}

// usageError prints a usage problem and returns exitcode.UserError.
func usageError(errOut io.Writer, format string, args ...any) int {
	fmt.Fprintf(errOut, "error: "+format+"\n", args...)
	return exitcode.UserError
}

// ok prints the success marker unless quiet.
func ok(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// nothingToDo reports an empty bulk selection after eligibility checks.
func nothingToDo(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "nothing to do")
	}
	return exitcode.Success
}
