package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/editmode"
	"gtodo/internal/exitcode"
	"gtodo/internal/logging"
	"gtodo/internal/order"
	"gtodo/internal/output"
	"gtodo/internal/service"
	"gtodo/internal/tasklist"
)

// newSession builds a synchronizer from the settings and loads the task
// list. On failure it reports to errOut and returns a non-zero exit code.
func newSession(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer, opts ...tasklist.Option) (*tasklist.Synchronizer, tasklist.Snapshot, int) {
	cmp, err := order.Lookup(cfg.Settings.Order)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, tasklist.Snapshot{}, exitcode.UserError
	}

	logger := logging.New(errOut, cfg.Debug)
	base := []tasklist.Option{
		tasklist.WithSettings(tasklist.Settings{Locale: cfg.Settings.Locale}),
		tasklist.WithComparator(cmp),
		tasklist.WithLogger(logging.Component(logger, "tasklist")),
	}
	tl := tasklist.New(svc, append(base, opts...)...)

	snap, err := tl.Load(ctx)
	if err != nil {
		return nil, snap, reportError(errOut, err)
	}
	return tl, snap, exitcode.Success
}

// renderer returns the row renderer for cfg.
func renderer(cfg *config.Config) output.Renderer {
	return output.Renderer{Locale: cfg.Settings.Locale, Color: cfg.Settings.Color}
}

// reportError prints err and maps it to an exit code.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, tasklist.ErrTaskNotFound),
		errors.Is(err, tasklist.ErrInvalidTransition),
		errors.Is(err, editmode.ErrLocked),
		errors.Is(err, ErrTaskRefRequired),
		errors.Is(err, ErrBadTaskRef):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// refAction is a synchronizer operation on a single task.
// Method expressions such as (*tasklist.Synchronizer).Complete satisfy it.
type refAction func(s *tasklist.Synchronizer, ctx context.Context, id string) (tasklist.Snapshot, error)

// runRefAction resolves a row reference and applies action to that task.
func runRefAction(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer, action refAction) int {
	num, err := ParseTaskRef(args)
	if err != nil {
		if err == ErrTaskRefRequired {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}

	tl, snap, code := newSession(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	task, err := findTaskByNumber(snap, num)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if _, err := action(tl, ctx, task.ID); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
