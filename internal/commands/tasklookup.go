package commands

import (
	"context"
	"io"

	"taskdash/internal/collection"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

// taskTarget opens the collection and resolves reference args against it.
// Row references use the filter flags, so `#3` means the third row of the
// same `list` invocation.
type taskTarget struct {
	m   *collection.Manager
	ids []service.ID
}

func lookupTasks(ctx context.Context, cfg *config.Config, svc service.Service, filters *filterFlags, args []string, errOut io.Writer) (taskTarget, int) {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		return taskTarget{}, usageError(errOut, "%v", err)
	}

	m, code := openManager(ctx, cfg, svc, errOut)
	if m == nil {
		return taskTarget{}, code
	}

	var filtered []service.Task
	if HasRows(refs) {
		filtered, err = filters.apply(m)
		if err != nil {
			return taskTarget{}, report(errOut, err)
		}
	}
	ids, err := ResolveTaskRefs(refs, filtered)
	if err != nil {
		return taskTarget{}, report(errOut, err)
	}
	return taskTarget{m: m, ids: ids}, exitcode.Success
}

// lookupTask is lookupTasks for exactly one reference.
func lookupTask(ctx context.Context, cfg *config.Config, svc service.Service, filters *filterFlags, arg string, errOut io.Writer) (*collection.Manager, service.Task, int) {
	target, code := lookupTasks(ctx, cfg, svc, filters, []string{arg}, errOut)
	if target.m == nil {
		return nil, service.Task{}, code
	}
	task, found := target.m.Task(target.ids[0])
	if !found {
		return nil, service.Task{}, report(errOut, service.ErrTaskNotFound)
	}
	return target.m, task, exitcode.Success
}
