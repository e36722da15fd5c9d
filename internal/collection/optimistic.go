package collection

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"taskdash/internal/service"
)

// errNoop aborts a mutation from inside apply without touching state.
var errNoop = errors.New("noop")

// mutation is one optimistic write: apply it locally, persist it remotely,
// and restore the touched tasks if persisting fails.
type mutation struct {
	op      string // log name
	failMsg string // user-facing message on persist failure

	// ids are the tasks the mutation touches. When whole is set the
	// mutation touches the entire collection and ids is ignored.
	ids   []service.ID
	whole bool

	// apply receives a private copy of the collection and returns the
	// optimistic state. An error aborts the mutation before any change.
	apply func(tasks []service.Task) ([]service.Task, error)

	// persist issues the remote request(s).
	persist func(ctx context.Context) error

	// commit, if set, folds the server's answer into the collection after a
	// successful persist.
	commit func(tasks []service.Task) []service.Task
}

func (m *Manager) run(ctx context.Context, mu mutation) error {
	m.mu.Lock()
	touched := mu.ids
	if mu.whole {
		touched = make([]service.ID, 0, len(m.tasks))
		for _, t := range m.tasks {
			touched = append(touched, t.ID)
		}
	}
	for _, id := range touched {
		if m.busy[id] {
			m.mu.Unlock()
			return service.Errorf(service.CodeBusy, "task %s is busy", id)
		}
	}

	in := make(map[service.ID]bool, len(touched))
	for _, id := range touched {
		in[id] = true
	}
	snapshot := make(map[service.ID]service.Task, len(touched))
	for _, t := range m.tasks {
		if in[t.ID] {
			snapshot[t.ID] = t.Clone()
		}
	}

	next, err := mu.apply(cloneTasks(m.tasks))
	if err != nil {
		m.mu.Unlock()
		return err
	}
	Sort(next)
	m.tasks = next
	for id := range in {
		m.busy[id] = true
	}
	m.mu.Unlock()
	m.notify()

	log := m.log.With(zap.String("op", mu.op), zap.Int("tasks", len(touched)))
	log.Debug("optimistic update applied")

	perr := mu.persist(ctx)

	m.mu.Lock()
	for id := range in {
		delete(m.busy, id)
	}
	if perr != nil {
		m.tasks = restore(m.tasks, snapshot, in)
	} else if mu.commit != nil {
		m.tasks = mu.commit(m.tasks)
		Sort(m.tasks)
	}
	m.mu.Unlock()
	m.notify()

	if perr != nil {
		log.Warn("persist failed, reverted", zap.Error(perr))
		return &service.Error{Code: service.CodeOf(perr), Message: mu.failMsg, Err: perr}
	}
	log.Debug("persisted")
	return nil
}

// restore puts every touched task back to its snapshot value: tasks the
// mutation removed come back, tasks it added disappear, untouched tasks stay.
func restore(current []service.Task, snapshot map[service.ID]service.Task, touched map[service.ID]bool) []service.Task {
	out := make([]service.Task, 0, len(current)+len(snapshot))
	for _, t := range current {
		if !touched[t.ID] {
			out = append(out, t)
		}
	}
	for _, t := range snapshot {
		out = append(out, t)
	}
	Sort(out)
	return out
}

func cloneTasks(tasks []service.Task) []service.Task {
	out := make([]service.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
