// Package collection owns the in-memory task list and applies every write
// optimistically, reverting when the remote store rejects it.
package collection

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"taskdash/internal/reorder"
	"taskdash/internal/service"
	"taskdash/internal/session"
)

var (
	// ErrEmptyText rejects a blank task description.
	ErrEmptyText = service.NewError(service.CodeInvalid, "task description needed")

	// ErrNoSelection rejects a bulk action without ids.
	ErrNoSelection = service.NewError(service.CodeInvalid, "no tasks selected")
)

// Manager holds the authoritative task list for one session.
// Reads return copies; only Manager methods replace the list.
type Manager struct {
	svc  service.Service
	sess *session.Session
	log  *zap.Logger
	now  func() time.Time

	mu        sync.Mutex
	tasks     []service.Task
	users     []service.User
	busy      map[service.ID]bool
	observers []func()
}

// New creates a Manager acting on behalf of sess.
func New(svc service.Service, sess *session.Session, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		svc:  svc,
		sess: sess,
		log:  log.Named("collection"),
		now:  time.Now,
		busy: make(map[service.ID]bool),
	}
}

// SetClock replaces the clock used to stamp new tasks.
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// OnChange registers fn to be called after every in-memory replace,
// including optimistic states and reverts.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *Manager) notify() {
	m.mu.Lock()
	obs := append([]func(){}, m.observers...)
	m.mu.Unlock()
	for _, fn := range obs {
		fn()
	}
}

// Session returns the session the manager acts for.
func (m *Manager) Session() *session.Session { return m.sess }

// Tasks returns a copy of the sorted task list.
func (m *Manager) Tasks() []service.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTasks(m.tasks)
}

// Users returns a copy of the user directory.
func (m *Manager) Users() []service.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.User(nil), m.users...)
}

// Task returns the task with id.
func (m *Manager) Task(id service.ID) (service.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.tasks, id); i >= 0 {
		return m.tasks[i].Clone(), true
	}
	return service.Task{}, false
}

// Busy reports whether a write on id is in flight.
func (m *Manager) Busy(id service.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy[id]
}

// Load fetches tasks and users. Non-admin sessions keep only their own
// tasks. On failure the previous list is kept.
func (m *Manager) Load(ctx context.Context) error {
	if m.sess == nil {
		return session.ErrLoggedOut
	}
	tasks, err := m.svc.ListTasks(ctx)
	if err != nil {
		m.log.Warn("load tasks failed", zap.Error(err))
		return &service.Error{Code: service.CodeOf(err), Message: "could not load tasks", Err: err}
	}
	if !m.sess.IsAdmin() {
		own := tasks[:0]
		for _, t := range tasks {
			if t.UserID == m.sess.UserID() {
				own = append(own, t)
			}
		}
		tasks = own
	}
	Sort(tasks)

	users, uerr := m.svc.ListUsers(ctx)
	if uerr != nil {
		m.log.Warn("load users failed", zap.Error(uerr))
	}

	m.mu.Lock()
	m.tasks = tasks
	if uerr == nil {
		m.users = users
	}
	m.mu.Unlock()
	m.notify()

	m.log.Debug("loaded", zap.Int("tasks", len(tasks)), zap.Int("users", len(users)))
	return nil
}

// Add creates a task that sorts first until reordered. Non-admin sessions
// always own what they add; admins may assign owner.
func (m *Manager) Add(ctx context.Context, text string, owner service.ID) (service.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return service.Task{}, ErrEmptyText
	}
	if m.sess == nil {
		return service.Task{}, session.ErrLoggedOut
	}
	if !m.sess.IsAdmin() || owner == "" {
		owner = m.sess.UserID()
	}

	tempID := service.ID(service.TempPrefix + uuid.NewString())
	now := m.now()
	var draft, created service.Task

	err := m.run(ctx, mutation{
		op:      "add",
		failMsg: "failed to add task",
		ids:     []service.ID{tempID},
		apply: func(tasks []service.Task) ([]service.Task, error) {
			draft = service.Task{
				ID:        tempID,
				Text:      text,
				Status:    service.StatusNew,
				UserID:    owner,
				Order:     service.Ptr(nextOrder(tasks)),
				CreatedAt: now,
				UpdatedAt: now,
			}
			return append(tasks, draft.Clone()), nil
		},
		persist: func(ctx context.Context) error {
			var err error
			created, err = m.svc.CreateTask(ctx, draft.Clone())
			return err
		},
		commit: func(tasks []service.Task) []service.Task {
			if created.Order == nil {
				created.Order = draft.Order
			}
			if created.CreatedAt.IsZero() {
				created.CreatedAt = draft.CreatedAt
			}
			for i := range tasks {
				if tasks[i].ID == tempID {
					tasks[i] = created.Clone()
				}
			}
			return tasks
		},
	})
	if err != nil {
		return service.Task{}, err
	}
	return created, nil
}

// Remove deletes a task.
func (m *Manager) Remove(ctx context.Context, id service.ID) error {
	return m.run(ctx, mutation{
		op:      "remove",
		failMsg: "delete failed",
		ids:     []service.ID{id},
		apply: func(tasks []service.Task) ([]service.Task, error) {
			i := indexOf(tasks, id)
			if i < 0 {
				return nil, service.ErrTaskNotFound
			}
			return append(tasks[:i], tasks[i+1:]...), nil
		},
		persist: func(ctx context.Context) error {
			return m.svc.DeleteTask(ctx, id)
		},
	})
}

// SetStatus changes a task's status.
func (m *Manager) SetStatus(ctx context.Context, id service.ID, status service.Status) error {
	return m.run(ctx, mutation{
		op:      "set_status",
		failMsg: "status update failed",
		ids:     []service.ID{id},
		apply: func(tasks []service.Task) ([]service.Task, error) {
			i := indexOf(tasks, id)
			if i < 0 {
				return nil, service.ErrTaskNotFound
			}
			tasks[i].Status = status
			return tasks, nil
		},
		persist: func(ctx context.Context) error {
			_, err := m.svc.UpdateTask(ctx, id, service.TaskPatch{Status: &status})
			return err
		},
	})
}

// Rename replaces a task's text. Unchanged text succeeds without a request.
func (m *Manager) Rename(ctx context.Context, id service.ID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return service.NewError(service.CodeInvalid, "description cannot be empty")
	}
	current, ok := m.Task(id)
	if !ok {
		return service.ErrTaskNotFound
	}
	if current.Text == text {
		return nil
	}
	return m.run(ctx, mutation{
		op:      "rename",
		failMsg: "update failed",
		ids:     []service.ID{id},
		apply: func(tasks []service.Task) ([]service.Task, error) {
			i := indexOf(tasks, id)
			if i < 0 {
				return nil, service.ErrTaskNotFound
			}
			tasks[i].Text = text
			return tasks, nil
		},
		persist: func(ctx context.Context) error {
			_, err := m.svc.UpdateTask(ctx, id, service.TaskPatch{Text: &text})
			return err
		},
	})
}

// TogglePriority flips a task's priority flag and returns the new value.
func (m *Manager) TogglePriority(ctx context.Context, id service.ID) (bool, error) {
	var priority bool
	err := m.run(ctx, mutation{
		op:      "toggle_priority",
		failMsg: "failed to update priority",
		ids:     []service.ID{id},
		apply: func(tasks []service.Task) ([]service.Task, error) {
			i := indexOf(tasks, id)
			if i < 0 {
				return nil, service.ErrTaskNotFound
			}
			priority = !tasks[i].Priority
			tasks[i].Priority = priority
			return tasks, nil
		},
		persist: func(ctx context.Context) error {
			_, err := m.svc.UpdateTask(ctx, id, service.TaskPatch{Priority: &priority})
			return err
		},
	})
	return priority, err
}

// BulkSetStatus sets status on every selected task the session owns and
// that is not already at status. It returns how many tasks were updated;
// zero with a nil error means there was nothing to do.
func (m *Manager) BulkSetStatus(ctx context.Context, ids []service.ID, status service.Status) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoSelection
	}
	eligible := m.eligible(ids, func(t service.Task) bool { return t.Status != status })
	if len(eligible) == 0 {
		return 0, nil
	}
	set := toSet(eligible)

	err := m.run(ctx, mutation{
		op:      "bulk_set_status",
		failMsg: "bulk status update failed",
		ids:     eligible,
		apply: func(tasks []service.Task) ([]service.Task, error) {
			for i := range tasks {
				if set[tasks[i].ID] {
					tasks[i].Status = status
				}
			}
			return tasks, nil
		},
		persist: func(ctx context.Context) error {
			var g errgroup.Group
			for _, id := range eligible {
				g.Go(func() error {
					_, err := m.svc.UpdateTask(ctx, id, service.TaskPatch{Status: &status})
					return err
				})
			}
			return g.Wait()
		},
	})
	if err != nil {
		return 0, err
	}
	return len(eligible), nil
}

// BulkDelete deletes every selected task the session owns. It returns how
// many tasks were deleted; zero with a nil error means there was nothing to do.
func (m *Manager) BulkDelete(ctx context.Context, ids []service.ID) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoSelection
	}
	eligible := m.eligible(ids, nil)
	if len(eligible) == 0 {
		return 0, nil
	}
	set := toSet(eligible)

	err := m.run(ctx, mutation{
		op:      "bulk_delete",
		failMsg: "bulk delete failed",
		ids:     eligible,
		apply: func(tasks []service.Task) ([]service.Task, error) {
			out := tasks[:0]
			for _, t := range tasks {
				if !set[t.ID] {
					out = append(out, t)
				}
			}
			return out, nil
		},
		persist: func(ctx context.Context) error {
			var g errgroup.Group
			for _, id := range eligible {
				g.Go(func() error {
					return m.svc.DeleteTask(ctx, id)
				})
			}
			return g.Wait()
		},
	})
	if err != nil {
		return 0, err
	}
	return len(eligible), nil
}

// Reorder moves filtered[from] to position to, renumbers the whole
// collection, and persists the tasks whose order changed. It returns the
// number of tasks written; a no-op drop returns zero and no error.
func (m *Manager) Reorder(ctx context.Context, filtered []service.ID, from, to int) (int, error) {
	var plan reorder.Result
	err := m.run(ctx, mutation{
		op:      "reorder",
		failMsg: "failed to save order",
		whole:   true,
		apply: func(tasks []service.Task) ([]service.Task, error) {
			var err error
			plan, err = reorder.Plan(tasks, filtered, from, to)
			if err != nil {
				return nil, err
			}
			if plan.Noop() || len(plan.Changed) == 0 {
				return nil, errNoop
			}
			return plan.Tasks, nil
		},
		persist: func(ctx context.Context) error {
			var g errgroup.Group
			for _, t := range plan.Changed {
				g.Go(func() error {
					_, err := m.svc.UpdateTask(ctx, t.ID, service.TaskPatch{Order: t.Order})
					return err
				})
			}
			return g.Wait()
		},
	})
	if errors.Is(err, errNoop) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(plan.Changed), nil
}

// eligible returns the selected ids, deduplicated, that exist, that the
// session owns, and that pass keep.
func (m *Manager) eligible(ids []service.ID, keep func(service.Task) bool) []service.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[service.ID]bool, len(ids))
	var out []service.ID
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		i := indexOf(m.tasks, id)
		if i < 0 {
			continue
		}
		t := m.tasks[i]
		if !m.sess.Owns(t) {
			continue
		}
		if keep != nil && !keep(t) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// nextOrder returns an order strictly below every ordered task.
func nextOrder(tasks []service.Task) int {
	min, found := 0, false
	for _, t := range tasks {
		if t.Order != nil && (!found || *t.Order < min) {
			min, found = *t.Order, true
		}
	}
	if !found {
		return 0
	}
	return min - 1
}

func indexOf(tasks []service.Task, id service.ID) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func toSet(ids []service.ID) map[service.ID]bool {
	set := make(map[service.ID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
