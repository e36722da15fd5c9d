// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"taskdash/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = service.NewError(service.CodeNotFound, "not found")

// ErrUnauthorized is returned for unknown tokens.
var ErrUnauthorized = service.NewError(service.CodeUnauthorized, "token rejected")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	users  []service.User
	tokens map[string]service.ID // token -> user id
	nextID int64

	// Now stamps created and updated tasks. Defaults to a fixed instant.
	Now func() time.Time

	// Error injection for testing
	ListTasksErr    error
	CreateTaskErr   error
	UpdateTaskErr   error
	UpdateTaskErrID map[service.ID]error // id -> error, checked after UpdateTaskErr
	DeleteTaskErr   error
	DeleteTaskErrID map[service.ID]error
	ListUsersErr    error
	ResolveTokenErr error

	// Call counters
	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
	Updated     []service.ID // ids passed to UpdateTask, in call order
	Patches     map[service.ID]service.TaskPatch
}

// NewFakeService creates an empty FakeService.
// Ids handed out by CreateTask start at 100.
func NewFakeService() *FakeService {
	return &FakeService{
		tokens:          make(map[string]service.ID),
		nextID:          100,
		UpdateTaskErrID: make(map[service.ID]error),
		DeleteTaskErrID: make(map[service.ID]error),
		Patches:         make(map[service.ID]service.TaskPatch),
		Now: func() time.Time {
			return time.Date(2024, 3, 7, 9, 5, 3, 0, time.UTC)
		},
	}
}

// AddUser adds a user and registers token for it.
func (f *FakeService) AddUser(id, username string, role service.Role, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, service.User{ID: service.ID(id), Username: username, Role: role})
	if token != "" {
		f.tokens[token] = service.ID(id)
	}
}

// AddTask adds a task as-is.
func (f *FakeService) AddTask(t service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t.Clone())
}

// Task returns the stored task with id.
func (f *FakeService) Task(id service.ID) (service.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return service.Task{}, false
}

// SetNextID sets the id CreateTask hands out next.
func (f *FakeService) SetNextID(n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID = n
}

// Len returns the number of stored tasks.
func (f *FakeService) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	result := make([]service.Task, len(f.tasks))
	for i, t := range f.tasks {
		result[i] = t.Clone()
	}
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, t service.Task) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	t = t.Clone()
	t.ID = service.ID(strconv.FormatInt(f.nextID, 10))
	f.nextID++
	now := f.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	f.tasks = append(f.tasks, t)
	return t.Clone(), nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id service.ID, patch service.TaskPatch) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.Updated = append(f.Updated, id)
	f.Patches[id] = patch
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	if err := f.UpdateTaskErrID[id]; err != nil {
		return service.Task{}, err
	}
	for i, t := range f.tasks {
		if t.ID == id {
			t = patch.Apply(t)
			t.UpdatedAt = f.Now()
			f.tasks[i] = t
			return t.Clone(), nil
		}
	}
	return service.Task{}, ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id service.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	if err := f.DeleteTaskErrID[id]; err != nil {
		return err
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ListUsers implements service.Service.
func (f *FakeService) ListUsers(ctx context.Context) ([]service.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListUsersErr != nil {
		return nil, f.ListUsersErr
	}
	result := make([]service.User, len(f.users))
	copy(result, f.users)
	return result, nil
}

// ResolveToken implements service.Service.
func (f *FakeService) ResolveToken(ctx context.Context, token string) (service.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ResolveTokenErr != nil {
		return service.User{}, f.ResolveTokenErr
	}
	id, ok := f.tokens[token]
	if !ok {
		return service.User{}, ErrUnauthorized
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return service.User{}, ErrNotFound
}

// MemoryTokens is an in-memory session.TokenStore.
type MemoryTokens struct {
	Token   string
	Cleared bool
}

// Load implements session.TokenStore.
func (m *MemoryTokens) Load() (string, error) { return m.Token, nil }

// Save implements session.TokenStore.
func (m *MemoryTokens) Save(token string) error {
	m.Token = token
	m.Cleared = false
	return nil
}

// Clear implements session.TokenStore.
func (m *MemoryTokens) Clear() error {
	m.Token = ""
	m.Cleared = true
	return nil
}

// Fixture helpers

// Order returns a pointer to n.
func Order(n int) *int { return &n }

// At returns a UTC time on 2024-03-<day> at noon.
func At(day int) time.Time {
	return time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC)
}
