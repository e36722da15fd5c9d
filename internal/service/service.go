// Package service defines the backend-agnostic interface for the remote task store.
package service

import "context"

// Service defines the interface for task store operations.
// All remote calls go through this interface.
// Commands and the dashboard never import a backend directly.
type Service interface {
	// ListTasks returns every task the store exposes, in store order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task. The ID of t is ignored; the returned
	// task carries the id assigned by the store.
	CreateTask(ctx context.Context, t Task) (Task, error)

	// UpdateTask applies a partial update and returns the stored task.
	UpdateTask(ctx context.Context, id ID, patch TaskPatch) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id ID) error

	// ListUsers returns the user directory.
	ListUsers(ctx context.Context) ([]User, error)

	// ResolveToken exchanges a stored session token for the user it belongs to.
	ResolveToken(ctx context.Context, token string) (User, error)
}
