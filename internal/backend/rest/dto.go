package rest

import (
	"time"

	"taskdash/internal/service"
)

// taskDTO is a task record as the store sends it. "completed" is null or
// absent for a new task.
type taskDTO struct {
	ID        service.ID `json:"id"`
	Todo      string     `json:"todo"`
	Completed *bool      `json:"completed"`
	UserID    service.ID `json:"userId"`
	Priority  bool       `json:"priority"`
	Order     *int       `json:"order"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (d taskDTO) toTask() service.Task {
	t := service.Task{
		ID:       d.ID,
		Text:     d.Todo,
		Status:   service.StatusFromWire(d.Completed),
		Priority: d.Priority,
		UserID:   d.UserID,
		Order:    d.Order,
	}
	if d.CreatedAt != nil {
		t.CreatedAt = *d.CreatedAt
	}
	if d.UpdatedAt != nil {
		t.UpdatedAt = *d.UpdatedAt
	}
	return t
}

// createDTO is the POST /todos body. It never carries an id.
type createDTO struct {
	Text      string     `json:"todo"`
	Completed *bool      `json:"completed"`
	UserID    service.ID `json:"userId"`
	Priority  bool       `json:"priority"`
	Order     *int       `json:"order,omitempty"`
}

// patchBody renders a partial update with only the set fields. A status
// patch to New sends an explicit null.
func patchBody(p service.TaskPatch) map[string]any {
	body := make(map[string]any, 4)
	if p.Text != nil {
		body["todo"] = *p.Text
	}
	if p.Status != nil {
		body["completed"] = p.Status.Wire()
	}
	if p.Priority != nil {
		body["priority"] = *p.Priority
	}
	if p.Order != nil {
		body["order"] = *p.Order
	}
	return body
}

type userDTO struct {
	ID       service.ID `json:"id"`
	Username string     `json:"username"`
	Role     string     `json:"role"`
}

func (d userDTO) toUser() service.User {
	role := service.RoleUser
	if service.Role(d.Role) == service.RoleAdmin {
		role = service.RoleAdmin
	}
	return service.User{ID: d.ID, Username: d.Username, Role: role}
}
