// Package filter derives the visible view of the task list: predicate
// filtering, pagination, the bulk selection set and summary counts.
package filter

import (
	"strings"

	"taskdash/internal/service"
	"taskdash/internal/session"
)

// StatusFilter narrows by completion status.
type StatusFilter string

const (
	StatusAll        StatusFilter = "all"
	StatusCompleted  StatusFilter = "completed"
	StatusIncomplete StatusFilter = "incomplete"
	StatusNew        StatusFilter = "new"
)

// ParseStatusFilter parses a status filter name. "uncompleted" is accepted
// for incomplete and the empty string means all.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusAll, true
	case "completed", "done":
		return StatusCompleted, true
	case "incomplete", "uncompleted":
		return StatusIncomplete, true
	case "new":
		return StatusNew, true
	}
	return StatusAll, false
}

// Next cycles all -> completed -> incomplete -> new -> all.
func (f StatusFilter) Next() StatusFilter {
	switch f {
	case StatusAll:
		return StatusCompleted
	case StatusCompleted:
		return StatusIncomplete
	case StatusIncomplete:
		return StatusNew
	default:
		return StatusAll
	}
}

func (f StatusFilter) match(s service.Status) bool {
	switch f {
	case StatusCompleted:
		return s == service.StatusCompleted
	case StatusIncomplete:
		return s == service.StatusIncomplete
	case StatusNew:
		return s == service.StatusNew
	default:
		return true
	}
}

// PriorityFilter narrows by the priority flag.
type PriorityFilter string

const (
	PriorityAll    PriorityFilter = "all"
	PriorityOnly   PriorityFilter = "priority"
	PriorityNormal PriorityFilter = "normal"
)

// ParsePriorityFilter parses a priority filter name; "" means all.
func ParsePriorityFilter(s string) (PriorityFilter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return PriorityAll, true
	case "priority", "starred":
		return PriorityOnly, true
	case "normal":
		return PriorityNormal, true
	}
	return PriorityAll, false
}

// Next cycles all -> priority -> normal -> all.
func (f PriorityFilter) Next() PriorityFilter {
	switch f {
	case PriorityAll:
		return PriorityOnly
	case PriorityOnly:
		return PriorityNormal
	default:
		return PriorityAll
	}
}

func (f PriorityFilter) match(p bool) bool {
	switch f {
	case PriorityOnly:
		return p
	case PriorityNormal:
		return !p
	default:
		return true
	}
}

// Criteria is the set of active predicates. The zero value matches every task.
type Criteria struct {
	Status   StatusFilter
	Priority PriorityFilter
	Search   string     // substring of task text
	Username string     // substring of the owner's username
	Owner    service.ID // exact owner id; admin sessions only
}

// Apply returns the tasks that satisfy every predicate, in input order.
func Apply(tasks []service.Task, users []service.User, sess *session.Session, c Criteria) []service.Task {
	names := make(map[service.ID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	search := strings.ToLower(strings.TrimSpace(c.Search))
	username := strings.ToLower(strings.TrimSpace(c.Username))
	owner := service.ID(strings.TrimSpace(string(c.Owner)))

	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if !sess.Owns(t) {
			continue
		}
		if sess.IsAdmin() && owner != "" && t.UserID != owner {
			continue
		}
		if !c.Status.match(t.Status) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Text), search) {
			continue
		}
		// An unresolved owner has an empty username.
		if username != "" && !strings.Contains(strings.ToLower(names[t.UserID]), username) {
			continue
		}
		if !c.Priority.match(t.Priority) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// IDs returns the ids of tasks in order.
func IDs(tasks []service.Task) []service.ID {
	out := make([]service.ID, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
