package service

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ID identifies a task or a user. The store may send ids as JSON strings or
// numbers; numeric ids are written back as numbers.
type ID string

// TempPrefix marks a client-generated id that the store has not assigned yet.
const TempPrefix = "temp-"

// IsTemp reports whether id is a temporary placeholder.
func (id ID) IsTemp() bool { return strings.HasPrefix(string(id), TempPrefix) }

func (id ID) String() string { return string(id) }

// Int returns the numeric value of id, if it has one.
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Status is the tri-state completion status of a task.
type Status int

const (
	// StatusNew is a task nobody has started triaging.
	StatusNew Status = iota
	// StatusIncomplete is a task that is open.
	StatusIncomplete
	// StatusCompleted is a finished task.
	StatusCompleted
)

// String returns the display label used in lists and exports.
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "Completed"
	case StatusIncomplete:
		return "Incomplete"
	default:
		return "New"
	}
}

// ParseStatus parses a status name (case-insensitive).
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new":
		return StatusNew, true
	case "incomplete", "uncompleted", "open":
		return StatusIncomplete, true
	case "completed", "complete", "done":
		return StatusCompleted, true
	}
	return StatusNew, false
}

// StatusFromWire maps the store's nullable "completed" flag.
func StatusFromWire(completed *bool) Status {
	switch {
	case completed == nil:
		return StatusNew
	case *completed:
		return StatusCompleted
	default:
		return StatusIncomplete
	}
}

// Wire returns the store's nullable "completed" flag for s.
func (s Status) Wire() *bool {
	switch s {
	case StatusCompleted:
		v := true
		return &v
	case StatusIncomplete:
		v := false
		return &v
	default:
		return nil
	}
}

// Role is a user's role.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Task represents a single task item.
type Task struct {
	ID        ID
	Text      string
	Status    Status
	Priority  bool
	UserID    ID
	Order     *int // nil sorts after every ordered task
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	if t.Order != nil {
		o := *t.Order
		t.Order = &o
	}
	return t
}

// Equal reports whether t and o hold the same values.
func (t Task) Equal(o Task) bool {
	if (t.Order == nil) != (o.Order == nil) {
		return false
	}
	if t.Order != nil && *t.Order != *o.Order {
		return false
	}
	return t.ID == o.ID && t.Text == o.Text && t.Status == o.Status &&
		t.Priority == o.Priority && t.UserID == o.UserID &&
		t.CreatedAt.Equal(o.CreatedAt) && t.UpdatedAt.Equal(o.UpdatedAt)
}

// TaskPatch is a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Text     *string
	Status   *Status
	Priority *bool
	Order    *int
}

// Apply returns t with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	t = t.Clone()
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Order != nil {
		o := *p.Order
		t.Order = &o
	}
	return t
}

// User represents an account known to the store.
type User struct {
	ID       ID
	Username string
	Role     Role
}

// IsAdmin reports whether u has the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
