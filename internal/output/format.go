// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskdash/internal/filter"
	"taskdash/internal/service"
)

const (
	// Separator is the separator line between sections.
	Separator = "------------"
)

// Names maps user ids to usernames.
type Names map[service.ID]string

// NewNames indexes users by id.
func NewNames(users []service.User) Names {
	n := make(Names, len(users))
	for _, u := range users {
		n[u.ID] = u.Username
	}
	return n
}

// Of returns the username for id, or "" when unknown.
func (n Names) Of(id service.ID) string { return n[id] }

// StatusMark returns the three-character status box for s.
func StatusMark(s service.Status) string {
	switch s {
	case service.StatusCompleted:
		return "[x]"
	case service.StatusIncomplete:
		return "[~]"
	default:
		return "[ ]"
	}
}

// PriorityMark returns "*" for a priority task and " " otherwise.
func PriorityMark(p bool) string {
	if p {
		return "*"
	}
	return " "
}

// FormatTask formats a task line.
// Format: "{N:>4}  {STATUS} {PRIO} {TEXT}  #{ID} @{USER}\n"
func FormatTask(w io.Writer, num int, task service.Task, username string) {
	if username == "" {
		username = "?"
	}
	fmt.Fprintf(w, "%4d  %s %s %s  #%s @%s\n",
		num, StatusMark(task.Status), PriorityMark(task.Priority), NormalizeText(task.Text), task.ID, username)
}

// FormatPageFooter formats the pagination footer.
func FormatPageFooter(w io.Writer, v filter.View) {
	noun := "tasks"
	if v.Total == 1 {
		noun = "task"
	}
	fmt.Fprintf(w, "page %d/%d (%d %s)\n", v.Page, v.TotalPages, v.Total, noun)
}

// FormatStats formats the stat widgets.
func FormatStats(w io.Writer, s filter.Summary) {
	fmt.Fprintf(w, "%-11s %5d\n", "Total", s.Total)
	for _, row := range []struct {
		label string
		n     int
	}{
		{"Completed", s.Completed},
		{"Incomplete", s.Incomplete},
		{"New", s.New},
		{"Priority", s.Priority},
	} {
		fmt.Fprintf(w, "%-11s %5d  %3d%%\n", row.label, row.n, s.Percent(row.n))
	}
}

// TimeFormat renders timestamps for details output.
type TimeFormat struct {
	Layout   string
	Location *time.Location
}

func (f TimeFormat) format(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(f.Layout)
}

// FormatTaskDetails formats every field of a task.
func FormatTaskDetails(w io.Writer, task service.Task, username string, tf TimeFormat) {
	if username == "" {
		username = "(unknown)"
	}
	priority := "Normal"
	if task.Priority {
		priority = "Priority"
	}
	order := "-"
	if task.Order != nil {
		order = fmt.Sprint(*task.Order)
	}
	fmt.Fprintln(w, Separator)
	fmt.Fprintf(w, "Task:     %s\n", NormalizeText(task.Text))
	fmt.Fprintln(w, Separator)
	fmt.Fprintf(w, "ID:       %s\n", task.ID)
	fmt.Fprintf(w, "User:     %s (%s)\n", username, task.UserID)
	fmt.Fprintf(w, "Status:   %s\n", task.Status)
	fmt.Fprintf(w, "Priority: %s\n", priority)
	fmt.Fprintf(w, "Order:    %s\n", order)
	fmt.Fprintf(w, "Created:  %s\n", tf.format(task.CreatedAt))
	fmt.Fprintf(w, "Updated:  %s\n", tf.format(task.UpdatedAt))
}

// FormatUser formats a user directory line.
func FormatUser(w io.Writer, u service.User) {
	fmt.Fprintf(w, "%6s  %-5s  %s\n", u.ID, u.Role, u.Username)
}

// NormalizeText normalizes task text for single-line display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
