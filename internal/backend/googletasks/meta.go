package googletasks

import (
	"strings"

	"gopkg.in/yaml.v3"

	"taskdash/internal/service"
)

// meta is the YAML document kept in a task's notes.
type meta struct {
	Priority bool   `yaml:"priority,omitempty"`
	Order    *int   `yaml:"order,omitempty"`
	State    string `yaml:"state,omitempty"` // "new" or "incomplete" while not completed
	Created  string `yaml:"created,omitempty"`
	Note     string `yaml:"note,omitempty"` // free text found in the notes
}

const (
	stateNew        = "new"
	stateIncomplete = "incomplete"
)

// decodeMeta parses notes. Notes that are not a metadata document are
// kept as free text.
func decodeMeta(notes string) meta {
	var m meta
	if strings.TrimSpace(notes) == "" {
		return m
	}
	if err := yaml.Unmarshal([]byte(notes), &m); err != nil {
		return meta{Note: notes}
	}
	return m
}

func (m meta) encode() string {
	if m == (meta{}) {
		return ""
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return m.Note
	}
	return string(data)
}

func (m *meta) setStatus(s service.Status) {
	switch s {
	case service.StatusNew:
		m.State = stateNew
	case service.StatusIncomplete:
		m.State = stateIncomplete
	default:
		m.State = ""
	}
}

// status combines Google's completion flag with the stored state. An open
// task without a state was created outside this client and counts as new.
func (m meta) status(completed bool) service.Status {
	switch {
	case completed:
		return service.StatusCompleted
	case m.State == stateIncomplete:
		return service.StatusIncomplete
	default:
		return service.StatusNew
	}
}
