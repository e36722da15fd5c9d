package filter

import (
	"slices"

	"taskdash/internal/service"
)

// Selection is the set of tasks checked for a bulk action, kept in the
// order they were checked.
type Selection struct {
	ids []service.ID
}

// Toggle adds id if absent and removes it otherwise. It reports whether id
// is selected afterwards.
func (s *Selection) Toggle(id service.ID) bool {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Has reports whether id is selected.
func (s *Selection) Has(id service.ID) bool { return slices.Contains(s.ids, id) }

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns a copy of the selected ids.
func (s *Selection) IDs() []service.ID { return slices.Clone(s.ids) }

// Clear empties the selection.
func (s *Selection) Clear() { s.ids = nil }

// Prune drops every id that is not in visible.
func (s *Selection) Prune(visible []service.Task) {
	keep := make(map[service.ID]bool, len(visible))
	for _, t := range visible {
		keep[t.ID] = true
	}
	s.ids = slices.DeleteFunc(s.ids, func(id service.ID) bool { return !keep[id] })
}
