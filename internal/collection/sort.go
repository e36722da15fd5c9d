package collection

import (
	"cmp"
	"sort"
	"strings"

	"taskdash/internal/service"
)

// Sort orders tasks in place for presentation:
// explicit order ascending with unordered tasks last, then creation time
// descending, then id descending.
func Sort(tasks []service.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Less(tasks[i], tasks[j])
	})
}

// Less reports whether a sorts before b.
func Less(a, b service.Task) bool {
	if a.Order != nil || b.Order != nil {
		switch {
		case a.Order == nil:
			return false
		case b.Order == nil:
			return true
		case *a.Order != *b.Order:
			return *a.Order < *b.Order
		}
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return compareIDs(a.ID, b.ID) > 0
}

// compareIDs compares numerically when both ids are numbers. A numeric id
// ranks above a non-numeric one, so server ids sort before placeholders.
func compareIDs(a, b service.ID) int {
	an, aok := a.Int()
	bn, bok := b.Int()
	switch {
	case aok && bok:
		return cmp.Compare(an, bn)
	case aok:
		return 1
	case bok:
		return -1
	}
	return strings.Compare(string(a), string(b))
}
