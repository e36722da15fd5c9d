// Package reorder renumbers the task collection after an item is dragged
// within the filtered sequence.
package reorder

import (
	"sort"

	"taskdash/internal/service"
)

// ErrOutOfRange is returned when a source or destination index falls
// outside the filtered sequence. Nothing is renumbered.
var ErrOutOfRange = service.NewError(service.CodeInvalid, "reorder index out of range")

// Result describes a planned reorder.
type Result struct {
	// Tasks is the full collection in its new order. Every task carries a
	// dense order value: the filtered sequence first (0..k-1), then the
	// remaining tasks in their previous relative order (k..n-1).
	Tasks []service.Task

	// Changed holds only the tasks whose order value differs from before.
	Changed []service.Task
}

// Noop reports whether the plan leaves everything as it was.
func (r Result) Noop() bool { return r.Tasks == nil }

// Plan moves filtered[from] to position to and renumbers the collection.
//
// A negative destination (dropped outside the list) or from == to is a no-op.
// Ids in filtered that are not in all are skipped.
func Plan(all []service.Task, filtered []service.ID, from, to int) (Result, error) {
	if to < 0 || from == to {
		return Result{}, nil
	}
	if from < 0 || from >= len(filtered) || to >= len(filtered) {
		return Result{}, ErrOutOfRange
	}

	seq := Move(filtered, from, to)

	index := make(map[service.ID]int, len(all))
	for i, t := range all {
		index[t.ID] = i
	}

	placed := make(map[service.ID]bool, len(seq))
	out := make([]service.Task, 0, len(all))
	next := 0
	for _, id := range seq {
		i, ok := index[id]
		if !ok || placed[id] {
			continue
		}
		t := all[i].Clone()
		t.Order = service.Ptr(next)
		next++
		out = append(out, t)
		placed[id] = true
	}

	rest := make([]service.Task, 0, len(all)-len(out))
	for _, t := range all {
		if !placed[t.ID] {
			rest = append(rest, t.Clone())
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return orderLess(rest[i].Order, rest[j].Order)
	})
	for i := range rest {
		rest[i].Order = service.Ptr(next)
		next++
	}
	out = append(out, rest...)

	var changed []service.Task
	for _, t := range out {
		prev := all[index[t.ID]].Order
		if prev == nil || *prev != *t.Order {
			changed = append(changed, t.Clone())
		}
	}

	return Result{Tasks: out, Changed: changed}, nil
}

// Move returns a copy of ids with the element at from moved to position to.
// Indexes must be in range.
func Move(ids []service.ID, from, to int) []service.ID {
	out := make([]service.ID, 0, len(ids))
	moved := ids[from]
	for i, id := range ids {
		if i != from {
			out = append(out, id)
		}
	}
	out = append(out, "")
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out
}

// orderLess orders nil after every value.
func orderLess(a, b *int) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}
