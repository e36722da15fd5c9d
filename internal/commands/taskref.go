package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"taskdash/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	ID  service.ID // set for an id reference
	Row int        // 1-based row for a "#<n>" reference, 0 otherwise
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a single task reference.
//
// Parsing rules:
// 1. "#<digits>" → row reference into the filtered list (#3)
// 2. Anything else without spaces → task id (42, abc-1)
// 3. "#" alone, "#0", or a blank argument → invalid
func ParseTaskRef(arg string) (TaskRef, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if rest, ok := strings.CutPrefix(arg, "#"); ok {
		if !isAllDigits(rest) {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Row: n}, nil
	}

	if strings.ContainsFunc(arg, unicode.IsSpace) {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
	}
	return TaskRef{ID: service.ID(arg)}, nil
}

// ParseTaskRefs parses one or more references.
func ParseTaskRefs(args []string) ([]TaskRef, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}
	refs := make([]TaskRef, 0, len(args))
	for _, a := range args {
		ref, err := ParseTaskRef(a)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// HasRows reports whether any reference needs the filtered list.
func HasRows(refs []TaskRef) bool {
	for _, r := range refs {
		if r.Row > 0 {
			return true
		}
	}
	return false
}

// ResolveTaskRefs turns references into ids. Rows index filtered; ids are
// kept as given and checked by the collection when used.
func ResolveTaskRefs(refs []TaskRef, filtered []service.Task) ([]service.ID, error) {
	ids := make([]service.ID, 0, len(refs))
	for _, r := range refs {
		if r.Row == 0 {
			ids = append(ids, r.ID)
			continue
		}
		if r.Row > len(filtered) {
			return nil, service.Errorf(service.CodeInvalid, "task row out of range: #%d", r.Row)
		}
		ids = append(ids, filtered[r.Row-1].ID)
	}
	return ids, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
