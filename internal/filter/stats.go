package filter

import "taskdash/internal/service"

// Summary holds the stat widget counts for a filtered list.
type Summary struct {
	Total      int
	Completed  int
	Incomplete int
	New        int
	Priority   int
}

// Summarize counts tasks by status and priority.
func Summarize(tasks []service.Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case service.StatusCompleted:
			s.Completed++
		case service.StatusIncomplete:
			s.Incomplete++
		default:
			s.New++
		}
		if t.Priority {
			s.Priority++
		}
	}
	return s
}

// Percent returns n as a whole percentage of Total, rounded half up.
// It is 0 when there are no tasks.
func (s Summary) Percent(n int) int {
	if s.Total <= 0 {
		return 0
	}
	return (n*200 + s.Total) / (2 * s.Total)
}
