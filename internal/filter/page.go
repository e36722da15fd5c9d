package filter

import "taskdash/internal/service"

// DefaultPageSize is the number of tasks per page.
const DefaultPageSize = 20

// State is the dashboard's filter state. Changing any criterion returns to
// the first page.
type State struct {
	criteria Criteria
	page     int
}

// Criteria returns the active criteria.
func (s *State) Criteria() Criteria { return s.criteria }

// Page returns the requested page, starting at 1.
func (s *State) Page() int {
	if s.page < 1 {
		return 1
	}
	return s.page
}

// SetCriteria replaces the criteria and resets to page 1.
func (s *State) SetCriteria(c Criteria) {
	s.criteria = c
	s.page = 1
}

// Update edits the criteria in place and resets to page 1.
func (s *State) Update(fn func(*Criteria)) {
	fn(&s.criteria)
	s.page = 1
}

// SetPage requests a page. It is clamped when the view is paginated.
func (s *State) SetPage(page int) { s.page = page }

// Reset clears every criterion.
func (s *State) Reset() { s.SetCriteria(Criteria{}) }

// View is one rendered slice of the filtered list.
type View struct {
	Tasks      []service.Task
	Page       int // clamped, starting at 1
	TotalPages int // at least 1
	Total      int // filtered count
	Offset     int // index of Tasks[0] within the filtered list
}

// Paginate slices filtered for page. The page is clamped to
// [1, TotalPages]. While dragging, pagination is suspended and the whole
// filtered list is returned so positions refer to the full sequence.
func Paginate(filtered []service.Task, page, size int, dragging bool) View {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(filtered)
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	if dragging {
		return View{Tasks: filtered, Page: page, TotalPages: pages, Total: total}
	}
	start := (page - 1) * size
	end := min(start+size, total)
	return View{Tasks: filtered[start:end], Page: page, TotalPages: pages, Total: total, Offset: start}
}
