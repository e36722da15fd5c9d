package commands

import (
	"flag"

	"taskdash/internal/collection"
	"taskdash/internal/filter"
	"taskdash/internal/service"
)

// filterFlags are the criteria flags shared by listing and reference-taking
// commands.
type filterFlags struct {
	status   string
	priority string
	search   string
	user     string
	owner    string
}

func (f *filterFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.status, "status", "", "")
	fs.StringVar(&f.priority, "priority", "", "")
	fs.StringVar(&f.search, "search", "", "")
	fs.StringVar(&f.user, "user", "", "")
	fs.StringVar(&f.owner, "owner", "", "")
}

// criteria validates the flags.
func (f *filterFlags) criteria() (filter.Criteria, error) {
	st, ok := filter.ParseStatusFilter(f.status)
	if !ok {
		return filter.Criteria{}, service.Errorf(service.CodeInvalid, "invalid status filter: %s", f.status)
	}
	pr, ok := filter.ParsePriorityFilter(f.priority)
	if !ok {
		return filter.Criteria{}, service.Errorf(service.CodeInvalid, "invalid priority filter: %s", f.priority)
	}
	return filter.Criteria{
		Status:   st,
		Priority: pr,
		Search:   f.search,
		Username: f.user,
		Owner:    service.ID(f.owner),
	}, nil
}

// apply filters the manager's collection.
func (f *filterFlags) apply(m *collection.Manager) ([]service.Task, error) {
	c, err := f.criteria()
	if err != nil {
		return nil, err
	}
	return filter.Apply(m.Tasks(), m.Users(), m.Session(), c), nil
}
