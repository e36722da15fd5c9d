package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up             key.Binding
	Down           key.Binding
	PrevPage       key.Binding
	NextPage       key.Binding
	Select         key.Binding
	ClearSelection key.Binding
	CycleStatus    key.Binding
	Priority       key.Binding
	Edit           key.Binding
	Add            key.Binding
	Delete         key.Binding
	BulkComplete   key.Binding
	BulkIncomplete key.Binding
	BulkDelete     key.Binding
	StatusFilter   key.Binding
	PriorityFilter key.Binding
	Search         key.Binding
	UserSearch     key.Binding
	OwnerFilter    key.Binding
	ResetFilters   key.Binding
	Move           key.Binding
	Details        key.Binding
	Export         key.Binding
	Reload         key.Binding
	Help           key.Binding
	Quit           key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevPage:       key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev page")),
		NextPage:       key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page")),
		Select:         key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		ClearSelection: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
		CycleStatus:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle status")),
		Priority:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority")),
		Edit:           key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Add:            key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		BulkComplete:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete selected")),
		BulkIncomplete: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "reopen selected")),
		BulkDelete:     key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete selected")),
		StatusFilter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "status filter")),
		PriorityFilter: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "priority filter")),
		Search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		UserSearch:     key.NewBinding(key.WithKeys("@"), key.WithHelp("@", "user")),
		OwnerFilter:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "owner id")),
		ResetFilters:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset filters")),
		Move:           key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		Details:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Export:         key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export csv")),
		Reload:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.CycleStatus, k.Priority, k.Move, k.Search, k.Help, k.Quit}
}

func (k keyMap) full() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.PrevPage, k.NextPage,
		k.Select, k.ClearSelection, k.BulkComplete, k.BulkIncomplete, k.BulkDelete,
		k.Add, k.Edit, k.Delete, k.CycleStatus, k.Priority, k.Move, k.Details,
		k.StatusFilter, k.PriorityFilter, k.Search, k.UserSearch, k.OwnerFilter, k.ResetFilters,
		k.Export, k.Reload, k.Help, k.Quit,
	}
}

// helpLine renders bindings as "key desc" pairs.
func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styleKey.Render(h.Key)+" "+styleMuted.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
