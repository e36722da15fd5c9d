// Package tui implements the interactive task dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"taskdash/internal/collection"
	"taskdash/internal/export"
	"taskdash/internal/filter"
	"taskdash/internal/reorder"
	"taskdash/internal/service"
)

// Options configures the dashboard.
type Options struct {
	PageSize   int
	TimeLayout string
	Location   *time.Location
	ExportPath string // CSV file written by the export key
	Logger     *zap.Logger
}

type mode int

const (
	modeList mode = iota
	modeInput
	modeConfirm
	modeDetails
	modeMove
)

type inputKind int

const (
	inputAdd inputKind = iota
	inputEdit
	inputSearch
	inputUser
	inputOwner
)

// changedMsg is sent after the manager's collection changed.
type changedMsg struct{}

// doneMsg reports the end of a mutation or a reload.
type doneMsg struct {
	text string
	err  error
}

// Model is the dashboard's bubbletea model.
type Model struct {
	ctx     context.Context
	mgr     *collection.Manager
	opts    Options
	log     *zap.Logger
	keys    keyMap
	changes chan struct{}

	mode   mode
	state  filter.State
	sel    filter.Selection
	cursor int // index within the current page

	input      textinput.Model
	inputKind  inputKind
	inputPrev  string     // criterion value restored on cancel
	editTarget service.ID // task being edited

	confirmPrompt string
	confirmAction tea.Cmd

	detail service.ID

	held   service.ID // task picked up in move mode
	heldTo int        // its current drop position

	status    string
	statusErr bool
	showHelp  bool

	width  int
	height int
}

// New creates the dashboard for an already loaded manager.
func New(ctx context.Context, mgr *collection.Manager, opts Options) Model {
	if opts.PageSize <= 0 {
		opts.PageSize = filter.DefaultPageSize
	}
	if opts.TimeLayout == "" {
		opts.TimeLayout = export.DefaultTimeLayout
	}
	if opts.ExportPath == "" {
		opts.ExportPath = export.DefaultFileName
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	in := textinput.New()
	in.CharLimit = 500
	in.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		ctx:     ctx,
		mgr:     mgr,
		opts:    opts,
		log:     log.Named("tui"),
		keys:    defaultKeyMap(),
		changes: make(chan struct{}, 1),
		input:   in,
		width:   80,
	}
	changes := m.changes
	mgr.OnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

// Update implements tea.Model. The selection never outlives the visible page.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if nm, ok := next.(Model); ok && nm.mode != modeMove {
		nm.sel.Prune(nm.view().Tasks)
		next = nm
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-12, 10)
		return m, nil

	case changedMsg:
		m.clampCursor()
		return m, waitForChange(m.changes)

	case doneMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else if msg.text != "" {
			m.setStatus(msg.text)
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeInput:
			return m.updateInput(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeDetails:
			m.mode = modeList
			return m, nil
		case modeMove:
			return m.updateMove(msg)
		}
		return m.updateList(msg)
	}

	if m.mode == modeInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.view()
	cur, hasCur := m.current(view)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		} else if view.Page > 1 {
			m.state.SetPage(view.Page - 1)
			m.cursor = m.opts.PageSize - 1
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(view.Tasks)-1 {
			m.cursor++
		} else if view.Page < view.TotalPages {
			m.state.SetPage(view.Page + 1)
			m.cursor = 0
		}

	case key.Matches(msg, m.keys.PrevPage):
		if view.Page > 1 {
			m.state.SetPage(view.Page - 1)
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.NextPage):
		if view.Page < view.TotalPages {
			m.state.SetPage(view.Page + 1)
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Select):
		if hasCur {
			m.sel.Toggle(cur.ID)
		}

	case key.Matches(msg, m.keys.ClearSelection):
		m.sel.Clear()
		m.status = ""

	case key.Matches(msg, m.keys.CycleStatus):
		if hasCur {
			next := nextStatus(cur.Status)
			id := cur.ID
			return m, m.mutate("status: "+next.String(), func(ctx context.Context) error {
				return m.mgr.SetStatus(ctx, id, next)
			})
		}

	case key.Matches(msg, m.keys.Priority):
		if hasCur {
			id := cur.ID
			return m, m.mutate("", func(ctx context.Context) error {
				_, err := m.mgr.TogglePriority(ctx, id)
				return err
			})
		}

	case key.Matches(msg, m.keys.Edit):
		if hasCur {
			m.editTarget = cur.ID
			cmd := m.openInput(inputEdit, "Edit: ", cur.Text)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Add):
		cmd := m.openInput(inputAdd, "New task: ", "")
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		if hasCur {
			id := cur.ID
			m.askConfirm(fmt.Sprintf("Delete %q?", cur.Text), m.mutate("deleted", func(ctx context.Context) error {
				return m.mgr.Remove(ctx, id)
			}))
		}

	case key.Matches(msg, m.keys.BulkComplete):
		return m.bulkStatus(service.StatusCompleted)

	case key.Matches(msg, m.keys.BulkIncomplete):
		return m.bulkStatus(service.StatusIncomplete)

	case key.Matches(msg, m.keys.BulkDelete):
		if m.sel.Len() == 0 {
			m.setError(collection.ErrNoSelection)
			return m, nil
		}
		ids := m.sel.IDs()
		m.askConfirm(fmt.Sprintf("Delete %d selected tasks?", len(ids)), m.bulk("deleted", func(ctx context.Context) (int, error) {
			return m.mgr.BulkDelete(ctx, ids)
		}))

	case key.Matches(msg, m.keys.StatusFilter):
		m.state.Update(func(c *filter.Criteria) { c.Status = statusOrAll(c.Status).Next() })
		m.cursor = 0

	case key.Matches(msg, m.keys.PriorityFilter):
		m.state.Update(func(c *filter.Criteria) { c.Priority = priorityOrAll(c.Priority).Next() })
		m.cursor = 0

	case key.Matches(msg, m.keys.Search):
		cmd := m.openInput(inputSearch, "Search: ", m.state.Criteria().Search)
		return m, cmd

	case key.Matches(msg, m.keys.UserSearch):
		cmd := m.openInput(inputUser, "User: ", m.state.Criteria().Username)
		return m, cmd

	case key.Matches(msg, m.keys.OwnerFilter):
		if !m.mgr.Session().IsAdmin() {
			m.setError(service.NewError(service.CodeForbidden, "owner filter requires an admin session"))
			return m, nil
		}
		cmd := m.openInput(inputOwner, "Owner id: ", string(m.state.Criteria().Owner))
		return m, cmd

	case key.Matches(msg, m.keys.ResetFilters):
		m.state.Reset()
		m.cursor = 0

	case key.Matches(msg, m.keys.Move):
		if hasCur {
			m.mode = modeMove
			m.held = cur.ID
			m.heldTo = view.Offset + m.cursor
			m.setStatus("moving: ↑/↓ to place, enter to drop, esc to cancel")
		}

	case key.Matches(msg, m.keys.Details):
		if hasCur {
			m.detail = cur.ID
			m.mode = modeDetails
		}

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCSV()

	case key.Matches(msg, m.keys.Reload):
		m.setStatus("reloading…")
		return m, func() tea.Msg {
			if err := m.mgr.Load(m.ctx); err != nil {
				return doneMsg{err: err}
			}
			return doneMsg{text: "reloaded"}
		}

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) bulkStatus(status service.Status) (tea.Model, tea.Cmd) {
	if m.sel.Len() == 0 {
		m.setError(collection.ErrNoSelection)
		return m, nil
	}
	ids := m.sel.IDs()
	m.askConfirm(fmt.Sprintf("Mark %d selected tasks %s?", len(ids), status), m.bulk("updated", func(ctx context.Context) (int, error) {
		return m.mgr.BulkSetStatus(ctx, ids, status)
	}))
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		m.applyCriterion(m.inputKind, m.inputPrev)
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		kind := m.inputKind
		m.closeInput()
		switch kind {
		case inputAdd:
			return m, m.mutate("added", func(ctx context.Context) error {
				_, err := m.mgr.Add(ctx, value, "")
				return err
			})
		case inputEdit:
			id := m.editTarget
			return m, m.mutate("saved", func(ctx context.Context) error {
				return m.mgr.Rename(ctx, id, value)
			})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyCriterion(m.inputKind, m.input.Value())
	return m, cmd
}

// applyCriterion filters live while a search input is open.
func (m *Model) applyCriterion(kind inputKind, value string) {
	switch kind {
	case inputSearch:
		m.state.Update(func(c *filter.Criteria) { c.Search = value })
	case inputUser:
		m.state.Update(func(c *filter.Criteria) { c.Username = value })
	case inputOwner:
		m.state.Update(func(c *filter.Criteria) { c.Owner = service.ID(value) })
	default:
		return
	}
	m.cursor = 0
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		cmd := m.confirmAction
		m.mode = modeList
		m.confirmAction = nil
		return m, cmd
	case "n", "N", "esc", "q":
		m.mode = modeList
		m.confirmAction = nil
		m.setStatus("cancelled")
	}
	return m, nil
}

func (m Model) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.filtered())
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.heldTo > 0 {
			m.heldTo--
		}
	case key.Matches(msg, m.keys.Down):
		if m.heldTo < n-1 {
			m.heldTo++
		}
	case msg.Type == tea.KeyEsc:
		m.mode = modeList
		m.held = ""
		m.setStatus("move cancelled")
	case msg.Type == tea.KeyEnter:
		ids := filter.IDs(m.filtered())
		from := heldIndex(ids, m.held)
		to := min(m.heldTo, len(ids)-1)
		m.mode = modeList
		m.held = ""
		if from < 0 {
			m.setStatus("move cancelled: task no longer listed")
			return m, nil
		}
		m.state.SetPage(to/m.opts.PageSize + 1)
		m.cursor = to % m.opts.PageSize
		return m, func() tea.Msg {
			n, err := m.mgr.Reorder(m.ctx, ids, from, to)
			if err != nil {
				return doneMsg{err: err}
			}
			if n == 0 {
				return doneMsg{}
			}
			return doneMsg{text: "order saved"}
		}
	}
	return m, nil
}

func (m *Model) openInput(kind inputKind, prompt, value string) tea.Cmd {
	m.mode = modeInput
	m.inputKind = kind
	m.inputPrev = value
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.mode = modeList
	m.input.Blur()
}

func (m *Model) askConfirm(prompt string, action tea.Cmd) {
	m.mode = modeConfirm
	m.confirmPrompt = prompt
	m.confirmAction = action
}

// mutate runs fn as a command. Optimistic states arrive through changedMsg.
func (m Model) mutate(success string, fn func(context.Context) error) tea.Cmd {
	ctx, log := m.ctx, m.log
	return func() tea.Msg {
		if err := fn(ctx); err != nil {
			log.Debug("mutation failed", zap.Error(err))
			return doneMsg{err: err}
		}
		return doneMsg{text: success}
	}
}

func (m Model) bulk(verb string, fn func(context.Context) (int, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		n, err := fn(ctx)
		switch {
		case err != nil:
			return doneMsg{err: err}
		case n == 0:
			return doneMsg{text: "nothing to do"}
		}
		return doneMsg{text: fmt.Sprintf("%s %d tasks", verb, n)}
	}
}

func (m Model) exportCSV() tea.Cmd {
	tasks := m.filtered()
	users := m.mgr.Users()
	path := m.opts.ExportPath
	opts := export.Options{TimeLayout: m.opts.TimeLayout, Location: m.opts.Location}
	return func() tea.Msg {
		if len(tasks) == 0 {
			return doneMsg{err: export.ErrNothingToExport}
		}
		f, err := os.Create(path)
		if err != nil {
			return doneMsg{err: err}
		}
		if err := export.CSV(f, tasks, users, opts); err != nil {
			f.Close()
			return doneMsg{err: err}
		}
		if err := f.Close(); err != nil {
			return doneMsg{err: err}
		}
		return doneMsg{text: fmt.Sprintf("exported %d tasks to %s", len(tasks), path)}
	}
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	msg := err.Error()
	var se *service.Error
	if errors.As(err, &se) && se.Message != "" {
		msg = se.Message
	}
	m.status, m.statusErr = msg, true
}

func (m Model) filtered() []service.Task {
	return filter.Apply(m.mgr.Tasks(), m.mgr.Users(), m.mgr.Session(), m.state.Criteria())
}

// view is the visible slice. While a task is held the whole filtered list
// is shown with the held task at its drop position.
func (m Model) view() filter.View {
	filtered := m.filtered()
	if m.mode != modeMove {
		return filter.Paginate(filtered, m.state.Page(), m.opts.PageSize, false)
	}
	ids := filter.IDs(filtered)
	if from := heldIndex(ids, m.held); from >= 0 {
		byID := make(map[service.ID]service.Task, len(filtered))
		for _, t := range filtered {
			byID[t.ID] = t
		}
		ids = reorder.Move(ids, from, min(m.heldTo, len(ids)-1))
		preview := make([]service.Task, len(ids))
		for i, id := range ids {
			preview[i] = byID[id]
		}
		filtered = preview
	}
	return filter.Paginate(filtered, 1, m.opts.PageSize, true)
}

// heldIndex locates the held task in ids, or returns -1 once it is gone.
func heldIndex(ids []service.ID, held service.ID) int {
	for i, id := range ids {
		if id == held {
			return i
		}
	}
	return -1
}

func (m Model) current(v filter.View) (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(v.Tasks) {
		return service.Task{}, false
	}
	return v.Tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.view().Tasks)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// nextStatus cycles new -> incomplete -> completed -> new.
func nextStatus(s service.Status) service.Status {
	switch s {
	case service.StatusNew:
		return service.StatusIncomplete
	case service.StatusIncomplete:
		return service.StatusCompleted
	default:
		return service.StatusNew
	}
}

func statusOrAll(f filter.StatusFilter) filter.StatusFilter {
	if f == "" {
		return filter.StatusAll
	}
	return f
}

func priorityOrAll(f filter.PriorityFilter) filter.PriorityFilter {
	if f == "" {
		return filter.PriorityAll
	}
	return f
}

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, mgr *collection.Manager, opts Options) error {
	p := tea.NewProgram(New(ctx, mgr, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
