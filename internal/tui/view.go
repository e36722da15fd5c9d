package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"taskdash/internal/filter"
	"taskdash/internal/output"
	"taskdash/internal/service"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.mode == modeDetails {
		return m.renderDetails()
	}

	filtered := m.filtered()
	view := m.view()

	sections := []string{
		m.renderHeader(),
		m.renderStats(filter.Summarize(filtered)),
		m.renderFilters(),
		m.renderTasks(view),
		m.renderFooter(view),
	}
	switch m.mode {
	case modeInput:
		sections = append(sections, m.input.View())
	case modeConfirm:
		sections = append(sections, styleModal.Render(m.confirmPrompt+"  "+styleMuted.Render("y/n")))
	}
	sections = append(sections, m.renderStatus())
	if m.showHelp {
		sections = append(sections, wrapHelp(helpLine(m.keys.full()), m.width))
	} else {
		sections = append(sections, helpLine(m.keys.short()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	sess := m.mgr.Session()
	who := ""
	if sess != nil {
		who = fmt.Sprintf("%s (%s)", sess.User.Username, sess.User.Role)
	}
	return styleTitle.Render("taskdash") + "  " + styleMuted.Render(who)
}

func (m Model) renderStats(s filter.Summary) string {
	widget := func(label string, n int, color lipgloss.TerminalColor, pct bool) string {
		value := fmt.Sprint(n)
		if pct {
			value = fmt.Sprintf("%d  %d%%", n, s.Percent(n))
		}
		return styleWidget.Render(
			styleMuted.Render(label) + "\n" + lipgloss.NewStyle().Bold(true).Foreground(color).Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		widget("Total", s.Total, colorStatTotal, false),
		widget("Completed", s.Completed, colorOK, true),
		widget("Incomplete", s.Incomplete, colorWarn, true),
		widget("New", s.New, colorStatNew, true),
		widget("Priority", s.Priority, colorWarn, true),
	)
}

func (m Model) renderFilters() string {
	c := m.state.Criteria()
	parts := []string{
		"status: " + string(statusOrAll(c.Status)),
		"priority: " + string(priorityOrAll(c.Priority)),
	}
	if c.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", c.Search))
	}
	if c.Username != "" {
		parts = append(parts, fmt.Sprintf("user: %q", c.Username))
	}
	if c.Owner != "" {
		parts = append(parts, "owner: "+string(c.Owner))
	}
	if n := m.sel.Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("selected: %d", n))
	}
	return styleFilters.Render(strings.Join(parts, "  "))
}

func (m Model) renderTasks(v filter.View) string {
	if len(v.Tasks) == 0 {
		return styleMuted.Render("  no tasks")
	}
	names := output.NewNames(m.mgr.Users())
	cursor := m.cursor
	if m.mode == modeMove {
		cursor = m.heldTo
	}

	lines := make([]string, 0, len(v.Tasks))
	for i, t := range v.Tasks {
		lines = append(lines, m.renderCard(t, names.Of(t.UserID), i == cursor))
	}
	return strings.Join(lines, "\n")
}

// renderCard renders one task row: selection mark, status badge, priority
// star, text, owner.
func (m Model) renderCard(t service.Task, owner string, focused bool) string {
	mark := "[ ]"
	if m.sel.Has(t.ID) {
		mark = "[x]"
	}
	pointer := "  "
	if focused {
		pointer = "> "
		if m.mode == modeMove && t.ID == m.held {
			pointer = "≡ "
		}
	}
	star := " "
	if t.Priority {
		star = styleStar.Render("★")
	}
	if owner == "" {
		owner = "?"
	}
	suffix := "  @" + owner
	if m.mgr.Busy(t.ID) {
		suffix += styleBusy.Render("  saving…")
	}

	prefix := pointer + mark + " " + badge(t.Status) + " " + star + " "
	room := m.width - xansi.StringWidth(prefix) - xansi.StringWidth(suffix)
	text := output.NormalizeText(t.Text)
	if room < 8 {
		room = 8
	}
	text = xansi.Truncate(text, room, "…")

	line := prefix + text + styleMuted.Render(suffix)
	if focused {
		line = styleCursor.Render(line)
	}
	return line
}

func (m Model) renderFooter(v filter.View) string {
	var b strings.Builder
	output.FormatPageFooter(&b, v)
	return styleMuted.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styleError.Render("error: " + m.status)
	}
	return styleInfo.Render(m.status)
}

func (m Model) renderDetails() string {
	t, ok := m.mgr.Task(m.detail)
	if !ok {
		return styleMuted.Render("task no longer exists") + "\n" + styleMuted.Render("press any key")
	}
	var b strings.Builder
	tf := output.TimeFormat{Layout: m.opts.TimeLayout, Location: m.opts.Location}
	output.FormatTaskDetails(&b, t, output.NewNames(m.mgr.Users()).Of(t.UserID), tf)
	return styleModal.Render(strings.TrimRight(b.String(), "\n")) + "\n" + styleMuted.Render("press any key")
}

// wrapHelp breaks a help line to the terminal width.
func wrapHelp(s string, width int) string {
	if width <= 0 {
		return s
	}
	return xansi.Wordwrap(s, width, "")
}
