package tui

import (
	"github.com/charmbracelet/lipgloss"

	"taskdash/internal/service"
)

var (
	colorAccent    = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	colorMuted     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	colorError     = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
	colorOK        = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#58D68D"}
	colorWarn      = lipgloss.AdaptiveColor{Light: "#B7950B", Dark: "#F4D03F"}
	colorSelectBg  = lipgloss.AdaptiveColor{Light: "#E8E6FF", Dark: "#2E2B5F"}
	colorStatNew   = lipgloss.AdaptiveColor{Light: "#2874A6", Dark: "#5DADE2"}
	colorStatTotal = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleKey     = lipgloss.NewStyle().Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorError)
	styleInfo    = lipgloss.NewStyle().Foreground(colorOK)
	styleCursor  = lipgloss.NewStyle().Background(colorSelectBg)
	styleStar    = lipgloss.NewStyle().Foreground(colorWarn)
	styleWidget  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1)
	styleBusy    = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	styleFilters = lipgloss.NewStyle().Foreground(colorMuted)
	styleModal   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1)
)

func statusColor(s service.Status) lipgloss.TerminalColor {
	switch s {
	case service.StatusCompleted:
		return colorOK
	case service.StatusIncomplete:
		return colorWarn
	default:
		return colorStatNew
	}
}

// badge renders a fixed-width status label.
func badge(s service.Status) string {
	return lipgloss.NewStyle().Foreground(statusColor(s)).Width(10).Render(s.String())
}
