package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/huangsam/codearchitect/schema"
)

var (
	// Colors
	colorRed    = lipgloss.Color("#FF5555")
	colorYellow = lipgloss.Color("#F1FA8C")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorWhite  = lipgloss.Color("#F8F8F2")
	colorGray   = lipgloss.Color("#6272A4")
	colorPanel  = lipgloss.Color("#44475A")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorCyan).
				Padding(0, 1)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
	labelStyle    = lipgloss.NewStyle().Foreground(colorGray)
	valueStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	bannerStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorRed).PaddingLeft(1)
	warnStyle     = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(colorGreen)
	critStyle     = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	selectedStyle = lipgloss.NewStyle().Background(colorPanel).Foreground(colorWhite)
	buttonStyle   = lipgloss.NewStyle().Foreground(colorWhite).Background(colorPanel).Padding(0, 2)
	helpStyle     = lipgloss.NewStyle().Foreground(colorGray)
	dimStyle      = lipgloss.NewStyle().Foreground(colorGray)
)

func statusStyle(status schema.Status) lipgloss.Style {
	switch status {
	case schema.CompletedStatus:
		return okStyle
	case schema.FailedStatus:
		return critStyle
	case schema.AnalyzingStatus, schema.PendingStatus:
		return warnStyle
	default:
		return valueStyle
	}
}
