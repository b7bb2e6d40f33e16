// Package tui is an interactive browser over a symbol-day's race records
// (artifact 4, spec.md §6.4.4), grounded on the teacher's dbn-go-tui.
package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorDarkPurple  = lipgloss.Color("#3F3080")
	colorLightPurple = lipgloss.Color("#655BA7")
	colorRed         = lipgloss.Color("#E24F36")
	colorGrue        = lipgloss.Color("#4495AA")
	colorYellow      = lipgloss.Color("#FBF4A5")

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true).
			BorderForeground(colorLightPurple)

	raceTableStyles = table.Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(colorRed).Padding(0, 1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorGrue),
		Cell:     lipgloss.NewStyle().Padding(0, 1),
	}

	headerStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Background(colorDarkPurple)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Background(colorDarkPurple)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
