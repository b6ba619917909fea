package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtitleStyle = lipgloss.NewStyle().Faint(true)
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)
