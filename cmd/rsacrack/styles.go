package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the TUI.
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan

	// Health badge styles.
	healthOKStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")) // green
	healthDegradedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")) // yellow
	healthDownStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")) // red
	healthPendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray

	// Form styles.
	labelStyle        = lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("8"))
	focusedLabelStyle = lipgloss.NewStyle().Width(14).Bold(true).Foreground(lipgloss.Color("4")) // blue

	// Output pane styles.
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			PaddingLeft(1).
			PaddingRight(1)
	busyPaneStyle = paneStyle.BorderForeground(lipgloss.Color("5")) // magenta
	paneTitle     = lipgloss.NewStyle().Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray/dim
)
