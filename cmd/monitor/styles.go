package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true)
)

// FormatDirection renders a signal direction with a trend indicator. Exits
// are marked so they read differently from fresh entries.
func FormatDirection(direction types.Direction, exit bool) string {
	label := strings.ToUpper(string(direction))

	switch direction {
	case types.DirectionLong:
		label += " ▲"
	case types.DirectionShort:
		label += " ▼"
	}

	if exit {
		label += " (exit)"
	}

	return label
}
