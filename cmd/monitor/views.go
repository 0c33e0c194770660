package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/rxtech-lab/argo-signal/internal/types"
)

// maxSignalRows caps how many signals the table keeps; the newest come first.
const maxSignalRows = 100

// listItem implements list.Item interface for the filter list.
type listItem struct {
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

// NewFilterList creates the list for choosing which signals to display.
func NewFilterList() list.Model {
	items := []list.Item{
		listItem{name: "Actionable only", description: "Long and short signals, entries and exits"},
		listItem{name: "All signals", description: "Every evaluation, including neutral holds"},
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Signal Filter"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewAddressInput creates a text input for the signal server address.
func NewAddressInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "localhost:8080"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "> "

	return ti
}

// ParseAddress normalizes a server address, falling back to the placeholder
// default and stripping any scheme prefix.
func ParseAddress(input string) string {
	addr := strings.TrimSpace(input)
	if addr == "" {
		return "localhost:8080"
	}

	addr = strings.TrimPrefix(addr, "ws://")
	addr = strings.TrimPrefix(addr, "http://")

	return addr
}

// NewSignalTable creates the table for displaying streamed signals.
func NewSignalTable() table.Model {
	columns := []table.Column{
		{Title: "Time", Width: 10},
		{Title: "Symbol", Width: 10},
		{Title: "Strategy", Width: 22},
		{Title: "Direction", Width: 16},
		{Title: "Confidence", Width: 10},
		{Title: "Reason", Width: 44},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateTableRows rebuilds the table from the signal history, newest first.
func UpdateTableRows(t table.Model, signals []types.Signal) table.Model {
	rows := make([]table.Row, 0, len(signals))

	for i := len(signals) - 1; i >= 0; i-- {
		sig := signals[i]
		rows = append(rows, table.Row{
			sig.Time.Format("15:04:05"),
			sig.Symbol,
			sig.Strategy,
			FormatDirection(sig.Direction, sig.Exit),
			fmt.Sprintf("%.2f", sig.Confidence),
			sig.Reason,
		})
	}

	t.SetRows(rows)

	return t
}
