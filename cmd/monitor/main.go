// Command monitor is a terminal UI that watches a signal server's WebSocket
// stream and renders incoming signals as they arrive.
package main

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	m := NewModel()
	p := tea.NewProgram(&m, tea.WithAltScreen())
	m.SetProgram(p)

	if _, err := p.Run(); err != nil {
		log.Fatalf("Monitor error: %v", err)
	}
}
