package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Application states.
const (
	StateAddressInput = iota
	StateFilterSelect
	StateSignalDisplay
)

// Model is the main Bubble Tea model for the live signal monitor.
type Model struct {
	state          int
	addressInput   textinput.Model
	filterList     list.Model
	signalTable    table.Model
	signals        []types.Signal
	address        string
	actionableOnly bool
	err            error
	width          int
	height         int

	// Streaming control
	streamCtx    context.Context
	streamCancel context.CancelFunc
	program      *tea.Program
}

// NewModel creates a new Model with initial state.
func NewModel() Model {
	return Model{
		state:        StateAddressInput,
		addressInput: NewAddressInput(),
		filterList:   NewFilterList(),
		signalTable:  NewSignalTable(),
		signals:      make([]types.Signal, 0, maxSignalRows),
	}
}

// SetProgram sets the tea.Program reference for sending messages from goroutines.
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.streamCancel != nil {
				m.streamCancel()
			}
			return m, tea.Quit
		case "q":
			// Only quit on 'q' if not in text input mode
			if m.state != StateAddressInput {
				if m.streamCancel != nil {
					m.streamCancel()
				}
				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filterList.SetSize(msg.Width, msg.Height-4)
		m.signalTable.SetWidth(msg.Width)
		m.signalTable.SetHeight(msg.Height - 6)
		return m, nil

	case SignalMsg:
		if m.actionableOnly && !msg.Signal.Actionable() {
			return m, nil
		}
		m.signals = append(m.signals, msg.Signal)
		if len(m.signals) > maxSignalRows {
			m.signals = m.signals[len(m.signals)-maxSignalRows:]
		}
		m.signalTable = UpdateTableRows(m.signalTable, m.signals)
		return m, nil

	case StreamErrorMsg:
		m.err = msg.Err
		return m, nil

	case StreamStartedMsg:
		m.state = StateSignalDisplay
		return m, nil
	}

	// Delegate to state-specific update
	switch m.state {
	case StateAddressInput:
		return m.updateAddressInput(msg)
	case StateFilterSelect:
		return m.updateFilterSelect(msg)
	case StateSignalDisplay:
		return m.updateSignalDisplay(msg)
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateFilterSelect:
		m.state = StateAddressInput
		m.addressInput.Focus()
		return m, textinput.Blink
	case StateSignalDisplay:
		// Stop streaming and clear collected signals
		if m.streamCancel != nil {
			m.streamCancel()
			m.streamCancel = nil
		}
		m.signals = m.signals[:0]
		m.signalTable = UpdateTableRows(m.signalTable, m.signals)
		m.err = nil
		m.state = StateFilterSelect
	}
	return m, nil
}

func (m Model) updateAddressInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			m.address = ParseAddress(m.addressInput.Value())
			m.state = StateFilterSelect
			m.addressInput.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.addressInput, cmd = m.addressInput.Update(msg)
	return m, cmd
}

func (m Model) updateFilterSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := m.filterList.SelectedItem().(listItem); ok {
				m.actionableOnly = item.name == "Actionable only"
				m.state = StateSignalDisplay
				return m, m.startStreaming()
			}
		}
	}

	var cmd tea.Cmd
	m.filterList, cmd = m.filterList.Update(msg)
	return m, cmd
}

func (m Model) updateSignalDisplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.signalTable, cmd = m.signalTable.Update(msg)
	return m, cmd
}

// startStreaming returns a command that starts the signal stream.
func (m *Model) startStreaming() tea.Cmd {
	return func() tea.Msg {
		if m.program == nil {
			return StreamErrorMsg{Err: fmt.Errorf("program not set")}
		}

		ctx, cancel := context.WithCancel(context.Background())
		m.streamCtx = ctx
		m.streamCancel = cancel

		go streamSignals(m.program, ctx, m.address)

		return StreamStartedMsg{}
	}
}

// streamSignals reads signals from the server's WebSocket endpoint and sends
// them to the program.
func streamSignals(p *tea.Program, ctx context.Context, address string) {
	url := fmt.Sprintf("ws://%s/ws/signals", address)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		p.Send(StreamErrorMsg{Err: fmt.Errorf("failed to connect to %s: %w", url, err)})
		return
	}

	if resp != nil {
		resp.Body.Close()
	}

	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				p.Send(StreamErrorMsg{Err: err})
			}
			return
		}

		var sig types.Signal
		if err := json.Unmarshal(data, &sig); err != nil {
			p.Send(StreamErrorMsg{Err: err})
			continue
		}

		p.Send(SignalMsg{Signal: sig})
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateAddressInput:
		s.WriteString(TitleStyle.Render("Argo Signal - Live Monitor"))
		s.WriteString("\n\n")
		s.WriteString("Enter the signal server address (host:port):\n\n")
		s.WriteString(m.addressInput.View())
		s.WriteString("\n\n")
		s.WriteString(HelpStyle.Render("Press Enter to confirm, Ctrl+C to quit"))

	case StateFilterSelect:
		s.WriteString(TitleStyle.Render("Select Signal Filter"))
		s.WriteString("\n\n")
		s.WriteString(m.filterList.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Press Enter to select, Esc to go back"))

	case StateSignalDisplay:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Live Signals - %s", m.address)))
		s.WriteString("\n\n")

		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		}

		if len(m.signals) == 0 {
			s.WriteString("Waiting for signals...\n")
		} else {
			s.WriteString(m.signalTable.View())
		}

		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("q: quit | Esc: back"))
	}

	return s.String()
}
