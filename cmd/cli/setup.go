package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"vp21rc/internal"
	"vp21rc/internal/logger"
	"vp21rc/internal/projector"
)

// SetupModel handles the port selection screen
type SetupModel struct {
	mode    *internal.FnModeOptions
	session *projector.Session
	state   *connectionState

	ports     []projector.PortInfo
	portsErr  string
	selected  int
	connected bool
}

// NewSetupModel creates a port selection screen and scans for ports
func NewSetupModel(mode *internal.FnModeOptions, session *projector.Session, state *connectionState) SetupModel {
	m := SetupModel{
		mode:    mode,
		session: session,
		state:   state,
	}
	return m.refreshPorts()
}

// Update handles setup screen messages
func (m SetupModel) Update(msg tea.Msg) (SetupModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.ports)-1 {
			m.selected++
		}
	case "r":
		m = m.refreshPorts()
	case "enter":
		return m.handleConnect(), nil
	}
	return m, nil
}

// View renders the setup screen
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("VP21 RC - Serial Port"))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("Serial Port:"))
	b.WriteString("\n")

	if len(m.ports) == 0 {
		b.WriteString(helpStyle.Render("  no serial ports found"))
		b.WriteString("\n")
	}
	for i, p := range m.ports {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.selected {
			cursor = "> "
			style = style.Foreground(lipgloss.Color("#FF79C6"))
		}

		label := p.Name
		if p.IsUSB && p.Product != "" {
			label += fmt.Sprintf(" (%s)", p.Product)
		}
		if p.Name == m.session.Port() {
			label += " *"
		}
		b.WriteString(style.Render(cursor + label))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.portsErr != "" {
		b.WriteString(errorStyle.Render("Error: " + m.portsErr))
		b.WriteString("\n\n")
	}

	if m.state.status != "" {
		if m.state.enabled {
			b.WriteString(successStyle.Render(m.state.status))
		} else {
			b.WriteString(errorStyle.Render(m.state.status))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("↑/↓: Select port • Enter: Connect • r: Rescan • q: Quit"))
	return b.String()
}

// handleConnect opens the selected port, replacing any open connection
func (m SetupModel) handleConnect() SetupModel {
	if len(m.ports) == 0 {
		return m
	}

	port := m.ports[m.selected].Name
	if err := m.session.Open(port); err != nil {
		m.connected = false
		return m
	}

	m.connected = true
	log := logger.New()
	log.Info().Str("port", port).Msg("Control panel connected")
	return m
}

func (m SetupModel) refreshPorts() SetupModel {
	ports, err := m.mode.Ports()
	m.ports = ports
	m.portsErr = ""
	if err != nil {
		m.portsErr = err.Error()
	}
	if m.selected >= len(m.ports) {
		m.selected = 0
	}
	return m
}

// selectPort moves the cursor to port if it is listed
func (m SetupModel) selectPort(port string) SetupModel {
	for i, p := range m.ports {
		if p.Name == port {
			m.selected = i
		}
	}
	return m
}

// IsConnected reports whether the last connect attempt succeeded
func (m SetupModel) IsConnected() bool {
	return m.connected
}
