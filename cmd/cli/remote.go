// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"vp21rc/internal/device"
	"vp21rc/internal/logger"
	"vp21rc/internal/projector"
)

// RemoteModel handles the remote control screen
type RemoteModel struct {
	device device.Device
	state  *connectionState

	selectedButton  projector.Button
	lastButtonPress time.Time

	// single status line, overwritten by every press
	status      string
	statusError bool

	debugMode bool
	testMode  bool

	width int

	logBuffer []LogEntry
}

// NewRemoteModel creates a remote control screen for dev
func NewRemoteModel(dev device.Device, state *connectionState, debug, test bool) RemoteModel {
	return RemoteModel{
		device:    dev,
		state:     state,
		debugMode: debug,
		testMode:  test,
		status:    state.status,
	}
}

// Update handles remote control screen messages
func (m RemoteModel) Update(msg tea.Msg) (RemoteModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if button, ok := keyBindings[msg.String()]; ok {
			return m.handleRemoteButton(button)
		}
	}

	return m, nil
}

// View renders the remote control screen
func (m RemoteModel) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("VP21 RC - Projector Remote"))

	info := m.device.GetDeviceInfo()
	connection := successStyle.Render("● " + info.Model + " on " + info.Address)
	if !m.state.enabled {
		connection = errorStyle.Render("○ disconnected")
	}
	if m.testMode {
		connection += " " + lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")).Render("(Test)")
	}
	sections = append(sections, connection)

	sections = append(sections, m.renderRemoteLayout())

	if m.status != "" {
		if m.statusError {
			sections = append(sections, errorStyle.Render("✗ "+m.status))
		} else {
			sections = append(sections, successStyle.Render("✓ "+m.status))
		}
	}

	if m.debugMode || m.testMode {
		if logDisplay := m.renderLogDisplay(); logDisplay != "" {
			sections = append(sections, logDisplay)
		}
	}

	sections = append(sections, m.renderHelpText())

	return strings.Join(sections, "\n\n")
}

// renderRemoteLayout lays the buttons out like the physical remote
func (m RemoteModel) renderRemoteLayout() string {
	render := func(btn projector.Button) string {
		style := remoteButtonStyle
		switch {
		case !m.state.enabled:
			style = remoteButtonDisabledStyle
		case m.selectedButton == btn && time.Since(m.lastButtonPress) < 200*time.Millisecond:
			style = remoteButtonActiveStyle
		}
		return style.Render(buttonLabels[btn])
	}

	sourceColumn := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Render("Power & Source:"),
		render(projector.ButtonPower),
		lipgloss.JoinHorizontal(lipgloss.Left,
			render(projector.ButtonComputer),
			render(projector.ButtonVideo)),
		lipgloss.JoinHorizontal(lipgloss.Left,
			render(projector.ButtonAuto),
			render(projector.ButtonColour)),
	)

	navColumn := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")).Render("Navigation:"),
		render(projector.ButtonUp),
		lipgloss.JoinHorizontal(lipgloss.Center,
			render(projector.ButtonLeft),
			render(projector.ButtonEnter),
			render(projector.ButtonRight)),
		render(projector.ButtonDown),
	)

	functionColumn := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")).Render("Functions:"),
		lipgloss.JoinHorizontal(lipgloss.Left,
			render(projector.ButtonMenu),
			render(projector.ButtonEsc)),
		lipgloss.JoinHorizontal(lipgloss.Left,
			render(projector.ButtonMute),
			render(projector.ButtonFreeze)),
		lipgloss.JoinHorizontal(lipgloss.Left,
			render(projector.ButtonMinus),
			render(projector.ButtonPlus)),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sourceColumn,
		strings.Repeat(" ", 4),
		navColumn,
		strings.Repeat(" ", 4),
		functionColumn,
	)
}

// renderLogDisplay shows the last three log entries
func (m RemoteModel) renderLogDisplay() string {
	if len(m.logBuffer) == 0 {
		return ""
	}

	const maxLines = 3
	start := 0
	if len(m.logBuffer) > maxLines {
		start = len(m.logBuffer) - maxLines
	}

	logLines := []string{lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6272A4")).
		Render("─── LOGS ───")}

	for _, entry := range m.logBuffer[start:] {
		levelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
		if entry.Level == "ERR" {
			levelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
		}

		line := fmt.Sprintf("%s [%s] %s",
			entry.Timestamp.Format("15:04:05"),
			levelStyle.Render(entry.Level),
			entry.Message)
		logLines = append(logLines, line)
	}

	return strings.Join(logLines, "\n")
}

func (m *RemoteModel) addLogEntry(level, message string) {
	m.logBuffer = append(m.logBuffer, LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	})
	if len(m.logBuffer) > 20 {
		m.logBuffer = m.logBuffer[1:]
	}
}

func (m RemoteModel) renderHelpText() string {
	help := "P: Power • Arrows/Enter: Navigate • M: Menu • Esc: Back • +/-: Volume"
	if m.width > 100 {
		help += " • C: Computer • V: Video • O: Colour • A: Auto • U: Mute • F: Freeze • q: Ports"
	} else {
		help += " • q: Ports"
	}
	return helpStyle.Render(help)
}

// handleRemoteButton dispatches a button press to the device
func (m RemoteModel) handleRemoteButton(button projector.Button) (RemoteModel, tea.Cmd) {
	if m.device == nil || !m.state.enabled {
		return m, nil
	}

	actionJSON, err := device.NewActionRequest(device.ActionTypeKey, button.String())
	if err != nil {
		m.status, m.statusError = err.Error(), true
		return m, nil
	}

	response, err := m.device.Process(actionJSON)
	if err != nil {
		response = device.Failure("%v", err)
	}

	m.selectedButton = button
	m.lastButtonPress = time.Now()

	if response.Success {
		m.status, m.statusError = fmt.Sprint(response.Data), false
	} else {
		m.status, m.statusError = response.Error, true
	}

	if m.debugMode || m.testMode {
		if response.Success {
			m.addLogEntry("INF", m.status)
		} else {
			m.addLogEntry("ERR", m.status)
		}
	}

	log := logger.New()
	log.Info().
		Str("button", button.String()).
		Bool("success", response.Success).
		Msg("Remote button pressed")

	return m, nil
}
