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
	"github.com/charmbracelet/bubbletea"
	"vp21rc/internal"
	"vp21rc/internal/projector"
)

// Main TUI model that routes between screens. It owns the one projector
// session for the lifetime of the panel.
type model struct {
	currentScreen screen
	width         int
	height        int
	quitting      bool

	mode    *internal.FnModeOptions
	session *projector.Session
	remote  *projector.Remote
	state   *connectionState

	// Screen models
	setupModel  SetupModel
	remoteModel RemoteModel
}

func newModel(mode *internal.FnModeOptions, opener projector.Opener, port string) model {
	state := &connectionState{}
	session := projector.NewSession(
		projector.WithOpener(opener),
		projector.WithNotifier(state.notifier()),
	)

	m := model{
		currentScreen: screenPortSetup,
		mode:          mode,
		session:       session,
		remote:        projector.NewRemote(session),
		state:         state,
	}
	m.setupModel = NewSetupModel(mode, session, state)

	// without a configured port, try the first one found
	if port == "" && len(m.setupModel.ports) > 0 {
		port = m.setupModel.ports[0].Name
	}
	if port != "" {
		m.setupModel = m.setupModel.selectPort(port)
		if session.Open(port) == nil {
			m.showRemote()
		}
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		var cmd tea.Cmd
		m.remoteModel, cmd = m.remoteModel.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			m.session.Close()
			return m, tea.Quit

		case "q":
			if m.currentScreen == screenPortSetup {
				m.quitting = true
				m.session.Close()
				return m, tea.Quit
			}
			// back to port selection; the session stays open until another port is chosen
			m.currentScreen = screenPortSetup
			m.setupModel = m.setupModel.refreshPorts()
			return m, nil
		}

		switch m.currentScreen {
		case screenPortSetup:
			var cmd tea.Cmd
			m.setupModel, cmd = m.setupModel.Update(msg)

			if msg.String() == "enter" && m.setupModel.IsConnected() {
				m.showRemote()
			}
			return m, cmd

		case screenRemoteControl:
			var cmd tea.Cmd
			m.remoteModel, cmd = m.remoteModel.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *model) showRemote() {
	m.remoteModel = NewRemoteModel(m.remote, m.state, m.mode.Debug, m.mode.Test)
	m.remoteModel.width = m.width
	m.currentScreen = screenRemoteControl
}

func (m model) View() string {
	if m.quitting {
		return successStyle.Render("Projector session closed.") + "\n"
	}

	switch m.currentScreen {
	case screenPortSetup:
		return m.setupModel.View()
	case screenRemoteControl:
		return m.remoteModel.View()
	default:
		return "Unknown screen"
	}
}

// StartTUI runs the control panel. It connects to port at startup, or to
// the first listed port when port is empty.
func StartTUI(mode *internal.FnModeOptions, port string) error {
	p := tea.NewProgram(
		newModel(mode, mode.Opener(), port),
		tea.WithAltScreen(),
	)

	defer func() {
		if r := recover(); r != nil {
			p.Kill()
		}
	}()

	_, err := p.Run()
	return err
}
