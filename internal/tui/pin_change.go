// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/cashpoint/internal/core"
	"github.com/toeirei/cashpoint/internal/i18n"
)

// pinChangeModel collects the current PIN, the new PIN and its
// confirmation. All three fields echo as dots.
type pinChangeModel struct {
	session    *core.Session
	focusIndex int
	inputs     []textinput.Model // 0: old, 1: new, 2: confirm
	errText    string
}

func newPinChangeModel(session *core.Session) pinChangeModel {
	m := pinChangeModel{
		session: session,
		inputs:  make([]textinput.Model, 3),
	}

	prompts := []string{
		i18n.T("pinchange.old") + ": ",
		i18n.T("pinchange.new") + ": ",
		i18n.T("pinchange.confirm") + ": ",
	}

	var t textinput.Model
	for i := range m.inputs {
		t = textinput.New()
		t.Cursor.Style = focusedStyle
		t.CharLimit = 4
		t.Width = 8
		t.EchoMode = textinput.EchoPassword
		t.EchoCharacter = '•'
		t.Prompt = prompts[i]
		m.inputs[i] = t
	}

	m.inputs[0].Focus()
	m.inputs[0].TextStyle = focusedStyle
	return m
}

func (m pinChangeModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pinChangeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			if s == "enter" && m.focusIndex == len(m.inputs) {
				return m.submit()
			}

			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}
			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			cmds := make([]tea.Cmd, len(m.inputs))
			for i := 0; i <= len(m.inputs)-1; i++ {
				if i == m.focusIndex {
					cmds[i] = m.inputs[i].Focus()
					m.inputs[i].TextStyle = focusedStyle
					continue
				}
				m.inputs[i].Blur()
				m.inputs[i].TextStyle = lipgloss.NewStyle()
			}
			return m, tea.Batch(cmds...)
		}
	}

	cmd := m.updateInputs(msg)
	return m, cmd
}

func (m pinChangeModel) submit() (tea.Model, tea.Cmd) {
	err := m.session.ChangePIN(m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value())
	switch {
	case err == nil:
		text := successStyle.Render(i18n.T("pinchange.success"))
		return m, func() tea.Msg { return txDoneMsg{text: text} }
	case errors.Is(err, core.ErrWrongPIN):
		m.errText = i18n.T("pinchange.wrong_old")
	case errors.Is(err, core.ErrPINMismatch):
		m.errText = i18n.T("pinchange.mismatch")
	case errors.Is(err, core.ErrBadPINFormat):
		m.errText = i18n.T("pin.format")
	default:
		m.errText = i18n.T("error.generic", err)
	}
	return m, nil
}

func (m *pinChangeModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (m pinChangeModel) View() string {
	var viewItems []string
	viewItems = append(viewItems, titleStyle.Render("🔑 "+i18n.T("pinchange.title")), "")
	for i := range m.inputs {
		viewItems = append(viewItems, m.inputs[i].View())
	}

	button := formItemStyle.Render("[ " + i18n.T("pinchange.title") + " ]")
	if m.focusIndex == len(m.inputs) {
		button = formSelectedItemStyle.Render("[ " + i18n.T("pinchange.title") + " ]")
	}
	viewItems = append(viewItems, "", button)

	if m.errText != "" {
		viewItems = append(viewItems, "", specialStyle.Render(m.errText))
	}

	viewItems = append(viewItems, "", helpStyle.Render("("+i18n.T("footer.confirm")+", "+i18n.T("footer.back")+")"))
	return lipgloss.JoinVertical(lipgloss.Left, viewItems...)
}
