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

// authOKMsg signals a successful PIN verification.
type authOKMsg struct{}

type pinEntryModel struct {
	session *core.Session
	input   textinput.Model
	errText string
}

func newPinEntryModel(session *core.Session) pinEntryModel {
	t := textinput.New()
	t.Cursor.Style = focusedStyle
	t.CharLimit = 4
	t.Width = 8
	t.EchoMode = textinput.EchoPassword
	t.EchoCharacter = '•'
	t.Focus()
	return pinEntryModel{session: session, input: t}
}

func (m pinEntryModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pinEntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		pin := m.input.Value()
		if pin == "" {
			return m, nil
		}
		err := m.session.VerifyPIN(pin)
		switch {
		case err == nil:
			return m, func() tea.Msg { return authOKMsg{} }
		case errors.Is(err, core.ErrCardRetained):
			return m, func() tea.Msg { return sessionDeadMsg{text: i18n.T("pin.locked")} }
		case errors.Is(err, core.ErrWrongPIN):
			m.errText = i18n.T("pin.attempts_left", m.session.PinAttemptsLeft())
			m.input.SetValue("")
			return m, nil
		default:
			m.errText = i18n.T("error.generic", err)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m pinEntryModel) View() string {
	parts := []string{
		titleStyle.Render("🔒 " + i18n.T("pin.prompt")),
		m.input.View(),
	}
	if card := m.session.Card(); card != nil {
		parts = append(parts, "", helpStyle.Render(card.String()))
	}
	if m.errText != "" {
		parts = append(parts, "", errorStyle.Render(m.errText))
	}
	parts = append(parts, "", helpStyle.Render("("+i18n.T("footer.confirm")+")"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
