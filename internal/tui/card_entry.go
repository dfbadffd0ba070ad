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

// cardAcceptedMsg signals that a presented card was recognized and the
// session moved on to PIN entry.
type cardAcceptedMsg struct{}

type cardEntryModel struct {
	session *core.Session
	input   textinput.Model
	errText string
}

func newCardEntryModel(session *core.Session) cardEntryModel {
	t := textinput.New()
	t.Cursor.Style = focusedStyle
	t.CharLimit = 32
	t.Width = 32
	t.Placeholder = i18n.T("card.placeholder")
	t.Focus()
	return cardEntryModel{session: session, input: t}
}

func (m cardEntryModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m cardEntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q":
			if m.input.Value() == "" {
				return m, tea.Quit
			}
		case "enter":
			number := m.input.Value()
			if number == "" {
				return m, nil
			}
			err := m.session.PresentCard(number)
			switch {
			case err == nil:
				return m, func() tea.Msg { return cardAcceptedMsg{} }
			case errors.Is(err, core.ErrCardRetained):
				return m, func() tea.Msg { return sessionDeadMsg{text: i18n.T("card.retained")} }
			case errors.Is(err, core.ErrUnknownCard):
				m.errText = i18n.T("card.unknown")
				m.input.SetValue("")
				return m, nil
			default:
				m.errText = i18n.T("error.generic", err)
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m cardEntryModel) View() string {
	parts := []string{
		mainTitleStyle.Render("🏧 " + i18n.T("app.title")),
		titleStyle.Render(i18n.T("card.prompt")),
		m.input.View(),
	}
	if m.errText != "" {
		parts = append(parts, "", errorStyle.Render(m.errText))
	}
	parts = append(parts, "", helpStyle.Render("("+i18n.T("footer.confirm")+", "+i18n.T("footer.quit")+")"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
