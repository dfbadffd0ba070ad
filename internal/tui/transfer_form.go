// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/cashpoint/internal/core"
	"github.com/toeirei/cashpoint/internal/db"
	"github.com/toeirei/cashpoint/internal/i18n"
)

// transferFormModel collects a recipient account number and an amount. The
// store resolves the recipient before any money moves, so a typo here never
// leaves the sender debited.
type transferFormModel struct {
	session    *core.Session
	focusIndex int
	inputs     []textinput.Model // 0: recipient, 1: amount
	errText    string
}

func newTransferFormModel(session *core.Session) transferFormModel {
	m := transferFormModel{
		session: session,
		inputs:  make([]textinput.Model, 2),
	}

	var t textinput.Model
	for i := range m.inputs {
		t = textinput.New()
		t.Cursor.Style = focusedStyle
		t.Width = 24

		switch i {
		case 0:
			t.Prompt = i18n.T("transfer.recipient") + ": "
			t.CharLimit = 32
		case 1:
			t.Prompt = i18n.T("amount.prompt") + ": "
			t.CharLimit = 12
		}
		m.inputs[i] = t
	}

	m.inputs[0].Focus()
	m.inputs[0].TextStyle = focusedStyle
	return m
}

func (m transferFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m transferFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m transferFormModel) submit() (tea.Model, tea.Cmd) {
	recipient := strings.TrimSpace(m.inputs[0].Value())
	if recipient == "" {
		m.errText = i18n.T("transfer.recipient_unknown")
		return m, nil
	}
	amount, err := core.ParseAmount(m.inputs[1].Value())
	if err != nil {
		m.errText = i18n.T("amount.invalid")
		return m, nil
	}

	balance, err := m.session.Transfer(recipient, amount)
	switch {
	case err == nil:
		text := successStyle.Render(i18n.T("transfer.success", amount, recipient, balance))
		return m, func() tea.Msg { return txDoneMsg{text: text} }
	case errors.Is(err, db.ErrRecipientNotFound):
		m.errText = i18n.T("transfer.recipient_unknown")
	case errors.Is(err, db.ErrSameAccount):
		m.errText = i18n.T("transfer.same_account")
	case errors.Is(err, db.ErrInsufficientFunds):
		m.errText = i18n.T("withdraw.insufficient")
	default:
		m.errText = i18n.T("error.generic", err)
	}
	return m, nil
}

func (m *transferFormModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (m transferFormModel) View() string {
	var viewItems []string
	viewItems = append(viewItems, titleStyle.Render("💸 "+i18n.T("transfer.title")), "")
	for i := range m.inputs {
		viewItems = append(viewItems, m.inputs[i].View())
	}

	button := formItemStyle.Render("[ " + i18n.T("transfer.title") + " ]")
	if m.focusIndex == len(m.inputs) {
		button = formSelectedItemStyle.Render("[ " + i18n.T("transfer.title") + " ]")
	}
	viewItems = append(viewItems, "", button)

	if m.errText != "" {
		viewItems = append(viewItems, "", specialStyle.Render(m.errText))
	}

	viewItems = append(viewItems, "", helpStyle.Render("("+i18n.T("footer.confirm")+", "+i18n.T("footer.back")+")"))
	return lipgloss.JoinVertical(lipgloss.Left, viewItems...)
}
