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
	"github.com/toeirei/cashpoint/internal/db"
	"github.com/toeirei/cashpoint/internal/i18n"
)

// txDoneMsg carries a rendered result line back to the menu after a
// completed operation.
type txDoneMsg struct{ text string }

type amountMode int

const (
	amountModeDeposit amountMode = iota
	amountModeWithdraw
)

// amountFormModel is the shared single-field form for deposits and
// withdrawals; the mode decides which ledger operation runs on submit.
type amountFormModel struct {
	session *core.Session
	mode    amountMode
	input   textinput.Model
	errText string
}

func newAmountFormModel(session *core.Session, mode amountMode) amountFormModel {
	t := textinput.New()
	t.Cursor.Style = focusedStyle
	t.CharLimit = 12
	t.Width = 16
	t.Prompt = i18n.T("amount.prompt") + ": "
	t.Focus()
	return amountFormModel{session: session, mode: mode, input: t}
}

func (m amountFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m amountFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }
		case "enter":
			amount, err := core.ParseAmount(m.input.Value())
			if err != nil {
				m.errText = i18n.T("amount.invalid")
				return m, nil
			}

			var balance int64
			if m.mode == amountModeDeposit {
				balance, err = m.session.Deposit(amount)
			} else {
				balance, err = m.session.Withdraw(amount)
			}
			switch {
			case err == nil:
				key := "deposit.success"
				if m.mode == amountModeWithdraw {
					key = "withdraw.success"
				}
				text := successStyle.Render(i18n.T(key, amount, balance))
				return m, func() tea.Msg { return txDoneMsg{text: text} }
			case errors.Is(err, db.ErrInsufficientFunds):
				m.errText = i18n.T("withdraw.insufficient")
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

func (m amountFormModel) View() string {
	title := i18n.T("deposit.title")
	if m.mode == amountModeWithdraw {
		title = i18n.T("withdraw.title")
	}

	parts := []string{
		titleStyle.Render(title),
		m.input.View(),
	}
	if m.errText != "" {
		parts = append(parts, "", specialStyle.Render(m.errText))
	}
	parts = append(parts, "", helpStyle.Render("("+i18n.T("footer.confirm")+", "+i18n.T("footer.back")+")"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
