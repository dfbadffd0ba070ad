// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/cashpoint/internal/core"
	"github.com/toeirei/cashpoint/internal/i18n"
	"github.com/toeirei/cashpoint/internal/model"
)

// historyModel shows the session account's ledger entries in seq order.
// 'c' copies a plain-text statement to the clipboard.
type historyModel struct {
	session *core.Session
	table   table.Model
	txns    []model.Transaction
	status  string
	err     error
}

func newHistoryModel(session *core.Session) *historyModel {
	m := &historyModel{session: session}
	txns, err := session.History()
	if err != nil {
		m.err = err
		return m
	}
	m.txns = txns

	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: i18n.T("history.title"), Width: 18},
		{Title: i18n.T("amount.prompt"), Width: 12},
		{Title: i18n.T("transfer.recipient"), Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorWhite).
		Background(colorHighlight).
		Bold(false)
	t.SetStyles(s)

	m.table = t
	m.rebuildTableRows()
	return m
}

func (m *historyModel) rebuildTableRows() {
	var rows []table.Row
	for _, tx := range m.txns {
		amountCell := fmt.Sprintf("%+d", tx.Amount)
		switch {
		case tx.Amount > 0:
			amountCell = successStyle.Render(amountCell)
		case tx.Amount < 0:
			amountCell = specialStyle.Render(amountCell)
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", tx.Seq),
			string(tx.Type),
			amountCell,
			tx.Counterparty,
		})
	}
	m.table.SetRows(rows)
}

func (m *historyModel) Init() tea.Cmd {
	return nil
}

func (m *historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 8)
		m.table.SetWidth(msg.Width - 4)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }
		case "c":
			var b strings.Builder
			if err := core.WriteStatement(&b, m.session.Account(), m.txns); err == nil {
				if err := clipboard.WriteAll(b.String()); err == nil {
					m.status = i18n.T("history.copied")
				}
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *historyModel) View() string {
	if m.err != nil {
		return errorStyle.Render(i18n.T("error.generic", m.err))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("📜 "+i18n.T("history.title")) + "\n\n")

	if len(m.txns) == 0 {
		b.WriteString(helpStyle.Render(i18n.T("history.empty")))
	} else {
		b.WriteString(m.table.View())
	}

	footer := fmt.Sprintf("\n(%s, %s, %s)", i18n.T("footer.navigate"), i18n.T("footer.copy"), i18n.T("footer.back"))
	if m.status != "" {
		footer += " " + successStyle.Render(m.status)
	}
	b.WriteString(helpStyle.Render(footer))
	return b.String()
}
