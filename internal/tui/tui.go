// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for Cashpoint.
// This file, tui.go, is the main entry point for the TUI, containing the
// top-level model that acts as a router to all other sub-views.
package tui // import "github.com/toeirei/cashpoint/internal/tui"

import (
	"fmt"
	"os"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/toeirei/cashpoint/internal/core"
	"github.com/toeirei/cashpoint/internal/db"
	"github.com/toeirei/cashpoint/internal/i18n"
	"github.com/toeirei/cashpoint/internal/logging"
	"github.com/toeirei/cashpoint/internal/model"
)

// viewState represents which part of the UI is currently active.
type viewState int

const (
	// cardEntryView is the idle screen waiting for a card number.
	cardEntryView viewState = iota
	pinEntryView
	menuView
	depositView
	withdrawView
	transferView
	historyView
	pinChangeView
	auditLogView
	languageView
	goodbyeView
)

// backToMenuMsg signals a sub-view wants to return to the main menu.
type backToMenuMsg struct{}

// sessionDeadMsg signals the session ended outside the cardholder's control
// (card retained). The text is shown on the goodbye screen.
type sessionDeadMsg struct{ text string }

// languageChangedMsg signals that the language changed and the UI should be
// re-initialized so every view picks up the new translations.
type languageChangedMsg struct{}

// mainModel is the top-level model for the TUI. It acts as a state machine
// and router, delegating updates and view rendering to the currently active
// sub-model.
type mainModel struct {
	state   viewState
	session *core.Session

	cardEntry cardEntryModel
	pinEntry  pinEntryModel
	menu      menuModel
	amount    amountFormModel
	transfer  transferFormModel
	history   *historyModel
	pinChange pinChangeModel
	auditLog  *auditLogModel
	language  languageModel

	goodbyeText string
	statusMsg   string
	width       int
	height      int
	err         error
}

// menuModel holds the state for the main menu.
type menuModel struct {
	options []model.MenuOption
	cursor  int
}

// languageModel holds the state for the language selection menu.
type languageModel struct {
	choices     map[string]string // map of lang code to display name
	orderedKeys []string          // for stable iteration
	cursor      int
}

func menuLabel(o model.MenuOption) string {
	switch o {
	case model.MenuDeposit:
		return i18n.T("menu.deposit")
	case model.MenuWithdraw:
		return i18n.T("menu.withdraw")
	case model.MenuBalanceInquiry:
		return i18n.T("menu.balance")
	case model.MenuTransactionHistory:
		return i18n.T("menu.history")
	case model.MenuChangePIN:
		return i18n.T("menu.change_pin")
	case model.MenuTransfer:
		return i18n.T("menu.transfer")
	case model.MenuExit:
		return i18n.T("menu.exit")
	}
	return fmt.Sprintf("MenuOption(%d)", int(o))
}

// initialModel creates the starting state of the TUI: a fresh session
// waiting for a card.
func initialModel() mainModel {
	session := core.NewSession(db.DefaultStore())
	return mainModel{
		state:     cardEntryView,
		session:   session,
		cardEntry: newCardEntryModel(session),
		menu:      menuModel{options: model.MenuOptions()},
	}
}

// Init is the first function called by the Bubble Tea runtime.
func (m mainModel) Init() tea.Cmd {
	return m.cardEntry.Init()
}

// Update is the main message loop. It handles all events (like key presses
// and window size changes) and delegates them to the active sub-model.
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings that work everywhere.
		switch msg.String() {
		case "ctrl+c":
			m.session.End()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case sessionDeadMsg:
		m.state = goodbyeView
		m.goodbyeText = msg.text
		return m, nil

	case languageChangedMsg:
		// Re-initialize the entire model to apply new translations, but keep
		// the live session and window dimensions.
		newModel := initialModel()
		newModel.session = m.session
		newModel.width = m.width
		newModel.height = m.height
		if m.session.State() == core.StateAuthenticated {
			newModel.state = menuView
		}
		return newModel, newModel.Init()
	}

	// Delegate updates to the currently active view.
	switch m.state {
	case cardEntryView:
		if _, ok := msg.(cardAcceptedMsg); ok {
			m.state = pinEntryView
			m.pinEntry = newPinEntryModel(m.session)
			return m, m.pinEntry.Init()
		}
		var newModel tea.Model
		newModel, cmd = m.cardEntry.Update(msg)
		m.cardEntry = newModel.(cardEntryModel)

	case pinEntryView:
		if _, ok := msg.(authOKMsg); ok {
			m.state = menuView
			m.statusMsg = i18n.T("app.welcome", viper.GetString("bank.name"))
			return m, nil
		}
		var newModel tea.Model
		newModel, cmd = m.pinEntry.Update(msg)
		m.pinEntry = newModel.(pinEntryModel)

	case depositView, withdrawView:
		if done, ok := msg.(txDoneMsg); ok {
			m.state = menuView
			m.statusMsg = done.text
			return m, nil
		}
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, nil
		}
		var newModel tea.Model
		newModel, cmd = m.amount.Update(msg)
		m.amount = newModel.(amountFormModel)

	case transferView:
		if done, ok := msg.(txDoneMsg); ok {
			m.state = menuView
			m.statusMsg = done.text
			return m, nil
		}
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, nil
		}
		var newModel tea.Model
		newModel, cmd = m.transfer.Update(msg)
		m.transfer = newModel.(transferFormModel)

	case historyView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, nil
		}
		var newModel tea.Model
		newModel, cmd = m.history.Update(msg)
		m.history = newModel.(*historyModel)

	case pinChangeView:
		if done, ok := msg.(txDoneMsg); ok {
			m.state = menuView
			m.statusMsg = done.text
			return m, nil
		}
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, nil
		}
		var newModel tea.Model
		newModel, cmd = m.pinChange.Update(msg)
		m.pinChange = newModel.(pinChangeModel)

	case auditLogView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, nil
		}
		var newModel tea.Model
		newModel, cmd = m.auditLog.Update(msg)
		m.auditLog = newModel.(*auditLogModel)

	case languageView:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q", "esc":
				m.state = menuView
				return m, nil
			case "up", "k":
				if m.language.cursor > 0 {
					m.language.cursor--
				}
			case "down", "j":
				if m.language.cursor < len(m.language.orderedKeys)-1 {
					m.language.cursor++
				}
			case "enter":
				langCode := m.language.orderedKeys[m.language.cursor]
				i18n.SetLang(langCode)
				viper.Set("language", langCode)
				return m, func() tea.Msg { return languageChangedMsg{} }
			}
		}

	case goodbyeView:
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}

	default: // menuView
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "up", "k":
				if m.menu.cursor > 0 {
					m.menu.cursor--
				}
			case "down", "j":
				if m.menu.cursor < len(m.menu.options)-1 {
					m.menu.cursor++
				}
			case "L":
				m.state = languageView
				m.language = newLanguageModel()
				return m, nil
			case "a":
				m.state = auditLogView
				m.auditLog = newAuditLogModel()
				var newModel tea.Model
				newModel, cmd = m.auditLog.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
				m.auditLog = newModel.(*auditLogModel)
				return m, cmd
			case "enter":
				m.statusMsg = ""
				switch m.menu.options[m.menu.cursor] {
				case model.MenuDeposit:
					m.state = depositView
					m.amount = newAmountFormModel(m.session, amountModeDeposit)
					return m, m.amount.Init()
				case model.MenuWithdraw:
					m.state = withdrawView
					m.amount = newAmountFormModel(m.session, amountModeWithdraw)
					return m, m.amount.Init()
				case model.MenuBalanceInquiry:
					balance, err := m.session.Balance()
					if err != nil {
						m.statusMsg = errorStyle.Render(i18n.T("error.generic", err))
						return m, nil
					}
					m.statusMsg = i18n.T("balance.current", balance)
					return m, nil
				case model.MenuTransactionHistory:
					m.state = historyView
					m.history = newHistoryModel(m.session)
					var newModel tea.Model
					newModel, cmd = m.history.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
					m.history = newModel.(*historyModel)
					return m, cmd
				case model.MenuChangePIN:
					m.state = pinChangeView
					m.pinChange = newPinChangeModel(m.session)
					return m, m.pinChange.Init()
				case model.MenuTransfer:
					m.state = transferView
					m.transfer = newTransferFormModel(m.session)
					return m, m.transfer.Init()
				case model.MenuExit:
					m.session.End()
					m.state = goodbyeView
					m.goodbyeText = i18n.T("session.goodbye", viper.GetString("bank.name"))
					return m, nil
				}
			}
		}
	}

	return m, cmd
}

// View renders the TUI. It's called after every Update and delegates
// rendering to the currently active sub-model.
func (m mainModel) View() string {
	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1, 2)
		return errStyle.Render(fmt.Sprintf("An error occurred: %v", m.err))
	}

	switch m.state {
	case cardEntryView:
		return m.cardEntry.View()
	case pinEntryView:
		return m.pinEntry.View()
	case depositView, withdrawView:
		return m.amount.View()
	case transferView:
		return m.transfer.View()
	case historyView:
		return m.history.View()
	case pinChangeView:
		return m.pinChange.View()
	case auditLogView:
		return m.auditLog.View()
	case languageView:
		return m.language.View()
	case goodbyeView:
		return mainTitleStyle.Render(m.goodbyeText) + "\n\n" + helpStyle.Render(i18n.T("card.ejected"))
	default: // menuView
		return m.menu.View(m.session, m.statusMsg)
	}
}

// View renders the main menu for an authenticated session.
func (m menuModel) View(session *core.Session, statusMsg string) string {
	title := mainTitleStyle.Render("🏧 " + i18n.T("app.title"))

	var items []string
	items = append(items, titleStyle.Render(i18n.T("menu.title")), "")
	for i, opt := range m.options {
		label := menuLabel(opt)
		if m.cursor == i {
			items = append(items, selectedItemStyle.Render("▸ "+label))
		} else {
			items = append(items, itemStyle.Render("  "+label))
		}
	}

	if acc := session.Account(); acc != nil {
		items = append(items, "", helpStyle.Render(acc.Number))
	}

	paneStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)
	pane := paneStyle.Width(44).Render(lipgloss.JoinVertical(lipgloss.Left, items...))

	parts := []string{title, pane}
	if statusMsg != "" {
		parts = append(parts, "", statusMsg)
	}
	parts = append(parts, "", helpStyle.Render(fmt.Sprintf("(%s, %s, a: %s, L: %s)",
		i18n.T("footer.navigate"), i18n.T("footer.confirm"), i18n.T("audit.title"), i18n.T("menu.language"))))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// newLanguageModel creates a new model for the language selection view.
func newLanguageModel() languageModel {
	choices := i18n.GetAvailableLocales()

	keys := make([]string, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return languageModel{choices: choices, orderedKeys: keys}
}

func (m languageModel) Init() tea.Cmd                           { return nil }
func (m languageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return m, nil }

// View for languageModel.
func (m languageModel) View() string {
	title := mainTitleStyle.Render("🌐 " + i18n.T("menu.language"))

	var listItems []string
	for i, langCode := range m.orderedKeys {
		displayName := m.choices[langCode]
		if m.cursor == i {
			listItems = append(listItems, selectedItemStyle.Render("▸ "+displayName))
		} else {
			listItems = append(listItems, itemStyle.Render("  "+displayName))
		}
	}

	paneStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(1, 2)
	listPane := paneStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, listItems...))

	return lipgloss.JoinVertical(lipgloss.Left, title, "", listPane, "",
		helpStyle.Render("("+i18n.T("footer.confirm")+", "+i18n.T("footer.back")+")"))
}

// Run is the main entrypoint for the TUI. It initializes and runs the
// Bubble Tea program.
func Run() {
	if _, err := tea.NewProgram(initialModel()).Run(); err != nil {
		logging.Errorf("TUI run error: %v", err)
		os.Exit(1)
	}
}
