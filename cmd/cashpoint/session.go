// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/cashpoint/internal/core"
	"github.com/toeirei/cashpoint/internal/db"
	"github.com/toeirei/cashpoint/internal/i18n"
	"github.com/toeirei/cashpoint/internal/model"
	"golang.org/x/term"
)

// sessionCmd runs a plain line-mode cardholder session for terminals where
// the full-screen UI is unwanted (serial consoles, scripts, accessibility).
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run a line-mode cardholder session",
	Long: `Runs a cardholder session on plain stdin/stdout without the
full-screen terminal. PIN entry is read without echo.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLineSession(bufio.NewReader(os.Stdin))
	},
}

func runLineSession(in *bufio.Reader) error {
	session := core.NewSession(db.DefaultStore())
	fmt.Println(i18n.T("app.welcome", viper.GetString("bank.name")))

	// Card presentation, bounded by the session.
	for session.State() != core.StatePinPending {
		number, err := prompt(in, i18n.T("card.prompt"))
		if err != nil {
			return err
		}
		switch err := session.PresentCard(number); {
		case err == nil:
		case errors.Is(err, core.ErrCardRetained):
			fmt.Println(i18n.T("card.retained"))
			return nil
		case errors.Is(err, core.ErrUnknownCard):
			fmt.Println(i18n.T("card.unknown"))
		default:
			return err
		}
	}

	// PIN entry, bounded by the session.
	for session.State() != core.StateAuthenticated {
		pin, err := readPIN(in, i18n.T("pin.prompt"))
		if err != nil {
			return err
		}
		switch err := session.VerifyPIN(pin); {
		case err == nil:
		case errors.Is(err, core.ErrCardRetained):
			fmt.Println(i18n.T("pin.locked"))
			return nil
		case errors.Is(err, core.ErrWrongPIN):
			fmt.Println(i18n.T("pin.attempts_left", session.PinAttemptsLeft()))
		default:
			return err
		}
	}

	for {
		fmt.Println()
		fmt.Println(i18n.T("menu.title"))
		for _, opt := range model.MenuOptions() {
			fmt.Printf("  %d) %s\n", int(opt), lineMenuLabel(opt))
		}
		choice, err := prompt(in, ">")
		if err != nil {
			return err
		}
		done, err := dispatchLine(in, session, choice)
		if err != nil {
			return err
		}
		if done {
			session.End()
			fmt.Println(i18n.T("session.goodbye", viper.GetString("bank.name")))
			return nil
		}
	}
}

func dispatchLine(in *bufio.Reader, session *core.Session, choice string) (done bool, err error) {
	var opt model.MenuOption
	switch strings.TrimSpace(choice) {
	case "1":
		opt = model.MenuDeposit
	case "2":
		opt = model.MenuWithdraw
	case "3":
		opt = model.MenuBalanceInquiry
	case "4":
		opt = model.MenuTransactionHistory
	case "5":
		opt = model.MenuChangePIN
	case "6":
		opt = model.MenuTransfer
	case "7":
		return true, nil
	default:
		return false, nil
	}

	switch opt {
	case model.MenuDeposit, model.MenuWithdraw:
		raw, err := prompt(in, i18n.T("amount.prompt"))
		if err != nil {
			return false, err
		}
		amount, err := core.ParseAmount(raw)
		if err != nil {
			fmt.Println(i18n.T("amount.invalid"))
			return false, nil
		}
		var balance int64
		key := "deposit.success"
		if opt == model.MenuDeposit {
			balance, err = session.Deposit(amount)
		} else {
			balance, err = session.Withdraw(amount)
			key = "withdraw.success"
		}
		switch {
		case err == nil:
			fmt.Println(i18n.T(key, amount, balance))
		case errors.Is(err, db.ErrInsufficientFunds):
			fmt.Println(i18n.T("withdraw.insufficient"))
		default:
			return false, err
		}

	case model.MenuBalanceInquiry:
		balance, err := session.Balance()
		if err != nil {
			return false, err
		}
		fmt.Println(i18n.T("balance.current", balance))

	case model.MenuTransactionHistory:
		txns, err := session.History()
		if err != nil {
			return false, err
		}
		if len(txns) == 0 {
			fmt.Println(i18n.T("history.empty"))
			break
		}
		for _, t := range txns {
			fmt.Println(t)
		}

	case model.MenuChangePIN:
		oldPIN, err := readPIN(in, i18n.T("pinchange.old"))
		if err != nil {
			return false, err
		}
		newPIN, err := readPIN(in, i18n.T("pinchange.new"))
		if err != nil {
			return false, err
		}
		confirm, err := readPIN(in, i18n.T("pinchange.confirm"))
		if err != nil {
			return false, err
		}
		switch err := session.ChangePIN(oldPIN, newPIN, confirm); {
		case err == nil:
			fmt.Println(i18n.T("pinchange.success"))
		case errors.Is(err, core.ErrWrongPIN):
			fmt.Println(i18n.T("pinchange.wrong_old"))
		case errors.Is(err, core.ErrPINMismatch):
			fmt.Println(i18n.T("pinchange.mismatch"))
		case errors.Is(err, core.ErrBadPINFormat):
			fmt.Println(i18n.T("pin.format"))
		default:
			return false, err
		}

	case model.MenuTransfer:
		recipient, err := prompt(in, i18n.T("transfer.recipient"))
		if err != nil {
			return false, err
		}
		raw, err := prompt(in, i18n.T("amount.prompt"))
		if err != nil {
			return false, err
		}
		amount, err := core.ParseAmount(raw)
		if err != nil {
			fmt.Println(i18n.T("amount.invalid"))
			return false, nil
		}
		switch balance, err := session.Transfer(recipient, amount); {
		case err == nil:
			fmt.Println(i18n.T("transfer.success", amount, strings.TrimSpace(recipient), balance))
		case errors.Is(err, db.ErrRecipientNotFound):
			fmt.Println(i18n.T("transfer.recipient_unknown"))
		case errors.Is(err, db.ErrSameAccount):
			fmt.Println(i18n.T("transfer.same_account"))
		case errors.Is(err, db.ErrInsufficientFunds):
			fmt.Println(i18n.T("withdraw.insufficient"))
		default:
			return false, err
		}
	}

	return false, nil
}

func lineMenuLabel(o model.MenuOption) string {
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
	return ""
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s ", label)
	line, err := in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPIN reads without echo when stdin is a real terminal and falls back
// to plain reads otherwise (tests, pipes).
func readPIN(in *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s ", label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
