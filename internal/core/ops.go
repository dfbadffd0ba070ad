// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"fmt"

	"github.com/toeirei/cashpoint/internal/model"
)

// ErrWrongPIN reports a PIN that does not match the card on file.
var ErrWrongPIN = errors.New("incorrect PIN")

// ErrPINMismatch reports that a new PIN and its confirmation differ.
var ErrPINMismatch = errors.New("new PINs do not match")

// DepositFunds credits the account and returns the updated balance.
func DepositFunds(st LedgerStore, accountID int, amount int64) (int64, error) {
	if _, err := st.Deposit(accountID, amount); err != nil {
		return 0, err
	}
	return currentBalanceOf(st, accountID)
}

// WithdrawFunds debits the account and returns the updated balance. The
// store rejects over-withdrawals without recording a ledger entry.
func WithdrawFunds(st LedgerStore, accountID int, amount int64) (int64, error) {
	if _, err := st.Withdraw(accountID, amount); err != nil {
		return 0, err
	}
	return currentBalanceOf(st, accountID)
}

// TransferFunds moves funds to the account identified by number and returns
// the sender's updated balance. The store resolves the recipient before any
// money moves, so a failed transfer leaves both accounts untouched.
func TransferFunds(st LedgerStore, fromAccountID int, toAccountNumber string, amount int64) (int64, error) {
	if _, err := st.Transfer(fromAccountID, toAccountNumber, amount); err != nil {
		return 0, err
	}
	return currentBalanceOf(st, fromAccountID)
}

// CurrentBalance reads the balance and records the inquiry in the ledger.
func CurrentBalance(st LedgerStore, accountID int) (int64, error) {
	if _, err := st.RecordBalanceInquiry(accountID); err != nil {
		return 0, err
	}
	return currentBalanceOf(st, accountID)
}

// AccountHistory returns the account's ledger entries in seq order.
func AccountHistory(st LedgerStore, accountID int) ([]model.Transaction, error) {
	return st.GetTransactionsForAccount(accountID)
}

// ChangePIN verifies the card's current PIN, checks the new PIN's format and
// confirmation, and persists the change.
func ChangePIN(st CardStore, card *model.Card, oldPIN, newPIN, confirmPIN string) error {
	if card.PIN != oldPIN {
		return ErrWrongPIN
	}
	if err := ValidatePIN(newPIN); err != nil {
		return err
	}
	if newPIN != confirmPIN {
		return ErrPINMismatch
	}
	if err := st.UpdateCardPIN(card.ID, newPIN); err != nil {
		return fmt.Errorf("update pin: %w", err)
	}
	card.PIN = newPIN
	return nil
}

func currentBalanceOf(st LedgerStore, accountID int) (int64, error) {
	acc, err := st.GetAccountByID(accountID)
	if err != nil {
		return 0, err
	}
	if acc == nil {
		return 0, fmt.Errorf("account %d not found", accountID)
	}
	return acc.Balance, nil
}
