// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// This file holds the store behavior shared by all dialects: the Bun query
// helpers plus audit logging for mutating operations. The dialect store
// types delegate here so the audit trail is identical across backends.
package db

import (
	"errors"
	"fmt"

	"github.com/toeirei/cashpoint/internal/model"
	"github.com/uptrace/bun"
)

func addCustomerLogged(bdb *bun.DB, name, phone, email, address string) (int, error) {
	id, err := AddCustomerBun(bdb, name, phone, email, address)
	if err == nil {
		_ = LogActionBun(bdb, "ADD_CUSTOMER", fmt.Sprintf("customer: %s", name))
	}
	return id, err
}

func addAccountLogged(bdb *bun.DB, customerID int, number string, openingBalance int64) (int, error) {
	id, err := AddAccountBun(bdb, customerID, number, openingBalance)
	if err == nil {
		_ = LogActionBun(bdb, "ADD_ACCOUNT", fmt.Sprintf("account: %s, opening_balance: %d", number, openingBalance))
	}
	return id, err
}

// validPIN reports whether pin is exactly four ASCII digits.
func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func addCardLogged(bdb *bun.DB, accountID int, number string, pin string, class model.CardClass) (int, error) {
	if !validPIN(pin) {
		return 0, ErrInvalidPIN
	}
	id, err := AddCardBun(bdb, accountID, number, pin, class)
	if err == nil {
		// The PIN never reaches the audit trail.
		_ = LogActionBun(bdb, "ADD_CARD", fmt.Sprintf("card: %s (%s), account_id: %d", number, class, accountID))
	}
	return id, err
}

func updateCardPINLogged(bdb *bun.DB, id int, newPIN string) error {
	if !validPIN(newPIN) {
		return ErrInvalidPIN
	}
	err := UpdateCardPINBun(bdb, id, newPIN)
	if err == nil {
		_ = LogActionBun(bdb, "CHANGE_PIN", fmt.Sprintf("card_id: %d", id))
	}
	return err
}

func depositLogged(bdb *bun.DB, accountID int, amount int64) (*model.Transaction, error) {
	t, err := DepositBun(bdb, accountID, amount)
	if err == nil {
		_ = LogActionBun(bdb, "DEPOSIT", fmt.Sprintf("account_id: %d, amount: %d", accountID, amount))
	}
	return t, err
}

func withdrawLogged(bdb *bun.DB, accountID int, amount int64) (*model.Transaction, error) {
	t, err := WithdrawBun(bdb, accountID, amount)
	switch {
	case err == nil:
		_ = LogActionBun(bdb, "WITHDRAWAL", fmt.Sprintf("account_id: %d, amount: %d", accountID, amount))
	case errors.Is(err, ErrInsufficientFunds):
		// Rejections are visible in the audit trail, not in the ledger.
		_ = LogActionBun(bdb, "WITHDRAWAL_REJECTED", fmt.Sprintf("account_id: %d, amount: %d", accountID, amount))
	}
	return t, err
}

func transferLogged(bdb *bun.DB, fromAccountID int, toAccountNumber string, amount int64) (*model.Transaction, error) {
	t, err := TransferBun(bdb, fromAccountID, toAccountNumber, amount)
	switch {
	case err == nil:
		_ = LogActionBun(bdb, "TRANSFER", fmt.Sprintf("from_account_id: %d, to_account: %s, amount: %d", fromAccountID, toAccountNumber, amount))
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrRecipientNotFound), errors.Is(err, ErrSameAccount):
		_ = LogActionBun(bdb, "TRANSFER_REJECTED", fmt.Sprintf("from_account_id: %d, to_account: %s, amount: %d, reason: %v", fromAccountID, toAccountNumber, amount, err))
	}
	return t, err
}
