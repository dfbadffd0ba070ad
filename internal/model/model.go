// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the core domain types for Cashpoint: customers,
// accounts, cards and the typed transaction ledger. The types carry no
// storage or UI concerns; those live in internal/db and internal/tui.
package model

import (
	"fmt"
	"time"
)

// CardClass is the closed set of card products a branch can issue.
type CardClass string

const (
	CardClassDebit  CardClass = "debit"
	CardClassCredit CardClass = "credit"
)

// ParseCardClass maps a config/seed string onto a CardClass.
func ParseCardClass(s string) (CardClass, error) {
	switch CardClass(s) {
	case CardClassDebit, CardClassCredit:
		return CardClass(s), nil
	}
	return "", fmt.Errorf("unknown card class: %q", s)
}

// TxType is the closed tagged set of ledger entry variants. A transfer is
// recorded as two entries sharing one logical movement: a debit on the
// sender and a credit on the recipient.
type TxType string

const (
	TxDeposit        TxType = "deposit"
	TxWithdrawal     TxType = "withdrawal"
	TxBalanceInquiry TxType = "balance_inquiry"
	TxTransferDebit  TxType = "transfer_debit"
	TxTransferCredit TxType = "transfer_credit"
)

// Valid reports whether t is one of the known ledger entry variants.
func (t TxType) Valid() bool {
	switch t {
	case TxDeposit, TxWithdrawal, TxBalanceInquiry, TxTransferDebit, TxTransferCredit:
		return true
	}
	return false
}

// Card is the authentication credential for an account. The PIN is held in
// clear inside the process; it must never appear in rendered output, which
// is why String masks everything but the card number and class.
type Card struct {
	ID        int
	AccountID int
	Number    string
	PIN       string
	Class     CardClass
}

// String returns the card number and class. The PIN is deliberately omitted.
func (c Card) String() string {
	return fmt.Sprintf("%s (%s)", c.Number, c.Class)
}

// Account holds a balance in minor currency units and is the owner of an
// append-only transaction history kept in the ledger table.
type Account struct {
	ID         int
	CustomerID int
	Number     string
	Balance    int64
}

// String returns the account number and current balance.
func (a Account) String() string {
	return fmt.Sprintf("%s (balance: %d)", a.Number, a.Balance)
}

// Customer is the owner of one or more accounts. Contact data is carried
// for display only; no correctness rule depends on it.
type Customer struct {
	ID      int
	Name    string
	Phone   string
	Email   string
	Address string
}

// String returns the customer's name and contact summary.
func (c Customer) String() string {
	return fmt.Sprintf("%s <%s>", c.Name, c.Email)
}

// Transaction is one applied, immutable ledger entry. Seq is the 1-based,
// per-account sequence number; amounts are signed (withdrawals and transfer
// debits are negative). Counterparty is set on transfer entries only and
// holds the other account's number.
type Transaction struct {
	ID           int
	AccountID    int
	Seq          int
	Type         TxType
	Amount       int64
	Counterparty string
	CreatedAt    time.Time
}

// String renders a single history line: id, type, signed amount, timestamp.
func (t Transaction) String() string {
	line := fmt.Sprintf("#%d %s %+d", t.Seq, t.Type, t.Amount)
	if t.Counterparty != "" {
		line += fmt.Sprintf(" (%s)", t.Counterparty)
	}
	return line + " " + t.CreatedAt.Format("2006-01-02 15:04:05")
}

// AuditLogEntry represents a single audit log record: who did what, when.
// Rejected operations (bad PINs, over-withdrawals) land here, not in the
// ledger, so ledger sequence numbers stay contiguous.
type AuditLogEntry struct {
	ID        int
	Timestamp string
	Username  string
	Action    string
	Details   string
}

// MenuOption is the closed enumeration of operations an authenticated
// session can dispatch.
type MenuOption int

const (
	MenuDeposit MenuOption = iota + 1
	MenuWithdraw
	MenuBalanceInquiry
	MenuTransactionHistory
	MenuChangePIN
	MenuTransfer
	MenuExit
)

// MenuOptions lists all dispatchable options in display order.
func MenuOptions() []MenuOption {
	return []MenuOption{
		MenuDeposit,
		MenuWithdraw,
		MenuBalanceInquiry,
		MenuTransactionHistory,
		MenuChangePIN,
		MenuTransfer,
		MenuExit,
	}
}
