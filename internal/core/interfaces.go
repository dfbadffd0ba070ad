// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core contains small, deterministic interface definitions used by
// the session engine and the operation facades. Keep these interfaces
// minimal — they describe side-effect boundaries that UIs and higher-level
// services will implement.
package core

import (
	"github.com/toeirei/cashpoint/internal/model"
)

// CardStore provides card lookup and PIN maintenance.
type CardStore interface {
	GetCardByNumber(number string) (*model.Card, error)
	UpdateCardPIN(id int, newPIN string) error
}

// LedgerStore provides the balance-affecting account operations.
// Implementations will typically delegate to the DB layer.
type LedgerStore interface {
	GetAccountByID(id int) (*model.Account, error)
	GetAccountByNumber(number string) (*model.Account, error)
	Deposit(accountID int, amount int64) (*model.Transaction, error)
	Withdraw(accountID int, amount int64) (*model.Transaction, error)
	RecordBalanceInquiry(accountID int) (*model.Transaction, error)
	Transfer(fromAccountID int, toAccountNumber string, amount int64) (*model.Transaction, error)
	GetTransactionsForAccount(accountID int) ([]model.Transaction, error)
}

// AuditWriter is the minimal contract for emitting audit events.
type AuditWriter interface {
	LogAction(action, details string) error
}

// SessionStore aggregates everything a terminal session needs.
type SessionStore interface {
	CardStore
	LedgerStore
	AuditWriter
}

// SeedStore covers the mutations needed to load branch seed data.
type SeedStore interface {
	AddCustomer(name, phone, email, address string) (int, error)
	AddAccount(customerID int, number string, openingBalance int64) (int, error)
	AddCard(accountID int, number, pin string, class model.CardClass) (int, error)
}
