// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Cashpoint.
// This file contains the SQLite implementation of the database store.
// SQLite (with DSN ":memory:") is the default backend.
package db // import "github.com/toeirei/cashpoint/internal/db"

import (
	"github.com/toeirei/cashpoint/internal/model"
	"github.com/uptrace/bun"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct {
	bun *bun.DB
}

func (s *SqliteStore) AddCustomer(name, phone, email, address string) (int, error) {
	return addCustomerLogged(s.bun, name, phone, email, address)
}

func (s *SqliteStore) GetAllCustomers() ([]model.Customer, error) {
	return GetAllCustomersBun(s.bun)
}

func (s *SqliteStore) GetCustomerByID(id int) (*model.Customer, error) {
	return GetCustomerByIDBun(s.bun, id)
}

func (s *SqliteStore) AddAccount(customerID int, number string, openingBalance int64) (int, error) {
	return addAccountLogged(s.bun, customerID, number, openingBalance)
}

func (s *SqliteStore) GetAccountByID(id int) (*model.Account, error) {
	return GetAccountByIDBun(s.bun, id)
}

func (s *SqliteStore) GetAccountByNumber(number string) (*model.Account, error) {
	return GetAccountByNumberBun(s.bun, number)
}

func (s *SqliteStore) GetAllAccounts() ([]model.Account, error) {
	return GetAllAccountsBun(s.bun)
}

func (s *SqliteStore) GetAccountsForCustomer(customerID int) ([]model.Account, error) {
	return GetAccountsForCustomerBun(s.bun, customerID)
}

func (s *SqliteStore) AddCard(accountID int, number, pin string, class model.CardClass) (int, error) {
	return addCardLogged(s.bun, accountID, number, pin, class)
}

func (s *SqliteStore) GetCardByNumber(number string) (*model.Card, error) {
	return GetCardByNumberBun(s.bun, number)
}

func (s *SqliteStore) GetCardsForAccount(accountID int) ([]model.Card, error) {
	return GetCardsForAccountBun(s.bun, accountID)
}

func (s *SqliteStore) UpdateCardPIN(id int, newPIN string) error {
	return updateCardPINLogged(s.bun, id, newPIN)
}

func (s *SqliteStore) Deposit(accountID int, amount int64) (*model.Transaction, error) {
	return depositLogged(s.bun, accountID, amount)
}

func (s *SqliteStore) Withdraw(accountID int, amount int64) (*model.Transaction, error) {
	return withdrawLogged(s.bun, accountID, amount)
}

func (s *SqliteStore) RecordBalanceInquiry(accountID int) (*model.Transaction, error) {
	return RecordBalanceInquiryBun(s.bun, accountID)
}

func (s *SqliteStore) Transfer(fromAccountID int, toAccountNumber string, amount int64) (*model.Transaction, error) {
	return transferLogged(s.bun, fromAccountID, toAccountNumber, amount)
}

func (s *SqliteStore) GetTransactionsForAccount(accountID int) ([]model.Transaction, error) {
	return GetTransactionsForAccountBun(s.bun, accountID)
}

func (s *SqliteStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

func (s *SqliteStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}
