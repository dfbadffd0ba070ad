// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Cashpoint.
// This file contains the MySQL implementation of the database store.
// Note: This implementation is considered experimental.
package db // import "github.com/toeirei/cashpoint/internal/db"

import (
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/toeirei/cashpoint/internal/model"
	"github.com/uptrace/bun"
)

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct {
	bun *bun.DB
}

func (s *MySQLStore) AddCustomer(name, phone, email, address string) (int, error) {
	return addCustomerLogged(s.bun, name, phone, email, address)
}

func (s *MySQLStore) GetAllCustomers() ([]model.Customer, error) {
	return GetAllCustomersBun(s.bun)
}

func (s *MySQLStore) GetCustomerByID(id int) (*model.Customer, error) {
	return GetCustomerByIDBun(s.bun, id)
}

func (s *MySQLStore) AddAccount(customerID int, number string, openingBalance int64) (int, error) {
	return addAccountLogged(s.bun, customerID, number, openingBalance)
}

func (s *MySQLStore) GetAccountByID(id int) (*model.Account, error) {
	return GetAccountByIDBun(s.bun, id)
}

func (s *MySQLStore) GetAccountByNumber(number string) (*model.Account, error) {
	return GetAccountByNumberBun(s.bun, number)
}

func (s *MySQLStore) GetAllAccounts() ([]model.Account, error) {
	return GetAllAccountsBun(s.bun)
}

func (s *MySQLStore) GetAccountsForCustomer(customerID int) ([]model.Account, error) {
	return GetAccountsForCustomerBun(s.bun, customerID)
}

func (s *MySQLStore) AddCard(accountID int, number, pin string, class model.CardClass) (int, error) {
	return addCardLogged(s.bun, accountID, number, pin, class)
}

func (s *MySQLStore) GetCardByNumber(number string) (*model.Card, error) {
	return GetCardByNumberBun(s.bun, number)
}

func (s *MySQLStore) GetCardsForAccount(accountID int) ([]model.Card, error) {
	return GetCardsForAccountBun(s.bun, accountID)
}

func (s *MySQLStore) UpdateCardPIN(id int, newPIN string) error {
	return updateCardPINLogged(s.bun, id, newPIN)
}

func (s *MySQLStore) Deposit(accountID int, amount int64) (*model.Transaction, error) {
	return depositLogged(s.bun, accountID, amount)
}

func (s *MySQLStore) Withdraw(accountID int, amount int64) (*model.Transaction, error) {
	return withdrawLogged(s.bun, accountID, amount)
}

func (s *MySQLStore) RecordBalanceInquiry(accountID int) (*model.Transaction, error) {
	return RecordBalanceInquiryBun(s.bun, accountID)
}

func (s *MySQLStore) Transfer(fromAccountID int, toAccountNumber string, amount int64) (*model.Transaction, error) {
	return transferLogged(s.bun, fromAccountID, toAccountNumber, amount)
}

func (s *MySQLStore) GetTransactionsForAccount(accountID int) ([]model.Transaction, error) {
	return GetTransactionsForAccountBun(s.bun, accountID)
}

func (s *MySQLStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

func (s *MySQLStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}
