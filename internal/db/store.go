// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/toeirei/cashpoint/internal/model"
)

// Store defines the interface for all database operations in Cashpoint.
// This allows for multiple database backends to be implemented.
type Store interface {
	// Customer methods
	AddCustomer(name, phone, email, address string) (int, error)
	GetAllCustomers() ([]model.Customer, error)
	GetCustomerByID(id int) (*model.Customer, error)

	// Account methods
	AddAccount(customerID int, number string, openingBalance int64) (int, error)
	GetAccountByID(id int) (*model.Account, error)
	GetAccountByNumber(number string) (*model.Account, error)
	GetAllAccounts() ([]model.Account, error)
	GetAccountsForCustomer(customerID int) ([]model.Account, error)

	// Card methods
	AddCard(accountID int, number, pin string, class model.CardClass) (int, error)
	GetCardByNumber(number string) (*model.Card, error)
	GetCardsForAccount(accountID int) ([]model.Card, error)
	UpdateCardPIN(id int, newPIN string) error

	// Ledger methods. Each call is one database transaction; a failed
	// validation writes nothing and leaves the per-account sequence intact.
	Deposit(accountID int, amount int64) (*model.Transaction, error)
	Withdraw(accountID int, amount int64) (*model.Transaction, error)
	RecordBalanceInquiry(accountID int) (*model.Transaction, error)
	Transfer(fromAccountID int, toAccountNumber string, amount int64) (*model.Transaction, error)
	GetTransactionsForAccount(accountID int) ([]model.Transaction, error)

	// Audit Log methods
	LogAction(action string, details string) error
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
}
