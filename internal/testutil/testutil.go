// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil holds in-memory fakes used by tests that exercise
// session logic without a database.
package testutil

import (
	"fmt"
	"time"

	"github.com/toeirei/cashpoint/internal/db"
	"github.com/toeirei/cashpoint/internal/model"
)

// MemStore is a small in-memory implementation of the session-facing store
// contract. It keeps the same rejection semantics as the DB layer (errors
// from internal/db) so session tests observe realistic behavior.
type MemStore struct {
	Accounts map[int]*model.Account   // by ID
	Cards    map[string]*model.Card   // by number
	Ledger   map[int][]model.Transaction
	Audit    []model.AuditLogEntry
}

// NewMemStore returns an empty store ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		Accounts: make(map[int]*model.Account),
		Cards:    make(map[string]*model.Card),
		Ledger:   make(map[int][]model.Transaction),
	}
}

// AddAccount registers an account under the next free ID.
func (s *MemStore) AddAccount(number string, balance int64) *model.Account {
	acc := &model.Account{ID: len(s.Accounts) + 1, Number: number, Balance: balance}
	s.Accounts[acc.ID] = acc
	return acc
}

// AddCard registers a card for an account.
func (s *MemStore) AddCard(accountID int, number, pin string, class model.CardClass) *model.Card {
	card := &model.Card{ID: len(s.Cards) + 1, AccountID: accountID, Number: number, PIN: pin, Class: class}
	s.Cards[number] = card
	return card
}

func (s *MemStore) GetCardByNumber(number string) (*model.Card, error) {
	card, ok := s.Cards[number]
	if !ok {
		return nil, db.ErrCardNotFound
	}
	return card, nil
}

func (s *MemStore) UpdateCardPIN(id int, newPIN string) error {
	for _, card := range s.Cards {
		if card.ID == id {
			card.PIN = newPIN
			return nil
		}
	}
	return db.ErrCardNotFound
}

func (s *MemStore) GetAccountByID(id int) (*model.Account, error) {
	acc, ok := s.Accounts[id]
	if !ok {
		return nil, db.ErrAccountNotFound
	}
	return acc, nil
}

func (s *MemStore) GetAccountByNumber(number string) (*model.Account, error) {
	for _, acc := range s.Accounts {
		if acc.Number == number {
			return acc, nil
		}
	}
	return nil, nil
}

func (s *MemStore) append(acc *model.Account, typ model.TxType, amount int64, counterparty string) *model.Transaction {
	txn := model.Transaction{
		ID:           len(s.Ledger[acc.ID]) + 1,
		AccountID:    acc.ID,
		Seq:          len(s.Ledger[acc.ID]) + 1,
		Type:         typ,
		Amount:       amount,
		Counterparty: counterparty,
		CreatedAt:    time.Now(),
	}
	s.Ledger[acc.ID] = append(s.Ledger[acc.ID], txn)
	acc.Balance += amount
	return &txn
}

func (s *MemStore) Deposit(accountID int, amount int64) (*model.Transaction, error) {
	if amount <= 0 {
		return nil, db.ErrInvalidAmount
	}
	acc, err := s.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	return s.append(acc, model.TxDeposit, amount, ""), nil
}

func (s *MemStore) Withdraw(accountID int, amount int64) (*model.Transaction, error) {
	if amount <= 0 {
		return nil, db.ErrInvalidAmount
	}
	acc, err := s.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if acc.Balance-amount < 0 {
		return nil, fmt.Errorf("%w: balance %d, requested %d", db.ErrInsufficientFunds, acc.Balance, amount)
	}
	return s.append(acc, model.TxWithdrawal, -amount, ""), nil
}

func (s *MemStore) RecordBalanceInquiry(accountID int) (*model.Transaction, error) {
	acc, err := s.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	return s.append(acc, model.TxBalanceInquiry, 0, ""), nil
}

func (s *MemStore) Transfer(fromAccountID int, toAccountNumber string, amount int64) (*model.Transaction, error) {
	if amount <= 0 {
		return nil, db.ErrInvalidAmount
	}
	from, err := s.GetAccountByID(fromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.GetAccountByNumber(toAccountNumber)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, db.ErrRecipientNotFound
	}
	if to.ID == from.ID {
		return nil, db.ErrSameAccount
	}
	if from.Balance-amount < 0 {
		return nil, fmt.Errorf("%w: balance %d, requested %d", db.ErrInsufficientFunds, from.Balance, amount)
	}
	debit := s.append(from, model.TxTransferDebit, -amount, to.Number)
	s.append(to, model.TxTransferCredit, amount, from.Number)
	return debit, nil
}

func (s *MemStore) GetTransactionsForAccount(accountID int) ([]model.Transaction, error) {
	return s.Ledger[accountID], nil
}

func (s *MemStore) LogAction(action, details string) error {
	s.Audit = append(s.Audit, model.AuditLogEntry{
		ID:       len(s.Audit) + 1,
		Username: "test",
		Action:   action,
		Details:  details,
	})
	return nil
}

// Actions returns just the action names, in order, for assertions.
func (s *MemStore) Actions() []string {
	out := make([]string, 0, len(s.Audit))
	for _, e := range s.Audit {
		out = append(out, e.Action)
	}
	return out
}
