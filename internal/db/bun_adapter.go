// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"os/user"
	"strings"
	"time"

	"github.com/toeirei/cashpoint/internal/model"
	"github.com/uptrace/bun"
)

// CustomerModel maps the `customers` table for Bun queries. The contact
// columns are NOT NULL with an empty-string default, so they map to plain
// strings here.
type CustomerModel struct {
	bun.BaseModel `bun:"table:customers"`
	ID            int    `bun:"id,pk,autoincrement"`
	Name          string `bun:"name"`
	Phone         string `bun:"phone"`
	Email         string `bun:"email"`
	Address       string `bun:"address"`
}

// AccountModel maps the `accounts` table for Bun queries.
type AccountModel struct {
	bun.BaseModel `bun:"table:accounts"`
	ID            int    `bun:"id,pk,autoincrement"`
	CustomerID    int    `bun:"customer_id"`
	Number        string `bun:"number"`
	Balance       int64  `bun:"balance"`
}

// CardModel maps the `cards` table.
type CardModel struct {
	bun.BaseModel `bun:"table:cards"`
	ID            int    `bun:"id,pk,autoincrement"`
	AccountID     int    `bun:"account_id"`
	Number        string `bun:"number"`
	PIN           string `bun:"pin"`
	Class         string `bun:"class"`
}

// TransactionModel maps the `transactions` table.
type TransactionModel struct {
	bun.BaseModel `bun:"table:transactions"`
	ID            int            `bun:"id,pk,autoincrement"`
	AccountID     int            `bun:"account_id"`
	Seq           int            `bun:"seq"`
	Type          string         `bun:"type"`
	Amount        int64          `bun:"amount"`
	Counterparty  sql.NullString `bun:"counterparty"`
	CreatedAt     time.Time      `bun:"created_at"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// --- Mapping helpers (centralized conversions) ---

func customerModelToModel(c CustomerModel) model.Customer {
	return model.Customer{
		ID:      c.ID,
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
	}
}

func accountModelToModel(a AccountModel) model.Account {
	return model.Account{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Number:     a.Number,
		Balance:    a.Balance,
	}
}

func cardModelToModel(c CardModel) model.Card {
	return model.Card{
		ID:        c.ID,
		AccountID: c.AccountID,
		Number:    c.Number,
		PIN:       c.PIN,
		Class:     model.CardClass(c.Class),
	}
}

func transactionModelToModel(t TransactionModel) model.Transaction {
	return model.Transaction{
		ID:           t.ID,
		AccountID:    t.AccountID,
		Seq:          t.Seq,
		Type:         model.TxType(t.Type),
		Amount:       t.Amount,
		Counterparty: t.Counterparty.String,
		CreatedAt:    t.CreatedAt,
	}
}

// --- Customer queries ---

// AddCustomerBun inserts a new customer and returns its ID.
func AddCustomerBun(bdb *bun.DB, name, phone, email, address string) (int, error) {
	ctx := context.Background()
	cm := &CustomerModel{Name: name, Phone: phone, Email: email, Address: address}
	if _, err := bdb.NewInsert().Model(cm).Column("name", "phone", "email", "address").Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return cm.ID, nil
}

// GetAllCustomersBun returns all customers ordered by name.
func GetAllCustomersBun(bdb *bun.DB) ([]model.Customer, error) {
	ctx := context.Background()
	var cm []CustomerModel
	if err := bdb.NewSelect().Model(&cm).OrderExpr("name").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Customer, 0, len(cm))
	for _, c := range cm {
		out = append(out, customerModelToModel(c))
	}
	return out, nil
}

// GetCustomerByIDBun returns a single customer, or nil when no row matches.
func GetCustomerByIDBun(bdb *bun.DB, id int) (*model.Customer, error) {
	ctx := context.Background()
	var cm CustomerModel
	err := bdb.NewSelect().Model(&cm).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	m := customerModelToModel(cm)
	return &m, nil
}

// --- Account queries ---

// AddAccountBun inserts a new account with an opening balance and returns its ID.
func AddAccountBun(bdb *bun.DB, customerID int, number string, openingBalance int64) (int, error) {
	ctx := context.Background()
	if openingBalance < 0 {
		return 0, ErrInvalidAmount
	}
	am := &AccountModel{CustomerID: customerID, Number: number, Balance: openingBalance}
	if _, err := bdb.NewInsert().Model(am).Column("customer_id", "number", "balance").Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return am.ID, nil
}

// GetAccountByIDBun returns one account by primary key.
func GetAccountByIDBun(bdb *bun.DB, id int) (*model.Account, error) {
	ctx := context.Background()
	var am AccountModel
	err := bdb.NewSelect().Model(&am).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	m := accountModelToModel(am)
	return &m, nil
}

// GetAccountByNumberBun resolves an account by its unique number. This is
// the flattened bank-wide index that transfer recipient lookup consults.
func GetAccountByNumberBun(bdb *bun.DB, number string) (*model.Account, error) {
	ctx := context.Background()
	var am AccountModel
	err := bdb.NewSelect().Model(&am).Where("number = ?", number).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	m := accountModelToModel(am)
	return &m, nil
}

// GetAllAccountsBun returns all accounts ordered by number.
func GetAllAccountsBun(bdb *bun.DB) ([]model.Account, error) {
	ctx := context.Background()
	var am []AccountModel
	if err := bdb.NewSelect().Model(&am).OrderExpr("number").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Account, 0, len(am))
	for _, a := range am {
		out = append(out, accountModelToModel(a))
	}
	return out, nil
}

// GetAccountsForCustomerBun returns the accounts owned by one customer.
func GetAccountsForCustomerBun(bdb *bun.DB, customerID int) ([]model.Account, error) {
	ctx := context.Background()
	var am []AccountModel
	err := bdb.NewSelect().Model(&am).Where("customer_id = ?", customerID).OrderExpr("number").Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Account, 0, len(am))
	for _, a := range am {
		out = append(out, accountModelToModel(a))
	}
	return out, nil
}

// --- Card queries ---

// AddCardBun links a new card to an account and returns the card ID.
func AddCardBun(bdb *bun.DB, accountID int, number, pin string, class model.CardClass) (int, error) {
	ctx := context.Background()
	cm := &CardModel{AccountID: accountID, Number: number, PIN: pin, Class: string(class)}
	if _, err := bdb.NewInsert().Model(cm).Column("account_id", "number", "pin", "class").Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return cm.ID, nil
}

// GetCardByNumberBun resolves a card by its unique number. The indexed
// lookup replaces the original bank-wide linear scan over linked cards;
// observable behavior is identical.
func GetCardByNumberBun(bdb *bun.DB, number string) (*model.Card, error) {
	ctx := context.Background()
	var cm CardModel
	err := bdb.NewSelect().Model(&cm).Where("number = ?", number).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	m := cardModelToModel(cm)
	return &m, nil
}

// GetCardsForAccountBun returns all cards linked to an account.
func GetCardsForAccountBun(bdb *bun.DB, accountID int) ([]model.Card, error) {
	ctx := context.Background()
	var cm []CardModel
	err := bdb.NewSelect().Model(&cm).Where("account_id = ?", accountID).OrderExpr("number").Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Card, 0, len(cm))
	for _, c := range cm {
		out = append(out, cardModelToModel(c))
	}
	return out, nil
}

// UpdateCardPINBun stores a new PIN for the card. Verification of the old
// PIN happens in core; the store only persists the already-approved change.
func UpdateCardPINBun(bdb *bun.DB, id int, newPIN string) error {
	ctx := context.Background()
	res, err := bdb.NewUpdate().Model((*CardModel)(nil)).Set("pin = ?", newPIN).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCardNotFound
	}
	return nil
}

// --- Audit log ---

// GetAllAuditLogEntriesBun retrieves audit log entries ordered by timestamp desc.
func GetAllAuditLogEntriesBun(bdb *bun.DB) ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var am []AuditLogModel
	if err := bdb.NewSelect().Model(&am).OrderExpr("timestamp DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, model.AuditLogEntry{ID: a.ID, Timestamp: a.Timestamp, Username: a.Username, Action: a.Action, Details: a.Details})
	}
	return out, nil
}

// LogActionBun inserts an audit log entry with the current OS user.
func LogActionBun(bdb *bun.DB, action string, details string) error {
	ctx := context.Background()
	curUser, err := user.Current()
	username := "unknown"
	if err == nil {
		if parts := strings.Split(curUser.Username, `\`); len(parts) > 1 {
			username = parts[1]
		} else {
			username = curUser.Username
		}
	}
	_, err = ExecRaw(ctx, bdb, "INSERT INTO audit_log (username, action, details) VALUES (?, ?, ?)", username, action, details)
	return MapDBError(err)
}
