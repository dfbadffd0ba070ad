// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// This file implements the transaction ledger. Every operation runs inside
// a single database transaction: the balance update and the history row are
// committed together or not at all, and a rejected operation writes nothing,
// so per-account sequence numbers stay contiguous over applied entries.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/toeirei/cashpoint/internal/model"
	"github.com/uptrace/bun"
)

// getAccountTx reads an account row inside the given transaction.
func getAccountTx(ctx context.Context, tx bun.Tx, accountID int) (*AccountModel, error) {
	var am AccountModel
	err := tx.NewSelect().Model(&am).Where("id = ?", accountID).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &am, nil
}

// nextSeqTx computes the next 1-based per-account sequence number. Rejected
// operations never reach this point, so the sequence has no holes.
func nextSeqTx(ctx context.Context, tx bun.Tx, accountID int) (int, error) {
	var seq int
	err := QueryRawInto(ctx, tx, &seq, "SELECT COALESCE(MAX(seq), 0) + 1 FROM transactions WHERE account_id = ?", accountID)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// appendEntryTx inserts one ledger row and applies its amount to the
// account balance. The caller has already validated the movement.
func appendEntryTx(ctx context.Context, tx bun.Tx, am *AccountModel, txType model.TxType, amount int64, counterparty string) (*TransactionModel, error) {
	seq, err := nextSeqTx(ctx, tx, am.ID)
	if err != nil {
		return nil, err
	}
	tm := &TransactionModel{
		AccountID:    am.ID,
		Seq:          seq,
		Type:         string(txType),
		Amount:       amount,
		Counterparty: sql.NullString{String: counterparty, Valid: counterparty != ""},
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := tx.NewInsert().Model(tm).Column("account_id", "seq", "type", "amount", "counterparty", "created_at").Returning("id").Exec(ctx); err != nil {
		return nil, MapDBError(err)
	}
	newBalance := am.Balance + amount
	if _, err := tx.NewUpdate().Model((*AccountModel)(nil)).Set("balance = ?", newBalance).Where("id = ?", am.ID).Exec(ctx); err != nil {
		return nil, err
	}
	am.Balance = newBalance
	return tm, nil
}

// DepositBun credits an account. Positive-amount validation belongs to the
// calling handler; the ledger still refuses non-positive amounts outright.
func DepositBun(bdb *bun.DB, accountID int, amount int64) (*model.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	ctx := context.Background()
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	am, err := getAccountTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	tm, err := appendEntryTx(ctx, tx, am, model.TxDeposit, amount, "")
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	t := transactionModelToModel(*tm)
	return &t, nil
}

// WithdrawBun debits an account if the balance covers the amount. On
// insufficient funds it returns ErrInsufficientFunds with the balance
// untouched and no ledger row written.
func WithdrawBun(bdb *bun.DB, accountID int, amount int64) (*model.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	ctx := context.Background()
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	am, err := getAccountTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if am.Balance-amount < 0 {
		return nil, fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientFunds, am.Balance, amount)
	}
	tm, err := appendEntryTx(ctx, tx, am, model.TxWithdrawal, -amount, "")
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	t := transactionModelToModel(*tm)
	return &t, nil
}

// RecordBalanceInquiryBun appends a zero-amount inquiry entry so balance
// checks show up in the history alongside state-changing transactions.
// The zero amount keeps the sum-of-amounts balance invariant intact.
func RecordBalanceInquiryBun(bdb *bun.DB, accountID int) (*model.Transaction, error) {
	ctx := context.Background()
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	am, err := getAccountTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	tm, err := appendEntryTx(ctx, tx, am, model.TxBalanceInquiry, 0, "")
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	t := transactionModelToModel(*tm)
	return &t, nil
}

// TransferBun moves amount from one account to another atomically. The
// recipient is resolved and the debit validated before anything is written;
// debit and credit commit together, so a failure at any step leaves both
// balances exactly as they were.
func TransferBun(bdb *bun.DB, fromAccountID int, toAccountNumber string, amount int64) (*model.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	ctx := context.Background()
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	from, err := getAccountTx(ctx, tx, fromAccountID)
	if err != nil {
		return nil, err
	}

	// Resolve the recipient before touching the sender.
	var to AccountModel
	err = tx.NewSelect().Model(&to).Where("number = ?", toAccountNumber).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	if to.ID == from.ID {
		return nil, ErrSameAccount
	}
	if from.Balance-amount < 0 {
		return nil, fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientFunds, from.Balance, amount)
	}

	debit, err := appendEntryTx(ctx, tx, from, model.TxTransferDebit, -amount, to.Number)
	if err != nil {
		return nil, err
	}
	if _, err := appendEntryTx(ctx, tx, &to, model.TxTransferCredit, amount, from.Number); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	t := transactionModelToModel(*debit)
	return &t, nil
}

// GetTransactionsForAccountBun returns the full history of an account in
// application order (ascending sequence).
func GetTransactionsForAccountBun(bdb *bun.DB, accountID int) ([]model.Transaction, error) {
	ctx := context.Background()
	var tm []TransactionModel
	err := bdb.NewSelect().Model(&tm).Where("account_id = ?", accountID).OrderExpr("seq").Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Transaction, 0, len(tm))
	for _, t := range tm {
		out = append(out, transactionModelToModel(t))
	}
	return out, nil
}
