// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db contains shared database errors and helpers.
package db

import (
	"errors"
	"strings"
)

// Domain errors surfaced by the store. Handlers translate these into
// user-facing messages; none of them is fatal to a session.
var (
	// ErrAccountNotFound is returned when an account id or number does not resolve.
	ErrAccountNotFound = errors.New("account not found")

	// ErrCardNotFound is returned when a card number does not resolve.
	ErrCardNotFound = errors.New("card not found")

	// ErrRecipientNotFound is returned when a transfer target cannot be resolved.
	// It is checked before any debit is written.
	ErrRecipientNotFound = errors.New("recipient account not found")

	// ErrInsufficientFunds is returned when a withdrawal or transfer debit
	// would take the balance below zero. Nothing is written in that case.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount is returned for amounts <= 0 reaching the ledger.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrSameAccount is returned when a transfer names the sender as recipient.
	ErrSameAccount = errors.New("sender and recipient are the same account")

	// ErrInvalidPIN is returned when a PIN reaching the store is not four digits.
	ErrInvalidPIN = errors.New("invalid PIN format")

	// ErrDuplicate is returned when inserting a record that already exists
	// (e.g. a second account with the same number).
	ErrDuplicate = errors.New("duplicate record")
)

// MapDBError inspects low-level driver errors and maps common constraint
// violations to package-level sentinel errors (like ErrDuplicate). This is a
// conservative, string-based mapping to avoid importing SQL driver packages
// into this package file.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	le := strings.ToLower(err.Error())
	// MySQL duplicate entry, Postgres unique violation (23505), SQLite unique constraint
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062") {
		return ErrDuplicate
	}
	return err
}
