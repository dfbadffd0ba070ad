// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/cashpoint/internal/model"
)

// WriteStatement renders a plain-text statement for an account: a header,
// one line per ledger entry, and the closing balance.
func WriteStatement(w io.Writer, account *model.Account, txns []model.Transaction) error {
	if _, err := fmt.Fprintf(w, "Statement for account %s\n", account.Number); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "----------------------------------------"); err != nil {
		return err
	}
	for _, t := range txns {
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "----------------------------------------"); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Closing balance: %d\n", account.Balance)
	return err
}

// WriteCompressedStatement writes the statement through a zstd stream, for
// archival exports.
func WriteCompressedStatement(w io.Writer, account *model.Account, txns []model.Transaction) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	if err := WriteStatement(zw, account, txns); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}
