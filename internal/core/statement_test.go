// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/cashpoint/internal/model"
)

func statementFixture() (*model.Account, []model.Transaction) {
	acc := &model.Account{ID: 1, Number: "CP-100001", Balance: 900}
	when := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		{AccountID: 1, Seq: 1, Type: model.TxDeposit, Amount: 200, CreatedAt: when},
		{AccountID: 1, Seq: 2, Type: model.TxTransferDebit, Amount: -300, Counterparty: "CP-200001", CreatedAt: when},
	}
	return acc, txns
}

func TestWriteStatement(t *testing.T) {
	acc, txns := statementFixture()
	var buf bytes.Buffer
	if err := WriteStatement(&buf, acc, txns); err != nil {
		t.Fatalf("WriteStatement failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Statement for account CP-100001",
		"#1 deposit +200",
		"#2 transfer_debit -300 (CP-200001)",
		"Closing balance: 900",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("statement missing %q:\n%s", want, out)
		}
	}
}

func TestWriteCompressedStatement_RoundTrip(t *testing.T) {
	acc, txns := statementFixture()
	var buf bytes.Buffer
	if err := WriteCompressedStatement(&buf, acc, txns); err != nil {
		t.Fatalf("WriteCompressedStatement failed: %v", err)
	}

	zr, err := zstd.NewReader(&buf)
	if err != nil {
		t.Fatalf("zstd.NewReader failed: %v", err)
	}
	defer zr.Close()
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}

	var want bytes.Buffer
	if err := WriteStatement(&want, acc, txns); err != nil {
		t.Fatalf("WriteStatement failed: %v", err)
	}
	if !bytes.Equal(plain, want.Bytes()) {
		t.Fatalf("compressed statement does not round-trip:\n%s", plain)
	}
}
