// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/cashpoint/internal/core"
	"github.com/toeirei/cashpoint/internal/db"
)

var (
	statementOut      string
	statementCompress bool
)

func init() {
	statementCmd.Flags().StringVarP(&statementOut, "output", "o", "", "write the statement to a file instead of stdout")
	statementCmd.Flags().BoolVar(&statementCompress, "zstd", false, "compress the statement with zstd")
}

// statementCmd renders an account's ledger as a plain-text statement.
var statementCmd = &cobra.Command{
	Use:   "statement <account-number>",
	Short: "Print an account statement",
	Long: `Renders the full transaction history of an account as a plain-text
statement. Use -o to write to a file and --zstd for a compressed export.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := db.GetAccountByNumber(args[0])
		if errors.Is(err, db.ErrAccountNotFound) {
			return fmt.Errorf("no account with number %s", args[0])
		}
		if err != nil {
			return err
		}
		txns, err := db.GetTransactionsForAccount(account.ID)
		if err != nil {
			return err
		}

		out := os.Stdout
		if statementOut != "" {
			f, err := os.Create(statementOut)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		if statementCompress {
			return core.WriteCompressedStatement(out, account, txns)
		}
		return core.WriteStatement(out, account, txns)
	},
}
