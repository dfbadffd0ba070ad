// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/cashpoint/internal/db"
)

// auditLogCmd prints the audit trail, newest first.
var auditLogCmd = &cobra.Command{
	Use:   "audit-log",
	Short: "Print the audit trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := db.GetAllAuditLogEntries()
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s  %-20s %-24s %s\n", e.Timestamp, e.Username, e.Action, e.Details)
		}
		return nil
	},
}
