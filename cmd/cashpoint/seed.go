// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/cashpoint/internal/core"
	"github.com/toeirei/cashpoint/internal/db"
	"github.com/toeirei/cashpoint/internal/logging"
)

// seedCmd loads branch data (customers, accounts, cards) into the database,
// either from a YAML file or the built-in demo branch.
var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Load branch data from a YAML seed file (or the built-in demo)",
	Long: `Loads customers, accounts and cards into the database.
With a file argument the YAML seed file is parsed and applied; without
one the built-in demo branch is loaded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			if err := seedDemo(); err != nil {
				return err
			}
			logging.Infof("demo branch loaded")
			return nil
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		sf, err := core.ParseSeedFile(data)
		if err != nil {
			return err
		}
		if err := core.ApplySeed(db.DefaultStore(), sf); err != nil {
			return err
		}
		logging.Infof("seed file %s applied", args[0])
		return nil
	},
}

// seedDemo loads the built-in demo branch. Used by the seed command and by
// the root command when running against an in-memory database.
func seedDemo() error {
	return core.ApplySeed(db.DefaultStore(), core.DemoSeed())
}
