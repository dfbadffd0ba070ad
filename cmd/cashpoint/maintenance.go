// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/cashpoint/internal/db"
	"github.com/toeirei/cashpoint/internal/logging"
)

// dbMaintainCmd runs engine-specific database maintenance (VACUUM,
// OPTIMIZE TABLE, integrity checks).
var dbMaintainCmd = &cobra.Command{
	Use:   "db-maintain",
	Short: "Run database maintenance for the configured backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := viper.GetString("database.type")
		dsn := viper.GetString("database.dsn")
		if err := db.RunDBMaintenance(dbType, dsn); err != nil {
			return err
		}
		logging.Infof("database maintenance completed for %s", dbType)
		return nil
	},
}
