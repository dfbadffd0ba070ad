// Copyright (c) 2025 ToeiRei
// Cashpoint - card/PIN account engine with an ATM terminal
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the Cashpoint
// application using the Cobra library. It defines the root command,
// subcommands (like seed, session, statement), flags, and the main
// entry point for execution.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/cashpoint/internal/db"
	"github.com/toeirei/cashpoint/internal/i18n"
	"github.com/toeirei/cashpoint/internal/logging"
	"github.com/toeirei/cashpoint/internal/tui"
)

var version = "dev" // this will be set by the linker
var cfgFile string

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()

	// Set defaults in viper. These are used if not set in the config file or by flags.
	viper.SetDefault("database.type", "sqlite")
	viper.SetDefault("database.dsn", ":memory:")
	viper.SetDefault("language", "en")
	viper.SetDefault("bank.name", "Cashpoint Bank")
	viper.SetDefault("bank.bic", "CSHPDEMO")
	viper.SetDefault("atm.location", "lobby")
	viper.SetDefault("debug", false)
}

// newRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cashpoint",
		Short: "Cashpoint is a card/PIN account engine with an ATM terminal.",
		Long: `Cashpoint keeps customer accounts, cards and a typed transaction
ledger in a database and puts an ATM-style terminal in front of them.
Card plus PIN authenticates a bounded session; deposits, withdrawals,
transfers and balance inquiries are recorded as immutable ledger entries.

Running without a subcommand will launch the interactive terminal.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize i18n and the database for all commands.
			// Viper has already read the config by this point.
			i18n.Init(viper.GetString("language"))
			logging.SetDebug(viper.GetBool("debug"))
			db.SetDebug(viper.GetBool("debug"))

			dbType := viper.GetString("database.type")
			dsn := viper.GetString("database.dsn")
			if err := db.InitDB(dbType, dsn); err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}
			// An in-memory database starts empty every run; load the demo
			// branch so the terminal has something to work with. The seed
			// command loads its own data.
			if dsn == ":memory:" && cmd.Name() != "seed" {
				if err := seedDemo(); err != nil {
					return fmt.Errorf("load demo data: %w", err)
				}
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			// The database is already initialized by PersistentPreRunE.
			tui.Run()
		},
	}

	// Add subcommands to the newly created root command.
	cmd.AddCommand(seedCmd)
	cmd.AddCommand(sessionCmd)
	cmd.AddCommand(statementCmd)
	cmd.AddCommand(auditLogCmd)
	cmd.AddCommand(dbMaintainCmd)

	// Set version
	cmd.Version = version

	// Define flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cashpoint.yaml or ./cashpoint.yaml)")
	cmd.PersistentFlags().String("db-type", "sqlite", "Database type (e.g., sqlite, postgres)")
	cmd.PersistentFlags().String("db-dsn", ":memory:", "Database connection string (DSN)")
	cmd.PersistentFlags().String("lang", "en", `Terminal language ("en", "de")`)
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	// Bind flags to viper
	viper.BindPFlag("database.type", cmd.PersistentFlags().Lookup("db-type"))
	viper.BindPFlag("database.dsn", cmd.PersistentFlags().Lookup("db-dsn"))
	viper.BindPFlag("language", cmd.PersistentFlags().Lookup("lang"))
	viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))

	return cmd
}

// initConfig reads in a configuration file and environment variables.
// It uses Viper to search for a config file (e.g., .cashpoint.yaml) in the
// home and current directories. If a config file is not found, it attempts
// to create a default one. It also binds environment variables prefixed
// with "CASHPOINT".
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory and current directory with name ".cashpoint" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".cashpoint")
	}

	viper.SetEnvPrefix("CASHPOINT")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can create one with default
		// values to make configuration discoverable for the user.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			const defaultConfigPath = ".cashpoint.yaml"
			defaultContent := `# Cashpoint configuration file.
# This file is automatically generated with default values.
# You can modify these settings to configure Cashpoint.

database:
  # The type of database to use. Supported values: "sqlite", "postgres", "mysql".
  # Note: PostgreSQL and MySQL support is experimental.
  type: sqlite

  # The Data Source Name (DSN) for the database connection.
  # For SQLite, this is the path to the database file. ":memory:" keeps
  # everything in RAM and loads the built-in demo branch on startup.
  dsn: ":memory:"

# The default language for the terminal. Supported: "en", "de".
language: en

# Branding shown on the terminal.
bank:
  name: Cashpoint Bank
  bic: CSHPDEMO

atm:
  location: lobby

# Example for PostgreSQL:
# database:
#   type: postgres
#   dsn: "host=localhost user=cashpoint password=secret dbname=cashpoint port=5432 sslmode=disable"

# Example for MySQL:
# database:
#   type: mysql
#   dsn: "cashpoint:password@tcp(127.0.0.1:3306)/cashpoint?parseTime=true"
`
			// If writing fails (e.g., due to permissions), we don't treat it
			// as a fatal error. The app will simply run with the default
			// values set in memory.
			if err := os.WriteFile(defaultConfigPath, []byte(defaultContent), 0644); err == nil {
				fmt.Println("No config file found. Created a default '.cashpoint.yaml' in the current directory.")
			}
		}
	}
}
