package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edvin/customers/internal/config"
	"github.com/edvin/customers/internal/db"
	"github.com/edvin/customers/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [" + strings.Join(db.MigrationCommands(), "|") + "]",
	Short:     "Apply or inspect the customer database schema",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: db.MigrationCommands(),
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) == 1 {
			command = args[0]
		}

		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		if !cfg.UsesPostgres() {
			return fmt.Errorf("migrate requires STORE_BACKEND=%s", config.BackendPostgres)
		}

		logger := logging.NewLogger(cfg)
		logger.Info().Str("command", command).Msg("running database migrations")

		return db.Migrate(cfg.DatabaseURL, command)
	},
}
