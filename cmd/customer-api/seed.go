package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edvin/customers/internal/config"
	"github.com/edvin/customers/internal/logging"
	"github.com/edvin/customers/internal/seed"
)

var seedCount int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert synthetic customers into the database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if seedCount < 1 {
			return fmt.Errorf("--count must be at least 1")
		}

		ctx := cmd.Context()
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		if !cfg.UsesPostgres() {
			return fmt.Errorf("seed requires STORE_BACKEND=%s; the memory store does not outlive this command", config.BackendPostgres)
		}

		logger := logging.NewLogger(cfg)

		b, err := openBackend(ctx, cfg, nil, logger)
		if err != nil {
			return err
		}
		defer b.close()

		seeder, err := seed.New(b.store)
		if err != nil {
			return err
		}
		created, err := seeder.Seed(ctx, seedCount)
		logger.Info().Int("count", len(created)).Msg("seeded customers")
		return err
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 10, "number of customers to create")
}
