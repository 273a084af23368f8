package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/edvin/customers/internal/api"
	"github.com/edvin/customers/internal/config"
	"github.com/edvin/customers/internal/db"
	"github.com/edvin/customers/internal/metrics"
	"github.com/edvin/customers/internal/store"
	"github.com/edvin/customers/internal/store/memory"
	"github.com/edvin/customers/internal/store/postgres"
)

type backend struct {
	store  store.CustomerStore
	pinger api.Pinger
	close  func()
}

// openBackend builds the configured store wrapped with operation metrics.
func openBackend(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, logger zerolog.Logger) (*backend, error) {
	if !cfg.UsesPostgres() {
		logger.Info().Msg("using in-memory customer store")
		return &backend{
			store: metrics.InstrumentStore(config.BackendMemory, memory.New()),
			close: func() {},
		}, nil
	}

	if cfg.MigrateOnStart {
		logger.Info().Msg("running database migrations")
		if err := db.Migrate(cfg.DatabaseURL, "up"); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to customer database: %w", err)
	}
	if reg != nil {
		if err := metrics.RegisterPoolMetrics(reg, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("register pool metrics: %w", err)
		}
	}

	logger.Info().Msg("using postgres customer store")
	return &backend{
		store:  metrics.InstrumentStore(config.BackendPostgres, postgres.New(pool)),
		pinger: pool,
		close:  pool.Close,
	}, nil
}

func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
