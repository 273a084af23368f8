package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/customers/internal/api"
	"github.com/edvin/customers/internal/logging"
	"github.com/edvin/customers/internal/metrics"
	"github.com/edvin/customers/internal/seed"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the customer HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(cfg)

	b, err := openBackend(ctx, cfg, prometheus.DefaultRegisterer, logger)
	if err != nil {
		return err
	}
	defer b.close()

	if cfg.SeedCount > 0 {
		seeder, err := seed.New(b.store)
		if err != nil {
			return err
		}
		created, err := seeder.Seed(ctx, cfg.SeedCount)
		if err != nil {
			return err
		}
		logger.Info().Int("count", len(created)).Msg("seeded customers")
	}

	srv := api.NewServer(logger, b.store, b.pinger, prometheus.DefaultGatherer, cfg)

	servers := []*http.Server{{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}}
	if cfg.MetricsListenAddr != "" {
		servers = append(servers, metrics.NewServer(cfg.MetricsListenAddr, prometheus.DefaultGatherer))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(func() error {
			logger.Info().Str("addr", s.Addr).Msg("starting HTTP server")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var errs []error
		for _, s := range servers {
			errs = append(errs, s.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
