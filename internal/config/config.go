package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	StoreBackend      string   `env:"STORE_BACKEND, default=memory"`
	DatabaseURL       string   `env:"DATABASE_URL"`
	HTTPListenAddr    string   `env:"HTTP_LISTEN_ADDR, default=:8080"`
	MetricsListenAddr string   `env:"METRICS_LISTEN_ADDR"`
	LogLevel          string   `env:"LOG_LEVEL, default=info"`
	ServiceName       string   `env:"SERVICE_NAME, default=customer-api"`
	CORSOrigins       []string `env:"CORS_ORIGINS"`
	// SeedCount is the number of synthetic customers created at startup.
	SeedCount      int  `env:"SEED_COUNT, default=0"`
	MigrateOnStart bool `env:"MIGRATE_ON_START, default=false"`
}

func Load(ctx context.Context) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration from environment: %w", err)
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))

	var origins []string
	for _, o := range cfg.CORSOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	cfg.CORSOrigins = origins

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("missing required config: DATABASE_URL (required for STORE_BACKEND=%s)", BackendPostgres)
		}
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q: must be %s or %s", c.StoreBackend, BackendMemory, BackendPostgres)
	}

	if c.HTTPListenAddr == "" {
		return fmt.Errorf("missing required config: HTTP_LISTEN_ADDR")
	}
	if c.SeedCount < 0 {
		return fmt.Errorf("SEED_COUNT must not be negative, got %d", c.SeedCount)
	}
	return nil
}

// UsesPostgres reports whether the persistent backend is selected.
func (c *Config) UsesPostgres() bool {
	return c.StoreBackend == BackendPostgres
}
