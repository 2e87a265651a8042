package main

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/mandalnilabja/goatlate/internal/config"
	"github.com/mandalnilabja/goatlate/internal/storage"
)

// openStorage opens the usage ledger, or returns nil when it is disabled.
func openStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.DisableUsageLog {
		logger.Info("usage log disabled")
		return nil, nil
	}
	if err := config.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	store, err := storage.NewSQLiteStorage(config.DBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open usage log: %w", err)
	}
	return store, nil
}

// newCache creates the shared cache for model lists and admin auth.
func newCache() (*ristretto.Cache[string, any], error) {
	return ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: 1e5,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
}

// checkConfig logs settings that will make requests fail.
func checkConfig(cfg *config.Config, logger *slog.Logger) {
	if cfg.APIKey == "" {
		logger.Warn("provider API key is not set; relay requests will fail",
			"provider", cfg.Provider, "env", cfg.APIKeyEnv())
	}
	if cfg.Provider == config.ProviderAzureFoundry && cfg.BaseURL == "" {
		logger.Warn("azurefoundry needs an endpoint", "env", "GOATLATE_BASE_URL")
	}
}
