// Package infra serves the unauthenticated service endpoints: health, the
// language list and the upstream model list.
package infra

import (
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/mandalnilabja/goatlate/internal/provider"
)

// Options configures the infrastructure handlers.
type Options struct {
	Cache             *ristretto.Cache[string, any]
	StartTime         time.Time
	Provider          provider.Provider
	APIKey            string
	MissingKeyMessage string
	Languages         []string
	WebUI             bool
	Logger            *slog.Logger
}

// Handlers holds the dependencies for infrastructure HTTP handlers.
type Handlers struct {
	Cache      *ristretto.Cache[string, any]
	StartTime  time.Time
	provider   provider.Provider
	apiKey     string
	missingKey string
	languages  []string
	webUI      bool
	logger     *slog.Logger
}

// New creates a new instance of infrastructure handlers.
func New(opts Options) *Handlers {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Cache:      opts.Cache,
		StartTime:  opts.StartTime,
		provider:   opts.Provider,
		apiKey:     opts.APIKey,
		missingKey: opts.MissingKeyMessage,
		languages:  opts.Languages,
		webUI:      opts.WebUI,
		logger:     logger,
	}
}
