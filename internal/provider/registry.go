package provider

import (
	"fmt"

	"github.com/mandalnilabja/goatlate/internal/config"
	"github.com/mandalnilabja/goatlate/internal/provider/azurefoundry"
	"github.com/mandalnilabja/goatlate/internal/provider/gemini"
	"github.com/mandalnilabja/goatlate/internal/provider/openrouter"
)

// NewProviders returns a map of all available LLM providers.
// The map key is the provider identifier used in config.
func NewProviders(cfg *config.Config) map[string]Provider {
	return map[string]Provider{
		config.ProviderGemini:       gemini.New(baseURLFor(cfg, config.ProviderGemini)),
		config.ProviderOpenRouter:   openrouter.New(baseURLFor(cfg, config.ProviderOpenRouter)),
		config.ProviderAzureFoundry: azurefoundry.New(cfg.BaseURL, cfg.APIVersion),
	}
}

// New returns the provider selected by cfg.Provider.
func New(cfg *config.Config) (Provider, error) {
	p, ok := NewProviders(cfg)[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	return p, nil
}

// baseURLFor applies the base URL override only to the selected provider.
func baseURLFor(cfg *config.Config, name string) string {
	if cfg.Provider == name {
		return cfg.BaseURL
	}
	return ""
}
