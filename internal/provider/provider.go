// Package provider defines the upstream model capability and selects the
// configured implementation.
package provider

import (
	"context"
	"errors"

	"github.com/mandalnilabja/goatlate/internal/types"
)

// ErrUnknownProvider is returned when the configured provider is not registered.
var ErrUnknownProvider = errors.New("unknown provider")

// Provider defines the interface all LLM providers must implement
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// Generate starts a streaming completion. It returns once the upstream has
	// accepted the request; text arrives through the returned stream.
	// MUST maintain streaming semantics (no buffering)
	Generate(ctx context.Context, req *types.GenerateRequest) (types.TextStream, error)

	// ListModels returns the models the upstream offers for the given key
	ListModels(ctx context.Context, apiKey string) ([]types.Model, error)
}
