// Package azurefoundry implements the Azure AI Foundry LLM provider.
package azurefoundry

import (
	"context"
	"errors"
	"net/http"

	"github.com/mandalnilabja/goatlate/internal/config"
	"github.com/mandalnilabja/goatlate/internal/provider/openai"
	"github.com/mandalnilabja/goatlate/internal/types"
)

const defaultAPIVersion = "2024-05-01-preview"

// ErrNoEndpoint is returned when no Azure endpoint is configured.
var ErrNoEndpoint = errors.New("azure ai foundry endpoint is not configured")

// Provider implements the provider.Provider interface for Azure AI Foundry.
type Provider struct {
	endpoint   string
	apiVersion string
	client     *http.Client
}

// New creates a new Azure AI Foundry provider for the given resource endpoint.
func New(endpoint, apiVersion string) *Provider {
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	return &Provider{
		endpoint:   endpoint,
		apiVersion: apiVersion,
		// DisableCompression required for streaming
		client: &http.Client{Transport: &http.Transport{DisableCompression: true}},
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return config.ProviderAzureFoundry
}

// Generate streams a chat completion from the configured deployment.
func (p *Provider) Generate(ctx context.Context, req *types.GenerateRequest) (types.TextStream, error) {
	if req.APIKey == "" {
		return nil, types.ErrNoAPIKey
	}

	targetURL, err := p.targetURL("chat/completions")
	if err != nil {
		return nil, err
	}

	httpReq, err := openai.NewStreamingRequest(ctx, targetURL, req)
	if err != nil {
		return nil, err
	}
	// Azure-style authentication
	httpReq.Header.Set("api-key", req.APIKey)

	return openai.Do(p.client, p.Name(), httpReq)
}

func (p *Provider) targetURL(route string) (string, error) {
	if p.endpoint == "" {
		return "", ErrNoEndpoint
	}
	return buildTargetURL(p.endpoint, route, p.apiVersion)
}
