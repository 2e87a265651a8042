// Package openrouter implements the OpenRouter LLM provider.
package openrouter

import (
	"context"
	"net/http"
	"strings"

	"github.com/mandalnilabja/goatlate/internal/config"
	"github.com/mandalnilabja/goatlate/internal/provider/openai"
	"github.com/mandalnilabja/goatlate/internal/types"
)

// DefaultBaseURL is the OpenRouter API root.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Provider implements the provider.Provider interface for OpenRouter.
// API key is passed per request, not stored on the provider.
type Provider struct {
	baseURL string
	client  *http.Client
}

// New creates a new OpenRouter provider instance. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		// DisableCompression required for streaming
		client: &http.Client{Transport: &http.Transport{DisableCompression: true}},
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return config.ProviderOpenRouter
}

// prepareRequest adds OpenRouter-specific headers to the request
func (p *Provider) prepareRequest(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("HTTP-Referer", "https://github.com/mandalnilabja/goatlate")
	req.Header.Set("X-Title", "Goatlate")
}

// Generate streams a chat completion from OpenRouter.
func (p *Provider) Generate(ctx context.Context, req *types.GenerateRequest) (types.TextStream, error) {
	if req.APIKey == "" {
		return nil, types.ErrNoAPIKey
	}

	httpReq, err := openai.NewStreamingRequest(ctx, p.baseURL+"/chat/completions", req)
	if err != nil {
		return nil, err
	}
	p.prepareRequest(httpReq, req.APIKey)

	return openai.Do(p.client, p.Name(), httpReq)
}
