// Package gemini implements the Google Generative Language API provider.
package gemini

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mandalnilabja/goatlate/internal/config"
	"github.com/mandalnilabja/goatlate/internal/types"
)

// DefaultBaseURL is the public Generative Language API host.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Provider implements the provider.Provider interface for Gemini.
// The API key is passed per request, not stored on the provider.
type Provider struct {
	baseURL string
	client  *http.Client
}

// New creates a Gemini provider. An empty baseURL selects DefaultBaseURL.
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
	return config.ProviderGemini
}

// Generate starts a streamGenerateContent call and returns its text stream.
func (p *Provider) Generate(ctx context.Context, req *types.GenerateRequest) (types.TextStream, error) {
	if req.APIKey == "" {
		return nil, types.ErrNoAPIKey
	}

	body, err := types.JSON.Marshal(buildRequest(req.Messages))
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:streamGenerateContent?alt=sse",
		p.baseURL, url.PathEscape(strings.TrimPrefix(req.Model, "models/")))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("x-goog-api-key", req.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &types.UpstreamError{Provider: p.Name(), Err: err}
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}

	return newStream(resp.Body), nil
}

// decodeError extracts the message of a Google error envelope.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	upErr := &types.UpstreamError{Provider: config.ProviderGemini, StatusCode: resp.StatusCode}

	var env errorEnvelope
	if err := types.JSON.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		upErr.Message = env.Error.Message
		return upErr
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		upErr.Message = fmt.Sprintf("%s: %s", resp.Status, text)
	}
	return upErr
}
