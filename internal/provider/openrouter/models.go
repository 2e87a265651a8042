package openrouter

import (
	"context"
	"net/http"

	"github.com/mandalnilabja/goatlate/internal/provider/openai"
	"github.com/mandalnilabja/goatlate/internal/types"
)

type modelsResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

// ListModels returns the OpenRouter model catalogue.
func (p *Provider) ListModels(ctx context.Context, apiKey string) ([]types.Model, error) {
	if apiKey == "" {
		return nil, types.ErrNoAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		return nil, err
	}
	p.prepareRequest(req, apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &types.UpstreamError{Provider: p.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, openai.DecodeError(p.Name(), resp)
	}

	var body modelsResponse
	if err := types.JSON.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &types.UpstreamError{Provider: p.Name(), Err: err}
	}

	models := make([]types.Model, 0, len(body.Data))
	for _, m := range body.Data {
		models = append(models, types.Model{ID: m.ID, Name: m.Name, Provider: p.Name()})
	}
	return models, nil
}
