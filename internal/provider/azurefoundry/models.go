package azurefoundry

import (
	"context"
	"net/http"

	"github.com/mandalnilabja/goatlate/internal/provider/openai"
	"github.com/mandalnilabja/goatlate/internal/types"
)

type modelInfo struct {
	ModelName         string `json:"model_name"`
	ModelType         string `json:"model_type"`
	ModelProviderName string `json:"model_provider_name"`
}

// ListModels reports the model deployed behind the endpoint via the /models/info route.
func (p *Provider) ListModels(ctx context.Context, apiKey string) ([]types.Model, error) {
	if apiKey == "" {
		return nil, types.ErrNoAPIKey
	}

	targetURL, err := p.targetURL("info")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-key", apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &types.UpstreamError{Provider: p.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, openai.DecodeError(p.Name(), resp)
	}

	var info modelInfo
	if err := types.JSON.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, &types.UpstreamError{Provider: p.Name(), Err: err}
	}

	name := info.ModelName
	if info.ModelProviderName != "" {
		name = info.ModelProviderName + ": " + info.ModelName
	}
	return []types.Model{{ID: info.ModelName, Name: name, Provider: p.Name()}}, nil
}
