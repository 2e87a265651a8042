package gemini

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/mandalnilabja/goatlate/internal/types"
)

// ListModels returns the models available to apiKey, following page tokens.
func (p *Provider) ListModels(ctx context.Context, apiKey string) ([]types.Model, error) {
	if apiKey == "" {
		return nil, types.ErrNoAPIKey
	}

	var models []types.Model
	pageToken := ""
	for {
		endpoint := p.baseURL + "/v1beta/models?pageSize=1000"
		if pageToken != "" {
			endpoint += "&pageToken=" + url.QueryEscape(pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-goog-api-key", apiKey)

		page, err := p.fetchModels(req)
		if err != nil {
			return nil, err
		}
		for _, m := range page.Models {
			models = append(models, types.Model{
				ID:       strings.TrimPrefix(m.Name, "models/"),
				Name:     m.DisplayName,
				Provider: p.Name(),
			})
		}

		if page.NextPageToken == "" {
			return models, nil
		}
		pageToken = page.NextPageToken
	}
}

func (p *Provider) fetchModels(req *http.Request) (*listModelsResponse, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &types.UpstreamError{Provider: p.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp)
	}

	var page listModelsResponse
	if err := types.JSON.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &types.UpstreamError{Provider: p.Name(), Err: err}
	}
	return &page, nil
}
