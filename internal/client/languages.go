package client

import (
	"context"
	"net/http"

	"github.com/mandalnilabja/goatlate/internal/types"
)

// LanguagesPath lists the languages the relay offers.
const LanguagesPath = "/api/languages"

// Languages fetches the relay's configured language list.
func (c *Client) Languages(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+LanguagesPath, nil)
	if err != nil {
		return nil, transportError(0, err.Error(), err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(0, err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeServerError(resp)
	}

	var body struct {
		Languages []string `json:"languages"`
	}
	if err := types.JSON.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, transportError(resp.StatusCode, ServerErrorMessage, err)
	}
	return body.Languages, nil
}
