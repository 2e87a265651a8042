package azurefoundry

import (
	"fmt"
	"net/url"
	"strings"
)

// buildTargetURL constructs an Azure AI Foundry model route URL from an endpoint.
// Handles endpoints with or without https:// prefix. A plain http:// endpoint
// keeps its scheme so local stand-ins work.
func buildTargetURL(endpoint, route, apiVersion string) (string, error) {
	scheme := "https"
	if strings.HasPrefix(endpoint, "http://") {
		scheme = "http"
	}
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	// Parse to validate and extract components
	parsed, err := url.Parse(scheme + "://" + endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid endpoint: %q has no host", endpoint)
	}

	// Keep just the host and the model route
	return fmt.Sprintf("%s://%s/models/%s?api-version=%s",
		scheme, parsed.Host, route, url.QueryEscape(apiVersion)), nil
}
