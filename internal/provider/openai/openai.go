// Package openai implements the OpenAI-compatible chat completion wire protocol
// shared by the openrouter and azurefoundry providers.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mandalnilabja/goatlate/internal/provider/sse"
	"github.com/mandalnilabja/goatlate/internal/types"
)

// NewStreamingRequest builds a streaming chat completion POST to url.
// Header customisation (auth, referer) is left to the caller.
func NewStreamingRequest(ctx context.Context, url string, req *types.GenerateRequest) (*http.Request, error) {
	body, err := types.JSON.Marshal(&types.ChatCompletionRequest{
		Model:         req.Model,
		Messages:      req.Messages,
		Stream:        true,
		StreamOptions: &types.StreamOptions{IncludeUsage: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	return httpReq, nil
}

// Do executes req and returns a text stream over the response, or an
// UpstreamError when the transport fails or the provider answers with an error.
func Do(client *http.Client, provider string, req *http.Request) (types.TextStream, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &types.UpstreamError{Provider: provider, Err: err}
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, DecodeError(provider, resp)
	}

	return NewChunkStream(resp.Body), nil
}

// DecodeError converts an error response into an UpstreamError, extracting the
// provider's message when the body is an OpenAI-style error envelope.
func DecodeError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	upErr := &types.UpstreamError{Provider: provider, StatusCode: resp.StatusCode}

	var apiErr types.APIError
	if err := types.JSON.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		upErr.Message = apiErr.Error.Message
		return upErr
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		upErr.Message = fmt.Sprintf("%s: %s", resp.Status, text)
	}
	return upErr
}

// ChunkStream turns an OpenAI-compatible SSE body into text fragments.
type ChunkStream struct {
	body   io.ReadCloser
	reader *sse.Reader
	usage  *types.Usage
	model  string
}

// NewChunkStream wraps an SSE response body.
func NewChunkStream(body io.ReadCloser) *ChunkStream {
	return &ChunkStream{
		body:   body,
		reader: sse.NewReader(body),
	}
}

// Recv returns the next non-empty content delta.
func (s *ChunkStream) Recv() (string, error) {
	for {
		data, err := s.reader.Next()
		if err != nil {
			return "", err
		}

		if sse.IsDone(data) {
			return "", io.EOF
		}

		var chunk types.ChatCompletionChunk
		if err := types.JSON.Unmarshal(data, &chunk); err != nil {
			continue // Skip malformed chunks
		}

		// Some providers interleave error objects into the stream
		if chunk.Error != nil && chunk.Error.Message != "" {
			return "", &types.UpstreamError{Message: chunk.Error.Message}
		}

		if s.model == "" && chunk.Model != "" {
			s.model = chunk.Model
		}
		if chunk.Usage != nil {
			s.usage = chunk.Usage
		}

		var text strings.Builder
		for _, choice := range chunk.Choices {
			text.WriteString(choice.Delta.Content)
		}
		if text.Len() > 0 {
			return text.String(), nil
		}
	}
}

// Usage returns the usage from the final chunk if the provider sent one.
func (s *ChunkStream) Usage() *types.Usage {
	return s.usage
}

// Model returns the model reported by the stream.
func (s *ChunkStream) Model() string {
	return s.model
}

// Close releases the upstream body.
func (s *ChunkStream) Close() error {
	return s.body.Close()
}
