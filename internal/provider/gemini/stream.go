package gemini

import (
	"io"
	"strings"

	"github.com/mandalnilabja/goatlate/internal/config"
	"github.com/mandalnilabja/goatlate/internal/provider/sse"
	"github.com/mandalnilabja/goatlate/internal/types"
)

// stream reads streamGenerateContent SSE events and yields candidate text.
type stream struct {
	body   io.ReadCloser
	reader *sse.Reader
	usage  *types.Usage
	model  string
}

func newStream(body io.ReadCloser) *stream {
	return &stream{body: body, reader: sse.NewReader(body)}
}

// Recv returns the text of the next event that carries any.
func (s *stream) Recv() (string, error) {
	for {
		data, err := s.reader.Next()
		if err != nil {
			return "", err
		}
		if sse.IsDone(data) {
			return "", io.EOF
		}

		var resp generateResponse
		if err := types.JSON.Unmarshal(data, &resp); err != nil {
			continue // Skip malformed events
		}

		if resp.Error != nil && resp.Error.Message != "" {
			return "", &types.UpstreamError{
				Provider:   config.ProviderGemini,
				StatusCode: resp.Error.Code,
				Message:    resp.Error.Message,
			}
		}

		if resp.UsageMetadata != nil {
			s.usage = resp.UsageMetadata.toUsage()
		}
		if resp.ModelVersion != "" {
			s.model = resp.ModelVersion
		}

		var text strings.Builder
		for _, c := range resp.Candidates {
			for _, p := range c.Content.Parts {
				text.WriteString(p.Text)
			}
		}
		if text.Len() > 0 {
			return text.String(), nil
		}
	}
}

func (s *stream) Usage() *types.Usage {
	return s.usage
}

// Model returns the model version reported by the upstream.
func (s *stream) Model() string {
	return s.model
}

func (s *stream) Close() error {
	return s.body.Close()
}
