package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/mandalnilabja/goatlate/internal/types"
)

const (
	// ServerErrorMessage is reported for a failed response without a JSON error.
	ServerErrorMessage = "Server error"

	// NoOutputMessage is shown when a JSON response carries no output text.
	NoOutputMessage = "⚠️ No translation received."

	chunkSize = 4096
)

// Client posts relay requests and exposes the response as text fragments.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the relay at baseURL. A nil httpClient uses
// http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// jsonOutput is the non-streaming response shape.
type jsonOutput struct {
	Output *struct {
		Text string `json:"text"`
	} `json:"output"`
}

// Stream POSTs payload as JSON to path and returns the response fragments.
// A non-2xx response becomes an error carrying the server's {error} message.
func (c *Client) Stream(ctx context.Context, path string, payload any) (*Fragments, error) {
	body, err := types.JSON.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, transportError(0, err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(0, err.Error(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeServerError(resp)
	}

	if isJSON(resp.Header.Get("Content-Type")) {
		defer resp.Body.Close()
		var out jsonOutput
		text := NoOutputMessage
		if err := types.JSON.NewDecoder(resp.Body).Decode(&out); err == nil && out.Output != nil && out.Output.Text != "" {
			text = out.Output.Text
		}
		return &Fragments{single: []string{text}, done: true}, nil
	}

	return &Fragments{
		body: resp.Body,
		dec:  NewDecoder(),
		buf:  make([]byte, chunkSize),
	}, nil
}

func decodeServerError(resp *http.Response) error {
	var body types.ErrorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err := types.JSON.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return transportError(resp.StatusCode, body.Error, nil)
	}
	return transportError(resp.StatusCode, ServerErrorMessage, nil)
}

func transportError(status int, msg string, err error) *types.RelayError {
	return &types.RelayError{
		Kind:       types.KindClientTransport,
		StatusCode: status,
		Message:    msg,
		Err:        err,
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// Fragments is the lazy, ordered, finite sequence of decoded text pieces of
// one response. It is not restartable.
type Fragments struct {
	body   io.ReadCloser
	dec    *Decoder
	buf    []byte
	single []string
	done   bool
}

// Next returns the text decoded from the next chunk, or io.EOF once the body
// is exhausted. Chunks that only hold part of a character are merged into
// the following fragment.
func (f *Fragments) Next() (string, error) {
	if len(f.single) > 0 {
		text := f.single[0]
		f.single = f.single[1:]
		return text, nil
	}
	if f.done {
		return "", io.EOF
	}

	for {
		n, readErr := f.body.Read(f.buf)
		if n > 0 {
			text, err := f.dec.Decode(f.buf[:n], false)
			if err != nil {
				f.finish()
				return "", err
			}
			if text != "" {
				return text, nil
			}
		}

		if errors.Is(readErr, io.EOF) {
			f.finish()
			tail, _ := f.dec.Decode(nil, true)
			if tail != "" {
				return tail, nil
			}
			return "", io.EOF
		}
		if readErr != nil {
			f.finish()
			return "", transportError(0, readErr.Error(), readErr)
		}
	}
}

// Close releases the response body. It is safe to call more than once.
func (f *Fragments) Close() error {
	f.finish()
	return nil
}

func (f *Fragments) finish() {
	if f.done {
		return
	}
	f.done = true
	if f.body != nil {
		_ = f.body.Close()
	}
}
