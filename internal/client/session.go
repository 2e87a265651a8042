package client

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/mandalnilabja/goatlate/internal/types"
)

// ErrorPrefix marks synthesized error output so it cannot be mistaken for a
// translation.
const ErrorPrefix = "❌ Error: "

// ChatPath is the unified relay endpoint.
const ChatPath = "/api/chat"

// ErrBusy is returned when Run is called while another run is loading.
var ErrBusy = errors.New("a request is already in progress")

// Presenter displays session state. Calls happen on the goroutine running the
// session.
type Presenter interface {
	SetLoading(loading bool)
	SetOutput(text string)
}

// Session runs one request at a time and publishes the accumulated output
// after every fragment.
type Session struct {
	client    *Client
	presenter Presenter

	mu      sync.Mutex
	loading bool
	output  string
}

// NewSession binds a client to a presenter.
func NewSession(c *Client, p Presenter) *Session {
	return &Session{client: c, presenter: p}
}

// Loading reports whether a run is in progress.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Output returns the text last published.
func (s *Session) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

// Translate asks the relay to translate text into targetLang.
func (s *Session) Translate(ctx context.Context, text, targetLang string) error {
	return s.Run(ctx, ChatPath, &types.TranslateRequest{Text: text, TargetLang: targetLang})
}

// Chat relays a message list.
func (s *Session) Chat(ctx context.Context, messages []types.Message) error {
	return s.Run(ctx, ChatPath, &types.ChatRequest{Messages: messages})
}

// Run posts payload to path and renders the response progressively. Any
// failure replaces the output with an ErrorPrefix message and is returned.
// The loading flag is cleared on every exit path.
func (s *Session) Run(ctx context.Context, path string, payload any) error {
	if !s.begin() {
		return ErrBusy
	}
	defer s.setLoading(false)

	s.publish("")

	fragments, err := s.client.Stream(ctx, path, payload)
	if err != nil {
		s.fail(err)
		return err
	}
	defer fragments.Close()

	var acc strings.Builder
	for {
		text, err := fragments.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			s.fail(err)
			return err
		}
		acc.WriteString(text)
		s.publish(acc.String())
	}
}

func (s *Session) begin() bool {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return false
	}
	s.loading = true
	s.mu.Unlock()

	s.presenter.SetLoading(true)
	return true
}

func (s *Session) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.presenter.SetLoading(loading)
}

func (s *Session) publish(text string) {
	s.mu.Lock()
	s.output = text
	s.mu.Unlock()
	s.presenter.SetOutput(text)
}

func (s *Session) fail(err error) {
	msg := err.Error()
	if msg == "" {
		msg = types.FallbackErrorMessage
	}
	s.publish(ErrorPrefix + msg)
}
