package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/goatlate/internal/storage"
	"github.com/mandalnilabja/goatlate/internal/storage/models"
	"github.com/mandalnilabja/goatlate/internal/types"
)

const missingKey = "❌ Missing Google Generative AI API Key"

// mockGenerator records Generate calls.
type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req *types.GenerateRequest) (types.TextStream, error) {
	args := m.Called(ctx, req)
	stream, _ := args.Get(0).(types.TextStream)
	return stream, args.Error(1)
}

// sliceStream yields fragments, then err (or io.EOF).
type sliceStream struct {
	fragments []string
	err       error
	usage     *types.Usage
	closed    bool
}

func (s *sliceStream) Recv() (string, error) {
	if len(s.fragments) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	next := s.fragments[0]
	s.fragments = s.fragments[1:]
	return next, nil
}

func (s *sliceStream) Usage() *types.Usage { return s.usage }

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

// flushRecorder counts flushes.
type flushRecorder struct {
	*httptest.ResponseRecorder
	flushes int
}

func (f *flushRecorder) Flush() {
	f.flushes++
	f.ResponseRecorder.Flush()
}

// memStorage is an in-memory ledger.
type memStorage struct {
	storage.Storage
	mu    sync.Mutex
	logs  []*storage.RequestLog
	daily []*storage.DailyUsage
}

func (m *memStorage) LogRequest(log *storage.RequestLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *memStorage) UpdateDailyUsage(u *storage.DailyUsage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.daily = append(m.daily, u)
	return nil
}

// countTokenizer counts words.
type countTokenizer struct{}

func (countTokenizer) CountTokens(text, model string) (int, error) {
	return len(strings.Fields(text)), nil
}

func (countTokenizer) CountMessages(messages []types.Message, model string) (int, error) {
	n := 0
	for _, m := range messages {
		n += len(strings.Fields(m.Content))
	}
	return n, nil
}

func newHandlers(gen types.Generator, apiKey string, store storage.Storage) *Handlers {
	return New(Options{
		Generator:         gen,
		Provider:          "gemini",
		Model:             "gemini-2.0-flash",
		APIKey:            apiKey,
		MissingKeyMessage: missingKey,
		Storage:           store,
		Tokenizer:         countTokenizer{},
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func post(h http.HandlerFunc, body string) *flushRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := &flushRecorder{ResponseRecorder: httptest.NewRecorder()}
	h(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *flushRecorder) string {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body types.ErrorBody
	require.NoError(t, types.JSON.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestTranslateStreamsFragments(t *testing.T) {
	gen := &mockGenerator{}
	stream := &sliceStream{fragments: []string{"Bon", "jour"}}
	gen.On("Generate", mock.Anything, mock.Anything).Return(stream, nil)

	h := newHandlers(gen, "key", nil)
	rec := post(h.Chat, `{"text":"Hello","targetLang":"French"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "Bonjour", rec.Body.String())
	assert.Equal(t, 2, rec.flushes, "each fragment is flushed on its own")
	assert.True(t, stream.closed)

	req := gen.Calls[0].Arguments.Get(1).(*types.GenerateRequest)
	assert.Equal(t, "gemini-2.0-flash", req.Model)
	assert.Equal(t, "key", req.APIKey)
	assert.Equal(t, []types.Message{
		types.NewTextMessage(types.RoleSystem, "You are a translation engine. Translate the user's text into French. Return only the translated text."),
		types.NewTextMessage(types.RoleUser, "Hello"),
	}, req.Messages)
}

func TestChatPassesMessagesThrough(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(&sliceStream{fragments: []string{"Hi!"}}, nil)

	h := newHandlers(gen, "key", nil)
	rec := post(h.Chat, `{"messages":[{"role":"system","content":"be nice"},{"role":"user","content":"hello"}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hi!", rec.Body.String())

	req := gen.Calls[0].Arguments.Get(1).(*types.GenerateRequest)
	assert.Equal(t, []types.Message{
		types.NewTextMessage(types.RoleSystem, "be nice"),
		types.NewTextMessage(types.RoleUser, "hello"),
	}, req.Messages)
}

func TestMissingKeyWinsOverPayload(t *testing.T) {
	bodies := []string{
		`{"text":"Hello","targetLang":"French"}`,
		`{"text":""}`,
		`not json`,
		``,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			gen := &mockGenerator{}
			h := newHandlers(gen, "", nil)

			rec := post(h.Chat, body)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, missingKey, errorBody(t, rec))
			gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		handler func(*Handlers, http.ResponseWriter, *http.Request)
		body    string
		wantMsg string
	}{
		{"missing targetLang", (*Handlers).Chat, `{"text":"Hello"}`, "text and targetLang are required"},
		{"missing text", (*Handlers).Chat, `{"targetLang":"French"}`, "text and targetLang are required"},
		{"blank text", (*Handlers).Translate, `{"text":"   ","targetLang":"French"}`, "text and targetLang are required"},
		{"empty object", (*Handlers).Chat, `{}`, "text and targetLang are required"},
		{"empty messages", (*Handlers).Chat, `{"messages":[]}`, "messages are required"},
		{"empty content", (*Handlers).Chat, `{"messages":[{"role":"user","content":""}]}`, "messages[0]: content is required"},
		{"unknown role", (*Handlers).Chat, `{"messages":[{"role":"tool","content":"x"}]}`, `messages[0]: unknown role "tool"`},
		{"translate ignores messages", (*Handlers).Translate, `{"messages":[{"role":"user","content":"x"}]}`, "text and targetLang are required"},
		{"malformed json", (*Handlers).Chat, `{"text":`, "invalid JSON body"},
		{"empty body", (*Handlers).Chat, ``, "request body is required"},
		{"oversized body", (*Handlers).Chat, `{"text":"` + strings.Repeat("a", maxBodyBytes) + `","targetLang":"French"}`, "request body too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{}
			h := newHandlers(gen, "key", nil)

			rec := post(func(w http.ResponseWriter, r *http.Request) { tt.handler(h, w, r) }, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, errorBody(t, rec))
			gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}
}

func TestUpstreamFailureBeforeFirstFragment(t *testing.T) {
	tests := []struct {
		name    string
		genErr  error
		stream  *sliceStream
		wantMsg string
	}{
		{
			name:    "generate fails",
			genErr:  &types.UpstreamError{Provider: "gemini", StatusCode: 429, Message: "Resource has been exhausted"},
			wantMsg: "Resource has been exhausted",
		},
		{
			name:    "generate fails without message",
			genErr:  &types.UpstreamError{Provider: "gemini"},
			wantMsg: "Unknown error",
		},
		{
			name:    "first recv fails",
			stream:  &sliceStream{err: errors.New("stream reset")},
			wantMsg: "stream reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{}
			if tt.stream != nil {
				gen.On("Generate", mock.Anything, mock.Anything).Return(tt.stream, nil)
			} else {
				gen.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.genErr)
			}

			h := newHandlers(gen, "key", nil)
			rec := post(h.Chat, `{"text":"Hello","targetLang":"French"}`)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.wantMsg, errorBody(t, rec))
		})
	}
}

func TestUpstreamFailureMidStream(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(&sliceStream{fragments: []string{"Hola"}, err: errors.New("connection reset")}, nil)

	store := &memStorage{}
	h := newHandlers(gen, "key", store)
	rec := post(h.Chat, `{"text":"Hello","targetLang":"Spanish"}`)
	h.Wait()

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hola", rec.Body.String())

	require.Len(t, store.logs, 1)
	assert.Equal(t, http.StatusOK, store.logs[0].StatusCode)
	assert.Equal(t, "connection reset", store.logs[0].ErrorMessage)
	require.Len(t, store.daily, 1)
	assert.Equal(t, 1, store.daily[0].ErrorCount)
}

func TestEmptyCompletion(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(&sliceStream{}, nil)

	h := newHandlers(gen, "key", nil)
	rec := post(h.Chat, `{"text":"Hello","targetLang":"French"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestLedgerUsesUpstreamUsage(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(&sliceStream{
		fragments: []string{"Bonjour"},
		usage:     &types.Usage{PromptTokens: 20, CompletionTokens: 2, TotalTokens: 22},
	}, nil)

	store := &memStorage{}
	h := newHandlers(gen, "key", store)
	post(h.Chat, `{"text":"Hello","targetLang":"French"}`)
	h.Wait()

	require.Len(t, store.logs, 1)
	log := store.logs[0]
	assert.Equal(t, models.ModeTranslate, log.Mode)
	assert.Equal(t, "French", log.TargetLang)
	assert.Equal(t, "gemini", log.Provider)
	assert.Equal(t, 22, log.TotalTokens)
	assert.False(t, log.TokensEstimated)
	assert.Empty(t, log.ErrorMessage)
}

func TestLedgerEstimatesWithoutUsage(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(&sliceStream{fragments: []string{"hello ", "there"}}, nil)

	store := &memStorage{}
	h := newHandlers(gen, "key", store)
	post(h.Chat, `{"messages":[{"role":"user","content":"one two three"}]}`)
	h.Wait()

	require.Len(t, store.logs, 1)
	log := store.logs[0]
	assert.Equal(t, models.ModeChat, log.Mode)
	assert.True(t, log.TokensEstimated)
	assert.Equal(t, 3, log.PromptTokens)
	assert.Equal(t, 2, log.CompletionTokens)
	assert.Equal(t, 5, log.TotalTokens)
}

func TestLedgerRecordsUpstreamFailure(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(nil, &types.UpstreamError{Message: "quota"})

	store := &memStorage{}
	h := newHandlers(gen, "key", store)
	post(h.Chat, `{"text":"Hello","targetLang":"French"}`)
	h.Wait()

	require.Len(t, store.logs, 1)
	assert.Equal(t, http.StatusInternalServerError, store.logs[0].StatusCode)
	assert.Equal(t, "quota", store.logs[0].ErrorMessage)
}

func TestRequestsAreIndependent(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(&sliceStream{fragments: []string{"Bon", "jour"}}, nil).Once()
	gen.On("Generate", mock.Anything, mock.Anything).Return(&sliceStream{fragments: []string{"Bon", "jour"}}, nil).Once()

	h := newHandlers(gen, "key", nil)
	first := post(h.Chat, `{"text":"Hello","targetLang":"French"}`)
	second := post(h.Chat, `{"text":"Hello","targetLang":"French"}`)

	assert.Equal(t, "Bonjour", first.Body.String())
	assert.Equal(t, "Bonjour", second.Body.String())
	gen.AssertNumberOfCalls(t, "Generate", 2)
}
