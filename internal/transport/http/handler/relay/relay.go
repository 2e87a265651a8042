// Package relay implements the streaming relay endpoints: it validates a
// chat or translation request, calls the upstream model and forwards the
// generated text to the caller as it arrives.
package relay

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mandalnilabja/goatlate/internal/storage"
	"github.com/mandalnilabja/goatlate/internal/tokenizer"
	"github.com/mandalnilabja/goatlate/internal/transport/http/middleware"
	"github.com/mandalnilabja/goatlate/internal/types"
)

// maxBodyBytes bounds the JSON request body.
const maxBodyBytes = 1 << 20

// Options configures the relay handlers.
type Options struct {
	Generator types.Generator
	Provider  string
	Model     string

	// APIKey is the upstream credential. When empty every request fails
	// with MissingKeyMessage.
	APIKey            string
	MissingKeyMessage string

	// Storage and Tokenizer are optional; nil Storage disables the ledger.
	Storage   storage.Storage
	Tokenizer tokenizer.Tokenizer
	Logger    *slog.Logger
}

// Handlers holds the dependencies for relay HTTP handlers.
type Handlers struct {
	generator  types.Generator
	provider   string
	model      string
	apiKey     string
	missingKey string
	storage    storage.Storage
	tokenizer  tokenizer.Tokenizer
	logger     *slog.Logger

	// pending tracks ledger writes still running
	pending sync.WaitGroup
}

// New creates the relay handlers.
func New(opts Options) *Handlers {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	missingKey := opts.MissingKeyMessage
	if missingKey == "" {
		missingKey = types.ErrNoAPIKey.Error()
	}
	return &Handlers{
		generator:  opts.Generator,
		provider:   opts.Provider,
		model:      opts.Model,
		apiKey:     opts.APIKey,
		missingKey: missingKey,
		storage:    opts.Storage,
		tokenizer:  opts.Tokenizer,
		logger:     logger,
	}
}

// Chat handles POST /api/chat. A body with messages is relayed as a chat,
// any other body as a translation.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, Unified)
}

// Translate handles POST /api/translate.
func (h *Handlers) Translate(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, Translate)
}

// Wait blocks until background ledger writes have finished.
func (h *Handlers) Wait() {
	h.pending.Wait()
}

// outcome is what the ledger learns about one relayed request.
type outcome struct {
	requestID  string
	plan       *Plan
	status     int
	err        error
	usage      *types.Usage
	completion string
	started    time.Time
}

func (h *Handlers) serve(w http.ResponseWriter, r *http.Request, strategy Strategy) {
	started := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := h.logger.With("request_id", requestID)

	// 1. Credential check comes before anything else
	if h.apiKey == "" {
		logger.Error("relay rejected", "error", h.missingKey)
		types.WriteRelayError(w, types.ErrConfiguration(h.missingKey))
		return
	}

	// 2. Decode the body
	body, relayErr := decodeBody(w, r)
	if relayErr != nil {
		logger.Warn("relay rejected", "error", relayErr.Message)
		types.WriteRelayError(w, relayErr)
		return
	}

	// 3. Validate and build messages
	plan, err := strategy(body)
	if err != nil {
		relayErr := types.AsRelayError(err)
		logger.Warn("relay rejected", "error", relayErr.Message)
		types.WriteRelayError(w, relayErr)
		return
	}

	out := &outcome{requestID: requestID, plan: plan, started: started}
	defer h.record(out)

	// 4. Invoke the upstream
	stream, err := h.generator.Generate(r.Context(), &types.GenerateRequest{
		Model:    h.model,
		Messages: plan.Messages,
		APIKey:   h.apiKey,
	})
	if err != nil {
		h.fail(w, logger, out, err)
		return
	}
	defer stream.Close()

	// 5. Wait for the first fragment so an early failure still gets a JSON error
	first, err := stream.Recv()
	if err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, logger, out, err)
		return
	}

	// 6. Stream
	header := w.Header()
	header.Set("Content-Type", "text/plain; charset=utf-8")
	header.Set("Cache-Control", "no-cache")
	header.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	out.status = http.StatusOK

	if errors.Is(err, io.EOF) {
		out.usage = stream.Usage()
		return
	}

	rc := http.NewResponseController(w)
	var completion strings.Builder
	text := first
	for {
		completion.WriteString(text)
		if _, werr := io.WriteString(w, text); werr != nil {
			logger.Warn("client went away", "error", werr)
			out.err = werr
			break
		}
		_ = rc.Flush()

		text, err = stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Status is already sent; the body just ends
			logger.Error("upstream failed mid-stream", "error", err)
			out.err = err
			break
		}
	}

	out.completion = completion.String()
	out.usage = stream.Usage()
}

// fail writes an upstream failure that happened before any output.
func (h *Handlers) fail(w http.ResponseWriter, logger *slog.Logger, out *outcome, err error) {
	relayErr := types.AsRelayError(err)
	logger.Error("upstream failed",
		"error", err,
		"provider", h.provider,
		"model", h.model,
	)
	types.WriteRelayError(w, relayErr)
	out.status = relayErr.StatusCode
	out.err = relayErr
}

// decodeBody reads the size-limited body and parses it. Every failure is a 400.
func decodeBody(w http.ResponseWriter, r *http.Request) (*types.RelayRequest, *types.RelayError) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, types.ErrBadRequest("request body too large")
		}
		return nil, types.ErrBadRequest("failed to read request body")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, types.ErrBadRequest("request body is required")
	}

	var body types.RelayRequest
	if !types.JSON.Valid(data) {
		return nil, types.ErrBadRequest("invalid JSON body")
	}
	if err := types.JSON.Unmarshal(data, &body); err != nil {
		return nil, types.ErrBadRequest("invalid JSON body")
	}
	return &body, nil
}

// record writes the ledger entry on a background goroutine. Token counts
// come from the upstream when reported, otherwise from the tokenizer.
func (h *Handlers) record(out *outcome) {
	if h.storage == nil {
		return
	}

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()

		prompt, completion, total, estimated := h.tokens(out)

		log := &storage.RequestLog{
			RequestID:        out.requestID,
			Mode:             out.plan.Mode,
			Model:            h.model,
			Provider:         h.provider,
			TargetLang:       out.plan.TargetLang,
			PromptTokens:     prompt,
			CompletionTokens: completion,
			TotalTokens:      total,
			TokensEstimated:  estimated,
			StatusCode:       out.status,
			DurationMs:       time.Since(out.started).Milliseconds(),
		}
		if out.err != nil {
			log.ErrorMessage = out.err.Error()
		}
		if err := h.storage.LogRequest(log); err != nil {
			h.logger.Warn("failed to record request", "request_id", out.requestID, "error", err)
		}

		errorCount := 0
		if out.err != nil {
			errorCount = 1
		}
		usage := &storage.DailyUsage{
			Date:             out.started.UTC().Format("2006-01-02"),
			Mode:             out.plan.Mode,
			Model:            h.model,
			RequestCount:     1,
			PromptTokens:     prompt,
			CompletionTokens: completion,
			TotalTokens:      total,
			ErrorCount:       errorCount,
		}
		if err := h.storage.UpdateDailyUsage(usage); err != nil {
			h.logger.Warn("failed to update daily usage", "request_id", out.requestID, "error", err)
		}
	}()
}

// tokenCountTimeout is the maximum time to wait for prompt token counting.
const tokenCountTimeout = 100 * time.Millisecond

func (h *Handlers) tokens(out *outcome) (prompt, completion, total int, estimated bool) {
	if u := out.usage; u != nil && u.TotalTokens > 0 {
		return u.PromptTokens, u.CompletionTokens, u.TotalTokens, false
	}
	if h.tokenizer == nil {
		return 0, 0, 0, false
	}

	prompt, _ = tokenizer.Estimate(context.Background(), h.tokenizer, out.plan.Messages, h.model, tokenCountTimeout)
	if out.completion != "" {
		completion, _ = h.tokenizer.CountTokens(out.completion, h.model)
	}
	return prompt, completion, prompt + completion, true
}
