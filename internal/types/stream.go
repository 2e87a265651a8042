package types

import "context"

// TextStream is a finite, ordered, lazy sequence of text fragments produced by
// an upstream model. Recv returns io.EOF once the sequence is exhausted.
type TextStream interface {
	Recv() (string, error)

	// Usage returns token usage reported by the upstream, or nil when it
	// reported none. Only meaningful after Recv has returned io.EOF.
	Usage() *Usage

	Close() error
}

// GenerateRequest is what the relay hands to an upstream model.
type GenerateRequest struct {
	Model    string
	Messages []Message

	// APIKey is resolved by the caller; providers never read the environment.
	APIKey string
}

// Generator is the narrow upstream capability: messages and a model in, a
// text stream out.
type Generator interface {
	Generate(ctx context.Context, req *GenerateRequest) (TextStream, error)
}

// ChatCompletionChunk represents an OpenAI-compatible streaming chunk.
type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"` // "chat.completion.chunk"
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
	Usage   *Usage        `json:"usage,omitempty"` // Only in final chunk if requested

	// Error is set by providers that report failures inside the stream
	Error *ErrorDetail `json:"error,omitempty"`
}

// ChunkChoice represents a choice in a streaming chunk.
type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"` // Pointer to distinguish null from ""
}

// Delta represents the incremental content in a streaming chunk.
type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}
