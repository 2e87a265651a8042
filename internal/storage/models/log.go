// Package models holds the records kept by the usage ledger. No message
// content is ever stored.
package models

import "time"

// Relay modes recorded in the ledger
const (
	ModeChat      = "chat"
	ModeTranslate = "translate"
)

// RequestLog represents one relayed request
type RequestLog struct {
	ID               string    `json:"id"`
	RequestID        string    `json:"request_id"`
	Mode             string    `json:"mode"`
	Model            string    `json:"model"`
	Provider         string    `json:"provider"`
	TargetLang       string    `json:"target_lang,omitempty"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	TokensEstimated  bool      `json:"tokens_estimated"`
	StatusCode       int       `json:"status_code"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	DurationMs       int64     `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// LogFilter contains parameters for filtering request logs
type LogFilter struct {
	Mode       string
	Model      string
	Provider   string
	StatusCode *int
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}
