// Package types provides the request, message and error shapes shared by the relay,
// the upstream providers and the client.
package types

import (
	"fmt"
	"strings"
)

// Role is the author of a chat message.
type Role string

// Role constants for message roles
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message represents a single role-tagged chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewTextMessage creates a simple text message.
func NewTextMessage(role Role, content string) Message {
	return Message{
		Role:    role,
		Content: content,
	}
}

// ChatRequest is the body of a chat relay request.
type ChatRequest struct {
	Messages []Message `json:"messages"`
}

// Validate checks that the request has at least one message and that every
// message has a known role and non-empty content.
func (r *ChatRequest) Validate() error {
	if len(r.Messages) == 0 {
		return ErrBadRequest("messages are required")
	}
	for i, msg := range r.Messages {
		if !msg.Role.Valid() {
			return ErrBadRequest(fmt.Sprintf("messages[%d]: unknown role %q", i, msg.Role))
		}
		if strings.TrimSpace(msg.Content) == "" {
			return ErrBadRequest(fmt.Sprintf("messages[%d]: content is required", i))
		}
	}
	return nil
}

// TranslateRequest is the body of a translation relay request.
type TranslateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"targetLang"`
}

// Validate checks that both the text and the target language are present.
func (r *TranslateRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" || strings.TrimSpace(r.TargetLang) == "" {
		return ErrBadRequest("text and targetLang are required")
	}
	return nil
}

// RelayRequest is the union body accepted by the unified chat endpoint.
// A body carrying a messages field is a chat request; anything else is a
// translation request.
type RelayRequest struct {
	Messages   []Message `json:"messages"`
	Text       string    `json:"text"`
	TargetLang string    `json:"targetLang"`
}

// IsChat reports whether the body carried a messages field.
func (r *RelayRequest) IsChat() bool {
	return r.Messages != nil
}

// Chat returns the chat view of the body.
func (r *RelayRequest) Chat() *ChatRequest {
	return &ChatRequest{Messages: r.Messages}
}

// Translate returns the translation view of the body.
func (r *RelayRequest) Translate() *TranslateRequest {
	return &TranslateRequest{Text: r.Text, TargetLang: r.TargetLang}
}
