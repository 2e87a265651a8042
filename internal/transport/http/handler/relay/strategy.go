package relay

import (
	"fmt"

	"github.com/mandalnilabja/goatlate/internal/storage/models"
	"github.com/mandalnilabja/goatlate/internal/types"
)

// translatePrompt is the system instruction synthesized for translations.
const translatePrompt = "You are a translation engine. Translate the user's text into %s. Return only the translated text."

// Plan is what a Strategy extracts from a request body.
type Plan struct {
	Mode       string
	Messages   []types.Message
	TargetLang string
}

// Strategy validates a decoded body and builds the upstream messages.
// Validation failures are returned as 400 RelayErrors.
type Strategy func(body *types.RelayRequest) (*Plan, error)

// Chat passes the caller's messages through unchanged.
func Chat(body *types.RelayRequest) (*Plan, error) {
	req := body.Chat()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &Plan{Mode: models.ModeChat, Messages: req.Messages}, nil
}

// Translate builds a system instruction naming the target language followed
// by the text as a single user message.
func Translate(body *types.RelayRequest) (*Plan, error) {
	req := body.Translate()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &Plan{
		Mode:       models.ModeTranslate,
		TargetLang: req.TargetLang,
		Messages: []types.Message{
			types.NewTextMessage(types.RoleSystem, fmt.Sprintf(translatePrompt, req.TargetLang)),
			types.NewTextMessage(types.RoleUser, req.Text),
		},
	}, nil
}

// Unified routes bodies carrying a messages field to Chat and everything
// else to Translate.
func Unified(body *types.RelayRequest) (*Plan, error) {
	if body.IsChat() {
		return Chat(body)
	}
	return Translate(body)
}
