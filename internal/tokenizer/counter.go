package tokenizer

import (
	"context"
	"time"

	"github.com/mandalnilabja/goatlate/internal/types"
)

// Chat framing overhead, following OpenAI's published counting rules.
const (
	messageOverhead    = 3 // <|start|>role<|end|>
	replyPrimingTokens = 3
)

// CountMessages counts prompt tokens for a slice of messages.
func (t *TiktokenTokenizer) CountMessages(messages []types.Message, model string) (int, error) {
	total := replyPrimingTokens

	for _, msg := range messages {
		roleTokens, err := t.CountTokens(string(msg.Role), model)
		if err != nil {
			return 0, err
		}
		contentTokens, err := t.CountTokens(msg.Content, model)
		if err != nil {
			return 0, err
		}
		total += roleTokens + contentTokens + messageOverhead
	}

	return total, nil
}

// Estimate counts prompt tokens on a separate goroutine and gives up after
// timeout. The second result is false when the count failed or timed out.
func Estimate(ctx context.Context, tok Tokenizer, messages []types.Message, model string, timeout time.Duration) (int, bool) {
	type result struct {
		n   int
		err error
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so the goroutine never blocks after a timeout
	done := make(chan result, 1)
	go func() {
		n, err := tok.CountMessages(messages, model)
		done <- result{n, err}
	}()

	select {
	case r := <-done:
		return r.n, r.err == nil
	case <-ctx.Done():
		return 0, false
	}
}
