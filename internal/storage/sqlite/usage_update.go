package sqlite

import (
	"fmt"

	"github.com/mandalnilabja/goatlate/internal/storage/models"
)

// UpdateDailyUsage adds usage to the (date, mode, model) row, creating it if needed
func (s *Storage) UpdateDailyUsage(usage *models.DailyUsage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}
	if usage.Date == "" || usage.Mode == "" || usage.Model == "" {
		return fmt.Errorf("%w: date, mode and model are required", ErrInvalidInput)
	}

	_, err := s.db.Exec(`
		INSERT INTO usage_daily (date, mode, model, request_count,
			prompt_tokens, completion_tokens, total_tokens, error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, mode, model) DO UPDATE SET
			request_count = request_count + excluded.request_count,
			prompt_tokens = prompt_tokens + excluded.prompt_tokens,
			completion_tokens = completion_tokens + excluded.completion_tokens,
			total_tokens = total_tokens + excluded.total_tokens,
			error_count = error_count + excluded.error_count
	`, usage.Date, usage.Mode, usage.Model, usage.RequestCount,
		usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, usage.ErrorCount)

	return err
}
