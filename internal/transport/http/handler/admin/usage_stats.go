package admin

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/goatlate/internal/storage"
	"github.com/mandalnilabja/goatlate/internal/transport/http/handler/shared"
)

// GetUsageStats handles GET /api/admin/usage.
func (h *Handlers) GetUsageStats(w http.ResponseWriter, r *http.Request) {
	if !h.ledgerAvailable(w) {
		return
	}
	q := r.URL.Query()
	filter := storage.StatsFilter{
		Mode:      q.Get("mode"),
		StartDate: parseDate(q.Get("start_date")),
		EndDate:   parseDate(q.Get("end_date")),
	}

	stats, err := h.Storage.GetUsageStats(filter)
	if err != nil {
		shared.WriteJSONError(w, "Failed to get usage stats: "+err.Error(), http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, stats, http.StatusOK)
}

// GetDailyUsage handles GET /api/admin/usage/daily.
func (h *Handlers) GetDailyUsage(w http.ResponseWriter, r *http.Request) {
	if !h.ledgerAvailable(w) {
		return
	}
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	// Default to last 30 days if not specified
	if startDate == "" {
		startDate = time.Now().UTC().AddDate(0, 0, -30).Format(dateLayout)
	}
	if endDate == "" {
		endDate = time.Now().UTC().Format(dateLayout)
	}
	if parseDate(startDate) == nil || parseDate(endDate) == nil {
		shared.WriteJSONError(w, "Invalid date format. Use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	usage, err := h.Storage.GetDailyUsage(startDate, endDate)
	if err != nil {
		shared.WriteJSONError(w, "Failed to get daily usage: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if usage == nil {
		usage = []*storage.DailyUsage{}
	}

	shared.WriteJSON(w, map[string]any{
		"daily_usage": usage,
		"start_date":  startDate,
		"end_date":    endDate,
	}, http.StatusOK)
}
