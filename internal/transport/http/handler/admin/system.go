package admin

import (
	"net/http"
	"runtime"
	"time"

	"github.com/mandalnilabja/goatlate/internal/storage"
	"github.com/mandalnilabja/goatlate/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/goatlate/internal/version"
)

// AdminInfo handles GET /api/admin/info.
func (h *Handlers) AdminInfo(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.StartTime)

	database := "disabled"
	stats := map[string]any{}
	if h.Storage != nil {
		database = "connected"
		if err := h.Storage.Ping(r.Context()); err != nil {
			database = "error: " + err.Error()
		}
		if usage, err := h.Storage.GetUsageStats(storage.StatsFilter{}); err == nil {
			stats["total_requests"] = usage.TotalRequests
			stats["total_tokens"] = usage.TotalTokens
			stats["error_count"] = usage.ErrorCount
		}
	}

	shared.WriteJSON(w, map[string]any{
		"version":     version.Version,
		"go_version":  runtime.Version(),
		"uptime":      uptime.String(),
		"uptime_secs": int64(uptime.Seconds()),
		"provider":    h.Info.Provider,
		"model":       h.Info.Model,
		"data_dir":    h.Info.DataDir,
		"database":    database,
		"stats":       stats,
	}, http.StatusOK)
}

// ledgerAvailable writes 503 and returns false when the ledger is disabled.
func (h *Handlers) ledgerAvailable(w http.ResponseWriter) bool {
	if h.Storage == nil {
		shared.WriteJSONError(w, "usage log is disabled", http.StatusServiceUnavailable)
		return false
	}
	return true
}
