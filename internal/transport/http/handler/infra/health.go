package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/goatlate/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/goatlate/internal/version"
)

const appName = "goatlate"

// RootStatus returns JSON status and version information at / when the web
// UI is disabled.
func (h *Handlers) RootStatus(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]any{
		"name":    appName,
		"version": version.Version,
		"status":  "running",
		"web_ui":  h.webUI,
		"api":     "/api",
	}, http.StatusOK)
}

// HealthCheck handler returns the application health status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]any{
		"status":      "active",
		"app":         appName,
		"version":     version.Version,
		"uptime_secs": int64(time.Since(h.StartTime).Seconds()),
	}, http.StatusOK)
}

// Languages handles GET /api/languages.
func (h *Handlers) Languages(w http.ResponseWriter, r *http.Request) {
	languages := h.languages
	if languages == nil {
		languages = []string{}
	}
	shared.WriteJSON(w, map[string]any{"languages": languages}, http.StatusOK)
}
