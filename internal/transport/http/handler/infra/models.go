package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/goatlate/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/goatlate/internal/types"
)

// modelsTTL is how long an upstream model list stays cached.
const modelsTTL = 10 * time.Minute

// ListModels handles GET /api/models. The upstream list is cached per
// provider; X-Cache reports whether the cache served it.
func (h *Handlers) ListModels(w http.ResponseWriter, r *http.Request) {
	if h.apiKey == "" {
		types.WriteRelayError(w, types.ErrConfiguration(h.missingKey))
		return
	}

	key := "models:" + h.provider.Name()

	// 1. Check cache
	if h.Cache != nil {
		if value, found := h.Cache.Get(key); found {
			if models, ok := value.([]types.Model); ok {
				w.Header().Set("X-Cache", "HIT")
				h.writeModels(w, models)
				return
			}
		}
	}

	// 2. Fetch from upstream
	models, err := h.provider.ListModels(r.Context(), h.apiKey)
	if err != nil {
		h.logger.Error("list models failed", "provider", h.provider.Name(), "error", err)
		types.WriteRelayError(w, types.AsRelayError(err))
		return
	}

	// 3. Store for later requests
	if h.Cache != nil {
		h.Cache.SetWithTTL(key, models, 1, modelsTTL)
		h.Cache.Wait()
	}

	w.Header().Set("X-Cache", "MISS")
	h.writeModels(w, models)
}

func (h *Handlers) writeModels(w http.ResponseWriter, models []types.Model) {
	if models == nil {
		models = []types.Model{}
	}
	shared.WriteJSON(w, map[string]any{
		"provider": h.provider.Name(),
		"models":   models,
	}, http.StatusOK)
}
