// Package app wires the HTTP router and server.
package app

import (
	"log/slog"
	"net/http"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/go-chi/chi"
	chimw "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	"github.com/mandalnilabja/goatlate/internal/transport/http/handler"
	"github.com/mandalnilabja/goatlate/internal/transport/http/middleware"
	"github.com/mandalnilabja/goatlate/internal/transport/http/middleware/auth"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	EnableWebUI bool

	// AdminPasswordHash enables the admin API when non-empty.
	AdminPasswordHash string
	AuthCache         *ristretto.Cache[string, any]

	Logger *slog.Logger
}

// NewRouter creates and configures the HTTP router with all application routes.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Middleware chain (outer to inner)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "X-Cache"},
		MaxAge:         86400,
	}))
	r.Use(middleware.RequestID)
	if opts.Logger != nil {
		r.Use(middleware.RequestLogger(opts.Logger))
	}
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", repo.Infra.HealthCheck)
		r.Get("/languages", repo.Infra.Languages)
		r.Get("/models", repo.Infra.ListModels)

		r.Post("/chat", repo.Relay.Chat)
		r.Post("/translate", repo.Relay.Translate)

		if opts.AdminPasswordHash != "" {
			r.Route("/admin", func(r chi.Router) {
				registerAdminRoutes(r, repo, opts)
			})
		}
	})

	if opts.EnableWebUI {
		ui := repo.WebUI.Handler()
		r.Get("/", ui.ServeHTTP)
		r.Get("/static/*", ui.ServeHTTP)
	} else {
		r.Get("/", repo.Infra.RootStatus)
	}

	return r
}

// registerAdminRoutes adds the admin API routes behind password auth.
func registerAdminRoutes(r chi.Router, repo *handler.Repo, opts *RouterOptions) {
	r.Use(auth.AdminAuth(opts.AdminPasswordHash, opts.AuthCache))

	// Usage and logs
	r.Get("/usage", repo.Admin.GetUsageStats)
	r.Get("/usage/daily", repo.Admin.GetDailyUsage)
	r.Get("/logs", repo.Admin.GetRequestLogs)
	r.Delete("/logs", repo.Admin.DeleteRequestLogs)

	// System info
	r.Get("/info", repo.Admin.AdminInfo)
}
