// Package handler composes the HTTP handler groups served by the relay.
package handler

import (
	"io/fs"
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/mandalnilabja/goatlate/internal/config"
	"github.com/mandalnilabja/goatlate/internal/provider"
	"github.com/mandalnilabja/goatlate/internal/storage"
	"github.com/mandalnilabja/goatlate/internal/tokenizer"
	"github.com/mandalnilabja/goatlate/internal/transport/http/handler/admin"
	"github.com/mandalnilabja/goatlate/internal/transport/http/handler/infra"
	"github.com/mandalnilabja/goatlate/internal/transport/http/handler/relay"
	"github.com/mandalnilabja/goatlate/internal/transport/http/handler/webui"
)

// Deps are the shared dependencies used to build every handler group.
// Storage and Tokenizer may be nil.
type Deps struct {
	Config    *config.Config
	Provider  provider.Provider
	Storage   storage.Storage
	Tokenizer tokenizer.Tokenizer
	Cache     *ristretto.Cache[string, any]
	WebFS     fs.FS
	Logger    *slog.Logger
}

// Repo composes all domain-specific handlers.
type Repo struct {
	Relay *relay.Handlers
	Infra *infra.Handlers
	Admin *admin.Handlers
	WebUI *webui.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
func NewRepo(d Deps) *Repo {
	startTime := time.Now()
	cfg := d.Config

	return &Repo{
		Relay: relay.New(relay.Options{
			Generator:         d.Provider,
			Provider:          d.Provider.Name(),
			Model:             cfg.Model,
			APIKey:            cfg.APIKey,
			MissingKeyMessage: cfg.MissingKeyMessage(),
			Storage:           d.Storage,
			Tokenizer:         d.Tokenizer,
			Logger:            d.Logger,
		}),
		Infra: infra.New(infra.Options{
			Cache:             d.Cache,
			StartTime:         startTime,
			Provider:          d.Provider,
			APIKey:            cfg.APIKey,
			MissingKeyMessage: cfg.MissingKeyMessage(),
			Languages:         cfg.Languages,
			WebUI:             cfg.EnableWebUI,
			Logger:            d.Logger,
		}),
		Admin: admin.New(d.Storage, startTime, admin.Info{
			Provider: d.Provider.Name(),
			Model:    cfg.Model,
			DataDir:  config.DataDir(),
		}),
		WebUI: webui.New(d.WebFS),
	}
}
