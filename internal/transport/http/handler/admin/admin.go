// Package admin serves the operator API over the usage ledger.
package admin

import (
	"time"

	"github.com/mandalnilabja/goatlate/internal/storage"
)

// Info describes the running relay for GET /api/admin/info.
type Info struct {
	Provider string
	Model    string
	DataDir  string
}

// Handlers holds the dependencies for admin HTTP handlers.
type Handlers struct {
	Storage   storage.Storage
	StartTime time.Time
	Info      Info
}

// New creates a new instance of admin handlers. A nil store means the ledger
// is disabled; ledger endpoints then answer 503.
func New(store storage.Storage, startTime time.Time, info Info) *Handlers {
	return &Handlers{
		Storage:   store,
		StartTime: startTime,
		Info:      info,
	}
}
