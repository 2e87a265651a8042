// Package webui serves the embedded translator page.
package webui

import "io/fs"

// Handlers holds the dependencies for web UI HTTP handlers.
type Handlers struct {
	FS fs.FS
}

// New creates a new instance of web UI handlers over the given files.
// fsys must contain index.html and a static directory.
func New(fsys fs.FS) *Handlers {
	return &Handlers{FS: fsys}
}
