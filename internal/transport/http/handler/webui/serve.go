package webui

import (
	"io/fs"
	"net/http"
	"strings"
)

// Handler serves index.html at / and files under /static/. Any other path
// is a 404.
func (h *Handlers) Handler() http.Handler {
	fileServer := http.FileServer(http.FS(h.FS))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		switch {
		case path == "/" || path == "/index.html":
			h.serveIndex(w, r)
		case strings.HasPrefix(path, "/static/") && !strings.HasSuffix(path, "/"):
			if _, err := fs.Stat(h.FS, strings.TrimPrefix(path, "/")); err != nil {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Cache-Control", "public, max-age=3600")
			fileServer.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

func (h *Handlers) serveIndex(w http.ResponseWriter, r *http.Request) {
	page, err := fs.ReadFile(h.FS, "index.html")
	if err != nil {
		http.Error(w, "web UI not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(page)
}
