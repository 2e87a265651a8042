// Package web provides the embedded translator page.
package web

import "embed"

// FS contains index.html and the static directory (app.js, style.css).
//
//go:embed index.html static
var FS embed.FS
