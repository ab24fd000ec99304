// Package web provides the embedded blog templates. In production the
// templates are usually fetched from the static hosting origin so they can
// be redeployed without rebuilding the server; the embedded copies serve
// as the fallback when no origin is configured.
package web

import "embed"

// TemplateFS embeds the web/templates/ directory tree.
//
//go:embed all:templates
var TemplateFS embed.FS
