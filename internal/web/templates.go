// Package web renders the portal's HTML pages. Thin presentation plumbing;
// no authentication or storage logic lives here.
package web

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticHandler serves the embedded static assets; mount it at /static/*.
func StaticHandler() http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates. Panics on parse errors since the
// templates ship inside the binary.
func NewRenderer() *Renderer {
	return &Renderer{tmpl: template.Must(template.ParseFS(templateFS, "templates/*.html"))}
}

// Render writes the named page with the given data. Render errors after the
// header is written can only be logged by the caller's middleware.
func (r *Renderer) Render(w http.ResponseWriter, name string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return r.tmpl.ExecuteTemplate(w, name, data)
}
