package server

import (
	"log"
	"net/http"

	"secrets-portal/internal/session"
	"secrets-portal/internal/web"
)

// PageHandlers serves the public pages: landing, login form, register form.
type PageHandlers struct {
	sessions *session.Manager
	views    *web.Renderer
}

// NewPageHandlers returns PageHandlers with the given dependencies.
func NewPageHandlers(sessions *session.Manager, views *web.Renderer) *PageHandlers {
	return &PageHandlers{sessions: sessions, views: views}
}

type page struct {
	Authenticated bool
}

// Home handles GET /.
func (h *PageHandlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "home")
}

// LoginForm handles GET /login.
func (h *PageHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login")
}

// RegisterForm handles GET /register.
func (h *PageHandlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register")
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, name string) {
	_, authed := h.sessions.Current(r)
	if err := h.views.Render(w, name, page{Authenticated: authed}); err != nil {
		log.Printf("%s: render: %v", name, err)
	}
}
