package server

import (
	"errors"
	"log"
	"net/http"

	identityservice "secrets-portal/internal/identity/service"
	"secrets-portal/internal/session"
	telemetry "secrets-portal/internal/telemetry/otel"
	"secrets-portal/internal/web"
)

// SecretHandlers serves the secrets listing and submission routes.
type SecretHandlers struct {
	sessions *session.Manager
	secrets  *identityservice.SecretService
	views    *web.Renderer
	events   telemetry.EventEmitter
}

// NewSecretHandlers returns SecretHandlers with the given dependencies.
func NewSecretHandlers(sessions *session.Manager, secrets *identityservice.SecretService, views *web.Renderer, events telemetry.EventEmitter) *SecretHandlers {
	return &SecretHandlers{sessions: sessions, secrets: secrets, views: views, events: events}
}

type secretsPage struct {
	Authenticated bool
	Secrets       []identityservice.SharedSecret
}

// List handles GET /secrets. The listing is public regardless of session
// state; only credential fields are projected out before rendering.
func (h *SecretHandlers) List(w http.ResponseWriter, r *http.Request) {
	shared, err := h.secrets.ListShared(r.Context())
	if err != nil {
		log.Printf("secrets: list: %v", err)
		http.Error(w, "An error occurred", http.StatusInternalServerError)
		return
	}
	_, authed := h.sessions.Current(r)
	if err := h.views.Render(w, "secrets", secretsPage{Authenticated: authed, Secrets: shared}); err != nil {
		log.Printf("secrets: render: %v", err)
	}
}

// SubmitForm handles GET /submit. The route is mounted behind RequireSession,
// so an unauthenticated request never reaches here.
func (h *SecretHandlers) SubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := h.views.Render(w, "submit", secretsPage{Authenticated: true}); err != nil {
		log.Printf("submit: render: %v", err)
	}
}

// Submit handles POST /submit: write the submitted secret onto the session's
// own identity. 404 when the identity no longer resolves, 500 on store
// failure, otherwise back to the secrets page.
func (h *SecretHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	err := h.secrets.Submit(r.Context(), p.ID, r.PostFormValue("secret"))
	switch {
	case errors.Is(err, identityservice.ErrIdentityNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	case errors.Is(err, identityservice.ErrEmptySecret):
		http.Redirect(w, r, "/submit", http.StatusSeeOther)
	case err != nil:
		log.Printf("submit: %v", err)
		http.Error(w, "An error occurred", http.StatusInternalServerError)
	default:
		h.events.Emit(r.Context(), telemetry.AuthEvent{Name: "secret_submitted", IdentityID: p.ID, Outcome: "success"})
		http.Redirect(w, r, "/secrets", http.StatusSeeOther)
	}
}
