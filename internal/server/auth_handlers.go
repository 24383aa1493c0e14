package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	identityservice "secrets-portal/internal/identity/service"
	"secrets-portal/internal/session"
	telemetry "secrets-portal/internal/telemetry/otel"
)

// stateCookie carries the OAuth state nonce between the redirect out to
// Google and the callback.
const stateCookie = "oauth_state"

// AuthHandlers serves registration, login, logout, and the Google sign-in flow.
// Credential and exchange failures are converted to redirects at this
// boundary; details are logged, never shown to the user.
type AuthHandlers struct {
	sessions *session.Manager
	local    *identityservice.LocalStrategy
	google   *identityservice.GoogleStrategy
	events   telemetry.EventEmitter
}

// NewAuthHandlers returns AuthHandlers with the given dependencies.
func NewAuthHandlers(sessions *session.Manager, local *identityservice.LocalStrategy, google *identityservice.GoogleStrategy, events telemetry.EventEmitter) *AuthHandlers {
	return &AuthHandlers{sessions: sessions, local: local, google: google, events: events}
}

// Register handles POST /register: create a local identity, establish a
// session, and land on the secrets page. A taken username goes back to the
// registration form.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	ident, err := h.local.Register(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		log.Printf("register: %v", err)
		h.events.Emit(r.Context(), telemetry.AuthEvent{Name: "register", Outcome: "failure", Detail: err.Error()})
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}
	if err := h.sessions.Establish(w, ident); err != nil {
		log.Printf("register: establish session: %v", err)
		http.Error(w, "An error occurred", http.StatusInternalServerError)
		return
	}
	h.events.Emit(r.Context(), telemetry.AuthEvent{Name: "register", IdentityID: ident.ID, Outcome: "success"})
	http.Redirect(w, r, "/secrets", http.StatusSeeOther)
}

// Login handles POST /login: verify the password, establish a session, and
// land on the secrets page. Bad credentials go back to the login form.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	ident, err := h.local.Verify(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, identityservice.ErrInvalidCredentials) {
			log.Printf("login: %v", err)
		}
		h.events.Emit(r.Context(), telemetry.AuthEvent{Name: "login", Outcome: "failure", Detail: "invalid credentials"})
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := h.sessions.Establish(w, ident); err != nil {
		log.Printf("login: establish session: %v", err)
		http.Error(w, "An error occurred", http.StatusInternalServerError)
		return
	}
	h.events.Emit(r.Context(), telemetry.AuthEvent{Name: "login", IdentityID: ident.ID, Outcome: "success"})
	http.Redirect(w, r, "/secrets", http.StatusSeeOther)
}

// Logout handles GET /logout: clear the session cookie and return home.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	event := telemetry.AuthEvent{Name: "logout", Outcome: "success"}
	if p, ok := h.sessions.Current(r); ok {
		event.IdentityID = p.ID
	}
	h.sessions.Clear(w)
	h.events.Emit(r.Context(), event)
	http.Redirect(w, r, "/", http.StatusFound)
}

// GoogleBegin handles GET /auth/google: park a state nonce in a short-lived
// cookie and send the user agent to Google's consent page.
func (h *AuthHandlers) GoogleBegin(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/google",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

// GoogleCallback handles GET /auth/google/callback: check the state nonce,
// exchange the code for an identity, establish a session, and land on the
// secrets page. Every failure path redirects to /login.
func (h *AuthHandlers) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		log.Printf("google callback: state mismatch")
		h.events.Emit(r.Context(), telemetry.AuthEvent{Name: "google_signin", Outcome: "failure", Detail: "state mismatch"})
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	clearStateCookie(w)

	ident, err := h.google.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		log.Printf("google callback: %v", err)
		h.events.Emit(r.Context(), telemetry.AuthEvent{Name: "google_signin", Outcome: "failure", Detail: "exchange failed"})
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if err := h.sessions.Establish(w, ident); err != nil {
		log.Printf("google callback: establish session: %v", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	h.events.Emit(r.Context(), telemetry.AuthEvent{Name: "google_signin", IdentityID: ident.ID, Outcome: "success"})
	http.Redirect(w, r, "/secrets", http.StatusFound)
}

// clearStateCookie expires the state nonce once the callback has consumed it,
// so a nonce is single-use rather than live for its full MaxAge.
func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/auth/google",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
