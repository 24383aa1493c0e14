// Package session turns authenticated identities into signed cookie tokens
// and resolves those tokens back into principals on later requests.
package session

import (
	"net/http"
	"strings"

	"secrets-portal/internal/identity/domain"
	"secrets-portal/internal/security"
)

// CookieName is the canonical session cookie name.
const CookieName = "portal_session"

// Principal is the identity projection a resolved session yields: enough to
// re-identify the user without another credential check. Picture is carried
// through the token shape but nothing populates it.
type Principal struct {
	ID       string
	Username string
	Picture  string
}

// Manager serializes identities into session tokens and deserializes them
// back. Resolution verifies the token signature and expiry but never goes
// back to the store; a valid token is trusted as-is for the request.
type Manager struct {
	tokens *security.TokenProvider
}

// NewManager returns a Manager signing sessions with the given provider.
func NewManager(tokens *security.TokenProvider) *Manager {
	return &Manager{tokens: tokens}
}

// Issue serializes the identity into a signed session token. The token holds
// only the id and local username projection, never credential material.
func (m *Manager) Issue(ident *domain.Identity) (string, error) {
	return m.tokens.Issue(ident.ID, ident.LocalUsername)
}

// Resolve deserializes a session token into a Principal. Returns
// security.ErrInvalidToken for anything that does not verify.
func (m *Manager) Resolve(token string) (*Principal, error) {
	claims, err := m.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return &Principal{
		ID:       claims.Subject,
		Username: claims.Username,
		Picture:  claims.Picture,
	}, nil
}

// Current reads the session cookie from the request and resolves it. The
// second return value is the authentication predicate: false means the
// request is unauthenticated, whether the cookie is absent, empty, or fails
// verification.
func (m *Manager) Current(r *http.Request) (*Principal, bool) {
	token, ok := readCookie(r)
	if !ok {
		return nil, false
	}
	p, err := m.Resolve(token)
	if err != nil {
		return nil, false
	}
	return p, true
}

// Establish issues a session for the identity and sets the session cookie.
// This is the Unauthenticated -> Authenticated transition after either
// strategy succeeds.
func (m *Manager) Establish(w http.ResponseWriter, ident *domain.Identity) error {
	token, err := m.Issue(ident)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie; the only Authenticated -> Unauthenticated
// transition is this explicit logout.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func readCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}
