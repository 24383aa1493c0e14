package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"secrets-portal/internal/identity/domain"
)

// ErrExchangeFailed indicates the provider exchange or profile fetch failed;
// handlers redirect back to the login entry point.
var ErrExchangeFailed = errors.New("federated exchange failed")

// userinfoURL is Google's OpenID userinfo endpoint; the profile document's
// sub field is the provider-scoped federated id.
const userinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// FederatedRepo is the minimal identity repository needed by the Google strategy.
type FederatedRepo interface {
	FindOrCreateByFederatedID(ctx context.Context, federatedID string) (*domain.Identity, error)
}

// GoogleStrategy implements sign-in via Google's authorization-code flow:
// redirect out with a profile scope, exchange the returned code for a token,
// read the subject id from the userinfo document, and find-or-create the
// matching identity. No password is ever involved on this path.
type GoogleStrategy struct {
	repo        FederatedRepo
	conf        *oauth2.Config
	userinfoURL string
	httpTimeout time.Duration
}

// GoogleOption tailors a GoogleStrategy; used by tests to point at a fake provider.
type GoogleOption func(*GoogleStrategy)

// WithProviderEndpoints overrides the auth/token/userinfo URLs.
func WithProviderEndpoints(authURL, tokenURL, infoURL string) GoogleOption {
	return func(s *GoogleStrategy) {
		s.conf.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
		s.userinfoURL = infoURL
	}
}

// NewGoogleStrategy returns a GoogleStrategy for the given client credentials
// and registered callback URL.
func NewGoogleStrategy(repo FederatedRepo, clientID, clientSecret, callbackURL string, opts ...GoogleOption) *GoogleStrategy {
	s := &GoogleStrategy{
		repo: repo,
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"profile"},
			Endpoint:     google.Endpoint,
		},
		userinfoURL: userinfoURL,
		httpTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthCodeURL returns the Google consent page URL carrying the given state nonce.
func (s *GoogleStrategy) AuthCodeURL(state string) string {
	return s.conf.AuthCodeURL(state)
}

// Exchange trades the authorization code for an access token, fetches the
// profile document, and resolves the identity by its Google subject id.
// Provider failures (network, bad code, malformed profile) collapse to
// ErrExchangeFailed; store failures are returned as-is so handlers can tell
// the two apart.
func (s *GoogleStrategy) Exchange(ctx context.Context, code string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.httpTimeout)
	defer cancel()

	token, err := s.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	federatedID, err := s.fetchSubject(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	return s.repo.FindOrCreateByFederatedID(ctx, federatedID)
}

func (s *GoogleStrategy) fetchSubject(ctx context.Context, token *oauth2.Token) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userinfoURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.conf.Client(ctx, token).Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}

	var profile struct {
		Sub string `json:"sub"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", err
	}
	if profile.Sub == "" {
		return "", errors.New("userinfo document has no sub")
	}
	return profile.Sub, nil
}
