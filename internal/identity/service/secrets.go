package service

import (
	"context"
	"errors"
	"strings"

	"secrets-portal/internal/identity/domain"
	"secrets-portal/internal/identity/repository"
)

// Sentinel errors for the secret service; handlers map them to status codes.
var (
	ErrIdentityNotFound = errors.New("identity not found")
	ErrEmptySecret      = errors.New("secret must not be empty")
)

// SecretRepo is the minimal identity repository needed by the secret service.
type SecretRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	UpdateSecret(ctx context.Context, id string, secret string) error
	ListWithSecrets(ctx context.Context) ([]*domain.Identity, error)
}

// SharedSecret is the public projection of a submitted secret. Credential
// fields never cross this boundary.
type SharedSecret struct {
	IdentityID  string
	DisplayName string
	Secret      string
}

// SecretService reads and writes the one protected field on an identity record.
type SecretService struct {
	repo SecretRepo
}

// NewSecretService returns a SecretService backed by the given repository.
func NewSecretService(repo SecretRepo) *SecretService {
	return &SecretService{repo: repo}
}

// Submit writes the secret onto the identity with the given id. Only the
// session's own identity id ever reaches here, so the write is scoped to the
// submitting user. Returns ErrIdentityNotFound when the id no longer resolves.
func (s *SecretService) Submit(ctx context.Context, identityID, secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ErrEmptySecret
	}
	ident, err := s.repo.GetByID(ctx, identityID)
	if err != nil {
		return err
	}
	if ident == nil {
		return ErrIdentityNotFound
	}
	if err := s.repo.UpdateSecret(ctx, identityID, secret); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrIdentityNotFound
		}
		return err
	}
	return nil
}

// ListShared returns every submitted secret projected for public display.
// The listing is deliberately unauthenticated: anyone may read the secrets
// page, only submission requires a session.
func (s *SecretService) ListShared(ctx context.Context) ([]SharedSecret, error) {
	idents, err := s.repo.ListWithSecrets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SharedSecret, 0, len(idents))
	for _, ident := range idents {
		if !ident.HasSecret() {
			continue
		}
		out = append(out, SharedSecret{
			IdentityID:  ident.ID,
			DisplayName: displayName(ident),
			Secret:      ident.Secret,
		})
	}
	return out, nil
}

func displayName(i *domain.Identity) string {
	if i.LocalUsername != "" {
		return i.LocalUsername
	}
	return "anonymous"
}
