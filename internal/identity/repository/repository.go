package repository

import (
	"context"
	"errors"

	"secrets-portal/internal/identity/domain"
)

// Sentinel errors returned by repositories; services map them to their own taxonomy.
var (
	// ErrDuplicateUsername is returned by CreateLocal when the username is already taken.
	ErrDuplicateUsername = errors.New("local username already exists")
	// ErrNotFound is returned by UpdateSecret when no identity matches the id.
	ErrNotFound = errors.New("identity not found")
)

// Repository defines persistence for identities.
type Repository interface {
	// GetByID returns the identity for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	// GetByLocalUsername returns the identity registered under the username, or nil if not found.
	GetByLocalUsername(ctx context.Context, username string) (*domain.Identity, error)
	// CreateLocal persists a new local identity. Returns ErrDuplicateUsername
	// when another identity already holds the username.
	CreateLocal(ctx context.Context, i *domain.Identity) error
	// FindOrCreateByFederatedID returns the identity linked to the federated id,
	// creating one if none exists. Atomic with respect to concurrent calls for
	// the same id: at most one row is ever created, losers resolve the winner's row.
	FindOrCreateByFederatedID(ctx context.Context, federatedID string) (*domain.Identity, error)
	// UpdateSecret writes the secret onto the identity with the given id.
	// Returns ErrNotFound when the id no longer resolves.
	UpdateSecret(ctx context.Context, id string, secret string) error
	// ListWithSecrets returns all identities that have submitted a secret.
	ListWithSecrets(ctx context.Context) ([]*domain.Identity, error)
}
