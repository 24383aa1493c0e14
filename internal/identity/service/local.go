package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"secrets-portal/internal/identity/domain"
	"secrets-portal/internal/identity/repository"
	"secrets-portal/internal/security"
)

// Sentinel errors for the credential strategies; handlers map them to redirects.
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUsername    = errors.New("username must be 3-64 characters without whitespace")
)

var usernamePattern = regexp.MustCompile(`^\S{3,64}$`)

// LocalRepo is the minimal identity repository needed by the local strategy.
type LocalRepo interface {
	GetByLocalUsername(ctx context.Context, username string) (*domain.Identity, error)
	CreateLocal(ctx context.Context, i *domain.Identity) error
}

// LocalStrategy registers and verifies username/password credentials against
// the identity store.
type LocalStrategy struct {
	repo   LocalRepo
	hasher *security.Hasher
	// decoyHash is compared against when no user matches, so a missing user
	// costs the same bcrypt work as a wrong password.
	decoyHash string
}

// NewLocalStrategy returns a LocalStrategy with the given dependencies.
func NewLocalStrategy(repo LocalRepo, hasher *security.Hasher) *LocalStrategy {
	decoy, err := hasher.Hash([]byte("decoy-password"))
	if err != nil {
		// hasher.Hash only fails on an out-of-range cost, which NewHasher clamps.
		panic(fmt.Sprintf("local strategy: decoy hash: %v", err))
	}
	return &LocalStrategy{repo: repo, hasher: hasher, decoyHash: decoy}
}

// Register creates a new local identity for the username/password pair.
// Returns ErrUsernameTaken when the store already holds the username; the
// store's unique index is the source of truth, so concurrent registrations
// for the same name cannot both succeed.
func (s *LocalStrategy) Register(ctx context.Context, username, password string) (*domain.Identity, error) {
	username = normalizeUsername(username)
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	ident := &domain.Identity{
		ID:             uuid.New().String(),
		LocalUsername:  username,
		CredentialHash: hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := ident.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateLocal(ctx, ident); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return ident, nil
}

// Verify authenticates the username/password pair. A missing user and a wrong
// password both collapse to ErrInvalidCredentials so the response cannot be
// used to probe which usernames exist. A bcrypt compare runs on every path,
// against the decoy hash when no user matches, so response time does not
// reveal whether the username exists. Store failures are returned as-is.
func (s *LocalStrategy) Verify(ctx context.Context, username, password string) (*domain.Identity, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	ident, err := s.repo.GetByLocalUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if ident == nil || ident.CredentialHash == "" {
		_ = s.hasher.Compare(s.decoyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(ident.CredentialHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return ident, nil
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
