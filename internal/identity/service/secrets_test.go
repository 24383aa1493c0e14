package service

import (
	"context"
	"errors"
	"testing"

	"secrets-portal/internal/identity/domain"
)

func TestSecretService_SubmitAndList(t *testing.T) {
	repo := newMemRepo()
	local := newTestLocalStrategy(repo)
	secrets := NewSecretService(repo)
	ctx := context.Background()

	alice, err := local.Register(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := secrets.Submit(ctx, alice.ID, "hi"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	shared, err := secrets.ListShared(ctx)
	if err != nil {
		t.Fatalf("ListShared: %v", err)
	}
	if len(shared) != 1 {
		t.Fatalf("ListShared returned %d entries, want 1", len(shared))
	}
	if shared[0].Secret != "hi" {
		t.Errorf("Secret = %q, want %q", shared[0].Secret, "hi")
	}
	if shared[0].IdentityID != alice.ID {
		t.Errorf("IdentityID = %q, want %q", shared[0].IdentityID, alice.ID)
	}
	if shared[0].DisplayName != "alice" {
		t.Errorf("DisplayName = %q, want %q", shared[0].DisplayName, "alice")
	}
}

func TestSecretService_ListExcludesIdentitiesWithoutSecrets(t *testing.T) {
	repo := newMemRepo()
	local := newTestLocalStrategy(repo)
	secrets := NewSecretService(repo)
	ctx := context.Background()

	if _, err := local.Register(ctx, "quiet", "pw1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	shared, err := secrets.ListShared(ctx)
	if err != nil {
		t.Fatalf("ListShared: %v", err)
	}
	if len(shared) != 0 {
		t.Errorf("ListShared returned %d entries, want 0", len(shared))
	}
}

// staleListRepo returns a listing that includes an identity whose secret was
// cleared after the list query, as a concurrent update could produce.
type staleListRepo struct {
	memRepo
	stale []*domain.Identity
}

func (r *staleListRepo) ListWithSecrets(ctx context.Context) ([]*domain.Identity, error) {
	return r.stale, nil
}

func TestSecretService_ListSkipsEntriesWithoutSecret(t *testing.T) {
	repo := &staleListRepo{stale: []*domain.Identity{
		{ID: "a", LocalUsername: "alice", Secret: "hi"},
		{ID: "b", LocalUsername: "bob"},
	}}
	secrets := NewSecretService(repo)

	shared, err := secrets.ListShared(context.Background())
	if err != nil {
		t.Fatalf("ListShared: %v", err)
	}
	if len(shared) != 1 || shared[0].IdentityID != "a" {
		t.Errorf("ListShared = %+v, want only the entry holding a secret", shared)
	}
}

func TestSecretService_FederatedDisplayName(t *testing.T) {
	repo := newMemRepo()
	secrets := NewSecretService(repo)
	ctx := context.Background()

	ident, err := repo.FindOrCreateByFederatedID(ctx, "google-sub-1")
	if err != nil {
		t.Fatalf("FindOrCreateByFederatedID: %v", err)
	}
	if err := secrets.Submit(ctx, ident.ID, "from google"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	shared, err := secrets.ListShared(ctx)
	if err != nil {
		t.Fatalf("ListShared: %v", err)
	}
	if len(shared) != 1 {
		t.Fatalf("ListShared returned %d entries, want 1", len(shared))
	}
	if shared[0].DisplayName != "anonymous" {
		t.Errorf("DisplayName = %q, want %q", shared[0].DisplayName, "anonymous")
	}
}

func TestSecretService_SubmitUnknownIdentity(t *testing.T) {
	secrets := NewSecretService(newMemRepo())

	err := secrets.Submit(context.Background(), "no-such-id", "hi")
	if !errors.Is(err, ErrIdentityNotFound) {
		t.Errorf("Submit for unknown id = %v, want ErrIdentityNotFound", err)
	}
}

func TestSecretService_SubmitEmptySecret(t *testing.T) {
	repo := newMemRepo()
	local := newTestLocalStrategy(repo)
	secrets := NewSecretService(repo)
	ctx := context.Background()

	alice, err := local.Register(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := secrets.Submit(ctx, alice.ID, "   "); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("Submit empty secret = %v, want ErrEmptySecret", err)
	}
}

func TestSecretService_SubmitOverwritesPrevious(t *testing.T) {
	repo := newMemRepo()
	local := newTestLocalStrategy(repo)
	secrets := NewSecretService(repo)
	ctx := context.Background()

	alice, err := local.Register(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := secrets.Submit(ctx, alice.ID, "first"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := secrets.Submit(ctx, alice.ID, "second"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	shared, err := secrets.ListShared(ctx)
	if err != nil {
		t.Fatalf("ListShared: %v", err)
	}
	if len(shared) != 1 || shared[0].Secret != "second" {
		t.Errorf("ListShared = %+v, want one entry holding %q", shared, "second")
	}
}

func TestSecretService_StoreFailurePassesThrough(t *testing.T) {
	repo := newMemRepo()
	storeErr := errors.New("store unavailable")
	repo.fails = storeErr
	secrets := NewSecretService(repo)

	if err := secrets.Submit(context.Background(), "id", "hi"); !errors.Is(err, storeErr) {
		t.Errorf("Submit with failing store = %v, want the store error", err)
	}
	if _, err := secrets.ListShared(context.Background()); !errors.Is(err, storeErr) {
		t.Errorf("ListShared with failing store = %v, want the store error", err)
	}
}
