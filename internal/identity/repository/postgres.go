package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"secrets-portal/internal/identity/domain"
)

func newIdentityID() string { return uuid.New().String() }

// uniqueViolation is the Postgres error code raised when a unique index rejects a row.
const uniqueViolation = "23505"

const identityColumns = `id, local_username, credential_hash, federated_id, secret, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an identity repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the identity for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)
	return scanIdentity(row)
}

// GetByLocalUsername returns the identity registered under the username, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByLocalUsername(ctx context.Context, username string) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM identities WHERE local_username = $1`, username)
	return scanIdentity(row)
}

// CreateLocal persists the identity to the database. The identity must have ID,
// LocalUsername, and CredentialHash set. Returns ErrDuplicateUsername when the
// username unique index rejects the insert.
func (r *PostgresRepository) CreateLocal(ctx context.Context, i *domain.Identity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO identities (id, local_username, credential_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)`,
		i.ID, i.LocalUsername, i.CredentialHash, i.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateUsername
	}
	return err
}

// FindOrCreateByFederatedID returns the identity linked to federatedID, creating
// one if none exists. The insert uses ON CONFLICT DO NOTHING against the partial
// unique index on federated_id, so two concurrent calls for the same id race
// safely: the loser's insert is a no-op and the follow-up select resolves the
// winner's row.
func (r *PostgresRepository) FindOrCreateByFederatedID(ctx context.Context, federatedID string) (*domain.Identity, error) {
	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO identities (id, federated_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (federated_id) WHERE federated_id IS NOT NULL DO NOTHING
		 RETURNING `+identityColumns,
		newIdentityID(), federatedID, now,
	)
	created, err := scanIdentity(row)
	if err != nil {
		return nil, err
	}
	if created != nil {
		return created, nil
	}
	// Insert was a no-op: the row already existed.
	existing, err := r.queryByFederatedID(ctx, federatedID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.New("federated identity vanished after conflict")
	}
	return existing, nil
}

// UpdateSecret writes the secret onto the identity with the given id.
// Returns ErrNotFound when no row matched.
func (r *PostgresRepository) UpdateSecret(ctx context.Context, id string, secret string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE identities SET secret = $2, updated_at = $3 WHERE id = $1`,
		id, sql.NullString{String: secret, Valid: secret != ""}, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListWithSecrets returns all identities that have submitted a secret, oldest first.
func (r *PostgresRepository) ListWithSecrets(ctx context.Context) ([]*domain.Identity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE secret IS NOT NULL ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Identity
	for rows.Next() {
		i, err := scanIdentityRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) queryByFederatedID(ctx context.Context, federatedID string) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM identities WHERE federated_id = $1`, federatedID)
	return scanIdentity(row)
}

func scanIdentity(row *sql.Row) (*domain.Identity, error) {
	i, err := scanIdentityRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return i, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentityRow(row rowScanner) (*domain.Identity, error) {
	var (
		i                        domain.Identity
		username, hash, fid, sec sql.NullString
	)
	if err := row.Scan(&i.ID, &username, &hash, &fid, &sec, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	i.LocalUsername = username.String
	i.CredentialHash = hash.String
	i.FederatedID = fid.String
	i.Secret = sec.String
	return &i, nil
}
