package domain

import (
	"errors"
	"time"
)

// Identity is the unified user record. A record is reachable by a local
// username/password pair, a federated Google subject id, or both.
type Identity struct {
	ID             string
	LocalUsername  string // empty unless registered via the local path
	CredentialHash string // bcrypt hash; set iff LocalUsername is set
	FederatedID    string // Google subject id; empty unless linked via the federated path
	Secret         string // the protected payload; empty until submitted
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ErrNoCredentialPath indicates an identity with neither a local credential
// nor a federated link; such a record would be unreachable by any login path.
var ErrNoCredentialPath = errors.New("identity must have a local credential or a federated id")

// Validate validates the identity for persistence. Returns an error describing
// the first validation failure.
func (i *Identity) Validate() error {
	if i.ID == "" {
		return errors.New("id is required")
	}
	if i.LocalUsername == "" && i.FederatedID == "" {
		return ErrNoCredentialPath
	}
	if i.LocalUsername != "" && i.CredentialHash == "" {
		return errors.New("local identity requires a credential hash")
	}
	return nil
}

// HasSecret reports whether the identity has submitted a secret.
func (i *Identity) HasSecret() bool {
	return i.Secret != ""
}
