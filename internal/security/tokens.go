package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed, expired, or fails verification.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims is the identity projection carried by a session token: the
// identity id (sub) plus the local username when one exists. Picture is part
// of the projection shape but nothing populates it.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Picture  string `json:"picture,omitempty"`
}

// TokenProvider issues and verifies signed session tokens (RS256 or ES256).
// Verification is the only integrity check a session gets; tokens are never
// re-validated against the store once issued.
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	ttl        time.Duration
}

// NewTokenProvider returns a TokenProvider that signs with the given private
// key (RSA or ECDSA). issuer is set on claims and checked on every verify.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		ttl:        ttl,
	}
}

// Issue signs a session token for the identity. username may be empty for
// identities that only have a federated link.
func (p *TokenProvider) Issue(identityID, username string) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
		Username: username,
	}

	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", ErrInvalidToken
	}
	return jwt.NewWithClaims(method, claims).SignedString(p.privateKey)
}

// Verify parses the token, checks signature, expiry, and issuer, and returns
// its claims. Any failure collapses to ErrInvalidToken; callers treat that as
// an unauthenticated request, not an error to surface.
func (p *TokenProvider) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
			return p.publicKey, nil
		}
		return nil, ErrInvalidToken
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
