// Package auth issues and verifies the RS256 bearer tokens that identify
// callers, and resolves them into principals for the policy layer.
package auth

import (
	"crypto/rsa"
	"strconv"
	"time"

	"moderation/pkg/domain"
	"moderation/pkg/serrors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the token payload. The subject carries the user id; roles are
// embedded so the server can authorize without a user lookup per request.
type Claims struct {
	jwt.RegisteredClaims

	Roles []domain.Role `json:"roles"`
}

// Minter signs tokens with an RSA private key.
type Minter struct {
	key *rsa.PrivateKey
	ttl time.Duration
}

// NewMinter parses the PEM-encoded private key and returns a Minter issuing
// tokens valid for ttl.
func NewMinter(privateKeyPEM []byte, ttl time.Duration) (*Minter, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not parse RSA private key")
	}

	return &Minter{key: key, ttl: ttl}, nil
}

// Mint issues a signed token for the given user.
func (m *Minter) Mint(user domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Roles: user.Roles,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(m.key)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrInternal, err, "could not sign token")
	}

	return signed, nil
}

// Verifier validates tokens with an RSA public key.
type Verifier struct {
	key *rsa.PublicKey
}

// NewVerifier parses the PEM-encoded public key and returns a Verifier.
func NewVerifier(publicKeyPEM []byte) (*Verifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not parse RSA public key")
	}

	return &Verifier{key: key}, nil
}

// Verify parses and validates a token, returning the principal it identifies.
// Any validation failure, including expiry and a wrong signing method, yields
// ErrNoAuthorization.
func (v *Verifier) Verify(token string) (*domain.Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, serrors.With(serrors.ErrNoAuthorization, "unexpected signing method %s", t.Method.Alg())
		}

		return v.key, nil
	})
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrNoAuthorization, err, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, serrors.With(serrors.ErrNoAuthorization, "invalid token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrNoAuthorization, err, "invalid token subject")
	}
	for _, r := range claims.Roles {
		if !r.Valid() {
			return nil, serrors.With(serrors.ErrNoAuthorization, "unknown role %q in token", r)
		}
	}

	return &domain.Principal{UserID: userID, Roles: claims.Roles}, nil
}
