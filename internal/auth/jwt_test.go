package auth_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"moderation/internal/auth"
	"moderation/pkg/domain"
	"moderation/pkg/serrors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func testKeyPair(t *testing.T) (privatePEM, publicPEM []byte) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	return privatePEM, publicPEM
}

func TestMintVerifyRoundTrip(t *testing.T) {
	privatePEM, publicPEM := testKeyPair(t)

	minter, err := auth.NewMinter(privatePEM, time.Hour)
	require.NoError(t, err)
	verifier, err := auth.NewVerifier(publicPEM)
	require.NoError(t, err)

	token, err := minter.Mint(domain.User{
		Meta:  domain.Meta{ID: 42},
		Roles: []domain.Role{domain.RoleModerator, domain.RoleContributor},
	})
	require.NoError(t, err)

	p, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), p.UserID)
	require.Equal(t, []domain.Role{domain.RoleModerator, domain.RoleContributor}, p.Roles)
	require.True(t, p.HasRole(domain.RoleModerator))
	require.False(t, p.HasRole(domain.RoleAdmin))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	privatePEM, publicPEM := testKeyPair(t)

	minter, err := auth.NewMinter(privatePEM, -time.Minute)
	require.NoError(t, err)
	verifier, err := auth.NewVerifier(publicPEM)
	require.NoError(t, err)

	token, err := minter.Mint(domain.User{Meta: domain.Meta{ID: 1}, Roles: []domain.Role{domain.RoleViewer}})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, serrors.ErrNoAuthorization)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	privatePEM, _ := testKeyPair(t)
	_, otherPublicPEM := testKeyPair(t)

	minter, err := auth.NewMinter(privatePEM, time.Hour)
	require.NoError(t, err)
	verifier, err := auth.NewVerifier(otherPublicPEM)
	require.NoError(t, err)

	token, err := minter.Mint(domain.User{Meta: domain.Meta{ID: 1}, Roles: []domain.Role{domain.RoleViewer}})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, serrors.ErrNoAuthorization)
}

func TestVerifyRejectsWrongSigningMethod(t *testing.T) {
	_, publicPEM := testKeyPair(t)

	verifier, err := auth.NewVerifier(publicPEM)
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}).
		SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, serrors.ErrNoAuthorization)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, publicPEM := testKeyPair(t)

	verifier, err := auth.NewVerifier(publicPEM)
	require.NoError(t, err)

	_, err = verifier.Verify("not-a-token")
	require.ErrorIs(t, err, serrors.ErrNoAuthorization)
}

func TestPrincipalContext(t *testing.T) {
	p := &domain.Principal{UserID: 7, Roles: []domain.Role{domain.RoleViewer}}
	ctx := auth.WithPrincipal(t.Context(), p)
	require.Same(t, p, auth.FromContext(ctx))
	require.Nil(t, auth.FromContext(t.Context()))
}
