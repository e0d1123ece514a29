package storage

import "context"

// CredentialStore keeps user secrets. Hashing and comparison mechanics are
// opaque to the core; the store only answers set/verify/drop.
//
//go:generate mockgen -package mockstorage -source=credential.go -destination=mock/mockcredential.go *
type CredentialStore interface {
	// SetSecret stores or replaces the secret of a user.
	SetSecret(ctx context.Context, userID int64, secret string) error
	// Verify reports whether the secret matches the stored one for the user.
	Verify(ctx context.Context, userID int64, secret string) (bool, error)
	// DropSecret removes the secret of a user, if any.
	DropSecret(ctx context.Context, userID int64) error
}
