package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"golang.org/x/crypto/bcrypt"
)

const userSecretsTable = "user_secrets"

// SetSecret stores or replaces the bcrypt hash of a user secret.
func (p *PgSQL) SetSecret(ctx context.Context, userID int64, secret string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash secret: %w", err)
	}

	if _, err := p.Builder.Insert(userSecretsTable).
		Rows(goqu.Record{"user_id": userID, "secret_hash": hash}).
		OnConflict(goqu.DoUpdate("user_id", goqu.Record{"secret_hash": hash})).
		Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not store secret into pg: %w", err)
	}

	return nil
}

// Verify reports whether the secret matches the stored hash. A user without a
// stored secret never verifies.
func (p *PgSQL) Verify(ctx context.Context, userID int64, secret string) (bool, error) {
	var hash []byte
	found, err := p.Builder.From(userSecretsTable).
		Select(goqu.I("secret_hash")).
		Where(goqu.I("user_id").Eq(userID)).
		Executor().ScanValContext(ctx, &hash)
	if err != nil {
		return false, fmt.Errorf("could not fetch secret from pg: %w", err)
	}
	if !found {
		return false, nil
	}

	switch err := bcrypt.CompareHashAndPassword(hash, []byte(secret)); {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("could not compare secret: %w", err)
	}
}

// DropSecret removes the secret of a user, if any.
func (p *PgSQL) DropSecret(ctx context.Context, userID int64) error {
	if _, err := p.Builder.Delete(userSecretsTable).
		Where(goqu.I("user_id").Eq(userID)).
		Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not drop secret from pg: %w", err)
	}

	return nil
}
