package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"moderation/pkg/domain"
	"moderation/pkg/storage"
	"moderation/pkg/storage/postgres"

	"github.com/stretchr/testify/require"
)

func TestPgSQL_Begin_SuccessAndAlreadyInTx(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// Success: begin from *sql.DB
	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)
	require.NotNil(t, txStorage)

	// Should be a *postgres.PgSQL with underlying *sql.Tx
	inner, ok := txStorage.(*postgres.PgSQL)
	require.True(t, ok)
	_, isTx := inner.DB.(*sql.Tx)
	require.True(t, isTx)

	// Error: begin when already in tx
	_, err = inner.Begin(ctx)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyInTx)

	// Cleanup the opened transaction
	require.NoError(t, inner.Rollback())
}

func TestPgSQL_Commit_SuccessAndNotInTx(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// Error path: calling Commit on non-tx
	err := pg.Commit()
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotInTx)

	// Success path: a tag stored inside the tx is visible after commit
	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)

	stored, err := txStorage.StoreTag(ctx, domain.Tag{UserID: 1, Name: "committed"})
	require.NoError(t, err)
	require.NoError(t, txStorage.Commit())

	kept, err := pg.TagByID(ctx, stored.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
}

func TestPgSQL_Rollback_SuccessAndNotInTx(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// Error path: calling Rollback on non-tx
	err := pg.Rollback()
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotInTx)

	// Success path: rollback discards the stored tag
	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)

	stored, err := txStorage.StoreTag(ctx, domain.Tag{UserID: 1, Name: "discarded"})
	require.NoError(t, err)
	require.NoError(t, txStorage.Rollback())

	gone, err := pg.TagByID(ctx, stored.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestPgSQL_WithTx_CommitAndRollback(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// Success callback: should commit
	var committedID int64
	err := pg.WithTx(ctx, func(s storage.AllStorage) error {
		stored, err := s.StoreTag(ctx, domain.Tag{UserID: 1, Name: "with-tx"})
		if err != nil {
			return err //nolint: wrapcheck
		}
		committedID = stored.ID

		return nil
	})
	require.NoError(t, err)

	kept, err := pg.TagByID(ctx, committedID)
	require.NoError(t, err)
	require.NotNil(t, kept)

	// Error in callback: should rollback
	var discardedID int64
	err = pg.WithTx(ctx, func(s storage.AllStorage) error {
		stored, err := s.StoreTag(ctx, domain.Tag{UserID: 1, Name: "with-tx-rollback"})
		if err != nil {
			return err //nolint: wrapcheck
		}
		discardedID = stored.ID

		return errors.New("boom")
	})
	require.Error(t, err)

	gone, err := pg.TagByID(ctx, discardedID)
	require.NoError(t, err)
	require.Nil(t, gone)
}
