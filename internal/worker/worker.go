// Package worker runs the background scan pipeline on top of River.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"moderation/pkg/audit"
	"moderation/pkg/logger"
	"moderation/pkg/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

// Start registers the scan worker and starts a River client on the default
// queue with the given concurrency. The returned client must be stopped by the
// caller during shutdown.
func Start(ctx context.Context,
	dbPool *pgxpool.Pool,
	st storage.Storage,
	auditor audit.Auditor,
	maxWorkers int) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewScanWorker(st, auditor))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
