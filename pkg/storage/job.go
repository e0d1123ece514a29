package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs (scan requests) into the queue backend.
// Insertion is atomic with a surrounding transaction when the backend
// supports it. The boolean result reports whether a job was actually added;
// unique-job options can make insertion a no-op when an equivalent job is
// already queued.
type JobStorage interface {
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
