package service

import (
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"

	"moderation/pkg/domain"
)

// ScanArgs contains the arguments for an accessibility scan job submitted to
// River. Resource and Target form the unique key so that one pending scan per
// target exists at a time.
type ScanArgs struct {
	// Resource names the kind of the entity awaiting the scan verdict.
	Resource domain.Kind `json:"resource" river:"unique"`
	// ResourceID is the id of the entity awaiting the scan verdict.
	ResourceID int64 `json:"resourceId"`
	// Target is the address to probe, e.g. "example.org" or
	// "example.org/pricing". It is part of the unique key.
	Target string `json:"target" river:"unique"`

	// maxAttempts configures the maximum number of times River should retry the job.
	maxAttempts int
	// uniqueJobPeriod defines the lookback window during which a job with the
	// same unique fields is considered a duplicate across the specified states.
	uniqueJobPeriod time.Duration
}

// Kind returns the River job kind used to register and dispatch the scan worker.
func (args ScanArgs) Kind() string { return "AccessibilityScanJob" }

// InsertOpts returns the River options that control how the job is enqueued,
// including the maximum retry attempts and uniqueness constraints to prevent
// duplicate jobs for the same target while one is still in flight.
func (args ScanArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		UniqueOpts: river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: args.uniqueJobPeriod,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}

// newScanArgs builds the job payload for one entity with the configured retry
// and uniqueness settings applied.
func (c core) newScanArgs(resource domain.Kind, id int64, target string) ScanArgs {
	return ScanArgs{
		Resource:        resource,
		ResourceID:      id,
		Target:          target,
		maxAttempts:     c.options.ScanMaxAttempts,
		uniqueJobPeriod: c.options.ScanUniqueJobPeriod,
	}
}
