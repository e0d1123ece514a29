// Package service implements the moderation resource services. Every service
// follows the same shape: authorize the caller through the policy gate,
// validate the submitted values, then persist. Services never retry conflicts;
// the optimistic precondition failure is surfaced to the caller as a conflict.
package service

import (
	"time"

	"moderation/internal/config"
	"moderation/pkg/policy"
	"moderation/pkg/storage"
)

// Options configure how scan jobs are enqueued by the website and webpage
// services. These settings are typically derived from application
// configuration.
type Options struct {
	// ScanMaxAttempts is the maximum number of attempts the background worker
	// should make when processing a scan job before giving up on it.
	ScanMaxAttempts int
	// ScanUniqueJobPeriod is the lookback window during which a second scan
	// request for the same target is folded into the already queued job.
	ScanUniqueJobPeriod time.Duration
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		ScanMaxAttempts:     cfg.Scan.MaxAttempts,
		ScanUniqueJobPeriod: cfg.Scan.UniqueJobPeriod,
	}
}

// core carries the collaborators shared by every resource service.
type core struct {
	// storage is the persistence layer used for row access and transactions.
	storage storage.Storage
	// gate makes all role, field and transition decisions.
	gate policy.Gate
	// options holds runtime configuration that affects job enqueueing.
	options Options
}

func newCore(st storage.Storage, options Options) core {
	return core{
		storage: st,
		gate:    policy.NewGate(),
		options: options,
	}
}
