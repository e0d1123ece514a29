package policy

import (
	"moderation/pkg/domain"
	"moderation/pkg/serrors"
)

// machine is a transition relation over states of type S. Self-transitions
// are always allowed and never need to be listed.
type machine[S comparable] map[S]map[S]bool

func (m machine[S]) allowed(current, requested S) bool {
	if current == requested {
		return true
	}

	return m[current][requested]
}

// directStatus lists the status transitions a caller may request through the
// update-entity path. The PENDING_* states belong to the scanning pipeline:
// nothing leaves them here, regardless of role. READY and BLOCKED are freely
// interchangeable, and either may be sent back for a rescan.
var directStatus = machine[domain.Status]{ //nolint: gochecknoglobals
	domain.StatusReady: {
		domain.StatusBlocked:       true,
		domain.StatusPendingRescan: true,
	},
	domain.StatusBlocked: {
		domain.StatusReady:         true,
		domain.StatusPendingRescan: true,
	},
}

// pipelineStatus lists the transitions reserved for the scanning pipeline:
// resolving a pending scan into READY or BLOCKED.
var pipelineStatus = machine[domain.Status]{ //nolint: gochecknoglobals
	domain.StatusPendingInitial: {
		domain.StatusReady:   true,
		domain.StatusBlocked: true,
	},
	domain.StatusPendingRescan: {
		domain.StatusReady:   true,
		domain.StatusBlocked: true,
	},
}

// reportState lists the report lifecycle; reports reopen freely.
var reportState = machine[domain.State]{ //nolint: gochecknoglobals
	domain.StateOpen:   {domain.StateClosed: true},
	domain.StateClosed: {domain.StateOpen: true},
}

// ValidateStatusChange checks a status transition requested via a direct
// entity update. Deletion is not a status transition; it travels on the
// Deleted flag and is governed by the change policy instead.
func ValidateStatusChange(current, requested domain.Status) error {
	if directStatus.allowed(current, requested) {
		return nil
	}
	if current.Pending() {
		return serrors.With(serrors.ErrIllegalTransition,
			"status %s is owned by the scanning pipeline and cannot be changed directly", current)
	}

	return serrors.With(serrors.ErrIllegalTransition,
		"illegal status transition %s -> %s", current, requested)
}

// ValidatePipelineStatusChange checks a status transition applied by the
// scanning pipeline when a scan resolves.
func ValidatePipelineStatusChange(current, requested domain.Status) error {
	if pipelineStatus.allowed(current, requested) {
		return nil
	}

	return serrors.With(serrors.ErrIllegalTransition,
		"illegal pipeline status transition %s -> %s", current, requested)
}

// ValidateStateChange checks a report state transition.
func ValidateStateChange(current, requested domain.State) error {
	if reportState.allowed(current, requested) {
		return nil
	}

	return serrors.With(serrors.ErrIllegalTransition,
		"illegal report state transition %s -> %s", current, requested)
}
