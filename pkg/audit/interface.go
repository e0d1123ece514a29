// Package audit defines the abstraction used to probe a moderated target and
// report whether it is reachable for end users.
package audit

import (
	"context"
)

// Result describes the outcome of probing a single target.
type Result struct {
	Accessible bool   // Accessible reports whether the target answered with a usable response.
	StatusCode int    // StatusCode is the HTTP status of the final response, 0 when none was received.
	FinalURL   string // FinalURL is the address that produced the final response, after redirects.
	Server     string // Server echoes the Server response header when present.
	Reason     string // Reason explains an inaccessible verdict in one short sentence.
}

// Auditor probes targets and renders an accessibility verdict.
//
//go:generate mockgen -package mockaudit -source=interface.go -destination=mock/mockaudit.go *
type Auditor interface {
	// Audit probes the target, given as a host or host/path without a scheme.
	// An error is returned only when no verdict could be reached, e.g. the
	// context expired; an unreachable target is a valid negative Result.
	Audit(ctx context.Context, target string) (Result, error)
}
