package storage

import "errors"

// Common errors returned by storage implementations.
var (
	// ErrAlreadyInTx is returned when Begin is called on a handle that is
	// already transactional.
	ErrAlreadyInTx = errors.New("already in tx")
	// ErrNotInTx is returned when Commit or Rollback is called outside a
	// transaction.
	ErrNotInTx = errors.New("not in tx")
	// ErrStaleEntity is returned by Update* methods when the optimistic
	// precondition failed: the row's modified timestamp no longer matches the
	// value the caller read. Services surface this as a retryable conflict.
	ErrStaleEntity = errors.New("stale entity: modified timestamp mismatch")
)
