// Package storage defines the persistence collaborator interfaces the
// moderation core relies on. It abstracts row access, the optimistic write
// precondition and transaction management so different backends (PostgreSQL,
// in-memory) can provide concrete implementations.
package storage

import "context"

// AllStorage is the composite interface covering every resource the platform
// persists. Implementations typically embed the narrower per-resource
// interfaces.
type AllStorage interface {
	WebsiteStorage
	WebpageStorage
	TagStorage
	WebsiteTagStorage
	ReportStorage
	ReportMessageStorage
	UserStorage
	StatisticStorage
	JobStorage
}

// TxStorage is a storage handle bound to a database transaction. It exposes
// the same capabilities as AllStorage plus transaction lifecycle control.
// A TxStorage becomes unusable after Commit or Rollback.
type TxStorage interface {
	AllStorage

	// Commit finalizes the transaction, persisting all changes.
	Commit() error
	// Rollback aborts the transaction, discarding all uncommitted changes.
	Rollback() error
}

// Storage is a non-transactional storage handle that can start transactions
// and manages the lifetime of the underlying backend.
type Storage interface {
	AllStorage

	// Close releases resources held by the implementation (connection pools
	// and the like). The handle must not be used afterwards.
	Close() error

	// Begin starts a new transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx begins a transaction, runs cb against it, commits when cb
	// returns nil and rolls back otherwise.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
