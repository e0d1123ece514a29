// Package memory provides an in-process implementation of the storage
// interfaces. It backs the service unit tests and the local development mode;
// it keeps the same semantics as the PostgreSQL backend (monotonic modified
// stamping, optimistic preconditions, cascades) without a database.
package memory

import (
	"context"
	"sync"

	"moderation/pkg/domain"
	"moderation/pkg/storage"

	"github.com/riverqueue/river"
)

// Memory is an in-process storage.Storage. All operations are guarded by one
// mutex; WithTx runs the callback under that same lock-free handle, so unlike
// the PostgreSQL backend it provides atomicity only per call, which is enough
// for tests and local runs.
type Memory struct {
	mu    sync.Mutex
	clock storage.Clock

	nextID int64

	websites       map[int64]domain.Website
	webpages       map[int64]domain.Webpage
	tags           map[int64]domain.Tag
	websiteTags    map[int64]domain.WebsiteTag
	websiteReports map[int64]domain.WebsiteReport
	webpageReports map[int64]domain.WebpageReport
	userReports    map[int64]domain.UserReport
	reportMessages map[int64]domain.ReportMessage
	users          map[int64]domain.User

	secrets map[int64]string

	// Jobs records every enqueued job so tests can assert on scheduling.
	Jobs []river.JobArgs
}

// New creates an empty in-memory storage stamping timestamps from clock.
func New(clock storage.Clock) *Memory {
	return &Memory{
		clock:          clock,
		websites:       map[int64]domain.Website{},
		webpages:       map[int64]domain.Webpage{},
		tags:           map[int64]domain.Tag{},
		websiteTags:    map[int64]domain.WebsiteTag{},
		websiteReports: map[int64]domain.WebsiteReport{},
		webpageReports: map[int64]domain.WebpageReport{},
		userReports:    map[int64]domain.UserReport{},
		reportMessages: map[int64]domain.ReportMessage{},
		users:          map[int64]domain.User{},
		secrets:        map[int64]string{},
	}
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// tx wraps Memory with no-op transaction control.
type tx struct {
	*Memory
	done bool
}

func (t *tx) Commit() error {
	if t.done {
		return storage.ErrNotInTx
	}
	t.done = true

	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return storage.ErrNotInTx
	}
	t.done = true

	return nil
}

// Begin returns a handle with no-op transaction control; changes apply
// immediately.
func (m *Memory) Begin(_ context.Context) (storage.TxStorage, error) {
	return &tx{Memory: m}, nil
}

// WithTx runs cb against the storage itself. Rollback is not supported;
// callers relying on it belong on the PostgreSQL backend.
func (m *Memory) WithTx(_ context.Context, cb func(storage.AllStorage) error) error {
	return cb(m)
}

// AddJob records the job args and reports it as added.
func (m *Memory) AddJob(_ context.Context, args river.JobArgs, _ *river.InsertOpts) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Jobs = append(m.Jobs, args)

	return true, nil
}

// SetSecret implements storage.CredentialStore.
func (m *Memory) SetSecret(_ context.Context, userID int64, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[userID] = secret

	return nil
}

// Verify implements storage.CredentialStore.
func (m *Memory) Verify(_ context.Context, userID int64, secret string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.secrets[userID]

	return ok && stored == secret, nil
}

// DropSecret implements storage.CredentialStore.
func (m *Memory) DropSecret(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.secrets, userID)

	return nil
}

// Statistics computes the counter snapshot over the current maps.
func (m *Memory) Statistics(_ context.Context) (domain.Statistic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s domain.Statistic
	for _, w := range m.websites {
		if !w.Deleted {
			s.WebsiteCount++
		}
		s.Modified = max(s.Modified, w.Modified)
	}
	for _, w := range m.webpages {
		if !w.Deleted {
			s.WebpageCount++
		}
		s.Modified = max(s.Modified, w.Modified)
	}
	for _, u := range m.users {
		if !u.Deleted {
			s.UserCount++
		}
		s.Modified = max(s.Modified, u.Modified)
	}
	for _, r := range m.websiteReports {
		s.ReportCount++
		if r.State == domain.StateOpen {
			s.OpenReportCount++
		}
		s.Modified = max(s.Modified, r.Modified)
	}
	for _, r := range m.webpageReports {
		s.ReportCount++
		if r.State == domain.StateOpen {
			s.OpenReportCount++
		}
		s.Modified = max(s.Modified, r.Modified)
	}
	for _, r := range m.userReports {
		s.ReportCount++
		if r.State == domain.StateOpen {
			s.OpenReportCount++
		}
		s.Modified = max(s.Modified, r.Modified)
	}

	return s, nil
}

// stamp assigns an id and creation timestamps to a new entity.
func (m *Memory) stamp(meta *domain.Meta) {
	m.nextID++
	meta.ID = m.nextID
	now := m.clock.NowMillis()
	meta.Created = now
	meta.Modified = now
}

// bump advances the modified timestamp, keeping it strictly monotonic per
// entity even when the clock stands still.
func (m *Memory) bump(meta *domain.Meta, previous int64) {
	now := m.clock.NowMillis()
	if now <= previous {
		now = previous + 1
	}
	meta.Modified = now
}

var _ storage.Storage = (*Memory)(nil)
var _ storage.CredentialStore = (*Memory)(nil)
