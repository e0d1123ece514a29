package storage

import (
	"context"

	"moderation/pkg/domain"
)

// UserStorage defines row access for user accounts. Emails are unique.
type UserStorage interface {
	UserByID(ctx context.Context, id int64) (*domain.User, error)
	// UserByEmail fetches a user by login identity.
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	StoreUser(ctx context.Context, u domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, u domain.User, expectedModified int64) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
	UsersModifiedAfter(ctx context.Context, cutoff int64) ([]domain.User, error)
}

// StatisticStorage computes platform-wide counters.
type StatisticStorage interface {
	// Statistics returns the current counter snapshot.
	Statistics(ctx context.Context) (domain.Statistic, error)
}
