package service_test

import (
	"testing"
	"time"

	"moderation/internal/service"
	"moderation/pkg/domain"
	"moderation/pkg/storage/memory"
)

// tickClock hands out strictly increasing timestamps so ordering assertions
// are deterministic.
type tickClock struct{ now int64 }

func (c *tickClock) NowMillis() int64 {
	c.now += 1_000

	return c.now
}

func newStorage(t *testing.T) *memory.Memory {
	t.Helper()

	return memory.New(&tickClock{})
}

func testOptions() service.Options {
	return service.Options{ScanMaxAttempts: 3, ScanUniqueJobPeriod: time.Hour}
}

func admin() *domain.Principal {
	return &domain.Principal{UserID: 1, Roles: []domain.Role{domain.RoleAdmin}}
}

func moderator() *domain.Principal {
	return &domain.Principal{UserID: 2, Roles: []domain.Role{domain.RoleModerator}}
}

func contributor(id int64) *domain.Principal {
	return &domain.Principal{UserID: id, Roles: []domain.Role{domain.RoleContributor}}
}

func viewer(id int64) *domain.Principal {
	return &domain.Principal{UserID: id, Roles: []domain.Role{domain.RoleViewer}}
}
