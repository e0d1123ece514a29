package memory_test

import (
	"context"
	"testing"

	"moderation/pkg/domain"
	"moderation/pkg/storage"
	"moderation/pkg/storage/memory"

	"github.com/stretchr/testify/require"
)

// frozenClock always returns the same instant, so monotonic stamping has to
// come from the storage, not from wall time.
type frozenClock struct{ now int64 }

func (c *frozenClock) NowMillis() int64 { return c.now }

func newMemory() (*memory.Memory, *frozenClock) {
	clock := &frozenClock{now: 1_000}

	return memory.New(clock), clock
}

func TestStoreStampsMeta(t *testing.T) {
	mem, clock := newMemory()

	first, err := mem.StoreWebsite(context.Background(), domain.Website{UserID: 7, Domain: "a.example", Status: domain.StatusPendingInitial})
	require.NoError(t, err)
	require.Equal(t, int64(1), first.ID)
	require.Equal(t, clock.now, first.Created)
	require.Equal(t, first.Created, first.Modified)

	second, err := mem.StoreWebsite(context.Background(), domain.Website{UserID: 7, Domain: "b.example", Status: domain.StatusPendingInitial})
	require.NoError(t, err)
	require.Equal(t, int64(2), second.ID)
}

func TestUpdateOptimisticPrecondition(t *testing.T) {
	mem, _ := newMemory()
	ctx := context.Background()

	stored, err := mem.StoreTag(ctx, domain.Tag{UserID: 1, Name: "charity"})
	require.NoError(t, err)

	stored.Name = "education"
	updated, err := mem.UpdateTag(ctx, *stored, stored.Modified)
	require.NoError(t, err)
	require.Equal(t, "education", updated.Name)
	require.Greater(t, updated.Modified, stored.Modified)

	// A writer still holding the old timestamp must lose.
	stored.Name = "health"
	_, err = mem.UpdateTag(ctx, *stored, stored.Modified)
	require.ErrorIs(t, err, storage.ErrStaleEntity)

	// Absent rows yield nil, nil.
	missing, err := mem.UpdateTag(ctx, domain.Tag{Meta: domain.Meta{ID: 99}}, 0)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUpdateKeepsCreated(t *testing.T) {
	mem, _ := newMemory()
	ctx := context.Background()

	stored, err := mem.StoreUser(ctx, domain.User{Email: "a@example.com", Username: "a"})
	require.NoError(t, err)

	submitted := *stored
	submitted.Created = 0
	submitted.Username = "b"
	updated, err := mem.UpdateUser(ctx, submitted, stored.Modified)
	require.NoError(t, err)
	require.Equal(t, stored.Created, updated.Created)
}

func TestModifiedMonotonicUnderFrozenClock(t *testing.T) {
	mem, _ := newMemory()
	ctx := context.Background()

	stored, err := mem.StoreWebsite(ctx, domain.Website{UserID: 1, Domain: "a.example", Status: domain.StatusReady})
	require.NoError(t, err)

	previous := stored.Modified
	current := *stored
	for i := 0; i < 3; i++ {
		updated, err := mem.UpdateWebsite(ctx, current, current.Modified)
		require.NoError(t, err)
		require.Greater(t, updated.Modified, previous)
		previous = updated.Modified
		current = *updated
	}
}

func TestStatusVerdictOnlyLandsOnPendingRows(t *testing.T) {
	mem, _ := newMemory()
	ctx := context.Background()

	site, err := mem.StoreWebsite(ctx, domain.Website{UserID: 1, Domain: "a.example", Status: domain.StatusPendingInitial})
	require.NoError(t, err)

	resolved, err := mem.UpdateWebsiteStatus(ctx, site.ID, domain.StatusReady)
	require.NoError(t, err)
	require.Equal(t, domain.StatusReady, resolved.Status)

	// a late verdict against the resolved row is dropped
	late, err := mem.UpdateWebsiteStatus(ctx, site.ID, domain.StatusBlocked)
	require.NoError(t, err)
	require.Nil(t, late)

	kept, err := mem.WebsiteByID(ctx, site.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusReady, kept.Status)
	require.Equal(t, resolved.Modified, kept.Modified)

	page, err := mem.StoreWebpage(ctx, domain.Webpage{WebsiteID: site.ID, UserID: 1, Path: "/", Status: domain.StatusReady})
	require.NoError(t, err)

	none, err := mem.UpdateWebpageStatus(ctx, page.ID, domain.StatusBlocked)
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestDeleteWebsiteCascadesTags(t *testing.T) {
	mem, _ := newMemory()
	ctx := context.Background()

	site, err := mem.StoreWebsite(ctx, domain.Website{UserID: 1, Domain: "a.example", Status: domain.StatusReady})
	require.NoError(t, err)
	other, err := mem.StoreWebsite(ctx, domain.Website{UserID: 1, Domain: "b.example", Status: domain.StatusReady})
	require.NoError(t, err)
	tag, err := mem.StoreTag(ctx, domain.Tag{UserID: 1, Name: "charity"})
	require.NoError(t, err)

	_, err = mem.StoreWebsiteTag(ctx, domain.WebsiteTag{UserID: 1, WebsiteID: site.ID, TagID: tag.ID})
	require.NoError(t, err)
	kept, err := mem.StoreWebsiteTag(ctx, domain.WebsiteTag{UserID: 1, WebsiteID: other.ID, TagID: tag.ID})
	require.NoError(t, err)

	deleted, err := mem.DeleteWebsite(ctx, site.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	orphans, err := mem.WebsiteTagsByWebsite(ctx, site.ID)
	require.NoError(t, err)
	require.Empty(t, orphans)

	remaining, err := mem.WebsiteTagsByWebsite(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, kept.ID, remaining[0].ID)

	again, err := mem.DeleteWebsite(ctx, site.ID)
	require.NoError(t, err)
	require.False(t, again)
}

func TestDeleteReportCascadesMessages(t *testing.T) {
	mem, _ := newMemory()
	ctx := context.Background()

	report, err := mem.StoreWebsiteReport(ctx, domain.WebsiteReport{
		Report:    domain.Report{UserID: 1, Reason: domain.ReasonLowContrast, State: domain.StateOpen},
		WebsiteID: 5,
	})
	require.NoError(t, err)

	_, err = mem.StoreReportMessage(ctx, domain.ReportMessage{
		ReportKind: domain.ReportKindWebsite, ReportID: report.ID, UserID: 1, Message: "still broken",
	})
	require.NoError(t, err)
	// Same numeric report id in another family must survive.
	kept, err := mem.StoreReportMessage(ctx, domain.ReportMessage{
		ReportKind: domain.ReportKindUser, ReportID: report.ID, UserID: 1, Message: "unrelated",
	})
	require.NoError(t, err)

	deleted, err := mem.DeleteWebsiteReport(ctx, report.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	gone, err := mem.ReportMessagesByReport(ctx, domain.ReportKindWebsite, report.ID)
	require.NoError(t, err)
	require.Empty(t, gone)

	survivors, err := mem.ReportMessagesByReport(ctx, domain.ReportKindUser, report.ID)
	require.NoError(t, err)
	require.Len(t, survivors, 1)
	require.Equal(t, kept.ID, survivors[0].ID)
}

func TestModifiedAfterIsExclusive(t *testing.T) {
	mem, clock := newMemory()
	ctx := context.Background()

	old, err := mem.StoreWebsite(ctx, domain.Website{UserID: 1, Domain: "a.example", Status: domain.StatusReady})
	require.NoError(t, err)
	clock.now = 2_000
	fresh, err := mem.StoreWebsite(ctx, domain.Website{UserID: 1, Domain: "b.example", Status: domain.StatusReady})
	require.NoError(t, err)

	all, err := mem.WebsitesModifiedAfter(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	after, err := mem.WebsitesModifiedAfter(ctx, old.Modified)
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.Equal(t, fresh.ID, after[0].ID)

	none, err := mem.WebsitesModifiedAfter(ctx, fresh.Modified)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestStatistics(t *testing.T) {
	mem, clock := newMemory()
	ctx := context.Background()

	_, err := mem.StoreUser(ctx, domain.User{Email: "a@example.com", Username: "a"})
	require.NoError(t, err)
	_, err = mem.StoreUser(ctx, domain.User{Email: "b@example.com", Username: "b", Deleted: true})
	require.NoError(t, err)
	_, err = mem.StoreWebsite(ctx, domain.Website{UserID: 1, Domain: "a.example", Status: domain.StatusReady})
	require.NoError(t, err)

	clock.now = 5_000
	_, err = mem.StoreWebsiteReport(ctx, domain.WebsiteReport{
		Report:    domain.Report{UserID: 1, Reason: domain.ReasonOther, State: domain.StateOpen},
		WebsiteID: 3,
	})
	require.NoError(t, err)
	_, err = mem.StoreUserReport(ctx, domain.UserReport{
		Report:       domain.Report{UserID: 1, Reason: domain.ReasonAbusiveBehavior, State: domain.StateClosed},
		TargetUserID: 2,
	})
	require.NoError(t, err)

	stats, err := mem.Statistics(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.UserCount)
	require.Equal(t, int64(1), stats.WebsiteCount)
	require.Equal(t, int64(2), stats.ReportCount)
	require.Equal(t, int64(1), stats.OpenReportCount)
	require.Equal(t, int64(5_000), stats.Modified)
}

func TestCredentials(t *testing.T) {
	mem, _ := newMemory()
	ctx := context.Background()

	user, err := mem.StoreUser(ctx, domain.User{Email: "a@example.com", Username: "a"})
	require.NoError(t, err)
	require.NoError(t, mem.SetSecret(ctx, user.ID, "hashed"))

	ok, err := mem.Verify(ctx, user.ID, "hashed")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = mem.Verify(ctx, user.ID, "wrong")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting the user drops the secret with it.
	_, err = mem.DeleteUser(ctx, user.ID)
	require.NoError(t, err)
	ok, err = mem.Verify(ctx, user.ID, "hashed")
	require.NoError(t, err)
	require.False(t, ok)
}
