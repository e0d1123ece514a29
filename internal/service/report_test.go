package service_test

import (
	"context"
	"testing"

	"moderation/internal/service"
	"moderation/pkg/domain"
	"moderation/pkg/policy"
	"moderation/pkg/serrors"
	"moderation/pkg/storage/memory"

	"github.com/stretchr/testify/require"
)

func seedWebsite(t *testing.T, mem *memory.Memory, ownerID int64, dom string) *domain.Website {
	t.Helper()

	site, err := mem.StoreWebsite(context.Background(), domain.Website{
		UserID: ownerID,
		Domain: dom,
		Status: domain.StatusReady,
	})
	require.NoError(t, err)

	return site
}

func TestWebsiteReports_Add(t *testing.T) {
	mem := newStorage(t)
	s := service.NewWebsiteReports(mem, testOptions())
	ctx := context.Background()
	site := seedWebsite(t, mem, 10, "a.example")

	report, err := s.Add(ctx, contributor(11), domain.WebsiteReport{
		Report:    domain.Report{Reason: domain.ReasonLowContrast},
		WebsiteID: site.ID,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StateOpen, report.State)
	require.Equal(t, int64(11), report.UserID)

	_, err = s.Add(ctx, contributor(11), domain.WebsiteReport{
		Report:    domain.Report{Reason: "NOT_A_REASON"},
		WebsiteID: site.ID,
	})
	require.ErrorIs(t, err, serrors.ErrIllegalArgument)

	_, err = s.Add(ctx, contributor(11), domain.WebsiteReport{
		Report:    domain.Report{Reason: domain.ReasonOther},
		WebsiteID: site.ID + 100,
	})
	require.ErrorIs(t, err, serrors.ErrNotFound)

	_, err = s.Add(ctx, viewer(12), domain.WebsiteReport{
		Report:    domain.Report{Reason: domain.ReasonOther},
		WebsiteID: site.ID,
	})
	require.ErrorIs(t, err, serrors.ErrNoAuthorization)
}

func TestWebsiteReports_Update(t *testing.T) {
	mem := newStorage(t)
	s := service.NewWebsiteReports(mem, testOptions())
	ctx := context.Background()
	site := seedWebsite(t, mem, 10, "a.example")

	report, err := s.Add(ctx, contributor(11), domain.WebsiteReport{
		Report:    domain.Report{Reason: domain.ReasonLowContrast},
		WebsiteID: site.ID,
	})
	require.NoError(t, err)

	// Moderators manage state but not the reason.
	closed := *report
	closed.State = domain.StateClosed
	updated, err := s.Update(ctx, moderator(), closed)
	require.NoError(t, err)
	require.Equal(t, domain.StateClosed, updated.State)

	requalified := *updated
	requalified.Reason = domain.ReasonMissingLabels
	_, err = s.Update(ctx, moderator(), requalified)
	require.ErrorIs(t, err, serrors.ErrIllegalArgument)

	updated, err = s.Update(ctx, admin(), requalified)
	require.NoError(t, err)
	require.Equal(t, domain.ReasonMissingLabels, updated.Reason)

	// The filer cannot moderate their own report.
	reopened := *updated
	reopened.State = domain.StateOpen
	_, err = s.Update(ctx, contributor(11), reopened)
	require.ErrorIs(t, err, serrors.ErrNoAuthorization)

	// Stale optimistic precondition.
	_, err = s.Update(ctx, admin(), requalified)
	require.ErrorIs(t, err, serrors.ErrConflict)
}

func TestWebsiteReports_ReadRequiresAuthentication(t *testing.T) {
	mem := newStorage(t)
	s := service.NewWebsiteReports(mem, testOptions())
	ctx := context.Background()
	site := seedWebsite(t, mem, 10, "a.example")

	report, err := s.Add(ctx, contributor(11), domain.WebsiteReport{
		Report:    domain.Report{Reason: domain.ReasonKeyboardTrap},
		WebsiteID: site.ID,
	})
	require.NoError(t, err)

	_, err = s.Get(ctx, nil, report.ID)
	require.ErrorIs(t, err, serrors.ErrNoAuthorization)

	got, err := s.Get(ctx, viewer(12), report.ID)
	require.NoError(t, err)
	require.Equal(t, report.ID, got.ID)

	page, err := s.GetAll(ctx, viewer(12), policy.QueryParameters{})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalElements)

	_, err = s.GetAll(ctx, nil, policy.QueryParameters{})
	require.ErrorIs(t, err, serrors.ErrNoAuthorization)
}

func TestWebsiteReports_DeleteCascadesConversation(t *testing.T) {
	mem := newStorage(t)
	s := service.NewWebsiteReports(mem, testOptions())
	msgs := service.NewReportMessages(mem, testOptions())
	ctx := context.Background()
	site := seedWebsite(t, mem, 10, "a.example")

	report, err := s.Add(ctx, contributor(11), domain.WebsiteReport{
		Report:    domain.Report{Reason: domain.ReasonFlashingContent},
		WebsiteID: site.ID,
	})
	require.NoError(t, err)

	_, err = msgs.Add(ctx, contributor(11), domain.ReportMessage{
		ReportKind: domain.ReportKindWebsite,
		ReportID:   report.ID,
		Message:    "the carousel strobes",
	})
	require.NoError(t, err)

	require.ErrorIs(t, s.Delete(ctx, contributor(11), report.ID), serrors.ErrNoAuthorization)
	require.NoError(t, s.Delete(ctx, moderator(), report.ID))

	remaining, err := mem.ReportMessagesByReport(ctx, domain.ReportKindWebsite, report.ID)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestUserReports_TargetMustExist(t *testing.T) {
	mem := newStorage(t)
	s := service.NewUserReports(mem, testOptions())
	ctx := context.Background()

	target, err := mem.StoreUser(ctx, domain.User{
		Email: "bob@example.org", Username: "bob", Roles: []domain.Role{domain.RoleContributor},
	})
	require.NoError(t, err)

	report, err := s.Add(ctx, contributor(11), domain.UserReport{
		Report:       domain.Report{Reason: domain.ReasonAbusiveBehavior},
		TargetUserID: target.ID,
	})
	require.NoError(t, err)
	require.Equal(t, target.ID, report.TargetUserID)

	_, err = s.Add(ctx, contributor(11), domain.UserReport{
		Report:       domain.Report{Reason: domain.ReasonAbusiveBehavior},
		TargetUserID: target.ID + 100,
	})
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestReportMessages_AuthorOnlyEdits(t *testing.T) {
	mem := newStorage(t)
	reports := service.NewWebsiteReports(mem, testOptions())
	s := service.NewReportMessages(mem, testOptions())
	ctx := context.Background()
	site := seedWebsite(t, mem, 10, "a.example")

	report, err := reports.Add(ctx, contributor(11), domain.WebsiteReport{
		Report:    domain.Report{Reason: domain.ReasonMissingAltText},
		WebsiteID: site.ID,
	})
	require.NoError(t, err)

	author := contributor(11)
	msg, err := s.Add(ctx, author, domain.ReportMessage{
		ReportKind: domain.ReportKindWebsite,
		ReportID:   report.ID,
		Message:    "hero image has no alt text",
	})
	require.NoError(t, err)
	require.Equal(t, int64(11), msg.UserID)

	// Not even an admin may edit another user's message.
	edited := *msg
	edited.Message = "reworded"
	_, err = s.Update(ctx, admin(), edited)
	require.ErrorIs(t, err, serrors.ErrNoAuthorization)

	updated, err := s.Update(ctx, author, edited)
	require.NoError(t, err)
	require.Equal(t, "reworded", updated.Message)

	// Admins may delete, and so may the author, but nobody else.
	require.ErrorIs(t, s.Delete(ctx, moderator(), msg.ID), serrors.ErrNoAuthorization)
	require.NoError(t, s.Delete(ctx, admin(), msg.ID))
}

func TestReportMessages_ByReport(t *testing.T) {
	mem := newStorage(t)
	reports := service.NewWebsiteReports(mem, testOptions())
	s := service.NewReportMessages(mem, testOptions())
	ctx := context.Background()
	site := seedWebsite(t, mem, 10, "a.example")

	report, err := reports.Add(ctx, contributor(11), domain.WebsiteReport{
		Report:    domain.Report{Reason: domain.ReasonMissingLabels},
		WebsiteID: site.ID,
	})
	require.NoError(t, err)

	for _, text := range []string{"first", "second", "third"} {
		_, err := s.Add(ctx, contributor(11), domain.ReportMessage{
			ReportKind: domain.ReportKindWebsite,
			ReportID:   report.ID,
			Message:    text,
		})
		require.NoError(t, err)
	}

	conversation, err := s.ByReport(ctx, viewer(12), domain.ReportKindWebsite, report.ID)
	require.NoError(t, err)
	require.Len(t, conversation, 3)
	require.Equal(t, "first", conversation[0].Message)
	require.Equal(t, "third", conversation[2].Message)

	_, err = s.ByReport(ctx, viewer(12), domain.ReportKindUser, report.ID)
	require.ErrorIs(t, err, serrors.ErrNotFound)

	_, err = s.Add(ctx, contributor(11), domain.ReportMessage{
		ReportKind: "BOGUS",
		ReportID:   report.ID,
		Message:    "x",
	})
	require.ErrorIs(t, err, serrors.ErrIllegalArgument)
}
