package policy_test

import (
	"testing"

	"moderation/pkg/domain"
	"moderation/pkg/policy"
	"moderation/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestGateCanCreate(t *testing.T) {
	gate := policy.NewGate()

	cases := []struct {
		name      string
		principal *domain.Principal
		kind      domain.Kind
		allowed   bool
	}{
		{"anonymous self-registration", nil, domain.KindUser, true},
		{"anonymous website", nil, domain.KindWebsite, false},
		{"anonymous report", nil, domain.KindWebsiteReport, false},
		{"viewer report", viewer(), domain.KindWebsiteReport, false},
		{"contributor report", contributor(3), domain.KindWebsiteReport, true},
		{"moderator user report", moderator(), domain.KindUserReport, true},
		{"contributor website", contributor(3), domain.KindWebsite, true},
		{"viewer website", viewer(), domain.KindWebsite, false},
		{"moderator tag", moderator(), domain.KindTag, false},
		{"admin tag", admin(), domain.KindTag, true},
		{"nobody creates statistics", admin(), domain.KindStatistic, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := gate.CanCreate(tc.principal, tc.kind)
			if tc.allowed {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, serrors.ErrNoAuthorization)
		})
	}
}

func TestGateCanRead(t *testing.T) {
	gate := policy.NewGate()

	t.Run("websites are public", func(t *testing.T) {
		require.NoError(t, gate.CanRead(nil, domain.KindWebsite, 7))
	})

	t.Run("statistics are public", func(t *testing.T) {
		require.NoError(t, gate.CanRead(nil, domain.KindStatistic, 0))
	})

	t.Run("reports require authentication", func(t *testing.T) {
		err := gate.CanRead(nil, domain.KindWebsiteReport, 0)
		require.ErrorIs(t, err, serrors.ErrNoAuthorization)
		require.NoError(t, gate.CanRead(viewer(), domain.KindWebsiteReport, 0))
	})

	t.Run("contributor reads only their own user record", func(t *testing.T) {
		p := contributor(5)
		require.NoError(t, gate.CanRead(p, domain.KindUser, 5))
		err := gate.CanRead(p, domain.KindUser, 6)
		require.ErrorIs(t, err, serrors.ErrNoAuthorization)
	})

	t.Run("moderator reads any user record", func(t *testing.T) {
		require.NoError(t, gate.CanRead(moderator(), domain.KindUser, 6))
	})
}

func TestGateCanDeleteOwnership(t *testing.T) {
	gate := policy.NewGate()
	const ownerID = int64(5)

	t.Run("owning contributor deletes own website", func(t *testing.T) {
		require.NoError(t, gate.CanDelete(contributor(ownerID), domain.KindWebsite, ownerID))
	})

	t.Run("non-owner contributor is denied", func(t *testing.T) {
		err := gate.CanDelete(contributor(99), domain.KindWebsite, ownerID)
		require.ErrorIs(t, err, serrors.ErrNoAuthorization)
	})

	t.Run("moderator deletes regardless of ownership", func(t *testing.T) {
		require.NoError(t, gate.CanDelete(moderator(), domain.KindWebsite, ownerID))
	})

	t.Run("only admin deletes tags", func(t *testing.T) {
		require.NoError(t, gate.CanDelete(admin(), domain.KindTag, 0))
		err := gate.CanDelete(moderator(), domain.KindTag, 0)
		require.ErrorIs(t, err, serrors.ErrNoAuthorization)
	})

	t.Run("only admin detaches website tags", func(t *testing.T) {
		require.NoError(t, gate.CanDelete(admin(), domain.KindWebsiteTag, ownerID))
		err := gate.CanDelete(moderator(), domain.KindWebsiteTag, ownerID)
		require.ErrorIs(t, err, serrors.ErrNoAuthorization)
		// the attaching contributor gets no ownership escape hatch either
		err = gate.CanDelete(contributor(ownerID), domain.KindWebsiteTag, ownerID)
		require.ErrorIs(t, err, serrors.ErrNoAuthorization)
	})
}

func TestGateCanUpdateWebsite(t *testing.T) {
	gate := policy.NewGate()
	persisted := domain.Website{
		Meta:   domain.Meta{ID: 1, Created: 10, Modified: 20},
		UserID: 5, Domain: "example.org", Status: domain.StatusReady,
	}

	t.Run("moderator blocks a ready website", func(t *testing.T) {
		submitted := persisted
		submitted.Status = domain.StatusBlocked
		require.NoError(t, gate.CanUpdateWebsite(moderator(), persisted, submitted))
	})

	t.Run("moderator cannot resolve a pending scan directly", func(t *testing.T) {
		pending := persisted
		pending.Status = domain.StatusPendingInitial
		submitted := pending
		submitted.Status = domain.StatusReady
		err := gate.CanUpdateWebsite(moderator(), pending, submitted)
		require.ErrorIs(t, err, serrors.ErrIllegalTransition)
	})

	t.Run("owning contributor renames their website", func(t *testing.T) {
		submitted := persisted
		submitted.Domain = "example.com"
		require.NoError(t, gate.CanUpdateWebsite(contributor(5), persisted, submitted))
	})

	t.Run("non-owner contributor fails the coarse gate", func(t *testing.T) {
		submitted := persisted
		submitted.Domain = "example.com"
		err := gate.CanUpdateWebsite(contributor(99), persisted, submitted)
		require.ErrorIs(t, err, serrors.ErrNoAuthorization)
	})

	t.Run("owning contributor cannot change status", func(t *testing.T) {
		submitted := persisted
		submitted.Status = domain.StatusBlocked
		err := gate.CanUpdateWebsite(contributor(5), persisted, submitted)
		require.ErrorIs(t, err, serrors.ErrIllegalArgument)
	})

	t.Run("no-op update passes", func(t *testing.T) {
		require.NoError(t, gate.CanUpdateWebsite(moderator(), persisted, persisted))
	})
}

func TestGateCanUpdateReportRoleMatrix(t *testing.T) {
	gate := policy.NewGate()
	persisted := domain.WebsiteReport{
		Meta:      domain.Meta{ID: 3, Created: 10, Modified: 20},
		Report:    domain.Report{UserID: 5, Reason: domain.ReasonLowContrast, State: domain.StateOpen},
		WebsiteID: 1,
	}

	t.Run("moderator closes the report", func(t *testing.T) {
		submitted := persisted
		submitted.State = domain.StateClosed
		require.NoError(t, gate.CanUpdateWebsiteReport(moderator(), persisted, submitted))
	})

	t.Run("moderator changing reason is an illegal argument", func(t *testing.T) {
		submitted := persisted
		submitted.Reason = domain.ReasonKeyboardTrap
		err := gate.CanUpdateWebsiteReport(moderator(), persisted, submitted)
		require.ErrorIs(t, err, serrors.ErrIllegalArgument)
		require.NotErrorIs(t, err, serrors.ErrNoAuthorization)
	})

	t.Run("admin changes reason and state together", func(t *testing.T) {
		submitted := persisted
		submitted.Reason = domain.ReasonKeyboardTrap
		submitted.State = domain.StateClosed
		require.NoError(t, gate.CanUpdateWebsiteReport(admin(), persisted, submitted))
	})

	t.Run("contributor fails the coarse gate", func(t *testing.T) {
		submitted := persisted
		submitted.State = domain.StateClosed
		err := gate.CanUpdateWebsiteReport(contributor(5), persisted, submitted)
		require.ErrorIs(t, err, serrors.ErrNoAuthorization)
	})

	t.Run("reopening a closed report is legal", func(t *testing.T) {
		closed := persisted
		closed.State = domain.StateClosed
		submitted := closed
		submitted.State = domain.StateOpen
		require.NoError(t, gate.CanUpdateWebsiteReport(moderator(), closed, submitted))
	})
}

func TestGateCanUpdateUser(t *testing.T) {
	gate := policy.NewGate()
	persisted := domain.User{
		Meta:  domain.Meta{ID: 5, Created: 1, Modified: 2},
		Email: "a@example.org", Username: "a",
		Roles: []domain.Role{domain.RoleContributor},
	}

	t.Run("user edits own email", func(t *testing.T) {
		submitted := persisted
		submitted.Email = "b@example.org"
		require.NoError(t, gate.CanUpdateUser(contributor(5), persisted, submitted))
	})

	t.Run("user cannot grant themselves roles", func(t *testing.T) {
		submitted := persisted
		submitted.Roles = []domain.Role{domain.RoleAdmin}
		err := gate.CanUpdateUser(contributor(5), persisted, submitted)
		require.ErrorIs(t, err, serrors.ErrIllegalArgument)
	})

	t.Run("admin grants roles", func(t *testing.T) {
		submitted := persisted
		submitted.Roles = []domain.Role{domain.RoleContributor, domain.RoleModerator}
		require.NoError(t, gate.CanUpdateUser(admin(), persisted, submitted))
	})

	t.Run("stranger fails the coarse gate", func(t *testing.T) {
		submitted := persisted
		submitted.Email = "b@example.org"
		err := gate.CanUpdateUser(contributor(77), persisted, submitted)
		require.ErrorIs(t, err, serrors.ErrNoAuthorization)
	})
}

func TestGateCanUpdateReportMessage(t *testing.T) {
	gate := policy.NewGate()
	persisted := domain.ReportMessage{
		Meta:       domain.Meta{ID: 9, Created: 1, Modified: 2},
		ReportKind: domain.ReportKindWebsite,
		ReportID:   3, UserID: 42, Message: "first finding",
	}

	t.Run("author edits their message", func(t *testing.T) {
		author := &domain.Principal{UserID: 42, Roles: []domain.Role{domain.RoleContributor}}
		submitted := persisted
		submitted.Message = "clarified finding"
		require.NoError(t, gate.CanUpdateReportMessage(author, persisted, submitted))
	})

	t.Run("admin cannot edit someone else's message", func(t *testing.T) {
		submitted := persisted
		submitted.Message = "tampered"
		err := gate.CanUpdateReportMessage(admin(), persisted, submitted)
		require.ErrorIs(t, err, serrors.ErrNoAuthorization)
	})
}
