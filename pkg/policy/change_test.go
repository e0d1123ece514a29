package policy_test

import (
	"testing"

	"moderation/pkg/domain"
	"moderation/pkg/policy"
	"moderation/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func admin() *domain.Principal {
	return &domain.Principal{UserID: 1, Roles: []domain.Role{domain.RoleAdmin}}
}

func moderator() *domain.Principal {
	return &domain.Principal{UserID: 2, Roles: []domain.Role{domain.RoleModerator}}
}

func contributor(userID int64) *domain.Principal {
	return &domain.Principal{UserID: userID, Roles: []domain.Role{domain.RoleContributor}}
}

func viewer() *domain.Principal {
	return &domain.Principal{UserID: 4, Roles: []domain.Role{domain.RoleViewer}}
}

func TestDiffWebsite(t *testing.T) {
	persisted := domain.Website{
		Meta:   domain.Meta{ID: 10, Created: 100, Modified: 200},
		UserID: 7, Domain: "example.org", Status: domain.StatusReady,
	}

	t.Run("no changes", func(t *testing.T) {
		fields, err := policy.DiffWebsite(persisted, persisted)
		require.NoError(t, err)
		require.Empty(t, fields)
	})

	t.Run("changed fields are named", func(t *testing.T) {
		submitted := persisted
		submitted.Domain = "example.com"
		submitted.Deleted = true
		fields, err := policy.DiffWebsite(persisted, submitted)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{policy.FieldDomain, policy.FieldDeleted}, fields)
	})

	t.Run("unspecified created is tolerated", func(t *testing.T) {
		submitted := persisted
		submitted.Created = 0
		_, err := policy.DiffWebsite(persisted, submitted)
		require.NoError(t, err)
	})

	t.Run("rewriting created is a caller bug", func(t *testing.T) {
		submitted := persisted
		submitted.Created = 999
		_, err := policy.DiffWebsite(persisted, submitted)
		require.ErrorIs(t, err, serrors.ErrIllegalArgument)
	})
}

func TestDiffUserComparesRolesAsSet(t *testing.T) {
	persisted := domain.User{
		Meta:  domain.Meta{ID: 5, Created: 1},
		Roles: []domain.Role{domain.RoleAdmin, domain.RoleContributor},
	}
	submitted := persisted
	submitted.Roles = []domain.Role{domain.RoleContributor, domain.RoleAdmin}

	fields, err := policy.DiffUser(persisted, submitted)
	require.NoError(t, err)
	require.Empty(t, fields, "role order must not count as a change")

	submitted.Roles = []domain.Role{domain.RoleAdmin}
	fields, err = policy.DiffUser(persisted, submitted)
	require.NoError(t, err)
	require.Equal(t, []string{policy.FieldRoles}, fields)
}

func TestAuthorizeChangesReportFields(t *testing.T) {
	t.Run("admin writes reason", func(t *testing.T) {
		err := policy.AuthorizeChanges(admin(), domain.KindWebsiteReport, 0, []string{policy.FieldReason})
		require.NoError(t, err)
	})

	t.Run("moderator may not write reason", func(t *testing.T) {
		err := policy.AuthorizeChanges(moderator(), domain.KindWebsiteReport, 0, []string{policy.FieldReason})
		require.ErrorIs(t, err, serrors.ErrIllegalArgument)
		require.NotErrorIs(t, err, serrors.ErrNoAuthorization)
	})

	t.Run("moderator writes state", func(t *testing.T) {
		err := policy.AuthorizeChanges(moderator(), domain.KindWebsiteReport, 0, []string{policy.FieldState})
		require.NoError(t, err)
	})

	t.Run("contributor may not write state", func(t *testing.T) {
		err := policy.AuthorizeChanges(contributor(3), domain.KindUserReport, 0, []string{policy.FieldState})
		require.ErrorIs(t, err, serrors.ErrIllegalArgument)
	})
}

func TestAuthorizeChangesOwnership(t *testing.T) {
	const ownerID = int64(7)

	t.Run("owning contributor edits identity field", func(t *testing.T) {
		err := policy.AuthorizeChanges(contributor(ownerID), domain.KindWebsite, ownerID, []string{policy.FieldDomain})
		require.NoError(t, err)
	})

	t.Run("non-owner contributor is rejected", func(t *testing.T) {
		err := policy.AuthorizeChanges(contributor(99), domain.KindWebsite, ownerID, []string{policy.FieldDomain})
		require.ErrorIs(t, err, serrors.ErrIllegalArgument)
	})

	t.Run("contributor may not write status even on own website", func(t *testing.T) {
		err := policy.AuthorizeChanges(contributor(ownerID), domain.KindWebsite, ownerID, []string{policy.FieldStatus})
		require.ErrorIs(t, err, serrors.ErrIllegalArgument)
	})

	t.Run("viewer writes nothing", func(t *testing.T) {
		err := policy.AuthorizeChanges(viewer(), domain.KindWebsite, ownerID, []string{policy.FieldDeleted})
		require.ErrorIs(t, err, serrors.ErrIllegalArgument)
	})
}

func TestAuthorizeChangesTagAdminOnly(t *testing.T) {
	for _, p := range []*domain.Principal{moderator(), contributor(3), viewer()} {
		err := policy.AuthorizeChanges(p, domain.KindTag, 0, []string{policy.FieldName})
		require.ErrorIs(t, err, serrors.ErrIllegalArgument, "role %v", p.Roles)
	}
	require.NoError(t, policy.AuthorizeChanges(admin(), domain.KindTag, 0, []string{policy.FieldName}))
}

func TestAuthorizeChangesUnknownFieldRejected(t *testing.T) {
	// owner references have no write rule at all, not even for admins
	err := policy.AuthorizeChanges(admin(), domain.KindWebsite, 0, []string{policy.FieldUserID})
	require.ErrorIs(t, err, serrors.ErrIllegalArgument)
}

func TestAuthorizeChangesReportMessageAuthorOnly(t *testing.T) {
	const authorID = int64(42)

	t.Run("author edits own message", func(t *testing.T) {
		p := &domain.Principal{UserID: authorID, Roles: []domain.Role{domain.RoleViewer}}
		err := policy.AuthorizeChanges(p, domain.KindReportMessage, authorID, []string{policy.FieldMessage})
		require.NoError(t, err)
	})

	t.Run("admin may not edit someone else's message", func(t *testing.T) {
		err := policy.AuthorizeChanges(admin(), domain.KindReportMessage, authorID, []string{policy.FieldMessage})
		require.ErrorIs(t, err, serrors.ErrIllegalArgument)
	})
}
