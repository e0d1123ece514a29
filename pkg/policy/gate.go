package policy

import (
	"slices"

	"moderation/pkg/domain"
	"moderation/pkg/metrics"
	"moderation/pkg/serrors"
)

// Operation names one of the four decision points of the authorization gate.
type Operation string

const (
	OpCreate Operation = "CREATE"
	OpRead   Operation = "READ"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// capability describes who may perform one operation on one resource kind.
type capability struct {
	// public allows anonymous callers (public reads, self-registration).
	public bool
	// roles may perform the operation regardless of ownership.
	roles []domain.Role
	// owner additionally allows the authenticated owner of the persisted
	// record.
	owner bool
}

// capabilities is the single declarative table keyed by (resource kind,
// operation) consulted by every gate decision. An absent entry denies
// everyone.
var capabilities = map[domain.Kind]map[Operation]capability{ //nolint: gochecknoglobals
	domain.KindWebsite: {
		OpCreate: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator, domain.RoleContributor}},
		OpRead:   {public: true},
		OpUpdate: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}, owner: true},
		OpDelete: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}, owner: true},
	},
	domain.KindWebpage: {
		OpCreate: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator, domain.RoleContributor}},
		OpRead:   {public: true},
		OpUpdate: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}, owner: true},
		OpDelete: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}, owner: true},
	},
	domain.KindTag: {
		OpCreate: {roles: []domain.Role{domain.RoleAdmin}},
		OpRead:   {public: true},
		OpUpdate: {roles: []domain.Role{domain.RoleAdmin}},
		OpDelete: {roles: []domain.Role{domain.RoleAdmin}},
	},
	domain.KindWebsiteTag: {
		OpCreate: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator, domain.RoleContributor}},
		OpRead:   {public: true},
		OpUpdate: {roles: []domain.Role{domain.RoleAdmin}},
		OpDelete: {roles: []domain.Role{domain.RoleAdmin}},
	},
	domain.KindWebsiteReport: {
		OpCreate: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator, domain.RoleContributor}},
		OpRead:   {roles: allRoles},
		OpUpdate: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}},
		OpDelete: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}},
	},
	domain.KindWebpageReport: {
		OpCreate: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator, domain.RoleContributor}},
		OpRead:   {roles: allRoles},
		OpUpdate: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}},
		OpDelete: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}},
	},
	domain.KindUserReport: {
		OpCreate: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator, domain.RoleContributor}},
		OpRead:   {roles: allRoles},
		OpUpdate: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}},
		OpDelete: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}},
	},
	domain.KindReportMessage: {
		OpCreate: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator, domain.RoleContributor}},
		OpRead:   {roles: allRoles},
		OpUpdate: {owner: true},
		OpDelete: {roles: []domain.Role{domain.RoleAdmin}, owner: true},
	},
	domain.KindUser: {
		// anyone may self-register; role constraints are checked separately
		OpCreate: {public: true},
		OpRead:   {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}, owner: true},
		OpUpdate: {roles: []domain.Role{domain.RoleAdmin}, owner: true},
		OpDelete: {roles: []domain.Role{domain.RoleAdmin}, owner: true},
	},
	domain.KindStatistic: {
		OpRead: {public: true},
	},
}

var allRoles = []domain.Role{ //nolint: gochecknoglobals
	domain.RoleAdmin, domain.RoleModerator, domain.RoleContributor, domain.RoleViewer,
}

// Gate combines the capability table, the change policy and the transition
// guards into per-operation decisions. It is stateless.
type Gate struct{}

// NewGate returns the authorization gate.
func NewGate() Gate { return Gate{} }

// decide runs the coarse role/ownership gate for one operation and records
// the outcome. ownerID is zero when the resource has no owner or the decision
// does not concern a specific record.
func (Gate) decide(p *domain.Principal, kind domain.Kind, op Operation, ownerID int64) error {
	err := evaluate(p, kind, op, ownerID)

	outcome := "allowed"
	if err != nil {
		outcome = "denied"
	}
	metrics.AuthorizationDecisions.WithLabelValues(string(kind), string(op), outcome).Inc()

	return err
}

func evaluate(p *domain.Principal, kind domain.Kind, op Operation, ownerID int64) error {
	c, ok := capabilities[kind][op]
	if !ok {
		return serrors.With(serrors.ErrNoAuthorization, "%s on %s is not permitted", op, kind)
	}
	if c.public {
		return nil
	}
	if p.Anonymous() {
		return serrors.With(serrors.ErrNoAuthorization, "authentication required for %s on %s", op, kind)
	}
	if p.HasAnyRole(c.roles...) {
		return nil
	}
	if c.owner && p.Owns(ownerID) {
		return nil
	}

	return serrors.With(serrors.ErrNoAuthorization, "role does not permit %s on %s", op, kind)
}

// CanCreate decides whether the principal may create a resource of the given
// kind.
func (g Gate) CanCreate(p *domain.Principal, kind domain.Kind) error {
	return g.decide(p, kind, OpCreate, 0)
}

// CanRead decides whether the principal may read the resource. ownerID is the
// owner of the persisted record, zero for unowned resources and list reads.
func (g Gate) CanRead(p *domain.Principal, kind domain.Kind, ownerID int64) error {
	return g.decide(p, kind, OpRead, ownerID)
}

// CanDelete decides whether the principal may delete the persisted record.
func (g Gate) CanDelete(p *domain.Principal, kind domain.Kind, ownerID int64) error {
	return g.decide(p, kind, OpDelete, ownerID)
}

// CanUpdateWebsite runs the full update decision for a website: coarse role
// gate, field-level change policy, then the status transition guard. The
// persisted record is the source of truth for ownership and prior state.
func (g Gate) CanUpdateWebsite(p *domain.Principal, persisted, submitted domain.Website) error {
	if err := g.decide(p, domain.KindWebsite, OpUpdate, persisted.UserID); err != nil {
		return err
	}
	fields, err := DiffWebsite(persisted, submitted)
	if err != nil {
		return err
	}
	if err := AuthorizeChanges(p, domain.KindWebsite, persisted.UserID, fields); err != nil {
		return err
	}
	if slices.Contains(fields, FieldStatus) {
		return ValidateStatusChange(persisted.Status, submitted.Status)
	}

	return nil
}

// CanUpdateWebpage runs the full update decision for a webpage.
func (g Gate) CanUpdateWebpage(p *domain.Principal, persisted, submitted domain.Webpage) error {
	if err := g.decide(p, domain.KindWebpage, OpUpdate, persisted.UserID); err != nil {
		return err
	}
	fields, err := DiffWebpage(persisted, submitted)
	if err != nil {
		return err
	}
	if err := AuthorizeChanges(p, domain.KindWebpage, persisted.UserID, fields); err != nil {
		return err
	}
	if slices.Contains(fields, FieldStatus) {
		return ValidateStatusChange(persisted.Status, submitted.Status)
	}

	return nil
}

// canUpdateReport is the shared tail of the three report update decisions.
func (g Gate) canUpdateReport(
	p *domain.Principal,
	kind domain.Kind,
	persisted, submitted domain.Report,
	fields []string) error {
	if err := g.decide(p, kind, OpUpdate, 0); err != nil {
		return err
	}
	if err := AuthorizeChanges(p, kind, 0, fields); err != nil {
		return err
	}
	if slices.Contains(fields, FieldState) {
		return ValidateStateChange(persisted.State, submitted.State)
	}

	return nil
}

// CanUpdateWebsiteReport runs the full update decision for a website report.
func (g Gate) CanUpdateWebsiteReport(p *domain.Principal, persisted, submitted domain.WebsiteReport) error {
	fields, err := DiffWebsiteReport(persisted, submitted)
	if err != nil {
		return err
	}

	return g.canUpdateReport(p, domain.KindWebsiteReport, persisted.Report, submitted.Report, fields)
}

// CanUpdateWebpageReport runs the full update decision for a webpage report.
func (g Gate) CanUpdateWebpageReport(p *domain.Principal, persisted, submitted domain.WebpageReport) error {
	fields, err := DiffWebpageReport(persisted, submitted)
	if err != nil {
		return err
	}

	return g.canUpdateReport(p, domain.KindWebpageReport, persisted.Report, submitted.Report, fields)
}

// CanUpdateUserReport runs the full update decision for a user report.
func (g Gate) CanUpdateUserReport(p *domain.Principal, persisted, submitted domain.UserReport) error {
	fields, err := DiffUserReport(persisted, submitted)
	if err != nil {
		return err
	}

	return g.canUpdateReport(p, domain.KindUserReport, persisted.Report, submitted.Report, fields)
}

// CanUpdateTag runs the full update decision for a tag.
func (g Gate) CanUpdateTag(p *domain.Principal, persisted, submitted domain.Tag) error {
	if err := g.decide(p, domain.KindTag, OpUpdate, 0); err != nil {
		return err
	}
	fields, err := DiffTag(persisted, submitted)
	if err != nil {
		return err
	}

	return AuthorizeChanges(p, domain.KindTag, 0, fields)
}

// CanUpdateWebsiteTag runs the full update decision for a website tag.
func (g Gate) CanUpdateWebsiteTag(p *domain.Principal, persisted, submitted domain.WebsiteTag) error {
	if err := g.decide(p, domain.KindWebsiteTag, OpUpdate, persisted.UserID); err != nil {
		return err
	}
	fields, err := DiffWebsiteTag(persisted, submitted)
	if err != nil {
		return err
	}

	return AuthorizeChanges(p, domain.KindWebsiteTag, persisted.UserID, fields)
}

// CanUpdateUser runs the full update decision for a user record.
func (g Gate) CanUpdateUser(p *domain.Principal, persisted, submitted domain.User) error {
	if err := g.decide(p, domain.KindUser, OpUpdate, persisted.ID); err != nil {
		return err
	}
	fields, err := DiffUser(persisted, submitted)
	if err != nil {
		return err
	}

	return AuthorizeChanges(p, domain.KindUser, persisted.ID, fields)
}

// CanUpdateReportMessage runs the full update decision for a report message.
// Only the author may touch it, whatever their role.
func (g Gate) CanUpdateReportMessage(p *domain.Principal, persisted, submitted domain.ReportMessage) error {
	if err := g.decide(p, domain.KindReportMessage, OpUpdate, persisted.UserID); err != nil {
		return err
	}
	fields, err := DiffReportMessage(persisted, submitted)
	if err != nil {
		return err
	}

	return AuthorizeChanges(p, domain.KindReportMessage, persisted.UserID, fields)
}
