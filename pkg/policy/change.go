package policy

import (
	"moderation/pkg/domain"
	"moderation/pkg/serrors"
)

// Field names used by the change policy. They double as the wire names of the
// corresponding entity fields.
const (
	FieldCreated      = "created"
	FieldUserID       = "userId"
	FieldDomain       = "domain"
	FieldPath         = "path"
	FieldWebsiteID    = "websiteId"
	FieldWebpageID    = "webpageId"
	FieldTargetUserID = "targetUserId"
	FieldStatus       = "status"
	FieldDeleted      = "deleted"
	FieldReason       = "reason"
	FieldState        = "state"
	FieldName         = "name"
	FieldTagID        = "tagId"
	FieldEmail        = "email"
	FieldUsername     = "username"
	FieldRoles        = "roles"
	FieldMessage      = "message"
	FieldReportKind   = "reportKind"
	FieldReportID     = "reportId"
)

// diffMeta rejects attempts to rewrite the creation timestamp. A submitted
// Created of zero is tolerated as "unspecified" under full-replacement
// semantics; any other mismatch is a caller bug.
func diffMeta(persisted, submitted domain.Meta) error {
	if submitted.Created != 0 && submitted.Created != persisted.Created {
		return serrors.With(serrors.ErrIllegalArgument, "created is immutable")
	}

	return nil
}

// DiffWebsite computes the set of changed field names between the persisted
// and the submitted version of the same website.
func DiffWebsite(persisted, submitted domain.Website) ([]string, error) {
	if err := diffMeta(persisted.Meta, submitted.Meta); err != nil {
		return nil, err
	}

	var fields []string
	if persisted.UserID != submitted.UserID {
		fields = append(fields, FieldUserID)
	}
	if persisted.Domain != submitted.Domain {
		fields = append(fields, FieldDomain)
	}
	if persisted.Status != submitted.Status {
		fields = append(fields, FieldStatus)
	}
	if persisted.Deleted != submitted.Deleted {
		fields = append(fields, FieldDeleted)
	}

	return fields, nil
}

// DiffWebpage computes the changed field names between two webpage versions.
func DiffWebpage(persisted, submitted domain.Webpage) ([]string, error) {
	if err := diffMeta(persisted.Meta, submitted.Meta); err != nil {
		return nil, err
	}

	var fields []string
	if persisted.WebsiteID != submitted.WebsiteID {
		fields = append(fields, FieldWebsiteID)
	}
	if persisted.UserID != submitted.UserID {
		fields = append(fields, FieldUserID)
	}
	if persisted.Path != submitted.Path {
		fields = append(fields, FieldPath)
	}
	if persisted.Status != submitted.Status {
		fields = append(fields, FieldStatus)
	}
	if persisted.Deleted != submitted.Deleted {
		fields = append(fields, FieldDeleted)
	}

	return fields, nil
}

// diffReport computes the changed field names of the report value shared by
// all report subtypes.
func diffReport(persisted, submitted domain.Report) []string {
	var fields []string
	if persisted.UserID != submitted.UserID {
		fields = append(fields, FieldUserID)
	}
	if persisted.Reason != submitted.Reason {
		fields = append(fields, FieldReason)
	}
	if persisted.State != submitted.State {
		fields = append(fields, FieldState)
	}

	return fields
}

// DiffWebsiteReport computes the changed field names between two website
// report versions.
func DiffWebsiteReport(persisted, submitted domain.WebsiteReport) ([]string, error) {
	if err := diffMeta(persisted.Meta, submitted.Meta); err != nil {
		return nil, err
	}

	fields := diffReport(persisted.Report, submitted.Report)
	if persisted.WebsiteID != submitted.WebsiteID {
		fields = append(fields, FieldWebsiteID)
	}

	return fields, nil
}

// DiffWebpageReport computes the changed field names between two webpage
// report versions.
func DiffWebpageReport(persisted, submitted domain.WebpageReport) ([]string, error) {
	if err := diffMeta(persisted.Meta, submitted.Meta); err != nil {
		return nil, err
	}

	fields := diffReport(persisted.Report, submitted.Report)
	if persisted.WebpageID != submitted.WebpageID {
		fields = append(fields, FieldWebpageID)
	}

	return fields, nil
}

// DiffUserReport computes the changed field names between two user report
// versions.
func DiffUserReport(persisted, submitted domain.UserReport) ([]string, error) {
	if err := diffMeta(persisted.Meta, submitted.Meta); err != nil {
		return nil, err
	}

	fields := diffReport(persisted.Report, submitted.Report)
	if persisted.TargetUserID != submitted.TargetUserID {
		fields = append(fields, FieldTargetUserID)
	}

	return fields, nil
}

// DiffTag computes the changed field names between two tag versions.
func DiffTag(persisted, submitted domain.Tag) ([]string, error) {
	if err := diffMeta(persisted.Meta, submitted.Meta); err != nil {
		return nil, err
	}

	var fields []string
	if persisted.UserID != submitted.UserID {
		fields = append(fields, FieldUserID)
	}
	if persisted.Name != submitted.Name {
		fields = append(fields, FieldName)
	}

	return fields, nil
}

// DiffWebsiteTag computes the changed field names between two website tag
// versions.
func DiffWebsiteTag(persisted, submitted domain.WebsiteTag) ([]string, error) {
	if err := diffMeta(persisted.Meta, submitted.Meta); err != nil {
		return nil, err
	}

	var fields []string
	if persisted.UserID != submitted.UserID {
		fields = append(fields, FieldUserID)
	}
	if persisted.WebsiteID != submitted.WebsiteID {
		fields = append(fields, FieldWebsiteID)
	}
	if persisted.TagID != submitted.TagID {
		fields = append(fields, FieldTagID)
	}

	return fields, nil
}

// DiffUser computes the changed field names between two user versions.
func DiffUser(persisted, submitted domain.User) ([]string, error) {
	if err := diffMeta(persisted.Meta, submitted.Meta); err != nil {
		return nil, err
	}

	var fields []string
	if persisted.Email != submitted.Email {
		fields = append(fields, FieldEmail)
	}
	if persisted.Username != submitted.Username {
		fields = append(fields, FieldUsername)
	}
	if !equalRoles(persisted.Roles, submitted.Roles) {
		fields = append(fields, FieldRoles)
	}
	if persisted.Deleted != submitted.Deleted {
		fields = append(fields, FieldDeleted)
	}

	return fields, nil
}

// DiffReportMessage computes the changed field names between two report
// message versions.
func DiffReportMessage(persisted, submitted domain.ReportMessage) ([]string, error) {
	if err := diffMeta(persisted.Meta, submitted.Meta); err != nil {
		return nil, err
	}

	var fields []string
	if persisted.ReportKind != submitted.ReportKind {
		fields = append(fields, FieldReportKind)
	}
	if persisted.ReportID != submitted.ReportID {
		fields = append(fields, FieldReportID)
	}
	if persisted.UserID != submitted.UserID {
		fields = append(fields, FieldUserID)
	}
	if persisted.Message != submitted.Message {
		fields = append(fields, FieldMessage)
	}

	return fields, nil
}

func equalRoles(a, b []domain.Role) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[domain.Role]bool, len(a))
	for _, r := range a {
		set[r] = true
	}
	for _, r := range b {
		if !set[r] {
			return false
		}
	}

	return true
}

// writeRule describes who may change one field of one resource kind. A field
// without a rule can be changed by nobody.
type writeRule struct {
	// roles may always write the field.
	roles []domain.Role
	// owner lets the authenticated owner of the persisted record write the
	// field even without one of the listed roles.
	owner bool
}

func (r writeRule) permits(p *domain.Principal, ownerID int64) bool {
	if p.Anonymous() {
		return false
	}
	if p.HasAnyRole(r.roles...) {
		return true
	}

	return r.owner && p.Owns(ownerID)
}

// fieldWriters is the declarative per-resource permission table driving the
// change policy. Keeping it in one place avoids the per-service drift the
// old per-resource role checks suffered from.
var fieldWriters = map[domain.Kind]map[string]writeRule{ //nolint: gochecknoglobals
	domain.KindWebsite: {
		FieldDomain:  {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}, owner: true},
		FieldStatus:  {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}},
		FieldDeleted: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}, owner: true},
	},
	domain.KindWebpage: {
		FieldPath:    {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}, owner: true},
		FieldStatus:  {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}},
		FieldDeleted: {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}, owner: true},
	},
	domain.KindWebsiteReport: {
		FieldReason: {roles: []domain.Role{domain.RoleAdmin}},
		FieldState:  {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}},
	},
	domain.KindWebpageReport: {
		FieldReason: {roles: []domain.Role{domain.RoleAdmin}},
		FieldState:  {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}},
	},
	domain.KindUserReport: {
		FieldReason: {roles: []domain.Role{domain.RoleAdmin}},
		FieldState:  {roles: []domain.Role{domain.RoleAdmin, domain.RoleModerator}},
	},
	domain.KindTag: {
		FieldName: {roles: []domain.Role{domain.RoleAdmin}},
	},
	domain.KindWebsiteTag: {
		FieldWebsiteID: {roles: []domain.Role{domain.RoleAdmin}},
		FieldTagID:     {roles: []domain.Role{domain.RoleAdmin}},
	},
	domain.KindUser: {
		FieldEmail:    {roles: []domain.Role{domain.RoleAdmin}, owner: true},
		FieldUsername: {roles: []domain.Role{domain.RoleAdmin}, owner: true},
		FieldRoles:    {roles: []domain.Role{domain.RoleAdmin}},
		FieldDeleted:  {roles: []domain.Role{domain.RoleAdmin}, owner: true},
	},
	domain.KindReportMessage: {
		// only the author, whatever their role
		FieldMessage: {owner: true},
	},
}

// AuthorizeChanges validates that every changed field is writable by the
// principal for the given resource kind. ownerID is taken from the persisted
// record. A forbidden field change is an illegal argument, deliberately
// distinct from the coarser no-authorization failure used when the caller may
// not touch the resource at all.
func AuthorizeChanges(p *domain.Principal, kind domain.Kind, ownerID int64, fields []string) error {
	rules := fieldWriters[kind]
	for _, f := range fields {
		rule, ok := rules[f]
		if !ok {
			return serrors.With(serrors.ErrIllegalArgument, "field %s of %s is not updatable", f, kind)
		}
		if !rule.permits(p, ownerID) {
			return serrors.With(serrors.ErrIllegalArgument, "role may not change field %s of %s", f, kind)
		}
	}

	return nil
}
