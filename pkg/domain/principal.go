package domain

// Role is the baseline capability level of an authenticated user.
type Role string

const (
	// RoleAdmin may perform every operation, including changing report
	// reasons and managing tags.
	RoleAdmin Role = "ADMIN"
	// RoleModerator may manage report states and website/webpage statuses but
	// not admin-only fields.
	RoleModerator Role = "MODERATOR"
	// RoleContributor may create resources and manage the ones they own.
	RoleContributor Role = "CONTRIBUTOR"
	// RoleViewer may only read what any authenticated user may read.
	RoleViewer Role = "VIEWER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleContributor, RoleViewer:
		return true
	}

	return false
}

// Principal identifies the caller of a core operation. It is resolved per
// request from the bearer token and passed explicitly into every service
// call; there is no ambient "current user". A nil *Principal is an anonymous
// caller.
type Principal struct {
	// UserID is the id of the authenticated user.
	UserID int64
	// Roles holds the roles granted to the user. Empty roles mean the caller
	// is treated as anonymous.
	Roles []Role
}

// Anonymous reports whether p represents an unauthenticated caller.
func (p *Principal) Anonymous() bool {
	return p == nil || len(p.Roles) == 0
}

// HasRole reports whether p carries the given role.
func (p *Principal) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}

	return false
}

// HasAnyRole reports whether p carries at least one of the given roles.
func (p *Principal) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if p.HasRole(r) {
			return true
		}
	}

	return false
}

// Owns reports whether p is the user referenced by ownerID. Ownership is
// always judged against the persisted record, never a submitted one.
func (p *Principal) Owns(ownerID int64) bool {
	return p != nil && ownerID != 0 && p.UserID == ownerID
}
