package domain

// User is a platform account. Secrets live in the credential store, never on
// this struct.
type User struct {
	Meta
	// Email is the unique login identity.
	Email string `json:"email"`
	// Username is the public display name.
	Username string `json:"username"`
	// Roles are the capability levels granted to the account. A user without
	// roles is invalid.
	Roles []Role `json:"roles"`
	// Deleted is the soft-delete flag.
	Deleted bool `json:"deleted"`
}

// OwnerID returns the user id itself; user records are self-owned.
func (u User) OwnerID() int64 { return u.ID }

// HasRole reports whether the account holds the given role.
func (u User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}

	return false
}
