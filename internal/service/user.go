package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moderation/pkg/domain"
	"moderation/pkg/policy"
	"moderation/pkg/serrors"
	"moderation/pkg/storage"
)

// users is the concrete implementation of the Users interface.
type users struct {
	core
	// creds keeps user secrets outside the user rows.
	creds storage.CredentialStore
}

// NewUsers creates a new Users service backed by the provided storage and
// credential store.
func NewUsers(st storage.Storage, creds storage.CredentialStore, options Options) Users {
	return &users{core: newCore(st, options), creds: creds}
}

// validateRoles rejects empty or unknown role sets. An account without roles
// is never valid.
func validateRoles(roles []domain.Role) error {
	if len(roles) == 0 {
		return serrors.With(serrors.ErrNoRole, "user must hold at least one role")
	}
	for _, r := range roles {
		if !r.Valid() {
			return serrors.With(serrors.ErrIllegalArgument, "unknown role %q", r)
		}
	}

	return nil
}

// holdsPrivilegedRole reports whether the set contains a role that only admins
// may grant.
func holdsPrivilegedRole(roles []domain.Role) bool {
	for _, r := range roles {
		if r == domain.RoleAdmin || r == domain.RoleModerator {
			return true
		}
	}

	return false
}

// Add registers a new account. Registration is public, but only admins may
// create accounts holding the ADMIN or MODERATOR role.
func (s *users) Add(ctx context.Context,
	p *domain.Principal,
	candidate domain.User,
	secret string) (*domain.User, error) {
	if err := s.gate.CanCreate(p, domain.KindUser); err != nil {
		return nil, err
	}

	email, err := ValidateEmail(candidate.Email)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(candidate.Username)
	if username == "" {
		return nil, serrors.With(serrors.ErrIllegalArgument, "username is empty")
	}
	if err := validateRoles(candidate.Roles); err != nil {
		return nil, err
	}
	if holdsPrivilegedRole(candidate.Roles) && !p.HasRole(domain.RoleAdmin) {
		return nil, serrors.With(serrors.ErrNoAuthorization, "only admins may grant privileged roles")
	}
	if secret == "" {
		return nil, serrors.With(serrors.ErrIllegalArgument, "secret is empty")
	}

	var stored *domain.User
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		existing, err := tx.UserByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("could not check email uniqueness: %w", err)
		}
		if existing != nil {
			return serrors.With(serrors.ErrAlreadyExists, "email %s is already registered", email)
		}

		stored, err = tx.StoreUser(ctx, domain.User{
			Email:    email,
			Username: username,
			Roles:    candidate.Roles,
		})
		if err != nil {
			return fmt.Errorf("could not store user: %w", err)
		}

		// Write the secret on the transactional handle when the backend
		// supports it, so a failed credential write also rolls back the
		// user row instead of leaving an account that can never log in.
		creds := s.creds
		if txCreds, ok := tx.(storage.CredentialStore); ok {
			creds = txCreds
		}
		if err := creds.SetSecret(ctx, stored.ID, secret); err != nil {
			return fmt.Errorf("could not store credentials: %w", err)
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return stored, nil
}

// Update applies a full-replacement update to an account. Role changes are
// admin-only through the field policy.
func (s *users) Update(ctx context.Context, p *domain.Principal, candidate domain.User) (*domain.User, error) {
	persisted, err := s.storage.UserByID(ctx, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "user not found")
	}

	if candidate.Email != persisted.Email {
		email, err := ValidateEmail(candidate.Email)
		if err != nil {
			return nil, err
		}
		candidate.Email = email
	}
	if err := validateRoles(candidate.Roles); err != nil {
		return nil, err
	}

	if err := s.gate.CanUpdateUser(p, *persisted, candidate); err != nil {
		return nil, err
	}

	var updated *domain.User
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if candidate.Email != persisted.Email {
			existing, err := tx.UserByEmail(ctx, candidate.Email)
			if err != nil {
				return fmt.Errorf("could not check email uniqueness: %w", err)
			}
			if existing != nil && existing.ID != candidate.ID {
				return serrors.With(serrors.ErrAlreadyExists, "email %s is already registered", candidate.Email)
			}
		}

		updated, err = tx.UpdateUser(ctx, candidate, candidate.Modified)
		if err != nil {
			if errors.Is(err, storage.ErrStaleEntity) {
				return serrors.Wrap(serrors.ErrConflict, err, "user was modified concurrently")
			}

			return fmt.Errorf("could not update user: %w", err)
		}
		if updated == nil {
			return serrors.With(serrors.ErrNotFound, "user not found")
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// Get fetches a single account. Admins and moderators read anyone,
// contributors and viewers only themselves.
func (s *users) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.User, error) {
	if p.Anonymous() {
		return nil, serrors.With(serrors.ErrNoAuthorization, "authentication required")
	}

	persisted, err := s.storage.UserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "user not found")
	}
	if err := s.gate.CanRead(p, domain.KindUser, persisted.ID); err != nil {
		return nil, err
	}

	return persisted, nil
}

// GetAll returns one page of accounts changed since params.ModifiedAfter.
// Callers without the admin or moderator role only see their own record.
func (s *users) GetAll(ctx context.Context,
	p *domain.Principal,
	params policy.QueryParameters) (policy.Envelope[domain.User], error) {
	var none policy.Envelope[domain.User]
	if p.Anonymous() {
		return none, serrors.With(serrors.ErrNoAuthorization, "authentication required")
	}

	rows, err := s.storage.UsersModifiedAfter(ctx, params.ModifiedAfter)
	if err != nil {
		return none, fmt.Errorf("could not list users: %w", err)
	}

	if !p.HasAnyRole(domain.RoleAdmin, domain.RoleModerator) {
		own := rows[:0:0]
		for _, u := range rows {
			if u.ID == p.UserID {
				own = append(own, u)
			}
		}
		rows = own
	}

	return policy.Paginate(rows, params, userComparator(params.Sort)), nil
}

// Delete removes an account together with its credentials.
func (s *users) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	persisted, err := s.storage.UserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not get user: %w", err)
	}
	if persisted == nil {
		return serrors.With(serrors.ErrNotFound, "user not found")
	}
	if err := s.gate.CanDelete(p, domain.KindUser, persisted.ID); err != nil {
		return err
	}

	deleted, err := s.storage.DeleteUser(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete user: %w", err)
	}
	if !deleted {
		return serrors.With(serrors.ErrNotFound, "user not found")
	}
	if err := s.creds.DropSecret(ctx, id); err != nil {
		return fmt.Errorf("could not drop credentials: %w", err)
	}

	return nil
}

// Authenticate resolves an account by email and secret. Failures never reveal
// whether the email exists.
func (s *users) Authenticate(ctx context.Context, email, secret string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.storage.UserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	if u == nil || u.Deleted {
		return nil, serrors.With(serrors.ErrInvalidCredentials, "invalid email or secret")
	}

	ok, err := s.creds.Verify(ctx, u.ID, secret)
	if err != nil {
		return nil, fmt.Errorf("could not verify credentials: %w", err)
	}
	if !ok {
		return nil, serrors.With(serrors.ErrInvalidCredentials, "invalid email or secret")
	}

	return u, nil
}

func userComparator(sortField string) policy.Comparator[domain.User] {
	switch sortField {
	case policy.FieldEmail:
		return policy.CompareString(func(u domain.User) string { return u.Email })
	case policy.FieldUsername:
		return policy.CompareString(func(u domain.User) string { return u.Username })
	case "created":
		return policy.CompareInt64(func(u domain.User) int64 { return u.Created })
	case "modified":
		return policy.CompareInt64(func(u domain.User) int64 { return u.Modified })
	default:
		return policy.CompareInt64(func(u domain.User) int64 { return u.ID })
	}
}
