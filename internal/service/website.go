package service

import (
	"context"
	"errors"
	"fmt"

	"moderation/pkg/domain"
	"moderation/pkg/policy"
	"moderation/pkg/serrors"
	"moderation/pkg/storage"
)

// websites is the concrete implementation of the Websites interface.
type websites struct {
	core
}

// New creates a new Websites service backed by the provided storage and
// configured with the given options.
func NewWebsites(st storage.Storage, options Options) Websites {
	return &websites{core: newCore(st, options)}
}

// resolveOwner decides the owner of a freshly created record. Contributors
// always create for themselves; admins and moderators may register on behalf
// of another user.
func resolveOwner(p *domain.Principal, submitted int64) (int64, error) {
	if submitted == 0 || submitted == p.UserID {
		return p.UserID, nil
	}
	if p.HasAnyRole(domain.RoleAdmin, domain.RoleModerator) {
		return submitted, nil
	}

	return 0, serrors.With(serrors.ErrIllegalArgument, "cannot create a record owned by another user")
}

// Add registers a new website. The record starts in PENDING_INITIAL and an
// accessibility scan job is enqueued in the same transaction; the scan worker
// later resolves the status to READY or BLOCKED.
func (s *websites) Add(ctx context.Context, p *domain.Principal, candidate domain.Website) (*domain.Website, error) {
	if err := s.gate.CanCreate(p, domain.KindWebsite); err != nil {
		return nil, err
	}

	dom, err := NormalizeDomain(candidate.Domain)
	if err != nil {
		return nil, err
	}
	owner, err := resolveOwner(p, candidate.UserID)
	if err != nil {
		return nil, err
	}

	var stored *domain.Website
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		existing, err := tx.WebsiteByDomain(ctx, dom)
		if err != nil {
			return fmt.Errorf("could not check domain uniqueness: %w", err)
		}
		if existing != nil {
			return serrors.With(serrors.ErrAlreadyExists, "domain %s is already registered", dom)
		}

		stored, err = tx.StoreWebsite(ctx, domain.Website{
			UserID: owner,
			Domain: dom,
			Status: domain.StatusPendingInitial,
		})
		if err != nil {
			return fmt.Errorf("could not store website: %w", err)
		}

		if _, err := tx.AddJob(ctx, s.newScanArgs(domain.KindWebsite, stored.ID, dom), nil); err != nil {
			return fmt.Errorf("could not add scan job: %w", err)
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return stored, nil
}

// Update applies a full-replacement update. The persisted row is the baseline
// for the change policy and ownership; the submitted modified timestamp is the
// optimistic precondition. Requesting a rescan (status moving to
// PENDING_RESCAN) enqueues a new scan job atomically with the write.
func (s *websites) Update(ctx context.Context, p *domain.Principal, candidate domain.Website) (*domain.Website, error) {
	persisted, err := s.storage.WebsiteByID(ctx, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get website: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "website not found")
	}

	if candidate.Domain != persisted.Domain {
		dom, err := NormalizeDomain(candidate.Domain)
		if err != nil {
			return nil, err
		}
		candidate.Domain = dom
	}

	if err := s.gate.CanUpdateWebsite(p, *persisted, candidate); err != nil {
		return nil, err
	}

	var updated *domain.Website
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if candidate.Domain != persisted.Domain {
			existing, err := tx.WebsiteByDomain(ctx, candidate.Domain)
			if err != nil {
				return fmt.Errorf("could not check domain uniqueness: %w", err)
			}
			if existing != nil && existing.ID != candidate.ID {
				return serrors.With(serrors.ErrAlreadyExists, "domain %s is already registered", candidate.Domain)
			}
		}

		updated, err = tx.UpdateWebsite(ctx, candidate, candidate.Modified)
		if err != nil {
			if errors.Is(err, storage.ErrStaleEntity) {
				return serrors.Wrap(serrors.ErrConflict, err, "website was modified concurrently")
			}

			return fmt.Errorf("could not update website: %w", err)
		}
		if updated == nil {
			return serrors.With(serrors.ErrNotFound, "website not found")
		}

		if candidate.Status == domain.StatusPendingRescan && persisted.Status != domain.StatusPendingRescan {
			if _, err := tx.AddJob(ctx, s.newScanArgs(domain.KindWebsite, updated.ID, updated.Domain), nil); err != nil {
				return fmt.Errorf("could not add scan job: %w", err)
			}
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// Get fetches a single website. Website reads are public.
func (s *websites) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Website, error) {
	persisted, err := s.storage.WebsiteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get website: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "website not found")
	}
	if err := s.gate.CanRead(p, domain.KindWebsite, persisted.UserID); err != nil {
		return nil, err
	}

	return persisted, nil
}

// GetAll returns one page of websites changed since params.ModifiedAfter.
func (s *websites) GetAll(ctx context.Context,
	p *domain.Principal,
	params policy.QueryParameters) (policy.Envelope[domain.Website], error) {
	var none policy.Envelope[domain.Website]
	if err := s.gate.CanRead(p, domain.KindWebsite, 0); err != nil {
		return none, err
	}

	rows, err := s.storage.WebsitesModifiedAfter(ctx, params.ModifiedAfter)
	if err != nil {
		return none, fmt.Errorf("could not list websites: %w", err)
	}

	return policy.Paginate(rows, params, websiteComparator(params.Sort)), nil
}

// Delete removes a website together with its tag attachments.
func (s *websites) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	persisted, err := s.storage.WebsiteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not get website: %w", err)
	}
	if persisted == nil {
		return serrors.With(serrors.ErrNotFound, "website not found")
	}
	if err := s.gate.CanDelete(p, domain.KindWebsite, persisted.UserID); err != nil {
		return err
	}

	deleted, err := s.storage.DeleteWebsite(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete website: %w", err)
	}
	if !deleted {
		return serrors.With(serrors.ErrNotFound, "website not found")
	}

	return nil
}

// websiteComparator maps a requested sort field to a comparator; unknown
// fields fall back to id order.
func websiteComparator(sortField string) policy.Comparator[domain.Website] {
	switch sortField {
	case policy.FieldDomain:
		return policy.CompareString(func(w domain.Website) string { return w.Domain })
	case policy.FieldStatus:
		return policy.CompareString(func(w domain.Website) string { return string(w.Status) })
	case "created":
		return policy.CompareInt64(func(w domain.Website) int64 { return w.Created })
	case "modified":
		return policy.CompareInt64(func(w domain.Website) int64 { return w.Modified })
	default:
		return policy.CompareInt64(func(w domain.Website) int64 { return w.ID })
	}
}
