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

// webpages is the concrete implementation of the Webpages interface.
type webpages struct {
	core
}

// NewWebpages creates a new Webpages service backed by the provided storage
// and configured with the given options.
func NewWebpages(st storage.Storage, options Options) Webpages {
	return &webpages{core: newCore(st, options)}
}

// Add registers a new page of an existing website. The record starts in
// PENDING_INITIAL with a scan job enqueued in the same transaction.
func (s *webpages) Add(ctx context.Context, p *domain.Principal, candidate domain.Webpage) (*domain.Webpage, error) {
	if err := s.gate.CanCreate(p, domain.KindWebpage); err != nil {
		return nil, err
	}

	path, err := NormalizePath(candidate.Path)
	if err != nil {
		return nil, err
	}
	owner, err := resolveOwner(p, candidate.UserID)
	if err != nil {
		return nil, err
	}

	var stored *domain.Webpage
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		site, err := tx.WebsiteByID(ctx, candidate.WebsiteID)
		if err != nil {
			return fmt.Errorf("could not get website: %w", err)
		}
		if site == nil || site.Deleted {
			return serrors.With(serrors.ErrNotFound, "website not found")
		}

		existing, err := tx.WebpageByPath(ctx, candidate.WebsiteID, path)
		if err != nil {
			return fmt.Errorf("could not check path uniqueness: %w", err)
		}
		if existing != nil {
			return serrors.With(serrors.ErrAlreadyExists, "path %s is already registered for this website", path)
		}

		stored, err = tx.StoreWebpage(ctx, domain.Webpage{
			WebsiteID: candidate.WebsiteID,
			UserID:    owner,
			Path:      path,
			Status:    domain.StatusPendingInitial,
		})
		if err != nil {
			return fmt.Errorf("could not store webpage: %w", err)
		}

		if _, err := tx.AddJob(ctx, s.newScanArgs(domain.KindWebpage, stored.ID, site.Domain+path), nil); err != nil {
			return fmt.Errorf("could not add scan job: %w", err)
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return stored, nil
}

// Update applies a full-replacement update with the same optimistic and
// transition semantics as website updates.
func (s *webpages) Update(ctx context.Context, p *domain.Principal, candidate domain.Webpage) (*domain.Webpage, error) {
	persisted, err := s.storage.WebpageByID(ctx, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get webpage: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "webpage not found")
	}

	if candidate.Path != persisted.Path {
		path, err := NormalizePath(candidate.Path)
		if err != nil {
			return nil, err
		}
		candidate.Path = path
	}

	if err := s.gate.CanUpdateWebpage(p, *persisted, candidate); err != nil {
		return nil, err
	}

	var updated *domain.Webpage
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if candidate.Path != persisted.Path {
			existing, err := tx.WebpageByPath(ctx, persisted.WebsiteID, candidate.Path)
			if err != nil {
				return fmt.Errorf("could not check path uniqueness: %w", err)
			}
			if existing != nil && existing.ID != candidate.ID {
				return serrors.With(serrors.ErrAlreadyExists, "path %s is already registered for this website", candidate.Path)
			}
		}

		updated, err = tx.UpdateWebpage(ctx, candidate, candidate.Modified)
		if err != nil {
			if errors.Is(err, storage.ErrStaleEntity) {
				return serrors.Wrap(serrors.ErrConflict, err, "webpage was modified concurrently")
			}

			return fmt.Errorf("could not update webpage: %w", err)
		}
		if updated == nil {
			return serrors.With(serrors.ErrNotFound, "webpage not found")
		}

		if candidate.Status == domain.StatusPendingRescan && persisted.Status != domain.StatusPendingRescan {
			site, err := tx.WebsiteByID(ctx, updated.WebsiteID)
			if err != nil {
				return fmt.Errorf("could not get website: %w", err)
			}
			if site != nil {
				if _, err := tx.AddJob(ctx, s.newScanArgs(domain.KindWebpage, updated.ID, site.Domain+updated.Path), nil); err != nil {
					return fmt.Errorf("could not add scan job: %w", err)
				}
			}
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// Get fetches a single webpage. Webpage reads are public.
func (s *webpages) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Webpage, error) {
	persisted, err := s.storage.WebpageByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get webpage: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "webpage not found")
	}
	if err := s.gate.CanRead(p, domain.KindWebpage, persisted.UserID); err != nil {
		return nil, err
	}

	return persisted, nil
}

// GetAll returns one page of webpages changed since params.ModifiedAfter.
func (s *webpages) GetAll(ctx context.Context,
	p *domain.Principal,
	params policy.QueryParameters) (policy.Envelope[domain.Webpage], error) {
	var none policy.Envelope[domain.Webpage]
	if err := s.gate.CanRead(p, domain.KindWebpage, 0); err != nil {
		return none, err
	}

	rows, err := s.storage.WebpagesModifiedAfter(ctx, params.ModifiedAfter)
	if err != nil {
		return none, fmt.Errorf("could not list webpages: %w", err)
	}

	return policy.Paginate(rows, params, webpageComparator(params.Sort)), nil
}

// Delete removes a webpage.
func (s *webpages) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	persisted, err := s.storage.WebpageByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not get webpage: %w", err)
	}
	if persisted == nil {
		return serrors.With(serrors.ErrNotFound, "webpage not found")
	}
	if err := s.gate.CanDelete(p, domain.KindWebpage, persisted.UserID); err != nil {
		return err
	}

	deleted, err := s.storage.DeleteWebpage(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete webpage: %w", err)
	}
	if !deleted {
		return serrors.With(serrors.ErrNotFound, "webpage not found")
	}

	return nil
}

func webpageComparator(sortField string) policy.Comparator[domain.Webpage] {
	switch sortField {
	case policy.FieldPath:
		return policy.CompareString(func(w domain.Webpage) string { return w.Path })
	case policy.FieldWebsiteID:
		return policy.CompareInt64(func(w domain.Webpage) int64 { return w.WebsiteID })
	case policy.FieldStatus:
		return policy.CompareString(func(w domain.Webpage) string { return string(w.Status) })
	case "created":
		return policy.CompareInt64(func(w domain.Webpage) int64 { return w.Created })
	case "modified":
		return policy.CompareInt64(func(w domain.Webpage) int64 { return w.Modified })
	default:
		return policy.CompareInt64(func(w domain.Webpage) int64 { return w.ID })
	}
}
