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

// websiteTags is the concrete implementation of the WebsiteTags interface.
type websiteTags struct {
	core
}

// NewWebsiteTags creates a new WebsiteTags service backed by the provided
// storage.
func NewWebsiteTags(st storage.Storage, options Options) WebsiteTags {
	return &websiteTags{core: newCore(st, options)}
}

// Add attaches a tag to a website. Contributors may only tag websites they
// own; a website never carries the same tag twice.
func (s *websiteTags) Add(ctx context.Context,
	p *domain.Principal,
	candidate domain.WebsiteTag) (*domain.WebsiteTag, error) {
	if err := s.gate.CanCreate(p, domain.KindWebsiteTag); err != nil {
		return nil, err
	}

	var stored *domain.WebsiteTag
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		site, err := tx.WebsiteByID(ctx, candidate.WebsiteID)
		if err != nil {
			return fmt.Errorf("could not get website: %w", err)
		}
		if site == nil || site.Deleted {
			return serrors.With(serrors.ErrNotFound, "website not found")
		}
		if !p.HasAnyRole(domain.RoleAdmin, domain.RoleModerator) && !p.Owns(site.UserID) {
			return serrors.With(serrors.ErrNoAuthorization, "cannot tag a website owned by another user")
		}

		tag, err := tx.TagByID(ctx, candidate.TagID)
		if err != nil {
			return fmt.Errorf("could not get tag: %w", err)
		}
		if tag == nil {
			return serrors.With(serrors.ErrNotFound, "tag not found")
		}

		attached, err := tx.WebsiteTagsByWebsite(ctx, candidate.WebsiteID)
		if err != nil {
			return fmt.Errorf("could not list website tags: %w", err)
		}
		for _, wt := range attached {
			if wt.TagID == candidate.TagID {
				return serrors.With(serrors.ErrAlreadyExists, "tag %s is already attached", tag.Name)
			}
		}

		stored, err = tx.StoreWebsiteTag(ctx, domain.WebsiteTag{
			UserID:    p.UserID,
			WebsiteID: candidate.WebsiteID,
			TagID:     candidate.TagID,
		})
		if err != nil {
			return fmt.Errorf("could not store website tag: %w", err)
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return stored, nil
}

// Update repoints an attachment; only admins may rewrite the references.
func (s *websiteTags) Update(ctx context.Context,
	p *domain.Principal,
	candidate domain.WebsiteTag) (*domain.WebsiteTag, error) {
	persisted, err := s.storage.WebsiteTagByID(ctx, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get website tag: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "website tag not found")
	}

	if err := s.gate.CanUpdateWebsiteTag(p, *persisted, candidate); err != nil {
		return nil, err
	}

	var updated *domain.WebsiteTag
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if candidate.WebsiteID != persisted.WebsiteID {
			site, err := tx.WebsiteByID(ctx, candidate.WebsiteID)
			if err != nil {
				return fmt.Errorf("could not get website: %w", err)
			}
			if site == nil || site.Deleted {
				return serrors.With(serrors.ErrNotFound, "website not found")
			}
		}
		if candidate.TagID != persisted.TagID {
			tag, err := tx.TagByID(ctx, candidate.TagID)
			if err != nil {
				return fmt.Errorf("could not get tag: %w", err)
			}
			if tag == nil {
				return serrors.With(serrors.ErrNotFound, "tag not found")
			}
		}

		updated, err = tx.UpdateWebsiteTag(ctx, candidate, candidate.Modified)
		if err != nil {
			if errors.Is(err, storage.ErrStaleEntity) {
				return serrors.Wrap(serrors.ErrConflict, err, "website tag was modified concurrently")
			}

			return fmt.Errorf("could not update website tag: %w", err)
		}
		if updated == nil {
			return serrors.With(serrors.ErrNotFound, "website tag not found")
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// Get fetches a single attachment. Attachment reads are public.
func (s *websiteTags) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.WebsiteTag, error) {
	persisted, err := s.storage.WebsiteTagByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get website tag: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "website tag not found")
	}
	if err := s.gate.CanRead(p, domain.KindWebsiteTag, persisted.UserID); err != nil {
		return nil, err
	}

	return persisted, nil
}

// GetAll returns one page of attachments changed since params.ModifiedAfter.
func (s *websiteTags) GetAll(ctx context.Context,
	p *domain.Principal,
	params policy.QueryParameters) (policy.Envelope[domain.WebsiteTag], error) {
	var none policy.Envelope[domain.WebsiteTag]
	if err := s.gate.CanRead(p, domain.KindWebsiteTag, 0); err != nil {
		return none, err
	}

	rows, err := s.storage.WebsiteTagsModifiedAfter(ctx, params.ModifiedAfter)
	if err != nil {
		return none, fmt.Errorf("could not list website tags: %w", err)
	}

	return policy.Paginate(rows, params, websiteTagComparator(params.Sort)), nil
}

// Delete detaches a tag from a website.
func (s *websiteTags) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	persisted, err := s.storage.WebsiteTagByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not get website tag: %w", err)
	}
	if persisted == nil {
		return serrors.With(serrors.ErrNotFound, "website tag not found")
	}
	if err := s.gate.CanDelete(p, domain.KindWebsiteTag, persisted.UserID); err != nil {
		return err
	}

	deleted, err := s.storage.DeleteWebsiteTag(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete website tag: %w", err)
	}
	if !deleted {
		return serrors.With(serrors.ErrNotFound, "website tag not found")
	}

	return nil
}

func websiteTagComparator(sortField string) policy.Comparator[domain.WebsiteTag] {
	switch sortField {
	case policy.FieldWebsiteID:
		return policy.CompareInt64(func(wt domain.WebsiteTag) int64 { return wt.WebsiteID })
	case policy.FieldTagID:
		return policy.CompareInt64(func(wt domain.WebsiteTag) int64 { return wt.TagID })
	case "created":
		return policy.CompareInt64(func(wt domain.WebsiteTag) int64 { return wt.Created })
	case "modified":
		return policy.CompareInt64(func(wt domain.WebsiteTag) int64 { return wt.Modified })
	default:
		return policy.CompareInt64(func(wt domain.WebsiteTag) int64 { return wt.ID })
	}
}
