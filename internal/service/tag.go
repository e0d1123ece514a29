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

// tags is the concrete implementation of the Tags interface.
type tags struct {
	core
}

// NewTags creates a new Tags service backed by the provided storage.
func NewTags(st storage.Storage, options Options) Tags {
	return &tags{core: newCore(st, options)}
}

// Add creates a new tag. The vocabulary is admin-managed; names are unique
// case-sensitively.
func (s *tags) Add(ctx context.Context, p *domain.Principal, candidate domain.Tag) (*domain.Tag, error) {
	if err := s.gate.CanCreate(p, domain.KindTag); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(candidate.Name)
	if name == "" {
		return nil, serrors.With(serrors.ErrIllegalArgument, "tag name is empty")
	}

	var stored *domain.Tag
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		existing, err := tx.TagByName(ctx, name)
		if err != nil {
			return fmt.Errorf("could not check tag name uniqueness: %w", err)
		}
		if existing != nil {
			return serrors.With(serrors.ErrAlreadyExists, "tag %s already exists", name)
		}

		stored, err = tx.StoreTag(ctx, domain.Tag{UserID: p.UserID, Name: name})
		if err != nil {
			return fmt.Errorf("could not store tag: %w", err)
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return stored, nil
}

// Update renames a tag.
func (s *tags) Update(ctx context.Context, p *domain.Principal, candidate domain.Tag) (*domain.Tag, error) {
	persisted, err := s.storage.TagByID(ctx, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get tag: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "tag not found")
	}

	candidate.Name = strings.TrimSpace(candidate.Name)
	if candidate.Name == "" {
		return nil, serrors.With(serrors.ErrIllegalArgument, "tag name is empty")
	}

	if err := s.gate.CanUpdateTag(p, *persisted, candidate); err != nil {
		return nil, err
	}

	var updated *domain.Tag
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if candidate.Name != persisted.Name {
			existing, err := tx.TagByName(ctx, candidate.Name)
			if err != nil {
				return fmt.Errorf("could not check tag name uniqueness: %w", err)
			}
			if existing != nil && existing.ID != candidate.ID {
				return serrors.With(serrors.ErrAlreadyExists, "tag %s already exists", candidate.Name)
			}
		}

		updated, err = tx.UpdateTag(ctx, candidate, candidate.Modified)
		if err != nil {
			if errors.Is(err, storage.ErrStaleEntity) {
				return serrors.Wrap(serrors.ErrConflict, err, "tag was modified concurrently")
			}

			return fmt.Errorf("could not update tag: %w", err)
		}
		if updated == nil {
			return serrors.With(serrors.ErrNotFound, "tag not found")
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// Get fetches a single tag. Tag reads are public.
func (s *tags) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Tag, error) {
	persisted, err := s.storage.TagByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get tag: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "tag not found")
	}
	if err := s.gate.CanRead(p, domain.KindTag, 0); err != nil {
		return nil, err
	}

	return persisted, nil
}

// GetAll returns one page of tags changed since params.ModifiedAfter.
func (s *tags) GetAll(ctx context.Context,
	p *domain.Principal,
	params policy.QueryParameters) (policy.Envelope[domain.Tag], error) {
	var none policy.Envelope[domain.Tag]
	if err := s.gate.CanRead(p, domain.KindTag, 0); err != nil {
		return none, err
	}

	rows, err := s.storage.TagsModifiedAfter(ctx, params.ModifiedAfter)
	if err != nil {
		return none, fmt.Errorf("could not list tags: %w", err)
	}

	return policy.Paginate(rows, params, tagComparator(params.Sort)), nil
}

// Delete removes a tag.
func (s *tags) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	persisted, err := s.storage.TagByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not get tag: %w", err)
	}
	if persisted == nil {
		return serrors.With(serrors.ErrNotFound, "tag not found")
	}
	if err := s.gate.CanDelete(p, domain.KindTag, 0); err != nil {
		return err
	}

	deleted, err := s.storage.DeleteTag(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete tag: %w", err)
	}
	if !deleted {
		return serrors.With(serrors.ErrNotFound, "tag not found")
	}

	return nil
}

func tagComparator(sortField string) policy.Comparator[domain.Tag] {
	switch sortField {
	case policy.FieldName:
		return policy.CompareString(func(t domain.Tag) string { return t.Name })
	case "created":
		return policy.CompareInt64(func(t domain.Tag) int64 { return t.Created })
	case "modified":
		return policy.CompareInt64(func(t domain.Tag) int64 { return t.Modified })
	default:
		return policy.CompareInt64(func(t domain.Tag) int64 { return t.ID })
	}
}
