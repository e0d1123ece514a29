package storage

import (
	"context"

	"moderation/pkg/domain"
)

// TagStorage defines row access for tags. Names are unique case-sensitively;
// uniqueness is checked by the service before Store, the backend enforces it
// as a constraint as well.
type TagStorage interface {
	TagByID(ctx context.Context, id int64) (*domain.Tag, error)
	// TagByName fetches a tag by exact name.
	TagByName(ctx context.Context, name string) (*domain.Tag, error)
	StoreTag(ctx context.Context, t domain.Tag) (*domain.Tag, error)
	UpdateTag(ctx context.Context, t domain.Tag, expectedModified int64) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id int64) (bool, error)
	TagsModifiedAfter(ctx context.Context, cutoff int64) ([]domain.Tag, error)
}

// WebsiteTagStorage defines row access for website-tag attachments.
type WebsiteTagStorage interface {
	WebsiteTagByID(ctx context.Context, id int64) (*domain.WebsiteTag, error)
	// WebsiteTagsByWebsite returns all attachments of one website.
	WebsiteTagsByWebsite(ctx context.Context, websiteID int64) ([]domain.WebsiteTag, error)
	StoreWebsiteTag(ctx context.Context, wt domain.WebsiteTag) (*domain.WebsiteTag, error)
	UpdateWebsiteTag(ctx context.Context, wt domain.WebsiteTag, expectedModified int64) (*domain.WebsiteTag, error)
	DeleteWebsiteTag(ctx context.Context, id int64) (bool, error)
	WebsiteTagsModifiedAfter(ctx context.Context, cutoff int64) ([]domain.WebsiteTag, error)
}
