package storage

import (
	"context"

	"moderation/pkg/domain"
)

// WebsiteStorage defines row access for websites. Lookup methods return nil
// (not an error) when no row exists. Store assigns id and stamps created and
// modified; Update enforces the optimistic precondition and bumps modified.
type WebsiteStorage interface {
	// WebsiteByID fetches a website by id, including soft-deleted rows.
	WebsiteByID(ctx context.Context, id int64) (*domain.Website, error)
	// WebsiteByDomain fetches a website by its unique domain.
	WebsiteByDomain(ctx context.Context, dom string) (*domain.Website, error)
	// StoreWebsite inserts a new website and returns the stored row.
	StoreWebsite(ctx context.Context, w domain.Website) (*domain.Website, error)
	// UpdateWebsite replaces the row with id w.ID if its modified timestamp
	// still equals expectedModified, returning the updated row. It returns
	// ErrStaleEntity when the precondition fails and nil when no row exists.
	UpdateWebsite(ctx context.Context, w domain.Website, expectedModified int64) (*domain.Website, error)
	// UpdateWebsiteStatus applies a pipeline status resolution and bumps
	// modified. Only rows still in a pending state accept the verdict;
	// it returns nil when no row exists or the row is already resolved.
	UpdateWebsiteStatus(ctx context.Context, id int64, status domain.Status) (*domain.Website, error)
	// DeleteWebsite removes the website and, atomically in the same
	// operation, all website tags attached to it. It reports whether a row
	// was deleted.
	DeleteWebsite(ctx context.Context, id int64) (bool, error)
	// WebsitesModifiedAfter returns all websites with modified strictly
	// greater than cutoff.
	WebsitesModifiedAfter(ctx context.Context, cutoff int64) ([]domain.Website, error)
}

// WebpageStorage defines row access for webpages; semantics mirror
// WebsiteStorage.
type WebpageStorage interface {
	WebpageByID(ctx context.Context, id int64) (*domain.Webpage, error)
	// WebpageByPath fetches a webpage by its website and path, the pair that
	// makes a webpage unique.
	WebpageByPath(ctx context.Context, websiteID int64, path string) (*domain.Webpage, error)
	StoreWebpage(ctx context.Context, w domain.Webpage) (*domain.Webpage, error)
	UpdateWebpage(ctx context.Context, w domain.Webpage, expectedModified int64) (*domain.Webpage, error)
	UpdateWebpageStatus(ctx context.Context, id int64, status domain.Status) (*domain.Webpage, error)
	DeleteWebpage(ctx context.Context, id int64) (bool, error)
	WebpagesModifiedAfter(ctx context.Context, cutoff int64) ([]domain.Webpage, error)
}
