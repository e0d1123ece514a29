package service

import (
	"context"

	"moderation/pkg/domain"
	"moderation/pkg/policy"
)

//go:generate mockgen -package mockservice -source=interface.go -destination=mock/mockservice.go *

// Websites manages website registrations and their scan lifecycle.
type Websites interface {
	Add(ctx context.Context, p *domain.Principal, candidate domain.Website) (*domain.Website, error)
	Update(ctx context.Context, p *domain.Principal, candidate domain.Website) (*domain.Website, error)
	Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Website, error)
	GetAll(ctx context.Context, p *domain.Principal, params policy.QueryParameters) (policy.Envelope[domain.Website], error)
	Delete(ctx context.Context, p *domain.Principal, id int64) error
}

// Webpages manages pages of registered websites.
type Webpages interface {
	Add(ctx context.Context, p *domain.Principal, candidate domain.Webpage) (*domain.Webpage, error)
	Update(ctx context.Context, p *domain.Principal, candidate domain.Webpage) (*domain.Webpage, error)
	Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Webpage, error)
	GetAll(ctx context.Context, p *domain.Principal, params policy.QueryParameters) (policy.Envelope[domain.Webpage], error)
	Delete(ctx context.Context, p *domain.Principal, id int64) error
}

// Tags manages the platform-wide tag vocabulary.
type Tags interface {
	Add(ctx context.Context, p *domain.Principal, candidate domain.Tag) (*domain.Tag, error)
	Update(ctx context.Context, p *domain.Principal, candidate domain.Tag) (*domain.Tag, error)
	Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Tag, error)
	GetAll(ctx context.Context, p *domain.Principal, params policy.QueryParameters) (policy.Envelope[domain.Tag], error)
	Delete(ctx context.Context, p *domain.Principal, id int64) error
}

// WebsiteTags manages tag attachments on websites.
type WebsiteTags interface {
	Add(ctx context.Context, p *domain.Principal, candidate domain.WebsiteTag) (*domain.WebsiteTag, error)
	Update(ctx context.Context, p *domain.Principal, candidate domain.WebsiteTag) (*domain.WebsiteTag, error)
	Get(ctx context.Context, p *domain.Principal, id int64) (*domain.WebsiteTag, error)
	GetAll(ctx context.Context,
		p *domain.Principal,
		params policy.QueryParameters) (policy.Envelope[domain.WebsiteTag], error)
	Delete(ctx context.Context, p *domain.Principal, id int64) error
}

// WebsiteReports manages reports filed against websites.
type WebsiteReports interface {
	Add(ctx context.Context, p *domain.Principal, candidate domain.WebsiteReport) (*domain.WebsiteReport, error)
	Update(ctx context.Context, p *domain.Principal, candidate domain.WebsiteReport) (*domain.WebsiteReport, error)
	Get(ctx context.Context, p *domain.Principal, id int64) (*domain.WebsiteReport, error)
	GetAll(ctx context.Context,
		p *domain.Principal,
		params policy.QueryParameters) (policy.Envelope[domain.WebsiteReport], error)
	Delete(ctx context.Context, p *domain.Principal, id int64) error
}

// WebpageReports manages reports filed against webpages.
type WebpageReports interface {
	Add(ctx context.Context, p *domain.Principal, candidate domain.WebpageReport) (*domain.WebpageReport, error)
	Update(ctx context.Context, p *domain.Principal, candidate domain.WebpageReport) (*domain.WebpageReport, error)
	Get(ctx context.Context, p *domain.Principal, id int64) (*domain.WebpageReport, error)
	GetAll(ctx context.Context,
		p *domain.Principal,
		params policy.QueryParameters) (policy.Envelope[domain.WebpageReport], error)
	Delete(ctx context.Context, p *domain.Principal, id int64) error
}

// UserReports manages reports filed against users.
type UserReports interface {
	Add(ctx context.Context, p *domain.Principal, candidate domain.UserReport) (*domain.UserReport, error)
	Update(ctx context.Context, p *domain.Principal, candidate domain.UserReport) (*domain.UserReport, error)
	Get(ctx context.Context, p *domain.Principal, id int64) (*domain.UserReport, error)
	GetAll(ctx context.Context,
		p *domain.Principal,
		params policy.QueryParameters) (policy.Envelope[domain.UserReport], error)
	Delete(ctx context.Context, p *domain.Principal, id int64) error
}

// ReportMessages manages the conversations attached to reports.
type ReportMessages interface {
	Add(ctx context.Context, p *domain.Principal, candidate domain.ReportMessage) (*domain.ReportMessage, error)
	Update(ctx context.Context, p *domain.Principal, candidate domain.ReportMessage) (*domain.ReportMessage, error)
	Get(ctx context.Context, p *domain.Principal, id int64) (*domain.ReportMessage, error)
	GetAll(ctx context.Context,
		p *domain.Principal,
		params policy.QueryParameters) (policy.Envelope[domain.ReportMessage], error)
	// ByReport returns the conversation of one report, oldest first.
	ByReport(ctx context.Context,
		p *domain.Principal,
		kind domain.ReportKind,
		reportID int64) ([]domain.ReportMessage, error)
	Delete(ctx context.Context, p *domain.Principal, id int64) error
}

// Users manages platform accounts and their credentials.
type Users interface {
	// Add registers an account. The secret is stored in the credential store,
	// never on the user record.
	Add(ctx context.Context, p *domain.Principal, candidate domain.User, secret string) (*domain.User, error)
	Update(ctx context.Context, p *domain.Principal, candidate domain.User) (*domain.User, error)
	Get(ctx context.Context, p *domain.Principal, id int64) (*domain.User, error)
	GetAll(ctx context.Context, p *domain.Principal, params policy.QueryParameters) (policy.Envelope[domain.User], error)
	Delete(ctx context.Context, p *domain.Principal, id int64) error
	// Authenticate resolves an account by email and secret, for token minting.
	Authenticate(ctx context.Context, email, secret string) (*domain.User, error)
}

// Statistics reads the platform-wide counter snapshot.
type Statistics interface {
	Get(ctx context.Context, p *domain.Principal) (*domain.Statistic, error)
}
