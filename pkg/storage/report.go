package storage

import (
	"context"

	"moderation/pkg/domain"
)

// ReportStorage defines row access for the three report families. Deleting a
// report removes its messages atomically within the same operation.
type ReportStorage interface {
	WebsiteReportByID(ctx context.Context, id int64) (*domain.WebsiteReport, error)
	StoreWebsiteReport(ctx context.Context, r domain.WebsiteReport) (*domain.WebsiteReport, error)
	UpdateWebsiteReport(ctx context.Context, r domain.WebsiteReport, expectedModified int64) (*domain.WebsiteReport, error)
	DeleteWebsiteReport(ctx context.Context, id int64) (bool, error)
	WebsiteReportsModifiedAfter(ctx context.Context, cutoff int64) ([]domain.WebsiteReport, error)

	WebpageReportByID(ctx context.Context, id int64) (*domain.WebpageReport, error)
	StoreWebpageReport(ctx context.Context, r domain.WebpageReport) (*domain.WebpageReport, error)
	UpdateWebpageReport(ctx context.Context, r domain.WebpageReport, expectedModified int64) (*domain.WebpageReport, error)
	DeleteWebpageReport(ctx context.Context, id int64) (bool, error)
	WebpageReportsModifiedAfter(ctx context.Context, cutoff int64) ([]domain.WebpageReport, error)

	UserReportByID(ctx context.Context, id int64) (*domain.UserReport, error)
	StoreUserReport(ctx context.Context, r domain.UserReport) (*domain.UserReport, error)
	UpdateUserReport(ctx context.Context, r domain.UserReport, expectedModified int64) (*domain.UserReport, error)
	DeleteUserReport(ctx context.Context, id int64) (bool, error)
	UserReportsModifiedAfter(ctx context.Context, cutoff int64) ([]domain.UserReport, error)
}

// ReportMessageStorage defines row access for report conversation messages.
type ReportMessageStorage interface {
	ReportMessageByID(ctx context.Context, id int64) (*domain.ReportMessage, error)
	// ReportMessagesByReport returns the conversation of one report.
	ReportMessagesByReport(ctx context.Context, kind domain.ReportKind, reportID int64) ([]domain.ReportMessage, error)
	StoreReportMessage(ctx context.Context, m domain.ReportMessage) (*domain.ReportMessage, error)
	UpdateReportMessage(ctx context.Context, m domain.ReportMessage, expectedModified int64) (*domain.ReportMessage, error)
	DeleteReportMessage(ctx context.Context, id int64) (bool, error)
	ReportMessagesModifiedAfter(ctx context.Context, cutoff int64) ([]domain.ReportMessage, error)
}
