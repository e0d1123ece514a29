package domain

// Statistic is a read-only snapshot of platform-wide counters. It is computed
// by the storage layer and readable without authentication.
type Statistic struct {
	// WebsiteCount is the number of non-deleted websites.
	WebsiteCount int64 `json:"websiteCount"`
	// WebpageCount is the number of non-deleted webpages.
	WebpageCount int64 `json:"webpageCount"`
	// ReportCount is the number of reports across all families.
	ReportCount int64 `json:"reportCount"`
	// OpenReportCount is the number of reports currently in state OPEN.
	OpenReportCount int64 `json:"openReportCount"`
	// UserCount is the number of non-deleted users.
	UserCount int64 `json:"userCount"`
	// Modified is the newest Modified timestamp across the counted rows,
	// in Unix milliseconds.
	Modified int64 `json:"modified"`
}
