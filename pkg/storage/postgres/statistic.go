package postgres

import (
	"context"
	"fmt"

	"moderation/pkg/domain"
)

// Statistics computes the platform-wide counter snapshot in a single query so
// all counters come from one consistent read.
func (p *PgSQL) Statistics(ctx context.Context) (domain.Statistic, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM websites WHERE NOT deleted) AS website_count,
		(SELECT COUNT(*) FROM webpages WHERE NOT deleted) AS webpage_count,
		(SELECT (SELECT COUNT(*) FROM website_reports) +
			(SELECT COUNT(*) FROM webpage_reports) +
			(SELECT COUNT(*) FROM user_reports)) AS report_count,
		(SELECT (SELECT COUNT(*) FROM website_reports WHERE state = 'OPEN') +
			(SELECT COUNT(*) FROM webpage_reports WHERE state = 'OPEN') +
			(SELECT COUNT(*) FROM user_reports WHERE state = 'OPEN')) AS open_report_count,
		(SELECT COUNT(*) FROM users WHERE NOT deleted) AS user_count,
		COALESCE(GREATEST(
			(SELECT MAX(modified) FROM websites),
			(SELECT MAX(modified) FROM webpages),
			(SELECT MAX(modified) FROM website_reports),
			(SELECT MAX(modified) FROM webpage_reports),
			(SELECT MAX(modified) FROM user_reports),
			(SELECT MAX(modified) FROM users)), 0) AS modified`

	var stat domain.Statistic
	if err := p.DB.QueryRowContext(ctx, query).Scan(
		&stat.WebsiteCount,
		&stat.WebpageCount,
		&stat.ReportCount,
		&stat.OpenReportCount,
		&stat.UserCount,
		&stat.Modified,
	); err != nil {
		return domain.Statistic{}, fmt.Errorf("could not compute statistics in pg: %w", err)
	}

	return stat, nil
}
