package postgres

import (
	"context"
	"fmt"

	"moderation/pkg/domain"
	"moderation/pkg/storage"

	"github.com/doug-martin/goqu/v9"
)

const (
	websiteReportsTable = "website_reports"
	webpageReportsTable = "webpage_reports"
	userReportsTable    = "user_reports"
	reportMessagesTable = "report_messages"
)

// deleteReport removes a report row and its conversation in one statement, so
// the message cleanup cannot be torn from the delete.
func (p *PgSQL) deleteReport(ctx context.Context, table string, kind domain.ReportKind, id int64) (bool, error) {
	res, err := p.DB.ExecContext(ctx, fmt.Sprintf(`WITH conversation AS (
		DELETE FROM report_messages WHERE report_kind = $1 AND report_id = $2
	)
	DELETE FROM %s WHERE id = $2`, table), string(kind), id)
	if err != nil {
		return false, fmt.Errorf("could not delete report from pg: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not read affected rows: %w", err)
	}

	return n > 0, nil
}

func (p *PgSQL) WebsiteReportByID(ctx context.Context, id int64) (*domain.WebsiteReport, error) {
	var row PgWebsiteReport
	found, err := p.Builder.From(websiteReportsTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch website report from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) StoreWebsiteReport(ctx context.Context, r domain.WebsiteReport) (*domain.WebsiteReport, error) {
	now := p.clock.NowMillis()
	r.Created, r.Modified = now, now

	var pgRow PgWebsiteReport
	pgRow.FromDomain(r)

	var row PgWebsiteReport
	if _, err := p.Builder.Insert(websiteReportsTable).
		Rows(pgRow).
		Returning(&PgWebsiteReport{}).
		Executor().ScanStructContext(ctx, &row); err != nil {
		return nil, fmt.Errorf("could not store website report into pg: %w", err)
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) UpdateWebsiteReport(ctx context.Context, r domain.WebsiteReport, expectedModified int64) (*domain.WebsiteReport, error) {
	var row PgWebsiteReport
	found, err := p.Builder.Update(websiteReportsTable).
		Set(goqu.Record{
			"user_id":    r.UserID,
			"website_id": r.WebsiteID,
			"reason":     string(r.Reason),
			"state":      string(r.State),
			"modified":   p.modifiedBump(),
		}).Where(
		goqu.I("id").Eq(r.ID),
		goqu.I("modified").Eq(expectedModified),
	).Returning(&PgWebsiteReport{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update website report in pg: %w", err)
	}
	if !found {
		exists, err := p.rowExists(ctx, websiteReportsTable, r.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, storage.ErrStaleEntity
		}

		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) DeleteWebsiteReport(ctx context.Context, id int64) (bool, error) {
	return p.deleteReport(ctx, websiteReportsTable, domain.ReportKindWebsite, id)
}

func (p *PgSQL) WebsiteReportsModifiedAfter(ctx context.Context, cutoff int64) ([]domain.WebsiteReport, error) {
	var rows []PgWebsiteReport
	if err := p.Builder.From(websiteReportsTable).
		Where(goqu.I("modified").Gt(cutoff)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch website reports from pg: %w", err)
	}

	out := make([]domain.WebsiteReport, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}

func (p *PgSQL) WebpageReportByID(ctx context.Context, id int64) (*domain.WebpageReport, error) {
	var row PgWebpageReport
	found, err := p.Builder.From(webpageReportsTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch webpage report from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) StoreWebpageReport(ctx context.Context, r domain.WebpageReport) (*domain.WebpageReport, error) {
	now := p.clock.NowMillis()
	r.Created, r.Modified = now, now

	var pgRow PgWebpageReport
	pgRow.FromDomain(r)

	var row PgWebpageReport
	if _, err := p.Builder.Insert(webpageReportsTable).
		Rows(pgRow).
		Returning(&PgWebpageReport{}).
		Executor().ScanStructContext(ctx, &row); err != nil {
		return nil, fmt.Errorf("could not store webpage report into pg: %w", err)
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) UpdateWebpageReport(ctx context.Context, r domain.WebpageReport, expectedModified int64) (*domain.WebpageReport, error) {
	var row PgWebpageReport
	found, err := p.Builder.Update(webpageReportsTable).
		Set(goqu.Record{
			"user_id":    r.UserID,
			"webpage_id": r.WebpageID,
			"reason":     string(r.Reason),
			"state":      string(r.State),
			"modified":   p.modifiedBump(),
		}).Where(
		goqu.I("id").Eq(r.ID),
		goqu.I("modified").Eq(expectedModified),
	).Returning(&PgWebpageReport{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update webpage report in pg: %w", err)
	}
	if !found {
		exists, err := p.rowExists(ctx, webpageReportsTable, r.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, storage.ErrStaleEntity
		}

		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) DeleteWebpageReport(ctx context.Context, id int64) (bool, error) {
	return p.deleteReport(ctx, webpageReportsTable, domain.ReportKindWebpage, id)
}

func (p *PgSQL) WebpageReportsModifiedAfter(ctx context.Context, cutoff int64) ([]domain.WebpageReport, error) {
	var rows []PgWebpageReport
	if err := p.Builder.From(webpageReportsTable).
		Where(goqu.I("modified").Gt(cutoff)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch webpage reports from pg: %w", err)
	}

	out := make([]domain.WebpageReport, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}

func (p *PgSQL) UserReportByID(ctx context.Context, id int64) (*domain.UserReport, error) {
	var row PgUserReport
	found, err := p.Builder.From(userReportsTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch user report from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) StoreUserReport(ctx context.Context, r domain.UserReport) (*domain.UserReport, error) {
	now := p.clock.NowMillis()
	r.Created, r.Modified = now, now

	var pgRow PgUserReport
	pgRow.FromDomain(r)

	var row PgUserReport
	if _, err := p.Builder.Insert(userReportsTable).
		Rows(pgRow).
		Returning(&PgUserReport{}).
		Executor().ScanStructContext(ctx, &row); err != nil {
		return nil, fmt.Errorf("could not store user report into pg: %w", err)
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) UpdateUserReport(ctx context.Context, r domain.UserReport, expectedModified int64) (*domain.UserReport, error) {
	var row PgUserReport
	found, err := p.Builder.Update(userReportsTable).
		Set(goqu.Record{
			"user_id":        r.UserID,
			"target_user_id": r.TargetUserID,
			"reason":         string(r.Reason),
			"state":          string(r.State),
			"modified":       p.modifiedBump(),
		}).Where(
		goqu.I("id").Eq(r.ID),
		goqu.I("modified").Eq(expectedModified),
	).Returning(&PgUserReport{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update user report in pg: %w", err)
	}
	if !found {
		exists, err := p.rowExists(ctx, userReportsTable, r.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, storage.ErrStaleEntity
		}

		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) DeleteUserReport(ctx context.Context, id int64) (bool, error) {
	return p.deleteReport(ctx, userReportsTable, domain.ReportKindUser, id)
}

func (p *PgSQL) UserReportsModifiedAfter(ctx context.Context, cutoff int64) ([]domain.UserReport, error) {
	var rows []PgUserReport
	if err := p.Builder.From(userReportsTable).
		Where(goqu.I("modified").Gt(cutoff)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch user reports from pg: %w", err)
	}

	out := make([]domain.UserReport, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}

func (p *PgSQL) ReportMessageByID(ctx context.Context, id int64) (*domain.ReportMessage, error) {
	var row PgReportMessage
	found, err := p.Builder.From(reportMessagesTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch report message from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) ReportMessagesByReport(ctx context.Context, kind domain.ReportKind, reportID int64) ([]domain.ReportMessage, error) {
	var rows []PgReportMessage
	if err := p.Builder.From(reportMessagesTable).
		Where(
			goqu.I("report_kind").Eq(string(kind)),
			goqu.I("report_id").Eq(reportID),
		).Order(goqu.I("created").Asc(), goqu.I("id").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch report messages from pg: %w", err)
	}

	out := make([]domain.ReportMessage, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}

func (p *PgSQL) StoreReportMessage(ctx context.Context, m domain.ReportMessage) (*domain.ReportMessage, error) {
	now := p.clock.NowMillis()
	m.Created, m.Modified = now, now

	var pgRow PgReportMessage
	pgRow.FromDomain(m)

	var row PgReportMessage
	if _, err := p.Builder.Insert(reportMessagesTable).
		Rows(pgRow).
		Returning(&PgReportMessage{}).
		Executor().ScanStructContext(ctx, &row); err != nil {
		return nil, fmt.Errorf("could not store report message into pg: %w", err)
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) UpdateReportMessage(ctx context.Context, m domain.ReportMessage, expectedModified int64) (*domain.ReportMessage, error) {
	var row PgReportMessage
	found, err := p.Builder.Update(reportMessagesTable).
		Set(goqu.Record{
			"report_kind": string(m.ReportKind),
			"report_id":   m.ReportID,
			"user_id":     m.UserID,
			"message":     m.Message,
			"modified":    p.modifiedBump(),
		}).Where(
		goqu.I("id").Eq(m.ID),
		goqu.I("modified").Eq(expectedModified),
	).Returning(&PgReportMessage{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update report message in pg: %w", err)
	}
	if !found {
		exists, err := p.rowExists(ctx, reportMessagesTable, m.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, storage.ErrStaleEntity
		}

		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) DeleteReportMessage(ctx context.Context, id int64) (bool, error) {
	res, err := p.Builder.Delete(reportMessagesTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("could not delete report message from pg: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not read affected rows: %w", err)
	}

	return n > 0, nil
}

func (p *PgSQL) ReportMessagesModifiedAfter(ctx context.Context, cutoff int64) ([]domain.ReportMessage, error) {
	var rows []PgReportMessage
	if err := p.Builder.From(reportMessagesTable).
		Where(goqu.I("modified").Gt(cutoff)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch report messages from pg: %w", err)
	}

	out := make([]domain.ReportMessage, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}
