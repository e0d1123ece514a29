package postgres

import (
	"context"
	"fmt"

	"moderation/pkg/domain"
	"moderation/pkg/storage"

	"github.com/doug-martin/goqu/v9"
)

const (
	websitesTable = "websites"
	webpagesTable = "webpages"
)

func (p *PgSQL) WebsiteByID(ctx context.Context, id int64) (*domain.Website, error) {
	var row PgWebsite
	found, err := p.Builder.From(websitesTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch website from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) WebsiteByDomain(ctx context.Context, dom string) (*domain.Website, error) {
	var row PgWebsite
	found, err := p.Builder.From(websitesTable).
		Where(goqu.I("domain").Eq(dom)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch website by domain from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) StoreWebsite(ctx context.Context, w domain.Website) (*domain.Website, error) {
	now := p.clock.NowMillis()
	w.Created, w.Modified = now, now

	var pgRow PgWebsite
	pgRow.FromDomain(w)

	var row PgWebsite
	if _, err := p.Builder.Insert(websitesTable).
		Rows(pgRow).
		Returning(&PgWebsite{}).
		Executor().ScanStructContext(ctx, &row); err != nil {
		return nil, fmt.Errorf("could not store website into pg: %w", err)
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) UpdateWebsite(ctx context.Context, w domain.Website, expectedModified int64) (*domain.Website, error) {
	var row PgWebsite
	found, err := p.Builder.Update(websitesTable).
		Set(goqu.Record{
			"user_id":  w.UserID,
			"domain":   w.Domain,
			"status":   string(w.Status),
			"deleted":  w.Deleted,
			"modified": p.modifiedBump(),
		}).Where(
		goqu.I("id").Eq(w.ID),
		goqu.I("modified").Eq(expectedModified),
	).Returning(&PgWebsite{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update website in pg: %w", err)
	}
	if !found {
		exists, err := p.rowExists(ctx, websitesTable, w.ID)
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

func (p *PgSQL) UpdateWebsiteStatus(ctx context.Context, id int64, status domain.Status) (*domain.Website, error) {
	var row PgWebsite
	found, err := p.Builder.Update(websitesTable).
		Set(goqu.Record{
			"status":   string(status),
			"modified": p.modifiedBump(),
		}).Where(
		goqu.I("id").Eq(id),
		// a verdict only lands on rows the pipeline still owns
		goqu.I("status").In(string(domain.StatusPendingInitial), string(domain.StatusPendingRescan)),
	).Returning(&PgWebsite{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update website status in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) DeleteWebsite(ctx context.Context, id int64) (bool, error) {
	// one statement so the attachment cleanup cannot be torn from the delete
	res, err := p.DB.ExecContext(ctx, `WITH attachments AS (
		DELETE FROM website_tags WHERE website_id = $1
	)
	DELETE FROM websites WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("could not delete website from pg: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not read affected rows: %w", err)
	}

	return n > 0, nil
}

func (p *PgSQL) WebsitesModifiedAfter(ctx context.Context, cutoff int64) ([]domain.Website, error) {
	var rows []PgWebsite
	if err := p.Builder.From(websitesTable).
		Where(goqu.I("modified").Gt(cutoff)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch websites from pg: %w", err)
	}

	out := make([]domain.Website, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}

func (p *PgSQL) WebpageByID(ctx context.Context, id int64) (*domain.Webpage, error) {
	var row PgWebpage
	found, err := p.Builder.From(webpagesTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch webpage from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) WebpageByPath(ctx context.Context, websiteID int64, path string) (*domain.Webpage, error) {
	var row PgWebpage
	found, err := p.Builder.From(webpagesTable).
		Where(
			goqu.I("website_id").Eq(websiteID),
			goqu.I("path").Eq(path),
		).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch webpage by path from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) StoreWebpage(ctx context.Context, w domain.Webpage) (*domain.Webpage, error) {
	now := p.clock.NowMillis()
	w.Created, w.Modified = now, now

	var pgRow PgWebpage
	pgRow.FromDomain(w)

	var row PgWebpage
	if _, err := p.Builder.Insert(webpagesTable).
		Rows(pgRow).
		Returning(&PgWebpage{}).
		Executor().ScanStructContext(ctx, &row); err != nil {
		return nil, fmt.Errorf("could not store webpage into pg: %w", err)
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) UpdateWebpage(ctx context.Context, w domain.Webpage, expectedModified int64) (*domain.Webpage, error) {
	var row PgWebpage
	found, err := p.Builder.Update(webpagesTable).
		Set(goqu.Record{
			"website_id": w.WebsiteID,
			"user_id":    w.UserID,
			"path":       w.Path,
			"status":     string(w.Status),
			"deleted":    w.Deleted,
			"modified":   p.modifiedBump(),
		}).Where(
		goqu.I("id").Eq(w.ID),
		goqu.I("modified").Eq(expectedModified),
	).Returning(&PgWebpage{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update webpage in pg: %w", err)
	}
	if !found {
		exists, err := p.rowExists(ctx, webpagesTable, w.ID)
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

func (p *PgSQL) UpdateWebpageStatus(ctx context.Context, id int64, status domain.Status) (*domain.Webpage, error) {
	var row PgWebpage
	found, err := p.Builder.Update(webpagesTable).
		Set(goqu.Record{
			"status":   string(status),
			"modified": p.modifiedBump(),
		}).Where(
		goqu.I("id").Eq(id),
		goqu.I("status").In(string(domain.StatusPendingInitial), string(domain.StatusPendingRescan)),
	).Returning(&PgWebpage{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update webpage status in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) DeleteWebpage(ctx context.Context, id int64) (bool, error) {
	res, err := p.Builder.Delete(webpagesTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("could not delete webpage from pg: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not read affected rows: %w", err)
	}

	return n > 0, nil
}

func (p *PgSQL) WebpagesModifiedAfter(ctx context.Context, cutoff int64) ([]domain.Webpage, error) {
	var rows []PgWebpage
	if err := p.Builder.From(webpagesTable).
		Where(goqu.I("modified").Gt(cutoff)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch webpages from pg: %w", err)
	}

	out := make([]domain.Webpage, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}
