package postgres

import (
	"context"
	"fmt"

	"moderation/pkg/domain"
	"moderation/pkg/storage"

	"github.com/doug-martin/goqu/v9"
)

const (
	tagsTable        = "tags"
	websiteTagsTable = "website_tags"
)

func (p *PgSQL) TagByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var row PgTag
	found, err := p.Builder.From(tagsTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch tag from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) TagByName(ctx context.Context, name string) (*domain.Tag, error) {
	var row PgTag
	found, err := p.Builder.From(tagsTable).
		Where(goqu.I("name").Eq(name)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch tag by name from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) StoreTag(ctx context.Context, t domain.Tag) (*domain.Tag, error) {
	now := p.clock.NowMillis()
	t.Created, t.Modified = now, now

	var pgRow PgTag
	pgRow.FromDomain(t)

	var row PgTag
	if _, err := p.Builder.Insert(tagsTable).
		Rows(pgRow).
		Returning(&PgTag{}).
		Executor().ScanStructContext(ctx, &row); err != nil {
		return nil, fmt.Errorf("could not store tag into pg: %w", err)
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) UpdateTag(ctx context.Context, t domain.Tag, expectedModified int64) (*domain.Tag, error) {
	var row PgTag
	found, err := p.Builder.Update(tagsTable).
		Set(goqu.Record{
			"user_id":  t.UserID,
			"name":     t.Name,
			"modified": p.modifiedBump(),
		}).Where(
		goqu.I("id").Eq(t.ID),
		goqu.I("modified").Eq(expectedModified),
	).Returning(&PgTag{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update tag in pg: %w", err)
	}
	if !found {
		exists, err := p.rowExists(ctx, tagsTable, t.ID)
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

func (p *PgSQL) DeleteTag(ctx context.Context, id int64) (bool, error) {
	res, err := p.Builder.Delete(tagsTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("could not delete tag from pg: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not read affected rows: %w", err)
	}

	return n > 0, nil
}

func (p *PgSQL) TagsModifiedAfter(ctx context.Context, cutoff int64) ([]domain.Tag, error) {
	var rows []PgTag
	if err := p.Builder.From(tagsTable).
		Where(goqu.I("modified").Gt(cutoff)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch tags from pg: %w", err)
	}

	out := make([]domain.Tag, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}

func (p *PgSQL) WebsiteTagByID(ctx context.Context, id int64) (*domain.WebsiteTag, error) {
	var row PgWebsiteTag
	found, err := p.Builder.From(websiteTagsTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch website tag from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) WebsiteTagsByWebsite(ctx context.Context, websiteID int64) ([]domain.WebsiteTag, error) {
	var rows []PgWebsiteTag
	if err := p.Builder.From(websiteTagsTable).
		Where(goqu.I("website_id").Eq(websiteID)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch website tags from pg: %w", err)
	}

	out := make([]domain.WebsiteTag, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}

func (p *PgSQL) StoreWebsiteTag(ctx context.Context, wt domain.WebsiteTag) (*domain.WebsiteTag, error) {
	now := p.clock.NowMillis()
	wt.Created, wt.Modified = now, now

	var pgRow PgWebsiteTag
	pgRow.FromDomain(wt)

	var row PgWebsiteTag
	if _, err := p.Builder.Insert(websiteTagsTable).
		Rows(pgRow).
		Returning(&PgWebsiteTag{}).
		Executor().ScanStructContext(ctx, &row); err != nil {
		return nil, fmt.Errorf("could not store website tag into pg: %w", err)
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) UpdateWebsiteTag(ctx context.Context, wt domain.WebsiteTag, expectedModified int64) (*domain.WebsiteTag, error) {
	var row PgWebsiteTag
	found, err := p.Builder.Update(websiteTagsTable).
		Set(goqu.Record{
			"user_id":    wt.UserID,
			"website_id": wt.WebsiteID,
			"tag_id":     wt.TagID,
			"modified":   p.modifiedBump(),
		}).Where(
		goqu.I("id").Eq(wt.ID),
		goqu.I("modified").Eq(expectedModified),
	).Returning(&PgWebsiteTag{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update website tag in pg: %w", err)
	}
	if !found {
		exists, err := p.rowExists(ctx, websiteTagsTable, wt.ID)
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

func (p *PgSQL) DeleteWebsiteTag(ctx context.Context, id int64) (bool, error) {
	res, err := p.Builder.Delete(websiteTagsTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("could not delete website tag from pg: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not read affected rows: %w", err)
	}

	return n > 0, nil
}

func (p *PgSQL) WebsiteTagsModifiedAfter(ctx context.Context, cutoff int64) ([]domain.WebsiteTag, error) {
	var rows []PgWebsiteTag
	if err := p.Builder.From(websiteTagsTable).
		Where(goqu.I("modified").Gt(cutoff)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch website tags from pg: %w", err)
	}

	out := make([]domain.WebsiteTag, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}
