package postgres

import (
	"context"
	"fmt"

	"moderation/pkg/domain"
	"moderation/pkg/storage"

	"github.com/doug-martin/goqu/v9"
)

const usersTable = "users"

func (p *PgSQL) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	var row PgUser
	found, err := p.Builder.From(usersTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch user from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

func (p *PgSQL) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row PgUser
	found, err := p.Builder.From(usersTable).
		Where(goqu.I("email").Eq(email)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch user by email from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

func (p *PgSQL) StoreUser(ctx context.Context, u domain.User) (*domain.User, error) {
	now := p.clock.NowMillis()
	u.Created, u.Modified = now, now

	var pgRow PgUser
	if err := pgRow.FromDomain(u); err != nil {
		return nil, err
	}

	var row PgUser
	if _, err := p.Builder.Insert(usersTable).
		Rows(pgRow).
		Returning(&PgUser{}).
		Executor().ScanStructContext(ctx, &row); err != nil {
		return nil, fmt.Errorf("could not store user into pg: %w", err)
	}

	return row.ToDomain()
}

func (p *PgSQL) UpdateUser(ctx context.Context, u domain.User, expectedModified int64) (*domain.User, error) {
	var pgRow PgUser
	if err := pgRow.FromDomain(u); err != nil {
		return nil, err
	}

	var row PgUser
	found, err := p.Builder.Update(usersTable).
		Set(goqu.Record{
			"email":    pgRow.Email,
			"username": pgRow.Username,
			"roles":    pgRow.Roles,
			"deleted":  pgRow.Deleted,
			"modified": p.modifiedBump(),
		}).Where(
		goqu.I("id").Eq(u.ID),
		goqu.I("modified").Eq(expectedModified),
	).Returning(&PgUser{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update user in pg: %w", err)
	}
	if !found {
		exists, err := p.rowExists(ctx, usersTable, u.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, storage.ErrStaleEntity
		}

		return nil, nil
	}

	return row.ToDomain()
}

func (p *PgSQL) DeleteUser(ctx context.Context, id int64) (bool, error) {
	res, err := p.Builder.Delete(usersTable).
		Where(goqu.I("id").Eq(id)).
		Executor().ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("could not delete user from pg: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not read affected rows: %w", err)
	}

	return n > 0, nil
}

func (p *PgSQL) UsersModifiedAfter(ctx context.Context, cutoff int64) ([]domain.User, error) {
	var rows []PgUser
	if err := p.Builder.From(usersTable).
		Where(goqu.I("modified").Gt(cutoff)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch users from pg: %w", err)
	}

	out := make([]domain.User, 0, len(rows))
	for i := range rows {
		u, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *u)
	}

	return out, nil
}
