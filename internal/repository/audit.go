package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/smartlib/library-service/internal/model"
)

func (r *Repository) AppendAudit(ctx context.Context, entry model.AuditEntry) error {
	q, args, err := qb.Insert(logsTableName).
		Columns("user_id", "action", "details", "created_at").
		Values(entry.UserID, entry.Action, entry.Details, entry.Timestamp).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, q, args...); err != nil {
		return translateErr(err)
	}
	return nil
}

func (r *Repository) ListAudit(ctx context.Context, filter model.ListAuditFilter) (model.ListAuditEntries, error) {
	q := qb.Select("id", "user_id", "action", "details", "created_at").
		From(logsTableName).
		OrderBy("created_at desc")

	if filter.Action != "" {
		q = q.Where(sq.ILike{"action": fmt.Sprint("%", filter.Action, "%")})
	}
	if filter.UserID != nil {
		q = q.Where(sq.Eq{"user_id": *filter.UserID})
	}
	if filter.From != nil {
		q = q.Where(sq.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(sq.LtOrEq{"created_at": *filter.To})
	}
	if filter.Page != 0 && filter.Size != 0 {
		q = q.Limit(uint64(filter.Size)).Offset(uint64((filter.Page - 1) * filter.Size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListAuditEntries{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListAuditEntries{}, translateErr(err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.AuditEntry])
	if err != nil {
		return model.ListAuditEntries{}, translateErr(err)
	}

	return model.ListAuditEntries{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: len(items),
		},
		Items: items,
	}, nil
}
