package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/smartlib/library-service/internal/model"
)

var bookColumns = []string{"id", "title", "author", "isbn", "category", "description",
	"total_quantity", "available_quantity", "is_active", "created_at", "updated_at"}

func collectBook(rows pgx.Rows) (model.Book, error) {
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
}

func (r *Repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "isbn", "category", "description", "total_quantity", "available_quantity").
		Values(req.Title, req.Author, req.ISBN, req.Category, req.Description, req.TotalQuantity, req.TotalQuantity).
		Suffix("returning " + strings.Join(bookColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return model.Book{}, translateErr(err)
	}
	book, err := collectBook(rows)
	if err != nil {
		return model.Book{}, translateErr(err)
	}
	return book, nil
}

func (r *Repository) GetBook(ctx context.Context, bookID uuid.UUID) (model.Book, error) {
	q, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": bookID}).
		Where(sq.Eq{"is_active": true}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return model.Book{}, translateErr(err)
	}
	book, err := collectBook(rows)
	if err != nil {
		return model.Book{}, translateErr(err)
	}
	return book, nil
}

func (r *Repository) ListBooks(ctx context.Context, filter model.ListBooksFilter) (model.ListBooks, error) {
	q := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"is_active": true}).
		OrderBy("created_at desc")

	if filter.Category != "" {
		q = q.Where(sq.Eq{"category": filter.Category})
	}
	if filter.AvailableOnly {
		q = q.Where(sq.Gt{"available_quantity": 0})
	}
	if filter.Search != "" {
		pat := fmt.Sprint("%", filter.Search, "%")
		q = q.Where(sq.Or{
			sq.ILike{"title": pat},
			sq.ILike{"author": pat},
			sq.ILike{"isbn": pat},
		})
	}
	if filter.Page != 0 && filter.Size != 0 {
		q = q.Limit(uint64(filter.Size)).Offset(uint64((filter.Page - 1) * filter.Size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("q", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListBooks{}, translateErr(err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return model.ListBooks{}, translateErr(err)
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: len(items),
		},
		Items: items,
	}, nil
}

func (r *Repository) UpdateBook(ctx context.Context, bookID uuid.UUID, req model.UpdateBookRequest) (model.Book, error) {
	var book model.Book
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		cur, err := lockBook(ctx, tx, bookID)
		if err != nil {
			return err
		}

		q := qb.Update(booksTableName).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"id": bookID})
		if req.Title != nil {
			q = q.Set("title", *req.Title)
		}
		if req.Author != nil {
			q = q.Set("author", *req.Author)
		}
		if req.ISBN != nil {
			q = q.Set("isbn", *req.ISBN)
		}
		if req.Category != nil {
			q = q.Set("category", *req.Category)
		}
		if req.Description != nil {
			q = q.Set("description", *req.Description)
		}
		if req.TotalQuantity != nil {
			// available tracks the total delta, clamped to [0, total]
			delta := *req.TotalQuantity - cur.TotalQuantity
			avail := cur.AvailableQuantity + delta
			if avail < 0 {
				avail = 0
			}
			if avail > *req.TotalQuantity {
				avail = *req.TotalQuantity
			}
			q = q.Set("total_quantity", *req.TotalQuantity).
				Set("available_quantity", avail)
		}

		query, args, err := q.Suffix("returning " + strings.Join(bookColumns, ", ")).ToSql()
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		book, err = collectBook(rows)
		return err
	})
	if err != nil {
		return model.Book{}, err
	}
	return book, nil
}

func (r *Repository) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	q, args, err := qb.Update(booksTableName).
		Set("is_active", false).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": bookID}).
		Where(sq.Eq{"is_active": true}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return translateErr(pgx.ErrNoRows)
	}
	return nil
}
