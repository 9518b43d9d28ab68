package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smartlib/library-service/internal/errs"
	"github.com/smartlib/library-service/internal/model"
)

var borrowColumns = []string{"id", "user_id", "book_id", "borrow_date", "due_date", "return_date", "status", "fine_amount"}

func collectBorrow(rows pgx.Rows) (model.BorrowRecord, error) {
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BorrowRecord])
}

// lockBook takes the book row lock that serializes all inventory
// mutations for one book within the surrounding transaction.
func lockBook(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) (model.Book, error) {
	q, args, err := qb.Select("id", "title", "author", "isbn", "category", "description",
		"total_quantity", "available_quantity", "is_active", "created_at", "updated_at").
		From(booksTableName).
		Where(sq.Eq{"id": bookID}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	rows, err := tx.Query(ctx, q, args...)
	if err != nil {
		return model.Book{}, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
}

func adjustAvailable(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, delta int) error {
	// greatest/least keep the count inside [0, total] even if a future
	// caller breaks the lock discipline.
	q := `
update books
    set available_quantity = greatest(0, least(total_quantity, available_quantity + $2)),
        updated_at = now()
where id = $1`
	_, err := tx.Exec(ctx, q, bookID, delta)
	return err
}

func lockBorrow(ctx context.Context, tx pgx.Tx, recordID uuid.UUID) (model.BorrowRecord, error) {
	q, args, err := qb.Select(borrowColumns...).
		From(borrowsTableName).
		Where(sq.Eq{"id": recordID}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return model.BorrowRecord{}, err
	}
	rows, err := tx.Query(ctx, q, args...)
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return collectBorrow(rows)
}

func (r *Repository) RequestBorrow(ctx context.Context, req model.BorrowRequest) (model.BorrowRecord, error) {
	var rec model.BorrowRecord
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		book, err := lockBook(ctx, tx, req.BookID)
		if err != nil {
			return err
		}
		if !book.IsActive {
			return errs.ErrNotFound
		}
		if book.AvailableQuantity <= 0 {
			return errs.ErrUnavailable
		}

		var exists bool
		if err := tx.QueryRow(ctx, `
select exists(
    select 1 from borrow_records
    where user_id = $1 and book_id = $2 and status in ('PENDING', 'BORROWED'))`,
			req.UserID, req.BookID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return errs.ErrDuplicateClaim
		}

		// the partial unique index backstops the check above
		q, args, err := qb.Insert(borrowsTableName).
			Columns("user_id", "book_id", "due_date", "status").
			Values(req.UserID, req.BookID, req.DueDate, model.StatusPending).
			Suffix("returning " + strings.Join(borrowColumns, ", ")).
			ToSql()
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		if rec, err = collectBorrow(rows); err != nil {
			return err
		}

		return adjustAvailable(ctx, tx, req.BookID, -1)
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return rec, nil
}

func (r *Repository) DecideBorrow(ctx context.Context, recordID uuid.UUID, decision model.Status) (model.BorrowRecord, error) {
	var rec model.BorrowRecord
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		cur, err := lockBorrow(ctx, tx, recordID)
		if err != nil {
			return err
		}
		if cur.Status != model.StatusPending {
			return errs.ErrInvalidState
		}

		q, args, err := qb.Update(borrowsTableName).
			Set("status", decision).
			Where(sq.Eq{"id": recordID}).
			Suffix("returning " + strings.Join(borrowColumns, ", ")).
			ToSql()
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		if rec, err = collectBorrow(rows); err != nil {
			return err
		}

		if decision == model.StatusRejected {
			return adjustAvailable(ctx, tx, cur.BookID, +1)
		}
		return nil
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return rec, nil
}

func (r *Repository) ReturnBorrow(ctx context.Context, recordID uuid.UUID, now time.Time, finePerDay float64) (model.BorrowRecord, error) {
	var rec model.BorrowRecord
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		cur, err := lockBorrow(ctx, tx, recordID)
		if err != nil {
			return err
		}
		switch cur.Status {
		case model.StatusReturned:
			return errs.ErrAlreadyReturned
		case model.StatusRejected:
			return errs.ErrInvalidState
		}

		fine := model.Fine(now, cur.DueDate, finePerDay)
		q, args, err := qb.Update(borrowsTableName).
			Set("status", model.StatusReturned).
			Set("return_date", now).
			Set("fine_amount", fine).
			Where(sq.Eq{"id": recordID}).
			Suffix("returning " + strings.Join(borrowColumns, ", ")).
			ToSql()
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		if rec, err = collectBorrow(rows); err != nil {
			return err
		}

		return adjustAvailable(ctx, tx, cur.BookID, +1)
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return rec, nil
}

func (r *Repository) GetBorrow(ctx context.Context, recordID uuid.UUID) (model.BorrowRecord, error) {
	q, args, err := qb.Select(borrowColumns...).
		From(borrowsTableName).
		Where(sq.Eq{"id": recordID}).
		ToSql()
	if err != nil {
		return model.BorrowRecord{}, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return model.BorrowRecord{}, translateErr(err)
	}
	rec, err := collectBorrow(rows)
	if err != nil {
		return model.BorrowRecord{}, translateErr(err)
	}
	return rec, nil
}

func (r *Repository) ListBorrows(ctx context.Context, filter model.ListBorrowsFilter) (model.ListBorrowRecords, error) {
	q := qb.Select(borrowColumns...).
		From(borrowsTableName).
		OrderBy("borrow_date desc")

	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": filter.Status})
	}
	if filter.UserID != nil {
		q = q.Where(sq.Eq{"user_id": *filter.UserID})
	}
	if filter.Page != 0 && filter.Size != 0 {
		q = q.Limit(uint64(filter.Size)).Offset(uint64((filter.Page - 1) * filter.Size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBorrowRecords{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListBorrowRecords{}, translateErr(err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.BorrowRecord])
	if err != nil {
		return model.ListBorrowRecords{}, translateErr(err)
	}

	return model.ListBorrowRecords{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: len(items),
		},
		Items: items,
	}, nil
}

func (r *Repository) ListOverdue(ctx context.Context, now time.Time) ([]model.BorrowRecord, error) {
	q, args, err := qb.Select(borrowColumns...).
		From(borrowsTableName).
		Where(sq.Eq{"status": model.StatusBorrowed}).
		Where(sq.Lt{"due_date": now}).
		OrderBy("due_date asc").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.BorrowRecord])
	if err != nil {
		return nil, translateErr(err)
	}
	return items, nil
}

func (r *Repository) UpdateFine(ctx context.Context, recordID uuid.UUID, amount float64) (model.BorrowRecord, error) {
	q, args, err := qb.Update(borrowsTableName).
		Set("fine_amount", amount).
		Where(sq.Eq{"id": recordID}).
		Suffix("returning " + strings.Join(borrowColumns, ", ")).
		ToSql()
	if err != nil {
		return model.BorrowRecord{}, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return model.BorrowRecord{}, translateErr(err)
	}
	rec, err := collectBorrow(rows)
	if err != nil {
		return model.BorrowRecord{}, translateErr(err)
	}
	return rec, nil
}
