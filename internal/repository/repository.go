package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smartlib/library-service/internal/errs"
	"github.com/smartlib/library-service/internal/model"
)

// BorrowStore is the transactional store behind the borrowing workflow.
// Each method is one atomic unit: the record write and the inventory
// adjustment either both happen or neither does.
type BorrowStore interface {
	RequestBorrow(ctx context.Context, req model.BorrowRequest) (model.BorrowRecord, error)
	DecideBorrow(ctx context.Context, recordID uuid.UUID, decision model.Status) (model.BorrowRecord, error)
	ReturnBorrow(ctx context.Context, recordID uuid.UUID, now time.Time, finePerDay float64) (model.BorrowRecord, error)
	GetBorrow(ctx context.Context, recordID uuid.UUID) (model.BorrowRecord, error)
	ListBorrows(ctx context.Context, filter model.ListBorrowsFilter) (model.ListBorrowRecords, error)
	ListOverdue(ctx context.Context, now time.Time) ([]model.BorrowRecord, error)
	UpdateFine(ctx context.Context, recordID uuid.UUID, amount float64) (model.BorrowRecord, error)
}

type BookStore interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookID uuid.UUID) (model.Book, error)
	ListBooks(ctx context.Context, filter model.ListBooksFilter) (model.ListBooks, error)
	UpdateBook(ctx context.Context, bookID uuid.UUID, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookID uuid.UUID) error
}

type AuditStore interface {
	AppendAudit(ctx context.Context, entry model.AuditEntry) error
	ListAudit(ctx context.Context, filter model.ListAuditFilter) (model.ListAuditEntries, error)
}

type SettingsStore interface {
	GetSettings(ctx context.Context) (model.Settings, error)
	UpdateSettings(ctx context.Context, req model.UpdateSettingsRequest) (model.Settings, error)
}

type Repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*Repository, error) {
	return &Repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName    = `books`
	borrowsTableName  = `borrow_records`
	logsTableName     = `system_logs`
	settingsTableName = `system_settings`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *Repository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return translateErr(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck
	if err := fn(tx); err != nil {
		return translateErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateErr(err)
	}
	return nil
}

// translateErr maps driver errors onto the workflow taxonomy so the
// layers above never see pg error codes.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return errs.ErrDuplicateClaim
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
			return errs.ErrContention
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.ErrContention
	}
	return err
}
