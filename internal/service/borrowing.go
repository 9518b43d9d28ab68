package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartlib/library-service/internal/errs"
	"github.com/smartlib/library-service/internal/model"
	"github.com/smartlib/library-service/internal/repository"
	"github.com/smartlib/library-service/pkg/auth"
)

// FineRater yields the configured per-day fine rate.
type FineRater interface {
	FinePerDay(ctx context.Context) (float64, error)
}

// Borrowing orchestrates the borrow workflow: each store call is one
// atomic transition, followed by a best-effort audit entry.
type Borrowing struct {
	log     *zap.Logger
	borrows repository.BorrowStore
	books   repository.BookStore
	rater   FineRater
	audit   auditor
	nowFn   func() time.Time
}

func NewBorrowing(borrows repository.BorrowStore, books repository.BookStore, rater FineRater, sink Sink, log *zap.Logger) *Borrowing {
	return &Borrowing{
		log:     log,
		borrows: borrows,
		books:   books,
		rater:   rater,
		audit:   auditor{sink: sink, log: log},
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

const (
	contentionRetries = 3
	contentionBackoff = 50 * time.Millisecond
)

// withRetry re-runs fn on transactional contention a bounded number
// of times before surfacing the error.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for i := 0; i < contentionRetries; i++ {
		if err = fn(); !errs.Retriable(err) {
			return err
		}
		select {
		case <-time.After(contentionBackoff << i):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (s *Borrowing) RequestBorrow(ctx context.Context, req model.BorrowRequest) (model.BorrowRecord, error) {
	var rec model.BorrowRecord
	err := withRetry(ctx, func() error {
		var err error
		rec, err = s.borrows.RequestBorrow(ctx, req)
		return err
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}

	s.audit.emit(ctx, &req.UserID, model.ActionBorrowRequested,
		fmt.Sprintf("User requested: %s", s.bookTitle(ctx, rec.BookID)))
	return rec, nil
}

func (s *Borrowing) DecideRequest(ctx context.Context, actor uuid.UUID, recordID uuid.UUID, decision model.Status) (model.BorrowRecord, error) {
	if decision != model.StatusBorrowed && decision != model.StatusRejected {
		return model.BorrowRecord{}, errs.ErrInvalidState
	}

	var rec model.BorrowRecord
	err := withRetry(ctx, func() error {
		var err error
		rec, err = s.borrows.DecideBorrow(ctx, recordID, decision)
		return err
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}

	action, verb := model.ActionRequestApproved, "Approved"
	if decision == model.StatusRejected {
		action, verb = model.ActionRequestRejected, "Rejected"
	}
	s.audit.emit(ctx, &actor, action,
		fmt.Sprintf("%s request for: %s", verb, s.bookTitle(ctx, rec.BookID)))
	return rec, nil
}

func (s *Borrowing) ReturnBook(ctx context.Context, actor uuid.UUID, actorRole string, recordID uuid.UUID) (model.BorrowRecord, error) {
	// ownership is immutable once the record exists, so checking it
	// outside the transition transaction is safe
	cur, err := s.borrows.GetBorrow(ctx, recordID)
	if err != nil {
		return model.BorrowRecord{}, err
	}
	if cur.UserID != actor && actorRole != auth.RoleAdmin && actorRole != auth.RoleLibrarian {
		return model.BorrowRecord{}, errs.ErrForbidden
	}

	perDay, err := s.rater.FinePerDay(ctx)
	if err != nil {
		return model.BorrowRecord{}, err
	}

	now := s.nowFn()
	var rec model.BorrowRecord
	err = withRetry(ctx, func() error {
		var err error
		rec, err = s.borrows.ReturnBorrow(ctx, recordID, now, perDay)
		return err
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}

	details := fmt.Sprintf("Book returned: %s", s.bookTitle(ctx, rec.BookID))
	if days := model.DaysOverdue(now, rec.DueDate); days > 0 {
		details += fmt.Sprintf(" (%d days overdue, fine: $%.2f)", days, rec.FineAmount)
	}
	s.audit.emit(ctx, &actor, model.ActionBookReturned, details)
	return rec, nil
}

func (s *Borrowing) MyBooks(ctx context.Context, userID uuid.UUID, status model.Status) (model.ListBorrowRecords, error) {
	return s.borrows.ListBorrows(ctx, model.ListBorrowsFilter{
		Status: status,
		UserID: &userID,
	})
}

func (s *Borrowing) ListAll(ctx context.Context, filter model.ListBorrowsFilter) (model.ListBorrowRecords, error) {
	return s.borrows.ListBorrows(ctx, filter)
}

func (s *Borrowing) Overdue(ctx context.Context) ([]model.BorrowRecord, error) {
	return s.borrows.ListOverdue(ctx, s.nowFn())
}

func (s *Borrowing) UpdateFine(ctx context.Context, actor uuid.UUID, actorRole string, recordID uuid.UUID, amount float64) (model.BorrowRecord, error) {
	rec, err := s.borrows.UpdateFine(ctx, recordID, amount)
	if err != nil {
		return model.BorrowRecord{}, err
	}
	s.audit.emit(ctx, &actor, model.ActionFineUpdated,
		fmt.Sprintf("%s updated fine for borrow record %s to $%.2f", actorRole, recordID, amount))
	return rec, nil
}

// bookTitle is only for audit details, so a lookup failure falls back
// to the raw id.
func (s *Borrowing) bookTitle(ctx context.Context, bookID uuid.UUID) string {
	book, err := s.books.GetBook(ctx, bookID)
	if err != nil {
		return bookID.String()
	}
	return book.Title
}
