package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartlib/library-service/internal/errs"
	"github.com/smartlib/library-service/internal/model"
	"github.com/smartlib/library-service/internal/repository"
	"github.com/smartlib/library-service/pkg/auth"
)

func newWorkflow(t *testing.T) (*Borrowing, *repository.Memory, *Settings) {
	t.Helper()
	log := zap.NewExample().Named("test")
	store := repository.NewMemory()
	settings := NewSettings(store, NewStoreSink(store), log)
	return NewBorrowing(store, store, settings, NewStoreSink(store), log), store, settings
}

func seedBook(t *testing.T, store *repository.Memory, copies int) model.Book {
	t.Helper()
	book, err := store.CreateBook(context.Background(), model.CreateBookRequest{
		Title:         "Designing Data-Intensive Applications",
		Author:        "Martin Kleppmann",
		ISBN:          "978-1449373320",
		Category:      "Databases",
		TotalQuantity: copies,
	})
	require.NoError(t, err)
	return book
}

func TestBorrowing_RequestEmitsAudit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store, _ := newWorkflow(t)
	book := seedBook(t, store, 1)
	user := uuid.New()

	rec, err := svc.RequestBorrow(ctx, model.BorrowRequest{
		UserID:  user,
		BookID:  book.ID,
		DueDate: time.Now().Add(14 * 24 * time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, rec.Status)

	logs, err := store.ListAudit(ctx, model.ListAuditFilter{Action: model.ActionBorrowRequested})
	require.NoError(t, err)
	require.Len(t, logs.Items, 1)
	require.Equal(t, user, *logs.Items[0].UserID)
	require.Contains(t, logs.Items[0].Details, book.Title)
}

func TestBorrowing_FullLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store, _ := newWorkflow(t)
	book := seedBook(t, store, 1)
	user, librarian := uuid.New(), uuid.New()

	due := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.nowFn = func() time.Time { return due.Add(-10 * 24 * time.Hour) }

	rec, err := svc.RequestBorrow(ctx, model.BorrowRequest{UserID: user, BookID: book.ID, DueDate: due})
	require.NoError(t, err)

	rec, err = svc.DecideRequest(ctx, librarian, rec.ID, model.StatusBorrowed)
	require.NoError(t, err)
	require.Equal(t, model.StatusBorrowed, rec.Status)

	// returned 5 days late at the default $0.50/day
	svc.nowFn = func() time.Time { return due.Add(5 * 24 * time.Hour) }
	rec, err = svc.ReturnBook(ctx, user, auth.RoleStudent, rec.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusReturned, rec.Status)
	require.InDelta(t, 2.5, rec.FineAmount, 1e-9)

	b, err := store.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, b.AvailableQuantity)

	logs, err := store.ListAudit(ctx, model.ListAuditFilter{Action: model.ActionBookReturned})
	require.NoError(t, err)
	require.Len(t, logs.Items, 1)
	require.Contains(t, logs.Items[0].Details, "5 days overdue")
	require.Contains(t, logs.Items[0].Details, "$2.50")
}

func TestBorrowing_DecideRejectsBadDecision(t *testing.T) {
	t.Parallel()
	svc, _, _ := newWorkflow(t)

	_, err := svc.DecideRequest(context.Background(), uuid.New(), uuid.New(), model.StatusReturned)
	require.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestBorrowing_ReturnOwnership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store, _ := newWorkflow(t)
	book := seedBook(t, store, 1)
	owner, stranger := uuid.New(), uuid.New()

	rec, err := svc.RequestBorrow(ctx, model.BorrowRequest{UserID: owner, BookID: book.ID, DueDate: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	_, err = svc.ReturnBook(ctx, stranger, auth.RoleStudent, rec.ID)
	require.ErrorIs(t, err, errs.ErrForbidden)

	// a librarian may return on the user's behalf
	_, err = svc.ReturnBook(ctx, stranger, auth.RoleLibrarian, rec.ID)
	require.NoError(t, err)
}

func TestBorrowing_FineUsesConfiguredRate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store, settings := newWorkflow(t)
	book := seedBook(t, store, 1)
	user := uuid.New()

	_, err := settings.Update(ctx, uuid.New(), model.UpdateSettingsRequest{
		LibraryName:       "SmartLibrary",
		MaxBorrowDuration: 14,
		MaxBooksPerUser:   5,
		FinePerDay:        2.0,
	})
	require.NoError(t, err)

	due := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.nowFn = func() time.Time { return due.Add(-time.Hour) }
	rec, err := svc.RequestBorrow(ctx, model.BorrowRequest{UserID: user, BookID: book.ID, DueDate: due})
	require.NoError(t, err)

	// 3 days and 1 hour late rounds up to 4 days
	svc.nowFn = func() time.Time { return due.Add(73 * time.Hour) }
	rec, err = svc.ReturnBook(ctx, user, auth.RoleStudent, rec.ID)
	require.NoError(t, err)
	require.InDelta(t, 8.0, rec.FineAmount, 1e-9)
}

// flakyStore fails with contention a fixed number of times before
// delegating to the real store.
type flakyStore struct {
	repository.BorrowStore
	failures int
}

func (f *flakyStore) RequestBorrow(ctx context.Context, req model.BorrowRequest) (model.BorrowRecord, error) {
	if f.failures > 0 {
		f.failures--
		return model.BorrowRecord{}, errs.ErrContention
	}
	return f.BorrowStore.RequestBorrow(ctx, req)
}

func TestBorrowing_RetriesContention(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	log := zap.NewExample().Named("test")
	store := repository.NewMemory()
	book := seedBook(t, store, 1)
	settings := NewSettings(store, NewStoreSink(store), log)

	flaky := &flakyStore{BorrowStore: store, failures: 2}
	svc := NewBorrowing(flaky, store, settings, NewStoreSink(store), log)

	rec, err := svc.RequestBorrow(ctx, model.BorrowRequest{UserID: uuid.New(), BookID: book.ID, DueDate: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, rec.Status)
}

func TestBorrowing_ContentionExhaustsRetries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	log := zap.NewExample().Named("test")
	store := repository.NewMemory()
	book := seedBook(t, store, 1)
	settings := NewSettings(store, NewStoreSink(store), log)

	flaky := &flakyStore{BorrowStore: store, failures: 10}
	svc := NewBorrowing(flaky, store, settings, NewStoreSink(store), log)

	_, err := svc.RequestBorrow(ctx, model.BorrowRequest{UserID: uuid.New(), BookID: book.ID, DueDate: time.Now().Add(time.Hour)})
	require.ErrorIs(t, err, errs.ErrContention)
}
