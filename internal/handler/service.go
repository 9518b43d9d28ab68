package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartlib/library-service/internal/model"
	"github.com/smartlib/library-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BorrowingService interface {
	RequestBorrow(ctx context.Context, req model.BorrowRequest) (model.BorrowRecord, error)
	DecideRequest(ctx context.Context, actor uuid.UUID, recordID uuid.UUID, decision model.Status) (model.BorrowRecord, error)
	ReturnBook(ctx context.Context, actor uuid.UUID, actorRole string, recordID uuid.UUID) (model.BorrowRecord, error)
	MyBooks(ctx context.Context, userID uuid.UUID, status model.Status) (model.ListBorrowRecords, error)
	ListAll(ctx context.Context, filter model.ListBorrowsFilter) (model.ListBorrowRecords, error)
	Overdue(ctx context.Context) ([]model.BorrowRecord, error)
	UpdateFine(ctx context.Context, actor uuid.UUID, actorRole string, recordID uuid.UUID, amount float64) (model.BorrowRecord, error)
}

type CatalogService interface {
	CreateBook(ctx context.Context, actor uuid.UUID, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookID uuid.UUID) (model.Book, error)
	ListBooks(ctx context.Context, filter model.ListBooksFilter) (model.ListBooks, error)
	UpdateBook(ctx context.Context, actor uuid.UUID, bookID uuid.UUID, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, actor uuid.UUID, bookID uuid.UUID) error
}

type LogsService interface {
	List(ctx context.Context, filter model.ListAuditFilter) (model.ListAuditEntries, error)
}

type SettingsService interface {
	Get(ctx context.Context) (model.Settings, error)
	Update(ctx context.Context, actor uuid.UUID, req model.UpdateSettingsRequest) (model.Settings, error)
}

var (
	_ BorrowingService = (*service.Borrowing)(nil)
	_ CatalogService   = (*service.Catalog)(nil)
	_ LogsService      = (*service.Logs)(nil)
	_ SettingsService  = (*service.Settings)(nil)
)
