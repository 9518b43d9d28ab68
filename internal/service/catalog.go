package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartlib/library-service/internal/model"
	"github.com/smartlib/library-service/internal/repository"
)

// Catalog manages the book inventory ledger. Availability counts are
// only ever touched here via total-quantity edits; the borrowing
// workflow owns reserve/release.
type Catalog struct {
	log   *zap.Logger
	books repository.BookStore
	audit auditor
}

func NewCatalog(books repository.BookStore, sink Sink, log *zap.Logger) *Catalog {
	return &Catalog{
		log:   log,
		books: books,
		audit: auditor{sink: sink, log: log},
	}
}

func (s *Catalog) CreateBook(ctx context.Context, actor uuid.UUID, req model.CreateBookRequest) (model.Book, error) {
	book, err := s.books.CreateBook(ctx, req)
	if err != nil {
		return model.Book{}, err
	}
	s.audit.emit(ctx, &actor, model.ActionBookCreated, fmt.Sprintf("Book added: %s", book.Title))
	return book, nil
}

func (s *Catalog) GetBook(ctx context.Context, bookID uuid.UUID) (model.Book, error) {
	return s.books.GetBook(ctx, bookID)
}

func (s *Catalog) ListBooks(ctx context.Context, filter model.ListBooksFilter) (model.ListBooks, error) {
	return s.books.ListBooks(ctx, filter)
}

func (s *Catalog) UpdateBook(ctx context.Context, actor uuid.UUID, bookID uuid.UUID, req model.UpdateBookRequest) (model.Book, error) {
	book, err := s.books.UpdateBook(ctx, bookID, req)
	if err != nil {
		return model.Book{}, err
	}
	s.audit.emit(ctx, &actor, model.ActionBookUpdated, fmt.Sprintf("Book updated: %s", book.Title))
	return book, nil
}

func (s *Catalog) DeleteBook(ctx context.Context, actor uuid.UUID, bookID uuid.UUID) error {
	book, err := s.books.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	if err := s.books.DeleteBook(ctx, bookID); err != nil {
		return err
	}
	s.audit.emit(ctx, &actor, model.ActionBookDeleted, fmt.Sprintf("Book removed: %s", book.Title))
	return nil
}
