package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartlib/library-service/internal/errs"
	"github.com/smartlib/library-service/internal/model"
)

// Memory is an in-process implementation of the stores, used by tests
// and local runs without postgres. One mutex serializes all writers;
// that is the in-memory equivalent of the row locks the pg repository
// takes, and it preserves the same invariants: available stays within
// [0, total] and a (user, book) pair never holds two active records.
type Memory struct {
	mu       sync.Mutex
	books    map[uuid.UUID]model.Book
	borrows  map[uuid.UUID]model.BorrowRecord
	audit    []model.AuditEntry
	settings *model.Settings
	nextLog  int64
}

func NewMemory() *Memory {
	return &Memory{
		books:   make(map[uuid.UUID]model.Book),
		borrows: make(map[uuid.UUID]model.BorrowRecord),
	}
}

var (
	_ BorrowStore   = (*Memory)(nil)
	_ BookStore     = (*Memory)(nil)
	_ AuditStore    = (*Memory)(nil)
	_ SettingsStore = (*Memory)(nil)
)

func (m *Memory) RequestBorrow(_ context.Context, req model.BorrowRequest) (model.BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[req.BookID]
	if !ok || !book.IsActive {
		return model.BorrowRecord{}, errs.ErrNotFound
	}
	if book.AvailableQuantity <= 0 {
		return model.BorrowRecord{}, errs.ErrUnavailable
	}
	for _, rec := range m.borrows {
		if rec.UserID == req.UserID && rec.BookID == req.BookID && rec.Status.Active() {
			return model.BorrowRecord{}, errs.ErrDuplicateClaim
		}
	}

	rec := model.BorrowRecord{
		ID:         uuid.New(),
		UserID:     req.UserID,
		BookID:     req.BookID,
		BorrowDate: time.Now().UTC(),
		DueDate:    req.DueDate,
		Status:     model.StatusPending,
	}
	m.borrows[rec.ID] = rec

	book.AvailableQuantity--
	m.books[req.BookID] = book
	return rec, nil
}

func (m *Memory) DecideBorrow(_ context.Context, recordID uuid.UUID, decision model.Status) (model.BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.borrows[recordID]
	if !ok {
		return model.BorrowRecord{}, errs.ErrNotFound
	}
	if rec.Status != model.StatusPending {
		return model.BorrowRecord{}, errs.ErrInvalidState
	}

	rec.Status = decision
	m.borrows[recordID] = rec

	if decision == model.StatusRejected {
		m.releaseCopy(rec.BookID)
	}
	return rec, nil
}

func (m *Memory) ReturnBorrow(_ context.Context, recordID uuid.UUID, now time.Time, finePerDay float64) (model.BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.borrows[recordID]
	if !ok {
		return model.BorrowRecord{}, errs.ErrNotFound
	}
	switch rec.Status {
	case model.StatusReturned:
		return model.BorrowRecord{}, errs.ErrAlreadyReturned
	case model.StatusRejected:
		return model.BorrowRecord{}, errs.ErrInvalidState
	}

	rec.Status = model.StatusReturned
	rec.ReturnDate = &now
	rec.FineAmount = model.Fine(now, rec.DueDate, finePerDay)
	m.borrows[recordID] = rec

	m.releaseCopy(rec.BookID)
	return rec, nil
}

// releaseCopy increments availability with a ceiling at total.
// Callers hold m.mu.
func (m *Memory) releaseCopy(bookID uuid.UUID) {
	book, ok := m.books[bookID]
	if !ok {
		return
	}
	if book.AvailableQuantity < book.TotalQuantity {
		book.AvailableQuantity++
	}
	m.books[bookID] = book
}

func (m *Memory) GetBorrow(_ context.Context, recordID uuid.UUID) (model.BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.borrows[recordID]
	if !ok {
		return model.BorrowRecord{}, errs.ErrNotFound
	}
	return rec, nil
}

func (m *Memory) ListBorrows(_ context.Context, filter model.ListBorrowsFilter) (model.ListBorrowRecords, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]model.BorrowRecord, 0, len(m.borrows))
	for _, rec := range m.borrows {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.UserID != nil && rec.UserID != *filter.UserID {
			continue
		}
		items = append(items, rec)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].BorrowDate.After(items[j].BorrowDate) })
	items = page(items, filter.Page, filter.Size)

	return model.ListBorrowRecords{
		Paging: model.Paging{Page: filter.Page, PageSize: filter.Size, TotalElements: len(items)},
		Items:  items,
	}, nil
}

func (m *Memory) ListOverdue(_ context.Context, now time.Time) ([]model.BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []model.BorrowRecord
	for _, rec := range m.borrows {
		if rec.Status == model.StatusBorrowed && rec.DueDate.Before(now) {
			items = append(items, rec)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].DueDate.Before(items[j].DueDate) })
	return items, nil
}

func (m *Memory) UpdateFine(_ context.Context, recordID uuid.UUID, amount float64) (model.BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.borrows[recordID]
	if !ok {
		return model.BorrowRecord{}, errs.ErrNotFound
	}
	rec.FineAmount = amount
	m.borrows[recordID] = rec
	return rec, nil
}

func (m *Memory) CreateBook(_ context.Context, req model.CreateBookRequest) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	book := model.Book{
		ID:                uuid.New(),
		Title:             req.Title,
		Author:            req.Author,
		ISBN:              req.ISBN,
		Category:          req.Category,
		Description:       req.Description,
		TotalQuantity:     req.TotalQuantity,
		AvailableQuantity: req.TotalQuantity,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	m.books[book.ID] = book
	return book, nil
}

func (m *Memory) GetBook(_ context.Context, bookID uuid.UUID) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[bookID]
	if !ok || !book.IsActive {
		return model.Book{}, errs.ErrNotFound
	}
	return book, nil
}

func (m *Memory) ListBooks(_ context.Context, filter model.ListBooksFilter) (model.ListBooks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]model.Book, 0, len(m.books))
	for _, book := range m.books {
		if !book.IsActive {
			continue
		}
		if filter.Category != "" && book.Category != filter.Category {
			continue
		}
		if filter.AvailableOnly && book.AvailableQuantity <= 0 {
			continue
		}
		if filter.Search != "" && !matches(book, filter.Search) {
			continue
		}
		items = append(items, book)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	items = page(items, filter.Page, filter.Size)

	return model.ListBooks{
		Paging: model.Paging{Page: filter.Page, PageSize: filter.Size, TotalElements: len(items)},
		Items:  items,
	}, nil
}

func matches(book model.Book, search string) bool {
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(book.Title), s) ||
		strings.Contains(strings.ToLower(book.Author), s) ||
		strings.Contains(strings.ToLower(book.ISBN), s)
}

func (m *Memory) UpdateBook(_ context.Context, bookID uuid.UUID, req model.UpdateBookRequest) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[bookID]
	if !ok || !book.IsActive {
		return model.Book{}, errs.ErrNotFound
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}
	if req.Category != nil {
		book.Category = *req.Category
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.TotalQuantity != nil {
		delta := *req.TotalQuantity - book.TotalQuantity
		book.TotalQuantity = *req.TotalQuantity
		book.AvailableQuantity += delta
		if book.AvailableQuantity < 0 {
			book.AvailableQuantity = 0
		}
		if book.AvailableQuantity > book.TotalQuantity {
			book.AvailableQuantity = book.TotalQuantity
		}
	}
	book.UpdatedAt = time.Now().UTC()
	m.books[bookID] = book
	return book, nil
}

func (m *Memory) DeleteBook(_ context.Context, bookID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[bookID]
	if !ok || !book.IsActive {
		return errs.ErrNotFound
	}
	book.IsActive = false
	m.books[bookID] = book
	return nil
}

func (m *Memory) AppendAudit(_ context.Context, entry model.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextLog++
	entry.ID = m.nextLog
	m.audit = append(m.audit, entry)
	return nil
}

func (m *Memory) ListAudit(_ context.Context, filter model.ListAuditFilter) (model.ListAuditEntries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]model.AuditEntry, 0, len(m.audit))
	for _, e := range m.audit {
		if filter.Action != "" && !strings.Contains(e.Action, filter.Action) {
			continue
		}
		if filter.UserID != nil && (e.UserID == nil || *e.UserID != *filter.UserID) {
			continue
		}
		if filter.From != nil && e.Timestamp.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Timestamp.After(*filter.To) {
			continue
		}
		items = append(items, e)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Timestamp.After(items[j].Timestamp) })
	items = page(items, filter.Page, filter.Size)

	return model.ListAuditEntries{
		Paging: model.Paging{Page: filter.Page, PageSize: filter.Size, TotalElements: len(items)},
		Items:  items,
	}, nil
}

func (m *Memory) GetSettings(_ context.Context) (model.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settings == nil {
		def := model.DefaultSettings()
		def.ID = 1
		m.settings = &def
	}
	return *m.settings, nil
}

func (m *Memory) UpdateSettings(_ context.Context, req model.UpdateSettingsRequest) (model.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := model.Settings{
		ID:                1,
		LibraryName:       req.LibraryName,
		MaxBorrowDuration: req.MaxBorrowDuration,
		MaxBooksPerUser:   req.MaxBooksPerUser,
		FinePerDay:        req.FinePerDay,
	}
	m.settings = &s
	return s, nil
}

func page[T any](items []T, pageNum, size int) []T {
	if pageNum == 0 || size == 0 {
		return items
	}
	from := (pageNum - 1) * size
	if from >= len(items) {
		return nil
	}
	to := from + size
	if to > len(items) {
		to = len(items)
	}
	return items[from:to]
}
