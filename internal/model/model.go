package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a borrow record.
// PENDING -> BORROWED | REJECTED, BORROWED -> RETURNED.
// REJECTED and RETURNED are terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusBorrowed Status = "BORROWED"
	StatusRejected Status = "REJECTED"
	StatusReturned Status = "RETURNED"
)

// Active reports whether the record still holds a copy reservation.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusBorrowed
}

func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusReturned
}

type Book struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Title             string    `json:"title" db:"title"`
	Author            string    `json:"author" db:"author"`
	ISBN              string    `json:"isbn" db:"isbn"`
	Category          string    `json:"category" db:"category"`
	Description       string    `json:"description" db:"description"`
	TotalQuantity     int       `json:"totalQuantity" db:"total_quantity"`
	AvailableQuantity int       `json:"availableQuantity" db:"available_quantity"`
	IsActive          bool      `json:"isActive" db:"is_active"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

type BorrowRecord struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"userId" db:"user_id"`
	BookID     uuid.UUID  `json:"bookId" db:"book_id"`
	BorrowDate time.Time  `json:"borrowDate" db:"borrow_date"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time `json:"returnDate" db:"return_date"`
	Status     Status     `json:"status" db:"status"`
	FineAmount float64    `json:"fineAmount" db:"fine_amount"`
}

type AuditEntry struct {
	ID        int64      `json:"id" db:"id"`
	UserID    *uuid.UUID `json:"userId" db:"user_id"`
	Action    string     `json:"action" db:"action"`
	Details   string     `json:"details" db:"details"`
	Timestamp time.Time  `json:"timestamp" db:"created_at"`
}

// Audit actions emitted by the borrowing workflow and the catalog.
const (
	ActionBorrowRequested = "BORROW_REQUESTED"
	ActionRequestApproved = "REQUEST_APPROVED"
	ActionRequestRejected = "REQUEST_REJECTED"
	ActionBookReturned    = "BOOK_RETURNED"
	ActionFineUpdated     = "FINE_UPDATED"
	ActionBookCreated     = "BOOK_CREATED"
	ActionBookUpdated     = "BOOK_UPDATED"
	ActionBookDeleted     = "BOOK_DELETED"
	ActionSettingsUpdated = "SETTINGS_UPDATED"
)

type Settings struct {
	ID                int     `json:"id" db:"id"`
	LibraryName       string  `json:"libraryName" db:"library_name"`
	MaxBorrowDuration int     `json:"maxBorrowDuration" db:"max_borrow_duration"`
	MaxBooksPerUser   int     `json:"maxBooksPerUser" db:"max_books_per_user"`
	FinePerDay        float64 `json:"finePerDay" db:"fine_per_day"`
}

// DefaultSettings is materialized on first read when the table is empty.
func DefaultSettings() Settings {
	return Settings{
		LibraryName:       "SmartLibrary",
		MaxBorrowDuration: 14,
		MaxBooksPerUser:   5,
		FinePerDay:        0.50,
	}
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging
	Items []Book `json:"items"`
}

type ListBorrowRecords struct {
	Paging
	Items []BorrowRecord `json:"items"`
}

type ListAuditEntries struct {
	Paging
	Items []AuditEntry `json:"items"`
}
