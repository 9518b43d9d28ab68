package model

import (
	"time"

	"github.com/google/uuid"
)

type BorrowRequest struct {
	BookID  uuid.UUID `json:"bookId" validate:"required"`
	DueDate time.Time `json:"dueDate" validate:"required"`
	UserID  uuid.UUID `json:"-" validate:"required"`
}

type DecideRequest struct {
	Status Status `json:"status" validate:"required,oneof=BORROWED REJECTED"`
}

type UpdateFineRequest struct {
	FineAmount float64 `json:"fineAmount" validate:"gte=0"`
}

type ListBorrowsFilter struct {
	Status Status
	UserID *uuid.UUID
	Page   int
	Size   int
}

type CreateBookRequest struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	ISBN          string `json:"isbn" validate:"required"`
	Category      string `json:"category" validate:"required"`
	Description   string `json:"description"`
	TotalQuantity int    `json:"totalQuantity" validate:"required,gte=0"`
}

type UpdateBookRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	ISBN          *string `json:"isbn"`
	Category      *string `json:"category"`
	Description   *string `json:"description"`
	TotalQuantity *int    `json:"totalQuantity" validate:"omitempty,gte=0"`
}

type ListBooksFilter struct {
	Category      string
	Search        string
	AvailableOnly bool
	Page          int
	Size          int
}

type ListAuditFilter struct {
	Action string
	UserID *uuid.UUID
	From   *time.Time
	To     *time.Time
	Page   int
	Size   int
}

type UpdateSettingsRequest struct {
	LibraryName       string  `json:"libraryName" validate:"required"`
	MaxBorrowDuration int     `json:"maxBorrowDuration" validate:"required,gt=0"`
	MaxBooksPerUser   int     `json:"maxBooksPerUser" validate:"required,gt=0"`
	FinePerDay        float64 `json:"finePerDay" validate:"gte=0"`
}
