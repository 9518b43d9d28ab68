package errs

import (
	"errors"
)

// Closed taxonomy of the borrowing workflow. Handlers map these to
// HTTP statuses; repositories translate driver errors into them so
// nothing above the repository layer sees pg error codes.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnavailable     = errors.New("book is currently unavailable")
	ErrDuplicateClaim  = errors.New("active borrow already exists for this book")
	ErrInvalidState    = errors.New("invalid record state for this transition")
	ErrAlreadyReturned = errors.New("book has already been returned")
	ErrContention      = errors.New("transaction contention, retry")

	// ErrForbidden is the auth surface's denial, not a workflow state.
	ErrForbidden = errors.New("access denied")
)

// Retriable reports whether the caller may safely retry the operation.
func Retriable(err error) bool {
	return errors.Is(err, ErrContention)
}

type ValidationErrorResponse struct {
	Message string `json:"message"`
	Errors  struct {
		AdditionalProperties string `json:"additionalProperties"`
	} `json:"errors"`
}
