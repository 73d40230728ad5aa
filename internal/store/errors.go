// Package store defines persistence-layer errors and shared types for
// the catalog stores.
package store

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
)

// Error is a persistence error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a new error with a custom message. The receiver
// stays in the Unwrap chain so errors.Is still matches the sentinel.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Code:    e.Code,
		Message: msg,
		Err:     e,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}

	ErrGenreInUse = &Error{
		Code:    http.StatusConflict,
		Message: "genre is still referenced by catalog entries",
	}
)

// CachedRecord is a metadata lookup result retrieved from cache.
type CachedRecord struct {
	Record    domain.BookRecord
	FetchedAt time.Time
}
