// Package apperror defines the application's error taxonomy.
//
// The service layer returns these instead of HTTP status codes; the
// handler layer owns the mapping to HTTP (see handler.writeError).
// Callers classify an error with errors.Is against the sentinels below,
// which works through any fmt.Errorf("...: %w", err) wrapping.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError pairs a sentinel with a human-readable message and, for
// validation failures, the offending field.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// MissingField reports a required field that was absent from a request.
func MissingField(field string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("%s is required", field),
		Field:   field,
	}
}

// DuplicateTitle reports a violation of the per-user title uniqueness
// rule. Raised by the service's pre-check and by the store when the
// UNIQUE index fires — both paths produce this same error.
func DuplicateTitle() *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: "You already have a snippet with this title",
		Field:   "title",
	}
}

// AlreadyFavorited reports a second favorite attempt for the same
// (user, snippet) pair.
func AlreadyFavorited() *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: "Already favorited",
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized returns an AppError for missing or failed authentication.
// HTTP handlers map this to 401 Unauthorized.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
