// internal/web/errors.go
//
// Typed domain errors and their HTTP mapping.
//
// Handlers and repositories pass these through unchanged; the respond
// helpers translate them to status codes at the edge.  Anything that is not
// one of these types is a 500, and its detail is logged rather than sent to
// the client.

package web

import (
	"errors"
	"net/http"
)

// ValidationError is a caller mistake: bad payload, bad query parameter, or
// an update with nothing to change.  Maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError covers a missing or inactive row.  Maps to 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError is a unique-constraint loss that survived the retry.  Maps
// to 409.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewValidationError(msg string) error { return &ValidationError{Message: msg} }
func NewNotFoundError(msg string) error   { return &NotFoundError{Message: msg} }
func NewConflictError(msg string) error   { return &ConflictError{Message: msg} }

func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflictError(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

// StatusOf maps err to an HTTP status code and a client-safe message.
// Untyped errors yield 500 with a generic message; the caller logs the
// real error.
func StatusOf(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case IsValidationError(err):
		return http.StatusBadRequest, err.Error()
	case IsNotFoundError(err):
		return http.StatusNotFound, err.Error()
	case IsConflictError(err):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
