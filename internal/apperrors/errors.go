package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidPosition  = errors.New("invalid position")
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrEmailNotVerified = errors.New("email not verified")
	ErrConflict         = errors.New("conflict")
)

// kindError carries a caller-facing message while still matching its kind
// through errors.Is.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// New returns an error of the given kind with a custom message.
func New(kind error, format string, args ...interface{}) error {
	return &kindError{msg: fmt.Sprintf(format, args...), kind: kind}
}

// NotFound reports a missing entity, e.g. NotFound("card") -> "card not found".
func NotFound(entity string) error {
	return New(ErrNotFound, "%s not found", entity)
}

// Forbidden reports an ownership failure with a reason shown to the caller.
func Forbidden(reason string) error {
	return New(ErrForbidden, "%s", reason)
}

// Invalid reports a request field problem.
func Invalid(format string, args ...interface{}) error {
	return New(ErrValidation, format, args...)
}

// StatusCode maps an error to the HTTP status the handlers respond with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrEmailNotVerified):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidPosition), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text that is safe to expose for err.
// Internal errors are collapsed to a generic message.
func Message(err error) string {
	if StatusCode(err) == http.StatusInternalServerError {
		return "An unexpected error occurred"
	}
	return err.Error()
}
