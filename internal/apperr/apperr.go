// Package apperr defines the error taxonomy shared by services and the HTTP
// layer. Services return *Error values; the central Echo error handler turns
// them into status codes and JSON bodies.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	Unexpected      Kind = iota // anything the store or runtime did that we did not anticipate
	Validation                  // malformed or missing input
	NotFound                    // referenced entity absent
	Conflict                    // duplicate unique value or dependent rows
	Unauthenticated             // bad credentials or missing/invalid token
	Domain                      // business rule rejected the request (e.g. already cancelled)
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Unauthenticated:
		return "unauthenticated"
	case Domain:
		return "domain"
	default:
		return "unexpected"
	}
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case Validation, Domain:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Unauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is the concrete error type carried from services to handlers.
// Message is safe to show to clients. Details holds optional store output
// (constraint violation text) rendered alongside 4xx responses outside
// production. Err is the wrapped cause and is never rendered for 5xx in
// production.
type Error struct {
	Kind    Kind
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error.
func (e *Error) Status() int { return e.Kind.Status() }

// WithDetails attaches client-visible detail text and returns e.
func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error { return newf(Validation, format, args...) }

func NotFoundf(format string, args ...any) *Error { return newf(NotFound, format, args...) }

func Conflictf(format string, args ...any) *Error { return newf(Conflict, format, args...) }

func Unauthenticatedf(format string, args ...any) *Error {
	return newf(Unauthenticated, format, args...)
}

func Domainf(format string, args ...any) *Error { return newf(Domain, format, args...) }

// Wrap reports err as an unexpected failure. A nil err yields nil and an
// err that already is an *Error is returned unchanged.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: Unexpected, Message: message, Err: err}
}

// KindOf returns the Kind of err, or Unexpected when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Unexpected
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
