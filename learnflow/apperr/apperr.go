// Package apperr defines the error taxonomy shared by controllers and
// routes. Storage and upstream errors are wrapped into one of these kinds
// before they reach a handler, so the HTTP layer never sees a raw
// driver error.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Validation Kind = iota
	Unauthenticated
	NotAuthorized
	NotFound
	DuplicateEmail
	AIUnavailable
	Internal
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Status maps an error to its HTTP status code. Unrecognized errors are
// treated as internal.
func Status(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case Validation:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case NotAuthorized:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case DuplicateEmail:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-visible message for an error. Anything
// outside the taxonomy gets a generic message so internals never leak.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Internal server error"
}

func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
