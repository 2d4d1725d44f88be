// Package apperr defines the error taxonomy shared by the services and the
// HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for status mapping.
type Kind int

const (
	KindStorage Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
)

// Error is a classified failure. Message is safe to show to API clients;
// Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %v", e.Op, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or missing input.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Unauthorized reports an unknown account or a bad credential.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Forbidden reports an authenticated caller lacking a role.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NotFound reports an operation on a missing id.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Storage wraps a data-access failure. op names the failed operation.
func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorage, Message: "server error", Op: op, Err: err}
}

// KindOf returns the kind of err; unclassified errors count as storage failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// StatusOf maps err to an HTTP status code.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the client-facing message for err. Storage failures never
// leak their cause unless detail is set.
func PublicMessage(err error, detail bool) string {
	var e *Error
	if !errors.As(err, &e) {
		if detail {
			return "server error: " + err.Error()
		}
		return "server error"
	}
	if e.Kind != KindStorage {
		return e.Message
	}
	if detail && e.Err != nil {
		op := e.Op
		if op == "" {
			op = "operation"
		}
		return fmt.Sprintf("%s failed: %v", op, e.Err)
	}
	return "server error"
}
