// Package apperr defines the error taxonomy shared by every domain service.
// Each error carries a user-facing message; the HTTP layer maps the kind to a
// status code without leaking internals.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	// KindInternal is an unexpected failure (persistence, bugs).
	KindInternal Kind = iota
	// KindValidation is malformed, missing or out-of-range input.
	KindValidation
	// KindNotFound means a referenced entity is absent.
	KindNotFound
	// KindConflict covers duplicates, archive-state conflicts, insufficient
	// stock and last-admin protections.
	KindConflict
	// KindUnauthorized covers missing/invalid tokens and bad credentials.
	KindUnauthorized
)

// Error is a classified error with a message safe to show to users.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a 400-class error.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a 404-class error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a 409-class error.
func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized builds a 401-class error.
func Unauthorized(format string, args ...any) error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected error. Its message is never shown verbatim to
// clients.
func Internal(err error) error {
	return &Error{Kind: KindInternal, Message: "Terjadi kesalahan pada server.", Err: err}
}

// KindOf extracts the kind, defaulting to KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf extracts the user-facing message, with a generic fallback for
// untyped errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Terjadi kesalahan pada server."
}
