// Package errs defines the error taxonomy shared by the repositories and the
// match orchestrator. Every error carries a machine-readable kind and a
// human-readable detail; underlying store errors are wrapped for logging but
// their text never becomes part of the detail shown to callers.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to branch on it.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindValidation        Kind = "validation"
	KindIncompleteProfile Kind = "incomplete_profile"
	KindConflict          Kind = "conflict"
	KindStoreUnavailable  Kind = "store_unavailable"
)

// Error is the concrete error type used across the core.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound indicates the referenced user or target does not exist.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Detail: fmt.Sprintf(format, args...)}
}

// Validation indicates malformed or out-of-bound input.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Detail: fmt.Sprintf(format, args...)}
}

// IncompleteProfile indicates matching was requested before the
// questionnaire was completed.
func IncompleteProfile(format string, args ...any) *Error {
	return &Error{Kind: KindIncompleteProfile, Detail: fmt.Sprintf(format, args...)}
}

// Conflict indicates a self-targeting or already-claimed resource operation.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Detail: fmt.Sprintf(format, args...)}
}

// StoreUnavailable wraps a store failure behind a sanitized detail string.
func StoreUnavailable(detail string, err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Detail: detail, Err: err}
}

// KindOf extracts the kind from err, or "" for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// DetailOf returns the sanitized detail for err, or a generic fallback.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return "internal error"
}
