// Package serrors implements semantic errors: a small set of kinds that
// describe what went wrong (bad input, unreachable site, timeout, ...) and an
// Error type that carries a kind together with an optional cause and message.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a marker interface implemented by all semantic error kinds created
// with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind. Kinds are comparable sentinels
// usable with errors.Is/As through the Error wrapper.
func NewKind(name string) Kind { return kind{s: name} }

// Kinds used across the extractor.
var (
	// ErrNotFound indicates a missing file or a page answering 404.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrInvalidInput indicates malformed input data, such as a CSV without the required columns.
	ErrInvalidInput = NewKind("INVALID_INPUT")
	// ErrNoURL indicates a business row without a website.
	ErrNoURL = NewKind("NO_URL")
	// ErrInvalidURL indicates a website value that cannot be turned into an absolute http(s) URL.
	ErrInvalidURL = NewKind("INVALID_URL")
	// ErrForbidden indicates a page the fetcher is not allowed to request.
	ErrForbidden = NewKind("FORBIDDEN")
	// ErrTimeout indicates the operation timed out.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrUnavailable indicates the remote site could not serve the page.
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrRateLimited indicates the remote site answered 429.
	ErrRateLimited = NewKind("RATE_LIMITED")
	// ErrInternal indicates a bug or an unexpected local failure.
	ErrInternal = NewKind("INTERNAL")
)

// Error is a semantic error carrying a kind, an optional wrapped cause and an
// optional message.
//
// errors.Is and errors.As match either the kind or anything in the cause chain.
// Error() renders "<msg>: <cause>", "<msg>", "<cause>" or the kind name,
// depending on which parts are set.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with the given kind and a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error with the given kind that wraps err.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly creates a semantic error carrying only the kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// KindOf returns the kind of the first semantic error found in err's chain,
// or nil when there is none.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.kind
	}

	return nil
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is matches against either the kind or the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}

	return e.err != nil && errors.Is(e.err, target)
}

// As matches against either the kind or the wrapped cause.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}

	return e.err != nil && errors.As(e.err, target)
}

// Kind returns the semantic kind, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause (may be nil).
func (e *Error) Cause() error { return e.err }
