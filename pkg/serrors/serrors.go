// Package serrors defines semantic error kinds shared by the toolkit's
// utilities, the HTTP API and the command line tools.
package serrors

import (
	"context"
	"errors"
	"fmt"
)

// Kind is a semantic error category. Only NewKind produces values of it.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a comparable kind sentinel.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrNotFound indicates the requested entity (report, file, host) was not found.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrUnauthorized indicates missing or invalid authentication.
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	// ErrForbidden indicates the caller may not perform the operation.
	ErrForbidden = NewKind("FORBIDDEN")
	// ErrBadRequest indicates invalid input: a port spec, a digest, a PEM block.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrConflict indicates the entity is not in the state the operation needs.
	ErrConflict = NewKind("CONFLICT")
	// ErrInternal indicates a failure that is not the caller's fault.
	ErrInternal = NewKind("INTERNAL")
	// ErrTimeout indicates the operation ran out of time.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrUnavailable indicates a remote target or dependency could not be reached.
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewKind("RATE_LIMITED")
)

// Error pairs a Kind with an optional cause and message. errors.Is and
// errors.As match both the kind and anything in the cause chain.
//
// Error() renders "<msg>: <cause>", falling back to whichever of the two is
// set, and to the kind name when neither is.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With returns an error of kind k with a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap returns an error of kind k wrapping err with a formatted message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly returns a bare error of kind k.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

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

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}

	return (e.kind != nil && errors.Is(e.kind, target)) || (e.err != nil && errors.Is(e.err, target))
}

func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}

	return (e.kind != nil && errors.As(e.kind, target)) || (e.err != nil && errors.As(e.err, target))
}

// KindOf returns the semantic kind carried by err, walking the wrap chain.
// Context deadline and cancellation errors map to ErrTimeout. Any other error
// maps to ErrInternal; nil maps to nil.
func KindOf(err error) Kind {
	if err == nil {
		return nil
	}

	var k Kind
	if errors.As(err, &k) {
		return k
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}

	return ErrInternal
}

// MessageOf returns the message of the outermost semantic error attached with With
// or Wrap, or an empty string when err carries none.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}

	return ""
}
