// Package serrors defines the semantic error kinds used across the moderation
// core. Every failure a service can report is tagged with exactly one kind so
// that transports can map it to a status code without inspecting messages.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a marker interface implemented by all semantic error kinds created
// with NewKind. It allows distinguishing semantic kinds from ordinary errors.
type Kind interface {
	error
	isKind()
}

// kind is the unexported sentinel implementation behind every Kind.
type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind (a sentinel) with the provided
// name. Kinds are comparable and match through errors.Is/As when carried by
// the Error wrapper below.
func NewKind(name string) Kind { return kind{s: name} }

// Error kinds of the moderation core. Authorization failures are deliberately
// split from field-level and transition failures: the first family means "you
// may not touch this resource", the second "you touched it the wrong way".
var (
	// ErrNoAuthorization indicates the caller's roles or ownership do not
	// permit the operation at all. Anonymous callers map to 401, authenticated
	// ones to 403.
	ErrNoAuthorization = NewKind("NO_AUTHORIZATION")
	// ErrIllegalArgument indicates the caller may touch the resource but
	// attempted a field change their role does not permit, or supplied a
	// malformed value.
	ErrIllegalArgument = NewKind("ILLEGAL_ARGUMENT")
	// ErrIllegalTransition indicates a lifecycle transition that the state
	// machine of the resource forbids.
	ErrIllegalTransition = NewKind("ILLEGAL_TRANSITION")
	// ErrAlreadyExists indicates a uniqueness violation (tag name, website
	// domain, webpage path, user email).
	ErrAlreadyExists = NewKind("ALREADY_EXISTS")
	// ErrNotFound indicates no entity exists for the given id.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrConflict indicates the optimistic write precondition failed; the
	// caller should re-fetch and retry.
	ErrConflict = NewKind("CONFLICT")

	// ErrInvalidDomain indicates a malformed website domain.
	ErrInvalidDomain = NewKind("INVALID_DOMAIN")
	// ErrInvalidURL indicates a malformed URL.
	ErrInvalidURL = NewKind("INVALID_URL")
	// ErrInvalidPath indicates a malformed webpage path.
	ErrInvalidPath = NewKind("INVALID_PATH")
	// ErrInvalidEmail indicates a malformed email address.
	ErrInvalidEmail = NewKind("INVALID_EMAIL")
	// ErrInvalidCredentials indicates the credential store rejected the
	// supplied secret.
	ErrInvalidCredentials = NewKind("INVALID_CREDENTIALS")
	// ErrNoRole indicates a user record without any role, which the platform
	// never allows.
	ErrNoRole = NewKind("NO_ROLE")

	// ErrInternal indicates an unexpected server-side failure.
	ErrInternal = NewKind("INTERNAL")
)

// Error is a semantic error carrying a kind sentinel, an optional wrapped
// cause and an optional message. It supports errors.Is/errors.As against both
// the kind and the cause chain.
//
// Error string formatting:
//   - msg and cause set:  "<msg>: <cause>"
//   - only msg set:       "<msg>"
//   - only cause set:     "<cause>"
//   - neither:            the kind's name
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with the given kind and a formatted
// message. Use Wrap to also record a concrete cause.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error with the given kind, wrapping cause err
// and attaching a formatted message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly creates a semantic error carrying only the kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// Error implements the error interface.
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
	default:
		if e.kind != nil {
			return e.kind.Error()
		}

		return "unknown error"
	}
}

// Unwrap returns the wrapped cause, letting errors.Unwrap/Is/As walk the chain.
func (e *Error) Unwrap() error { return e.err }

// Is matches against either the kind sentinel or the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	if e.err != nil && errors.Is(e.err, target) {
		return true
	}

	return false
}

// As matches type assertions against either the kind sentinel or the cause.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}
	if e.err != nil && errors.As(e.err, target) {
		return true
	}

	return false
}

// Kind returns the semantic kind sentinel of this error, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause (may be nil).
func (e *Error) Cause() error { return e.err }
