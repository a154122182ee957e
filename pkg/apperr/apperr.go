// Package apperr defines the error taxonomy shared by every service.
// Controllers return these errors unchanged and the router maps the
// Kind to an HTTP status.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindPermissionDenied    Kind = "permission_denied"
	KindInvalidTransition   Kind = "invalid_transition"
	KindNotFound            Kind = "not_found"
	KindValidation          Kind = "validation_error"
	KindRoleNotGrantable    Kind = "role_not_grantable"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUnauthenticated     Kind = "unauthenticated"
	KindConflict            Kind = "conflict"
)

// Sentinels for errors.Is; an *Error matches the sentinel of its Kind.
var (
	ErrPermissionDenied    = &Error{Kind: KindPermissionDenied, Msg: "permission denied"}
	ErrInvalidTransition   = &Error{Kind: KindInvalidTransition, Msg: "invalid transition"}
	ErrNotFound            = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrValidation          = &Error{Kind: KindValidation, Msg: "validation error"}
	ErrRoleNotGrantable    = &Error{Kind: KindRoleNotGrantable, Msg: "role not grantable"}
	ErrUpstreamUnavailable = &Error{Kind: KindUpstreamUnavailable, Msg: "upstream unavailable"}
	ErrUnauthenticated     = &Error{Kind: KindUnauthenticated, Msg: "unauthenticated"}
	ErrConflict            = &Error{Kind: KindConflict, Msg: "conflict"}
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func PermissionDenied(format string, args ...any) *Error {
	return New(KindPermissionDenied, format, args...)
}

func InvalidTransition(format string, args ...any) *Error {
	return New(KindInvalidTransition, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

// KindOf returns the Kind of the first *Error in err's chain, or "" when
// err carries none (an internal failure).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
