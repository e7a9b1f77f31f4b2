// Package apperr defines the error taxonomy shared by services and handlers
// and its translation to HTTP responses. Services return *Error values;
// handlers hand any error to Status and never build status codes ad hoc.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind uint8

const (
	Validation Kind = iota + 1 // malformed or missing input
	Unauthenticated
	Forbidden
	NotFound
	Conflict
	RateLimited
	Internal
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause while keeping the client-facing message.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// Message is the client-facing message, without any wrapped cause.
func (e *Error) Message() string { return e.msg }

var statusByKind = map[Kind]int{
	Validation:      http.StatusBadRequest,
	Unauthenticated: http.StatusUnauthorized,
	Forbidden:       http.StatusForbidden,
	NotFound:        http.StatusNotFound,
	Conflict:        http.StatusConflict,
	RateLimited:     http.StatusTooManyRequests,
	Internal:        http.StatusInternalServerError,
}

// Status maps err to an HTTP status code and a client-safe message. Errors
// outside the taxonomy become 500 with a generic message so driver and
// crypto failures never leak to clients.
func Status(err error) (int, string) {
	var e *Error
	if errors.As(err, &e) {
		if code, ok := statusByKind[e.kind]; ok {
			return code, e.msg
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

// IsKind reports whether err belongs to the taxonomy with the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == kind
}
