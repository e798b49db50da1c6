// Package apperr classifies domain errors so the HTTP boundary can map them
// to status codes without inspecting error text.
package apperr

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind is the category of an error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	}
	return "internal"
}

// Error is a sentinel domain error. Compare with errors.Is; values are
// pointers so identity comparison is what matches.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func Validation(msg string) *Error  { return &Error{Kind: KindValidation, Msg: msg} }
func NotFound(msg string) *Error    { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) *Error    { return &Error{Kind: KindConflict, Msg: msg} }
func Unavailable(msg string) *Error { return &Error{Kind: KindUnavailable, Msg: msg} }

// KindOf returns the kind of the first *Error in err's chain. Errors without
// one are Unavailable when they look like a transient infrastructure failure
// and Internal otherwise.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if IsTransient(err) {
		return KindUnavailable
	}
	return KindInternal
}

// IsTransient reports whether err is a timeout or connection failure that the
// caller may retry.
func IsTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03", "57014", "40001", "40P01", "57P01", "08006", "08001", "08004":
			return true
		}
	}
	return false
}
