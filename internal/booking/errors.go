package booking

import (
	"errors"
	"fmt"
)

// Kind classifies a booking failure.  The string form is returned to
// clients in the "kind" field of error bodies.
type Kind string

const (
	KindPastDate          Kind = "past_date"
	KindInvalidRange      Kind = "invalid_range"
	KindConflict          Kind = "conflict"
	KindUnauthorized      Kind = "unauthorized"
	KindWindowExpired     Kind = "window_expired"
	KindNotFound          Kind = "not_found"
	KindInvalidTransition Kind = "invalid_transition"
	KindPersistence       Kind = "persistence"
)

// Error is the single error type returned by the booking service.
// BookingID names the blocking booking for conflicts and the target booking
// otherwise (zero when unknown).  Err carries the underlying cause of
// persistence failures.
type Error struct {
	Kind      Kind
	Reason    string
	BookingID uint64
	Err       error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.BookingID != 0 {
		msg += fmt.Sprintf(" (booking %d)", e.BookingID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrConflict)
// holds regardless of reason or booking id.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrPastDate          = &Error{Kind: KindPastDate}
	ErrInvalidRange      = &Error{Kind: KindInvalidRange}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrWindowExpired     = &Error{Kind: KindWindowExpired}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrPersistence       = &Error{Kind: KindPersistence}
)

// KindOf returns the kind of a booking error, or KindPersistence for any
// other non-nil error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindPersistence
}

func notFound(reason string, id uint64) *Error {
	return &Error{Kind: KindNotFound, Reason: reason, BookingID: id}
}
