package booking

import (
	"fmt"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// DefaultWindow is how long after creation a booking may still be cancelled
// or have its dates changed.
const DefaultWindow = 24 * time.Hour

// withinWindow reports whether now is at most window after createdAt.  The
// boundary itself is still inside.
func withinWindow(createdAt, now time.Time, window time.Duration) bool {
	return now.Sub(createdAt) <= window
}

// checkMutable guards both cancel and edit.  Ownership is checked first so a
// non-owner learns nothing about the booking's state.
func checkMutable(b model.Booking, actor Actor, now time.Time, window time.Duration) error {
	if b.UserID != actor.UserID {
		return &Error{Kind: KindUnauthorized, Reason: "booking belongs to another user", BookingID: b.ID}
	}
	if b.Status != model.BookingConfirmed {
		return &Error{Kind: KindInvalidTransition, Reason: "booking is " + string(b.Status), BookingID: b.ID}
	}
	if !withinWindow(b.CreatedAt, now, window) {
		return &Error{Kind: KindWindowExpired, Reason: "bookings can only be changed within " + describeWindow(window) + " of creation", BookingID: b.ID}
	}
	return nil
}

// describeWindow renders whole hours as "1 hour" or "24 hours" and anything
// else in time.Duration notation.
func describeWindow(d time.Duration) string {
	if d%time.Hour != 0 {
		return d.String()
	}
	h := int64(d / time.Hour)
	if h == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", h)
}
