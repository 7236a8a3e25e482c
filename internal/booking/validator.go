package booking

import (
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// Overlaps reports whether the half-open ranges [aIn, aOut) and [bIn, bOut)
// share at least one night.  A stay ending on the day another begins does
// not overlap it.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// Validate checks a requested stay against today and the room's existing
// bookings.  Only Confirmed bookings block; the booking with id excludeID
// (the one being edited) is ignored.  Checks run in order: past date,
// inverted range, conflict.  All dates are compared as calendar dates.
func Validate(checkIn, checkOut, today time.Time, existing []model.Booking, excludeID uint64) error {
	checkIn, checkOut, today = DateOf(checkIn), DateOf(checkOut), DateOf(today)

	if checkIn.Before(today) {
		return &Error{Kind: KindPastDate, Reason: "check-in date is in the past"}
	}
	if !checkOut.After(checkIn) {
		return &Error{Kind: KindInvalidRange, Reason: "check-out must be after check-in"}
	}
	for _, b := range existing {
		if b.Status != model.BookingConfirmed || (excludeID != 0 && b.ID == excludeID) {
			continue
		}
		if Overlaps(checkIn, checkOut, DateOf(b.CheckIn), DateOf(b.CheckOut)) {
			return &Error{Kind: KindConflict, Reason: "room is already booked for these dates", BookingID: b.ID}
		}
	}
	return nil
}
