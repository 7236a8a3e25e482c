package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/booking"
)

// notFoundMessage is shown both for missing bookings and for bookings owned
// by someone else, so a caller cannot probe which ids exist.
const notFoundMessage = "booking not found"

// writeBookingError maps a booking service error to its HTTP response.
// Every body carries "error" and "kind".
func writeBookingError(c echo.Context, err error) error {
	status, kind, msg := describeBookingError(err)
	return c.JSON(status, echo.Map{"error": msg, "kind": kind})
}

func describeBookingError(err error) (int, booking.Kind, string) {
	kind := booking.KindOf(err)
	reason := ""
	var be *booking.Error
	if errors.As(err, &be) {
		reason = be.Reason
	}
	switch kind {
	case booking.KindPastDate, booking.KindInvalidRange:
		return http.StatusBadRequest, kind, reason
	case booking.KindConflict:
		return http.StatusConflict, kind, "room is already booked for the selected dates"
	case booking.KindWindowExpired:
		return http.StatusConflict, kind, reason
	case booking.KindInvalidTransition:
		return http.StatusConflict, kind, "booking can no longer be changed"
	case booking.KindUnauthorized:
		return http.StatusNotFound, booking.KindNotFound, notFoundMessage
	case booking.KindNotFound:
		if reason == "" {
			reason = notFoundMessage
		}
		return http.StatusNotFound, kind, reason
	}
	return http.StatusInternalServerError, booking.KindPersistence, "internal error"
}
