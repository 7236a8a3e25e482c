// Package queue defines the booking lifecycle messages exchanged over
// RabbitMQ and the consumer that records them in the booking log.
package queue

import (
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// BookingEvent is published after a booking is confirmed, cancelled or has
// its dates changed.  It carries enough of the booking for consumers to log
// or notify without querying the database.
type BookingEvent struct {
	Event      string `json:"event"` // booking.confirmed | booking.cancelled | booking.modified
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	HotelID    uint64 `json:"hotel_id"`
	RoomID     uint64 `json:"room_id"`
	CheckIn    string `json:"check_in_date"`
	CheckOut   string `json:"check_out_date"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	OccurredAt string `json:"occurred_at"`
}

// NewBookingEvent snapshots b for the named event.
func NewBookingEvent(event string, b model.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Event:      event,
		BookingID:  b.ID,
		UserID:     b.UserID,
		HotelID:    b.HotelID,
		RoomID:     b.RoomID,
		CheckIn:    b.CheckIn.UTC().Format("2006-01-02"),
		CheckOut:   b.CheckOut.UTC().Format("2006-01-02"),
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339),
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}
