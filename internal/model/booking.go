package model

import "time"

// BookingStatus is the lifecycle state of a booking.  The values match the
// CHECK constraint on bookings.status.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
	// BookingModified is accepted when reading older rows.  Date edits keep a
	// booking Confirmed, so the service never writes it.
	BookingModified BookingStatus = "Modified"
)

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingConfirmed, BookingCancelled, BookingModified:
		return true
	}
	return false
}

// Booking is a reservation of one room for a half-open range of calendar
// days [CheckIn, CheckOut).  Dates are stored as UTC midnight.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – user who owns the booking.
//  HotelID         – hotel of the booked room.
//  RoomID          – booked room.
//  CheckIn         – first night (inclusive).
//  CheckOut        – departure day (exclusive).
//  Status          – Confirmed, Cancelled or Modified.
//  CreatedAt       – creation timestamp; never changes.
//  SpecialRequests – optional free text from the guest.
type Booking struct {
	ID              uint64        `json:"booking_id"`       // bookings.booking_id
	UserID          uint64        `json:"user_id"`          // bookings.user_id
	HotelID         uint64        `json:"hotel_id"`         // bookings.hotel_id
	RoomID          uint64        `json:"room_id"`          // bookings.room_id
	CheckIn         time.Time     `json:"check_in_date"`    // bookings.check_in_date
	CheckOut        time.Time     `json:"check_out_date"`   // bookings.check_out_date
	Status          BookingStatus `json:"status"`           // bookings.status
	CreatedAt       time.Time     `json:"created_at"`       // bookings.created_at
	SpecialRequests string        `json:"special_requests"` // bookings.special_requests (nullable)
}
