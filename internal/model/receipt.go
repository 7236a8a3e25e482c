package model

import "time"

// Receipt is a snapshot of a booking taken when the guest first asks for
// proof of reservation.  There is at most one per booking and later edits to
// the booking do not change it.
type Receipt struct {
	ID              uint64    `json:"receipt_id"`
	BookingID       uint64    `json:"booking_id"`
	UserID          uint64    `json:"user_id"`
	ReceiptDate     time.Time `json:"receipt_date"`
	Username        string    `json:"username"`
	HotelName       string    `json:"hotel_name"`
	RoomType        string    `json:"room_type"`
	CheckIn         string    `json:"check_in_date"`
	CheckOut        string    `json:"check_out_date"`
	Status          string    `json:"status"`
	SpecialRequests string    `json:"special_requests"`
}
