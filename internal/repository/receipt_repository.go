package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/model"
)

// ReceiptRepo issues receipts for bookings.
type ReceiptRepo struct {
	db *sql.DB
}

func NewReceiptRepo(db *sql.DB) *ReceiptRepo { return &ReceiptRepo{db: db} }

// Create copies the booking into a new receipt row, or returns the receipt
// already issued for it.  It returns ErrNotFound when the booking does not
// exist and ErrForbidden when it belongs to another user.
func (r *ReceiptRepo) Create(ctx context.Context, bookingID, userID uint64) (*model.Receipt, error) {
	var owner uint64
	err := r.db.QueryRowContext(ctx, "SELECT user_id FROM bookings WHERE booking_id = ?", bookingID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, ErrForbidden
	}

	const q = `INSERT INTO receipts (booking_id, user_id, receipt_date, username, hotel_name, room_type,
	                                 check_in_date, check_out_date, status, special_requests)
	           SELECT b.booking_id, b.user_id, UTC_TIMESTAMP(), u.username, h.name, ro.room_type,
	                  b.check_in_date, b.check_out_date, b.status, b.special_requests
	           FROM bookings b
	           JOIN users u ON u.user_id = b.user_id
	           JOIN rooms ro ON ro.room_id = b.room_id
	           JOIN hotels h ON h.hotel_id = ro.hotel_id
	           WHERE b.booking_id = ?`
	res, err := r.db.ExecContext(ctx, q, bookingID)
	if isDuplicate(err) {
		return r.byBooking(ctx, bookingID)
	}
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

const receiptSelect = `SELECT receipt_id, booking_id, user_id, receipt_date, username, hotel_name, room_type,
	       check_in_date, check_out_date, status, special_requests
	FROM receipts`

// GetByID loads a stored receipt.
func (r *ReceiptRepo) GetByID(ctx context.Context, id uint64) (*model.Receipt, error) {
	return scanReceipt(r.db.QueryRowContext(ctx, receiptSelect+" WHERE receipt_id = ?", id))
}

func (r *ReceiptRepo) byBooking(ctx context.Context, bookingID uint64) (*model.Receipt, error) {
	return scanReceipt(r.db.QueryRowContext(ctx, receiptSelect+" WHERE booking_id = ?", bookingID))
}

func scanReceipt(row rowScanner) (*model.Receipt, error) {
	var rc model.Receipt
	var special sql.NullString
	var in, out time.Time
	err := row.Scan(&rc.ID, &rc.BookingID, &rc.UserID, &rc.ReceiptDate,
		&rc.Username, &rc.HotelName, &rc.RoomType, &in, &out, &rc.Status, &special)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rc.CheckIn = booking.FormatDate(in)
	rc.CheckOut = booking.FormatDate(out)
	rc.SpecialRequests = special.String
	return &rc, nil
}
