package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/model"
)

// BookingRepo is the MySQL implementation of booking.Store.  Transactions
// serialize on the room row: LockRoom issues SELECT ... FOR UPDATE, so two
// requests for the same room run their conflict check and insert one after
// the other while requests for different rooms proceed in parallel.  Dates
// are written as YYYY-MM-DD strings so the session time zone never shifts
// them.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `booking_id, user_id, hotel_id, room_id, check_in_date, check_out_date, status, created_at, special_requests`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (model.Booking, error) {
	var b model.Booking
	var status string
	var special sql.NullString
	if err := row.Scan(&b.ID, &b.UserID, &b.HotelID, &b.RoomID, &b.CheckIn, &b.CheckOut,
		&status, &b.CreatedAt, &special); err != nil {
		return model.Booking{}, err
	}
	b.Status = model.BookingStatus(status)
	if !b.Status.Valid() {
		return model.Booking{}, fmt.Errorf("booking %d: unknown status %q", b.ID, status)
	}
	b.CheckIn = booking.DateOf(b.CheckIn)
	b.CheckOut = booking.DateOf(b.CheckOut)
	b.CreatedAt = b.CreatedAt.UTC()
	if special.Valid {
		b.SpecialRequests = special.String
	}
	return b, nil
}

func bookingNotFound(id uint64) error {
	return &booking.Error{Kind: booking.KindNotFound, Reason: "booking not found", BookingID: id}
}

// InTx runs fn inside a database transaction.  The deferred rollback only
// fires when fn failed or commit was never reached.
func (r *BookingRepo) InTx(ctx context.Context, fn func(ctx context.Context, tx booking.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(ctx, &bookingTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// FindBooking reads a booking by id without locking.
func (r *BookingRepo) FindBooking(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE booking_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, bookingNotFound(id)
	}
	return b, err
}

// RecomputeAvailability rewrites every room's flag in one statement.  MySQL
// counts only rows whose value actually changed as affected, which is the
// number reported back.
func (r *BookingRepo) RecomputeAvailability(ctx context.Context, today time.Time) (int, error) {
	const q = `UPDATE rooms r
               SET r.is_available = NOT EXISTS (
                   SELECT 1 FROM bookings b
                   WHERE b.room_id = r.room_id
                     AND b.status = 'Confirmed'
                     AND b.check_in_date <= ?
                     AND b.check_out_date > ?)`
	day := booking.FormatDate(today)
	res, err := r.db.ExecContext(ctx, q, day, day)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// BookingDetail is a booking joined with the names a guest recognises.
type BookingDetail struct {
	model.Booking
	HotelName string `json:"hotel_name"`
	RoomType  string `json:"room_type"`
}

// ListByUser returns the user's bookings, newest first, with hotel name and
// room type.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.booking_id, b.user_id, b.hotel_id, b.room_id, b.check_in_date, b.check_out_date,
                      b.status, b.created_at, b.special_requests, h.name, rm.room_type
               FROM bookings b
               JOIN hotels h ON h.hotel_id = b.hotel_id
               JOIN rooms rm ON rm.room_id = b.room_id
               WHERE b.user_id = ?
               ORDER BY b.created_at DESC, b.booking_id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var status string
		var special sql.NullString
		if err := rows.Scan(&d.ID, &d.UserID, &d.HotelID, &d.RoomID, &d.CheckIn, &d.CheckOut,
			&status, &d.CreatedAt, &special, &d.HotelName, &d.RoomType); err != nil {
			return nil, err
		}
		d.Status = model.BookingStatus(status)
		d.CheckIn = booking.DateOf(d.CheckIn)
		d.CheckOut = booking.DateOf(d.CheckOut)
		if special.Valid {
			d.SpecialRequests = special.String
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// bookingTx implements booking.Tx on a *sql.Tx.
type bookingTx struct {
	tx *sql.Tx
}

func (t *bookingTx) LockRoom(ctx context.Context, roomID uint64) (model.Room, error) {
	var rm model.Room
	var amenities sql.NullString
	err := t.tx.QueryRowContext(ctx,
		`SELECT room_id, hotel_id, room_type, amenities, is_available FROM rooms WHERE room_id = ? FOR UPDATE`,
		roomID).Scan(&rm.ID, &rm.HotelID, &rm.RoomType, &amenities, &rm.IsAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, &booking.Error{Kind: booking.KindNotFound, Reason: "room not found"}
	}
	if err != nil {
		return model.Room{}, err
	}
	rm.Amenities = model.SplitAmenities(amenities.String)
	return rm, nil
}

func (t *bookingTx) ConfirmedBookings(ctx context.Context, roomID uint64) ([]model.Booking, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE room_id = ? AND status = 'Confirmed' ORDER BY booking_id`,
		roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (t *bookingTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, hotel_id, room_id, check_in_date, check_out_date, status, created_at, special_requests)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var special interface{}
	if b.SpecialRequests != "" {
		special = b.SpecialRequests
	}
	res, err := t.tx.ExecContext(ctx, q, b.UserID, b.HotelID, b.RoomID,
		booking.FormatDate(b.CheckIn), booking.FormatDate(b.CheckOut), string(b.Status),
		b.CreatedAt.UTC().Format("2006-01-02 15:04:05"), special)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

func (t *bookingTx) LockBooking(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(t.tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE booking_id = ? FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, bookingNotFound(id)
	}
	return b, err
}

func (t *bookingTx) UpdateBookingDates(ctx context.Context, id uint64, checkIn, checkOut time.Time) error {
	// the row is locked by LockBooking, so it exists
	_, err := t.tx.ExecContext(ctx,
		`UPDATE bookings SET check_in_date = ?, check_out_date = ? WHERE booking_id = ?`,
		booking.FormatDate(checkIn), booking.FormatDate(checkOut), id)
	return err
}

func (t *bookingTx) UpdateBookingStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE booking_id = ?`, string(status), id)
	return err
}

func (t *bookingTx) SetRoomAvailable(ctx context.Context, roomID uint64, available bool) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE rooms SET is_available = ? WHERE room_id = ?`, available, roomID)
	return err
}
