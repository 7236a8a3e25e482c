package booking

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// Store is the persistence boundary of the booking engine.  Implementations
// return ErrNotFound (any *Error of KindNotFound) for missing rows.
type Store interface {
	// InTx runs fn inside one transaction.  The transaction commits when fn
	// returns nil and rolls back otherwise; fn's error is returned as is.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// FindBooking reads a booking without locking it.
	FindBooking(ctx context.Context, id uint64) (model.Booking, error)
	// RecomputeAvailability rewrites is_available for every room from the
	// Confirmed bookings covering today and returns the number of rooms
	// whose flag changed.
	RecomputeAvailability(ctx context.Context, today time.Time) (int, error)
}

// Tx is the work a booking operation performs inside a transaction.  A
// transaction that locks both a room and a booking always locks the room
// first.
type Tx interface {
	// LockRoom takes the room's exclusive lock until the transaction ends.
	// Concurrent check-then-insert sequences on the same room serialize here.
	LockRoom(ctx context.Context, roomID uint64) (model.Room, error)
	// ConfirmedBookings lists the Confirmed bookings of a room, including
	// writes made earlier in this transaction.
	ConfirmedBookings(ctx context.Context, roomID uint64) ([]model.Booking, error)
	// InsertBooking stores b and assigns b.ID.
	InsertBooking(ctx context.Context, b *model.Booking) error
	// LockBooking reads a booking and locks its row.
	LockBooking(ctx context.Context, id uint64) (model.Booking, error)
	UpdateBookingDates(ctx context.Context, id uint64, checkIn, checkOut time.Time) error
	UpdateBookingStatus(ctx context.Context, id uint64, status model.BookingStatus) error
	SetRoomAvailable(ctx context.Context, roomID uint64, available bool) error
}

// Event names published after a lifecycle transition commits.
const (
	EventConfirmed = "booking.confirmed"
	EventCancelled = "booking.cancelled"
	EventModified  = "booking.modified"
)

// Notifier is told about committed transitions.  It must not block for long
// and its failures never affect the booking.
type Notifier interface {
	Notify(ctx context.Context, event string, b model.Booking)
}

// Logger is the subset of the application logger the engine writes to.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string, model.Booking) {}
