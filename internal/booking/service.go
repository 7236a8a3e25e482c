// Package booking is the conflict and availability engine: it validates
// requested stays, drives the booking lifecycle and keeps the per-room
// availability flag in step with the bookings table.
package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// Actor is the authenticated caller as established by the identity layer.
type Actor struct {
	UserID uint64
	Role   string
}

// CreateInput describes a new booking.  HotelID is optional; when set it
// must match the room's hotel.
type CreateInput struct {
	HotelID         uint64
	RoomID          uint64
	CheckIn         time.Time
	CheckOut        time.Time
	SpecialRequests string
}

// Service runs the booking operations against a Store.
type Service struct {
	store    Store
	clock    Clock
	window   time.Duration
	log      Logger
	notifier Notifier
}

// Option configures a Service.
type Option func(*Service)

func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

// WithWindow sets the cancel/edit window.  Non-positive values keep the
// default.
func WithWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.window = d
		}
	}
}

func WithLogger(l Logger) Option { return func(s *Service) { s.log = l } }

func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

// NewService builds a Service with a real clock, the default window and no
// logging or notifications unless options say otherwise.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		clock:    RealClock{},
		window:   DefaultWindow,
		log:      nopLogger{},
		notifier: nopNotifier{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Window returns the configured cancel/edit window.
func (s *Service) Window() time.Duration { return s.window }

// CreateBooking validates and inserts a Confirmed booking.  The room lock is
// held from the conflict check until commit.
func (s *Service) CreateBooking(ctx context.Context, actor Actor, in CreateInput) (*model.Booking, error) {
	now := s.clock.Now().UTC()
	today := DateOf(now)
	checkIn, checkOut := DateOf(in.CheckIn), DateOf(in.CheckOut)

	// cheap rejection before touching the store
	if err := Validate(checkIn, checkOut, today, nil, 0); err != nil {
		return nil, err
	}

	var created model.Booking
	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		room, err := tx.LockRoom(ctx, in.RoomID)
		if err != nil {
			return err
		}
		if in.HotelID != 0 && room.HotelID != in.HotelID {
			return notFound("room not found in hotel", 0)
		}
		existing, err := tx.ConfirmedBookings(ctx, room.ID)
		if err != nil {
			return err
		}
		if err := Validate(checkIn, checkOut, today, existing, 0); err != nil {
			return err
		}
		b := model.Booking{
			UserID:          actor.UserID,
			HotelID:         room.HotelID,
			RoomID:          room.ID,
			CheckIn:         checkIn,
			CheckOut:        checkOut,
			Status:          model.BookingConfirmed,
			CreatedAt:       now.Truncate(time.Second),
			SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		}
		if err := tx.InsertBooking(ctx, &b); err != nil {
			return err
		}
		s.project(ctx, tx, room.ID, today)
		created = b
		return nil
	})
	if err != nil {
		return nil, s.fail("create booking", err)
	}
	s.log.Infof("booking %d confirmed: room %d %s..%s user %d",
		created.ID, created.RoomID, FormatDate(created.CheckIn), FormatDate(created.CheckOut), created.UserID)
	s.notifier.Notify(ctx, EventConfirmed, created)
	return &created, nil
}

// CancelBooking moves an owned Confirmed booking inside the window to
// Cancelled and frees the room if nothing else occupies it today.
func (s *Service) CancelBooking(ctx context.Context, actor Actor, bookingID uint64) (*model.Booking, error) {
	now := s.clock.Now().UTC()
	today := DateOf(now)

	var cancelled model.Booking
	err := s.mutate(ctx, actor, bookingID, now, func(ctx context.Context, tx Tx, b model.Booking) error {
		if err := tx.UpdateBookingStatus(ctx, b.ID, model.BookingCancelled); err != nil {
			return err
		}
		b.Status = model.BookingCancelled
		s.project(ctx, tx, b.RoomID, today)
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, s.fail("cancel booking", err)
	}
	s.log.Infof("booking %d cancelled by user %d", cancelled.ID, actor.UserID)
	s.notifier.Notify(ctx, EventCancelled, cancelled)
	return &cancelled, nil
}

// UpdateBookingDates moves an owned Confirmed booking inside the window to
// new dates.  The booking's own current range never conflicts with the new
// one and it stays Confirmed.
func (s *Service) UpdateBookingDates(ctx context.Context, actor Actor, bookingID uint64, checkIn, checkOut time.Time) (*model.Booking, error) {
	now := s.clock.Now().UTC()
	today := DateOf(now)
	checkIn, checkOut = DateOf(checkIn), DateOf(checkOut)

	var updated model.Booking
	err := s.mutate(ctx, actor, bookingID, now, func(ctx context.Context, tx Tx, b model.Booking) error {
		existing, err := tx.ConfirmedBookings(ctx, b.RoomID)
		if err != nil {
			return err
		}
		if err := Validate(checkIn, checkOut, today, existing, b.ID); err != nil {
			return err
		}
		if err := tx.UpdateBookingDates(ctx, b.ID, checkIn, checkOut); err != nil {
			return err
		}
		b.CheckIn, b.CheckOut = checkIn, checkOut
		s.project(ctx, tx, b.RoomID, today)
		updated = b
		return nil
	})
	if err != nil {
		return nil, s.fail("update booking dates", err)
	}
	s.log.Infof("booking %d moved to %s..%s", updated.ID, FormatDate(checkIn), FormatDate(checkOut))
	s.notifier.Notify(ctx, EventModified, updated)
	return &updated, nil
}

// GetBooking returns a booking to its owner.  Other callers get NotFound.
func (s *Service) GetBooking(ctx context.Context, actor Actor, bookingID uint64) (*model.Booking, error) {
	b, err := s.store.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, s.fail("get booking", err)
	}
	if b.UserID != actor.UserID {
		return nil, notFound("booking not found", bookingID)
	}
	return &b, nil
}

// mutate runs fn on a locked booking that passed the lifecycle guards.  The
// room is looked up first so that the room lock is taken before the booking
// lock, the same order CreateBooking uses.
func (s *Service) mutate(ctx context.Context, actor Actor, bookingID uint64, now time.Time,
	fn func(ctx context.Context, tx Tx, b model.Booking) error) error {
	b, err := s.store.FindBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := checkMutable(b, actor, now, s.window); err != nil {
		return err
	}
	return s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.LockRoom(ctx, b.RoomID); err != nil {
			return err
		}
		cur, err := tx.LockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		// state may have moved between the unlocked read and the lock
		if err := checkMutable(cur, actor, now, s.window); err != nil {
			return err
		}
		return fn(ctx, tx, cur)
	})
}

// fail passes booking errors through and wraps everything else as a
// persistence failure.
func (s *Service) fail(op string, err error) error {
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindPersistence, Reason: op + " aborted", Err: err}
	}
	s.log.Errorf("%s: %v", op, err)
	return &Error{Kind: KindPersistence, Reason: op + " failed", Err: err}
}
