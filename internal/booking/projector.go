package booking

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// Covers reports whether a Confirmed booking occupies the room on today,
// i.e. check_in <= today < check_out.
func Covers(b model.Booking, today time.Time) bool {
	if b.Status != model.BookingConfirmed {
		return false
	}
	today = DateOf(today)
	return !today.Before(DateOf(b.CheckIn)) && today.Before(DateOf(b.CheckOut))
}

// RoomAvailable is the projection rule for rooms.is_available.
func RoomAvailable(bookings []model.Booking, today time.Time) bool {
	for _, b := range bookings {
		if Covers(b, today) {
			return false
		}
	}
	return true
}

// project recomputes the availability flag of one room inside the caller's
// transaction.  Failures are logged and swallowed: the flag is a cache and
// the sweeper repairs it.
func (s *Service) project(ctx context.Context, tx Tx, roomID uint64, today time.Time) {
	bookings, err := tx.ConfirmedBookings(ctx, roomID)
	if err != nil {
		s.log.Warnf("availability projection for room %d: %v", roomID, err)
		return
	}
	if err := tx.SetRoomAvailable(ctx, roomID, RoomAvailable(bookings, today)); err != nil {
		s.log.Warnf("availability projection for room %d: %v", roomID, err)
	}
}

// SweepAvailability recomputes the availability flag of every room for the
// current date and returns how many rooms changed.  Running it twice in a
// row on the same day changes nothing the second time.
func (s *Service) SweepAvailability(ctx context.Context) (int, error) {
	today := DateOf(s.clock.Now())
	n, err := s.store.RecomputeAvailability(ctx, today)
	if err != nil {
		return 0, s.fail("sweep availability", err)
	}
	s.log.Infof("availability sweep for %s updated %d rooms", FormatDate(today), n)
	return n, nil
}

// RunSweeper sweeps once immediately and then every interval until ctx is
// cancelled.  Errors are logged and the loop keeps going.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if _, err := s.SweepAvailability(ctx); err != nil {
		s.log.Errorf("availability sweep: %v", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepAvailability(ctx); err != nil {
				s.log.Errorf("availability sweep: %v", err)
			}
		}
	}
}
