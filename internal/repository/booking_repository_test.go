package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/model"
)

var bookingCols = []string{"booking_id", "user_id", "hotel_id", "room_id", "check_in_date",
	"check_out_date", "status", "created_at", "special_requests"}

func newMock(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return NewBookingRepo(db), mock
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestFindBookingScansRow(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	// check-in carries a time of day; only the date survives
	in := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM bookings WHERE booking_id = \?`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(5, 100, 10, 1, in, day("2024-06-12"), "Confirmed", created, nil))

	b, err := repo.FindBooking(context.Background(), 5)
	if err != nil {
		t.Fatalf("FindBooking: %v", err)
	}
	if b.ID != 5 || b.UserID != 100 || b.HotelID != 10 || b.RoomID != 1 {
		t.Fatalf("ids: %+v", b)
	}
	if b.SpecialRequests != "" {
		t.Fatalf("NULL special_requests scanned as %q", b.SpecialRequests)
	}
	if !b.CheckIn.Equal(day("2024-06-10")) || !b.CheckOut.Equal(day("2024-06-12")) {
		t.Fatalf("dates %s..%s", b.CheckIn, b.CheckOut)
	}
	if b.Status != model.BookingConfirmed || !b.CreatedAt.Equal(created) {
		t.Fatalf("status %s created %s", b.Status, b.CreatedAt)
	}
}

func TestFindBookingUnknownStatus(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM bookings WHERE booking_id = \?`).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(5, 100, 10, 1, day("2024-06-10"), day("2024-06-12"), "Pending", time.Now(), "late arrival"))

	_, err := repo.FindBooking(context.Background(), 5)
	if err == nil || !strings.Contains(err.Error(), `unknown status "Pending"`) {
		t.Fatalf("got %v", err)
	}
}

func TestFindBookingMissing(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM bookings WHERE booking_id = \?`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err := repo.FindBooking(context.Background(), 9)
	if !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestRecomputeAvailabilityQuery(t *testing.T) {
	repo, mock := newMock(t)
	// a stay occupies check_in up to but not including check_out
	mock.ExpectExec(`UPDATE rooms r\s+SET r.is_available = NOT EXISTS \(`+
		`\s+SELECT 1 FROM bookings b\s+WHERE b.room_id = r.room_id`+
		`\s+AND b.status = 'Confirmed'\s+AND b.check_in_date <= \?\s+AND b.check_out_date > \?\)`).
		WithArgs("2024-06-15", "2024-06-15").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.RecomputeAvailability(context.Background(), time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC))
	if err != nil || n != 3 {
		t.Fatalf("changed %d rooms (%v), want 3", n, err)
	}
}

func TestInTxLocksRoomAndCommits(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT room_id, hotel_id, room_type, amenities, is_available FROM rooms WHERE room_id = \? FOR UPDATE`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"room_id", "hotel_id", "room_type", "amenities", "is_available"}).
			AddRow(1, 10, "Double", "wifi, tv", true))
	mock.ExpectQuery(`FROM bookings WHERE room_id = \? AND status = 'Confirmed'`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(3, 100, 10, 1, day("2024-06-01"), day("2024-06-03"), "Confirmed", time.Now(), "crib"))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(200, 10, 1, "2024-06-03", "2024-06-05", "Confirmed", "2024-06-01 10:00:00", nil).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(`UPDATE rooms SET is_available = \? WHERE room_id = \?`).
		WithArgs(false, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var inserted model.Booking
	err := repo.InTx(context.Background(), func(ctx context.Context, tx booking.Tx) error {
		room, err := tx.LockRoom(ctx, 1)
		if err != nil {
			return err
		}
		if room.HotelID != 10 || len(room.Amenities) != 2 || !room.IsAvailable {
			t.Errorf("room %+v", room)
		}
		existing, err := tx.ConfirmedBookings(ctx, 1)
		if err != nil {
			return err
		}
		if len(existing) != 1 || existing[0].SpecialRequests != "crib" {
			t.Errorf("existing %+v", existing)
		}
		inserted = model.Booking{UserID: 200, HotelID: 10, RoomID: 1,
			CheckIn: day("2024-06-03"), CheckOut: day("2024-06-05"), Status: model.BookingConfirmed,
			CreatedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
		if err := tx.InsertBooking(ctx, &inserted); err != nil {
			return err
		}
		return tx.SetRoomAvailable(ctx, 1, false)
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if inserted.ID != 42 {
		t.Fatalf("insert id = %d", inserted.ID)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM rooms WHERE room_id = \? FOR UPDATE`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"room_id", "hotel_id", "room_type", "amenities", "is_available"}))
	mock.ExpectRollback()

	err := repo.InTx(context.Background(), func(ctx context.Context, tx booking.Tx) error {
		_, err := tx.LockRoom(ctx, 99)
		return err
	})
	if !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestLockBookingUsesRowLock(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE booking_id = \? FOR UPDATE`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(7, 100, 10, 1, day("2024-06-01"), day("2024-06-03"), "Cancelled", time.Now(), nil))
	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE booking_id = \?`).
		WithArgs("Cancelled", 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.InTx(context.Background(), func(ctx context.Context, tx booking.Tx) error {
		b, err := tx.LockBooking(ctx, 7)
		if err != nil {
			return err
		}
		if b.Status != model.BookingCancelled {
			t.Errorf("status %s", b.Status)
		}
		return tx.UpdateBookingStatus(ctx, 7, model.BookingCancelled)
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
}
