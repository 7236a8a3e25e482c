package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

var receiptCols = []string{"receipt_id", "booking_id", "user_id", "receipt_date", "username", "hotel_name",
	"room_type", "check_in_date", "check_out_date", "status", "special_requests"}

func newReceiptMock(t *testing.T) (*ReceiptRepo, sqlmock.Sqlmock) {
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
	return NewReceiptRepo(db), mock
}

func TestReceiptCreateCopiesBooking(t *testing.T) {
	repo, mock := newReceiptMock(t)
	issued := time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT user_id FROM bookings WHERE booking_id = \?`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(100))
	mock.ExpectExec(`INSERT INTO receipts .+ SELECT .+ FROM bookings b .+ WHERE b.booking_id = \?`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery(`FROM receipts WHERE receipt_id = \?`).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows(receiptCols).
			AddRow(12, 5, 100, issued, "ana", "Sea View", "Double", day("2024-06-10"), day("2024-06-12"), "Confirmed", nil))

	rc, err := repo.Create(context.Background(), 5, 100)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rc.ID != 12 || rc.HotelName != "Sea View" || rc.CheckIn != "2024-06-10" || rc.CheckOut != "2024-06-12" {
		t.Fatalf("receipt %+v", rc)
	}
	if !rc.ReceiptDate.Equal(issued) || rc.SpecialRequests != "" {
		t.Fatalf("receipt %+v", rc)
	}
}

func TestReceiptCreateReturnsExisting(t *testing.T) {
	repo, mock := newReceiptMock(t)
	mock.ExpectQuery(`SELECT user_id FROM bookings`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(100))
	mock.ExpectExec(`INSERT INTO receipts`).
		WithArgs(5).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '5' for key 'uq_receipts_booking'"})
	mock.ExpectQuery(`FROM receipts WHERE booking_id = \?`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(receiptCols).
			AddRow(3, 5, 100, time.Now(), "ana", "Sea View", "Double", day("2024-06-10"), day("2024-06-12"), "Confirmed", "late check-in"))

	rc, err := repo.Create(context.Background(), 5, 100)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rc.ID != 3 || rc.SpecialRequests != "late check-in" {
		t.Fatalf("receipt %+v", rc)
	}
}

func TestReceiptCreateOwnership(t *testing.T) {
	repo, mock := newReceiptMock(t)
	mock.ExpectQuery(`SELECT user_id FROM bookings`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(100))
	mock.ExpectQuery(`SELECT user_id FROM bookings`).
		WithArgs(6).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	if _, err := repo.Create(context.Background(), 5, 200); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign booking: %v", err)
	}
	if _, err := repo.Create(context.Background(), 6, 200); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing booking: %v", err)
	}
}

func TestReceiptGetByIDMissing(t *testing.T) {
	repo, mock := newReceiptMock(t)
	mock.ExpectQuery(`FROM receipts WHERE receipt_id = \?`).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows(receiptCols))

	if _, err := repo.GetByID(context.Background(), 8); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}
