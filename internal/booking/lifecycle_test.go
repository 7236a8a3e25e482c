package booking

import (
	"testing"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

func TestCheckMutableWindow(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	b := model.Booking{ID: 1, UserID: 5, Status: model.BookingConfirmed, CreatedAt: created}
	owner := Actor{UserID: 5}

	cases := []struct {
		after time.Duration
		want  Kind
	}{
		{0, ""},
		{23*time.Hour + 59*time.Minute, ""},
		{24 * time.Hour, ""},
		{24*time.Hour + time.Second, KindWindowExpired},
		{72 * time.Hour, KindWindowExpired},
	}
	for _, tc := range cases {
		err := checkMutable(b, owner, created.Add(tc.after), DefaultWindow)
		if got := KindOf(err); got != tc.want {
			t.Errorf("after %s: kind %q, want %q", tc.after, got, tc.want)
		}
	}
}

func TestCheckMutableOrder(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	late := created.Add(48 * time.Hour)
	cancelled := model.Booking{ID: 1, UserID: 5, Status: model.BookingCancelled, CreatedAt: created}

	// ownership wins over status and window
	if got := KindOf(checkMutable(cancelled, Actor{UserID: 6}, late, DefaultWindow)); got != KindUnauthorized {
		t.Fatalf("non-owner: got %q", got)
	}
	// status wins over window
	if got := KindOf(checkMutable(cancelled, Actor{UserID: 5}, late, DefaultWindow)); got != KindInvalidTransition {
		t.Fatalf("cancelled booking: got %q", got)
	}
}

func TestCheckMutableCustomWindow(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	b := model.Booking{ID: 1, UserID: 5, Status: model.BookingConfirmed, CreatedAt: created}
	err := checkMutable(b, Actor{UserID: 5}, created.Add(2*time.Hour), time.Hour)
	be, ok := err.(*Error)
	if !ok || be.Kind != KindWindowExpired {
		t.Fatalf("got %v", err)
	}
	if be.Reason != "bookings can only be changed within 1 hour of creation" {
		t.Fatalf("reason %q", be.Reason)
	}
}

func TestDescribeWindow(t *testing.T) {
	cases := map[time.Duration]string{
		time.Hour:        "1 hour",
		24 * time.Hour:   "24 hours",
		48 * time.Hour:   "48 hours",
		90 * time.Minute: "1h30m0s",
	}
	for d, want := range cases {
		if got := describeWindow(d); got != want {
			t.Errorf("describeWindow(%s) = %q, want %q", d, got, want)
		}
	}
}
