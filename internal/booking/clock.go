package booking

import (
	"strings"
	"time"
)

// DateLayout is the wire and column format of booking dates.
const DateLayout = "2006-01-02"

// Clock supplies the current instant.  Tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.  Anything else, including
// impossible dates such as 2024-02-30, is an InvalidRange error.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &Error{Kind: KindInvalidRange, Reason: "dates must be YYYY-MM-DD"}
	}
	return d, nil
}

// FormatDate renders a calendar date in DateLayout.
func FormatDate(t time.Time) string { return t.UTC().Format(DateLayout) }
