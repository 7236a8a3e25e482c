// Package repository holds the MySQL access layer.  The sentinel values
// below let handlers distinguish failure scenarios without inspecting
// driver errors.  Booking rows are the exception: BookingRepo speaks the
// booking package's error kinds because it implements booking.Store.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as a receipt for someone else's
// booking.  Handlers translate it into a 404 so ownership is not leaked.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete cannot proceed because dependent
// rows still reference the target, for example a hotel whose rooms have
// bookings.  Handlers translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists and ErrUsernameExists report unique key violations on
// the users table.
var (
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
)

const (
	mysqlDuplicateEntry = 1062
	mysqlRowIsReferenced = 1451
)

func mysqlCode(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isDuplicate(err error) bool { return mysqlCode(err) == mysqlDuplicateEntry }

func isReferenced(err error) bool { return mysqlCode(err) == mysqlRowIsReferenced }
