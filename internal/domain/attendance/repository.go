package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Dates are calendar days as produced by clock.DayOf.
type AttendanceRepository interface {
	// Create inserts a record. A second record for the same user and day
	// yields ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByUserAndDate returns nil, nil when the user has no record that day.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// CheckOut stamps check-out only if it is not already set; otherwise
	// ErrAlreadyCheckedOut.
	CheckOut(ctx context.Context, id string, checkOut time.Time, workHours float64) (Attendance, error)

	// ListByUser returns a newest-first page and the total count.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Attendance, int64, error)

	// ListByUserInRange returns records with from <= date <= to, newest first.
	ListByUserInRange(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error)

	// AggregateByUser summarizes records with from <= date <= to.
	AggregateByUser(ctx context.Context, userID string, from, to time.Time) (Aggregate, error)

	// ListByDate returns every record on the given day.
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)

	// EmployeeTotalsInRange counts records of active employees with
	// from <= date <= to, and the number of distinct days having any.
	EmployeeTotalsInRange(ctx context.Context, from, to time.Time) (records int64, days int64, err error)
}
