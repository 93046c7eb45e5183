package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations.
// The acting user is taken from ctx.
type AttendanceService interface {
	// CheckIn records today's arrival. On a duplicate it returns the existing
	// record together with ErrAlreadyCheckedIn.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's record. ErrAlreadyCheckedOut comes with the
	// existing record.
	CheckOut(ctx context.Context) (AttendanceResponse, error)

	// GetToday returns nil when the user has not checked in.
	GetToday(ctx context.Context) (*AttendanceResponse, error)

	GetHistory(ctx context.Context, filter HistoryFilter) (ListAttendanceResponse, error)
	GetStats(ctx context.Context, filter StatsFilter) (StatsResponse, error)
	GetMonthly(ctx context.Context, filter MonthlyFilter) (MonthlyResponse, error)

	// Manager views
	GetDailyOverview(ctx context.Context, filter OverviewFilter) (DailyOverviewResponse, error)
	GetEmployeeHistory(ctx context.Context, employeeID string, filter HistoryFilter) (ListAttendanceResponse, error)
}
