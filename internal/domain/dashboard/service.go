package dashboard

import (
	"context"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/attendance"
)

// DashboardService answers the birthday and team queries.
type DashboardService interface {
	TodaysBirthdays(ctx context.Context) (BirthdaysResponse, error)
	UpcomingBirthdays(ctx context.Context) (UpcomingBirthdaysResponse, error)

	// Manager
	ListEmployees(ctx context.Context) ([]EmployeeWithStatus, error)
	EmployeeDetails(ctx context.Context, employeeID string) (EmployeeDetailsResponse, error)
	TeamStats(ctx context.Context) (TeamStatsResponse, error)
	AttendanceOverview(ctx context.Context, filter attendance.OverviewFilter) (AttendanceOverviewResponse, error)
}
