package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/office-attendance-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

type fixture struct {
	svc         attendance.AttendanceService
	clock       *clock.Fixed
	attendances *servicetest.AttendanceRepo
	users       *servicetest.UserRepo
	employee    user.User
	manager     user.User
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	employee := user.User{ID: servicetest.NewID(), Name: "Ana", Email: "ana@example.com", Role: user.RoleEmployee, IsActive: true}
	manager := user.User{ID: servicetest.NewID(), Name: "Maya", Email: "maya@example.com", Role: user.RoleManager, IsActive: true}
	users := servicetest.NewUserRepo(employee, manager)
	attendances := servicetest.NewAttendanceRepo(users)
	clk := clock.NewFixed(now)

	return &fixture{
		svc:         NewAttendanceService(attendances, users, clk, attendance.DefaultLateThreshold),
		clock:       clk,
		attendances: attendances,
		users:       users,
		employee:    employee,
		manager:     manager,
	}
}

func at(hour, minute, second int) time.Time {
	return time.Date(2026, time.March, 2, hour, minute, second, 0, jakarta)
}

func TestCheckIn_AtThresholdIsNotLate(t *testing.T) {
	f := newFixture(t, at(10, 0, 0))

	resp, err := f.svc.CheckIn(servicetest.ContextAs(t, f.employee), attendance.CheckInRequest{})

	require.NoError(t, err)
	assert.False(t, resp.IsLate)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Equal(t, "2026-03-02", resp.Date)
}

func TestCheckIn_AfterThresholdIsLate(t *testing.T) {
	f := newFixture(t, at(10, 0, 1))

	resp, err := f.svc.CheckIn(servicetest.ContextAs(t, f.employee), attendance.CheckInRequest{Notes: "traffic"})

	require.NoError(t, err)
	assert.True(t, resp.IsLate)
	assert.Equal(t, attendance.StatusLate, resp.Status)
	assert.Equal(t, "traffic", resp.Notes)
}

func TestCheckIn_DayFollowsReferenceTimezone(t *testing.T) {
	// 23:30 UTC on March 1 is already March 2 in Jakarta.
	f := newFixture(t, time.Date(2026, time.March, 1, 23, 30, 0, 0, time.UTC).In(jakarta))

	resp, err := f.svc.CheckIn(servicetest.ContextAs(t, f.employee), attendance.CheckInRequest{})

	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", resp.Date)
	assert.False(t, resp.IsLate)
}

func TestCheckIn_SecondAttemptReturnsExisting(t *testing.T) {
	f := newFixture(t, at(9, 0, 0))
	ctx := servicetest.ContextAs(t, f.employee)

	first, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	second, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{})

	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.attendances.Len())
}

func TestCheckIn_StorageConstraintCatchesRace(t *testing.T) {
	f := newFixture(t, at(9, 0, 0))
	ctx := servicetest.ContextAs(t, f.employee)

	first, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	f.attendances.HideExisting = true
	second, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{})

	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.attendances.Len())
}

func TestCheckIn_NextDayAllowed(t *testing.T) {
	f := newFixture(t, at(9, 0, 0))
	ctx := servicetest.ContextAs(t, f.employee)

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)
	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{})

	require.NoError(t, err)
	assert.Equal(t, 2, f.attendances.Len())
}

func TestCheckIn_Unauthenticated(t *testing.T) {
	f := newFixture(t, at(9, 0, 0))

	_, err := f.svc.CheckIn(context.Background(), attendance.CheckInRequest{})

	assert.Error(t, err)
	assert.Equal(t, 0, f.attendances.Len())
}

func TestCheckOut_ComputesWorkHours(t *testing.T) {
	f := newFixture(t, at(9, 0, 0))
	ctx := servicetest.ContextAs(t, f.employee)

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	f.clock.Set(at(17, 30, 0))
	resp, err := f.svc.CheckOut(ctx)

	require.NoError(t, err)
	require.NotNil(t, resp.CheckOutTime)
	assert.Equal(t, 8.5, resp.WorkHours)
}

func TestCheckOut_SameInstantAsCheckIn(t *testing.T) {
	f := newFixture(t, at(9, 0, 0))
	ctx := servicetest.ContextAs(t, f.employee)

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	resp, err := f.svc.CheckOut(ctx)

	require.NoError(t, err)
	require.NotNil(t, resp.CheckOutTime)
	assert.Equal(t, 0.0, resp.WorkHours)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	f := newFixture(t, at(17, 0, 0))

	_, err := f.svc.CheckOut(servicetest.ContextAs(t, f.employee))

	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOut_Twice(t *testing.T) {
	f := newFixture(t, at(9, 0, 0))
	ctx := servicetest.ContextAs(t, f.employee)

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	f.clock.Set(at(17, 0, 0))
	first, err := f.svc.CheckOut(ctx)
	require.NoError(t, err)

	f.clock.Set(at(18, 0, 0))
	second, err := f.svc.CheckOut(ctx)

	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
	assert.Equal(t, first.WorkHours, second.WorkHours)
	assert.Equal(t, 8.0, second.WorkHours)
}

func TestGetToday(t *testing.T) {
	f := newFixture(t, at(9, 0, 0))
	ctx := servicetest.ContextAs(t, f.employee)

	none, err := f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	today, err := f.svc.GetToday(ctx)
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, f.employee.ID, today.UserID)
}

func TestGetStats_ThirtyDayWindow(t *testing.T) {
	f := newFixture(t, at(12, 0, 0))
	today := clock.Today(f.clock)

	// 20 present days inside the window, 3 of them late, 8 hours each.
	for i := 0; i < 20; i++ {
		f.attendances.Put(attendance.Attendance{
			UserID:    f.employee.ID,
			Date:      today.AddDate(0, 0, -i),
			Status:    attendance.StatusPresent,
			IsLate:    i < 3,
			WorkHours: 8,
		})
	}
	// Outside the window.
	f.attendances.Put(attendance.Attendance{UserID: f.employee.ID, Date: today.AddDate(0, 0, -30), WorkHours: 8})

	stats, err := f.svc.GetStats(servicetest.ContextAs(t, f.employee), attendance.StatsFilter{})

	require.NoError(t, err)
	assert.Equal(t, 30, stats.PeriodDays)
	assert.Equal(t, 20, stats.PresentDays)
	assert.Equal(t, 10, stats.AbsentDays)
	assert.Equal(t, 3, stats.LateDays)
	assert.Equal(t, 67, stats.AttendancePercentage)
	assert.Equal(t, 8.0, stats.AverageWorkHours)
	assert.Equal(t, 160.0, stats.TotalWorkHours)
}

func TestGetHistory_NewestFirstWithPagination(t *testing.T) {
	f := newFixture(t, at(12, 0, 0))
	today := clock.Today(f.clock)
	for i := 0; i < 5; i++ {
		f.attendances.Put(attendance.Attendance{UserID: f.employee.ID, Date: today.AddDate(0, 0, -i)})
	}

	filter := attendance.HistoryFilter{}
	filter.Page, filter.Limit = 1, 2
	resp, err := f.svc.GetHistory(servicetest.ContextAs(t, f.employee), filter)

	require.NoError(t, err)
	require.Len(t, resp.Attendances, 2)
	assert.Equal(t, "2026-03-02", resp.Attendances[0].Date)
	assert.Equal(t, int64(5), resp.Pagination.TotalRecords)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasMore)
}

func TestGetMonthly_DefaultsToCurrentMonth(t *testing.T) {
	f := newFixture(t, at(12, 0, 0))
	f.attendances.Put(attendance.Attendance{UserID: f.employee.ID, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Status: attendance.StatusPresent, WorkHours: 8})
	f.attendances.Put(attendance.Attendance{UserID: f.employee.ID, Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Status: attendance.StatusLate, IsLate: true, WorkHours: 6})
	f.attendances.Put(attendance.Attendance{UserID: f.employee.ID, Date: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), Status: attendance.StatusPresent, WorkHours: 8})

	resp, err := f.svc.GetMonthly(servicetest.ContextAs(t, f.employee), attendance.MonthlyFilter{})

	require.NoError(t, err)
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, 3, resp.Month)
	assert.Len(t, resp.Attendances, 2)
	assert.Equal(t, 1, resp.Summary.PresentDays)
	assert.Equal(t, 1, resp.Summary.LateDays)
	assert.Equal(t, 7.0, resp.Summary.AverageWorkHours)
}

func TestGetDailyOverview_ManagerOnly(t *testing.T) {
	f := newFixture(t, at(12, 0, 0))

	_, err := f.svc.GetDailyOverview(servicetest.ContextAs(t, f.employee), attendance.OverviewFilter{})
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)

	resp, err := f.svc.GetDailyOverview(servicetest.ContextAs(t, f.manager), attendance.OverviewFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.Absent)
	assert.Equal(t, "2026-03-02", resp.Summary.Date)
}

func TestGetEmployeeHistory(t *testing.T) {
	f := newFixture(t, at(12, 0, 0))
	f.attendances.Put(attendance.Attendance{UserID: f.employee.ID, Date: clock.Today(f.clock)})

	filter := attendance.HistoryFilter{}
	filter.Page, filter.Limit = 1, 30

	resp, err := f.svc.GetEmployeeHistory(servicetest.ContextAs(t, f.manager), f.employee.ID, filter)
	require.NoError(t, err)
	assert.Len(t, resp.Attendances, 1)

	_, err = f.svc.GetEmployeeHistory(servicetest.ContextAs(t, f.manager), servicetest.NewID(), filter)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = f.svc.GetEmployeeHistory(servicetest.ContextAs(t, f.employee), f.employee.ID, filter)
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)
}
