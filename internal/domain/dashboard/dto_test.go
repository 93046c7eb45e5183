package dashboard

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(3, 0))
	assert.Equal(t, 67, percent(2, 3))
	assert.Equal(t, 100, percent(30, 30))
	assert.Equal(t, 3, percent(1, 30))
}

func TestTodaysBirthdays(t *testing.T) {
	today := day(2026, time.March, 2)
	users := []user.User{
		{ID: "1", Name: "Ana", DateOfBirth: day(1990, time.March, 2)},
		{ID: "2", Name: "Budi", DateOfBirth: day(1995, time.March, 3)},
	}

	got := TodaysBirthdays(users, today)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	resp := NewBirthdaysResponse(got, today)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 36, resp.Birthdays[0].Age)
	assert.True(t, resp.Birthdays[0].IsBirthdayToday)

	empty := NewBirthdaysResponse(nil, today)
	assert.NotNil(t, empty.Birthdays)
	assert.Zero(t, empty.Count)
}

func TestNewUpcomingBirthdays(t *testing.T) {
	today := day(2026, time.December, 28)
	users := []user.User{
		{ID: "today", Name: "Ana", DateOfBirth: day(1990, time.December, 28)},
		{ID: "later", Name: "Budi", DateOfBirth: day(1991, time.January, 3)},
		{ID: "soon", Name: "Citra", DateOfBirth: day(1992, time.December, 29)},
		{ID: "outside", Name: "Dewi", DateOfBirth: day(1993, time.January, 5)},
	}

	resp := NewUpcomingBirthdays(users, today)
	require.Equal(t, 2, resp.Count)

	assert.Equal(t, "soon", resp.Birthdays[0].ID)
	assert.Equal(t, 1, resp.Birthdays[0].DaysUntil)
	assert.Equal(t, "2026-12-29", resp.Birthdays[0].Date)

	// Crosses the year boundary.
	assert.Equal(t, "later", resp.Birthdays[1].ID)
	assert.Equal(t, 6, resp.Birthdays[1].DaysUntil)
	assert.Equal(t, "2027-01-03", resp.Birthdays[1].Date)
}

func TestNewEmployeesWithStatus(t *testing.T) {
	today := day(2026, time.March, 2)
	checkIn := time.Date(2026, time.March, 2, 2, 30, 0, 0, time.UTC)
	employees := []user.User{
		{ID: "a", Name: "Ana", DateOfBirth: day(1990, time.May, 1)},
		{ID: "b", Name: "Budi", DateOfBirth: day(1990, time.May, 1)},
	}
	records := []attendance.Attendance{{UserID: "a", Date: today, CheckInTime: checkIn, IsLate: true}}

	got := NewEmployeesWithStatus(employees, today, records, map[string]bool{"b": true})
	require.Len(t, got, 2)

	assert.True(t, got[0].TodayStatus.HasAttendance)
	assert.True(t, got[0].TodayStatus.IsLate)
	assert.False(t, got[0].TodayStatus.HasReport)
	require.NotNil(t, got[0].TodayStatus.CheckInTime)
	assert.True(t, got[0].TodayStatus.CheckInTime.Equal(checkIn))
	assert.Nil(t, got[0].TodayStatus.CheckOutTime)

	assert.False(t, got[1].TodayStatus.HasAttendance)
	assert.True(t, got[1].TodayStatus.HasReport)
	assert.Nil(t, got[1].TodayStatus.CheckInTime)
}

func TestNewEmployeeDetails(t *testing.T) {
	today := day(2026, time.March, 2)
	emp := user.User{ID: "a", Name: "Ana", DateOfBirth: day(1990, time.May, 1)}

	got := NewEmployeeDetails(emp, today, attendance.Aggregate{PresentDays: 3, TotalWorkHours: 22.5}, 2)
	assert.Equal(t, 3, got.Stats.AttendanceDays)
	assert.Equal(t, int64(2), got.Stats.ReportsSubmitted)
	assert.Equal(t, 7.5, got.Stats.AverageWorkHours)
	assert.Equal(t, 10, got.Stats.AttendancePercentage)

	none := NewEmployeeDetails(emp, today, attendance.Aggregate{}, 0)
	assert.Zero(t, none.Stats.AverageWorkHours)
	assert.Zero(t, none.Stats.AttendancePercentage)
}

func TestNewTeamStats(t *testing.T) {
	today := day(2026, time.March, 2)
	got := NewTeamStats(TeamCounts{
		TotalEmployees:  4,
		TodayAttendance: 3,
		TodayReports:    1,
		LateToday:       1,
		PendingReview:   2,
		WindowRecords:   6,
		WindowDays:      2,
	}, nil, today)

	assert.Equal(t, 75, got.AttendanceRate)
	assert.Equal(t, 25, got.ReportSubmissionRate)
	// 6 records over 2 days is 3 a day out of 4.
	assert.Equal(t, 75, got.AvgAttendancePercentage)
	assert.Equal(t, int64(2), got.ReportsNeedingReview)
	assert.Zero(t, got.TodaysBirthdays)
	assert.NotNil(t, got.BirthdayPeople)

	empty := NewTeamStats(TeamCounts{}, nil, today)
	assert.Zero(t, empty.AttendanceRate)
	assert.Zero(t, empty.AvgAttendancePercentage)
}

func TestNewAttendanceOverview(t *testing.T) {
	today := day(2026, time.March, 2)
	out := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	employees := []user.User{
		{ID: "a", Name: "ana", DateOfBirth: day(1990, time.March, 2)},
		{ID: "b", Name: "Budi", DateOfBirth: day(1990, time.May, 1)},
		{ID: "c", Name: "Citra", DateOfBirth: day(1990, time.May, 1)},
	}
	records := []attendance.Attendance{
		{UserID: "a", Date: today, CheckInTime: today.Add(time.Hour), CheckOutTime: &out, Status: attendance.StatusPresent},
		{UserID: "b", Date: today, CheckInTime: today.Add(3 * time.Hour), Status: attendance.StatusLate, IsLate: true},
	}

	got := NewAttendanceOverview(today, employees, records)
	assert.Equal(t, "2026-03-02", got.Date)
	require.Len(t, got.Overview, 3)

	assert.Equal(t, OverviewCompleted, got.Overview[0].Status)
	assert.Equal(t, "A", got.Overview[0].Employee.ProfileInitial)
	assert.True(t, got.Overview[0].Employee.IsBirthdayToday)
	assert.Equal(t, OverviewPresent, got.Overview[1].Status)
	assert.Equal(t, OverviewAbsent, got.Overview[2].Status)
	assert.Nil(t, got.Overview[2].Attendance)

	assert.Equal(t, OverviewSummary{Total: 3, Present: 2, Absent: 1, Late: 1, Birthdays: 1}, got.Summary)
}
