package dashboard

import (
	"math"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
)

const (
	// UpcomingDays is how far ahead upcoming birthdays are looked up.
	UpcomingDays = 7
	// StatsWindowDays is the trailing window for employee and team stats.
	StatsWindowDays = 30
)

// percent is round(n/d*100), or 0 when d is 0.
func percent(n, d int64) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(d) * 100))
}

type BirthdaysResponse struct {
	Birthdays []user.UserResponse `json:"birthdays"`
	Count     int                 `json:"count"`
}

// TodaysBirthdays keeps the users whose birthday is on today.
func TodaysBirthdays(users []user.User, today time.Time) []user.User {
	var out []user.User
	for _, u := range users {
		if u.IsBirthdayOn(today) {
			out = append(out, u)
		}
	}
	return out
}

func NewBirthdaysResponse(users []user.User, today time.Time) BirthdaysResponse {
	resp := BirthdaysResponse{Birthdays: make([]user.UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Birthdays = append(resp.Birthdays, user.NewUserResponse(u, today))
	}
	resp.Count = len(resp.Birthdays)
	return resp
}

type UpcomingBirthday struct {
	user.UserResponse
	DaysUntil int    `json:"days_until"`
	Date      string `json:"date"`
}

type UpcomingBirthdaysResponse struct {
	Birthdays []UpcomingBirthday `json:"birthdays"`
	Count     int                `json:"count"`
}

// NewUpcomingBirthdays scans the next UpcomingDays days after today, one day
// at a time, so results are ordered by days until the birthday.
func NewUpcomingBirthdays(users []user.User, today time.Time) UpcomingBirthdaysResponse {
	resp := UpcomingBirthdaysResponse{Birthdays: []UpcomingBirthday{}}
	for i := 1; i <= UpcomingDays; i++ {
		day := today.AddDate(0, 0, i)
		for _, u := range users {
			if !u.IsBirthdayOn(day) {
				continue
			}
			resp.Birthdays = append(resp.Birthdays, UpcomingBirthday{
				UserResponse: user.NewUserResponse(u, today),
				DaysUntil:    i,
				Date:         day.Format("2006-01-02"),
			})
		}
	}
	resp.Count = len(resp.Birthdays)
	return resp
}

type TodayStatus struct {
	HasAttendance bool       `json:"has_attendance"`
	HasReport     bool       `json:"has_report"`
	CheckInTime   *time.Time `json:"check_in_time"`
	CheckOutTime  *time.Time `json:"check_out_time"`
	IsLate        bool       `json:"is_late"`
}

type EmployeeWithStatus struct {
	user.UserResponse
	TodayStatus TodayStatus `json:"today_status"`
}

// NewEmployeesWithStatus joins employees with today's attendance and the set
// of users who reported today.
func NewEmployeesWithStatus(employees []user.User, today time.Time, records []attendance.Attendance, reported map[string]bool) []EmployeeWithStatus {
	byUser := make(map[string]attendance.Attendance, len(records))
	for _, a := range records {
		byUser[a.UserID] = a
	}

	out := make([]EmployeeWithStatus, 0, len(employees))
	for _, emp := range employees {
		item := EmployeeWithStatus{
			UserResponse: user.NewUserResponse(emp, today),
			TodayStatus:  TodayStatus{HasReport: reported[emp.ID]},
		}
		if a, ok := byUser[emp.ID]; ok {
			checkIn := a.CheckInTime
			item.TodayStatus.HasAttendance = true
			item.TodayStatus.CheckInTime = &checkIn
			item.TodayStatus.CheckOutTime = a.CheckOutTime
			item.TodayStatus.IsLate = a.IsLate
		}
		out = append(out, item)
	}
	return out
}

type EmployeeStats struct {
	AttendanceDays       int     `json:"attendance_days"`
	ReportsSubmitted     int64   `json:"reports_submitted"`
	AverageWorkHours     float64 `json:"average_work_hours"`
	AttendancePercentage int     `json:"attendance_percentage"`
}

type EmployeeDetailsResponse struct {
	Employee user.UserResponse `json:"employee"`
	Stats    EmployeeStats     `json:"stats"`
}

func NewEmployeeDetails(u user.User, today time.Time, agg attendance.Aggregate, reports int64) EmployeeDetailsResponse {
	stats := EmployeeStats{
		AttendanceDays:       agg.PresentDays,
		ReportsSubmitted:     reports,
		AttendancePercentage: percent(int64(agg.PresentDays), StatsWindowDays),
	}
	if agg.PresentDays > 0 {
		stats.AverageWorkHours = attendance.Round2(agg.TotalWorkHours / float64(agg.PresentDays))
	}
	return EmployeeDetailsResponse{
		Employee: user.NewUserResponse(u, today),
		Stats:    stats,
	}
}

// TeamCounts are the raw numbers behind TeamStatsResponse.
type TeamCounts struct {
	TotalEmployees  int64
	TodayAttendance int64
	TodayReports    int64
	LateToday       int64
	PendingReview   int64
	// Employee attendance records and distinct days with records in the
	// trailing stats window.
	WindowRecords int64
	WindowDays    int64
}

type TeamStatsResponse struct {
	TotalEmployees          int64               `json:"total_employees"`
	TodayAttendance         int64               `json:"today_attendance"`
	TodayReports            int64               `json:"today_reports"`
	LateToday               int64               `json:"late_today"`
	ReportsNeedingReview    int64               `json:"reports_needing_review"`
	AvgAttendancePercentage int                 `json:"avg_attendance_percentage"`
	AttendanceRate          int                 `json:"attendance_rate"`
	ReportSubmissionRate    int                 `json:"report_submission_rate"`
	TodaysBirthdays         int                 `json:"todays_birthdays"`
	BirthdayPeople          []user.UserResponse `json:"birthday_people"`
}

// NewTeamStats derives the rates. The average attendance percentage is the
// mean per-day present count over the days that have records, divided by the
// team size.
func NewTeamStats(c TeamCounts, birthdays []user.User, today time.Time) TeamStatsResponse {
	people := NewBirthdaysResponse(birthdays, today)
	return TeamStatsResponse{
		TotalEmployees:          c.TotalEmployees,
		TodayAttendance:         c.TodayAttendance,
		TodayReports:            c.TodayReports,
		LateToday:               c.LateToday,
		ReportsNeedingReview:    c.PendingReview,
		AvgAttendancePercentage: percent(c.WindowRecords, c.WindowDays*c.TotalEmployees),
		AttendanceRate:          percent(c.TodayAttendance, c.TotalEmployees),
		ReportSubmissionRate:    percent(c.TodayReports, c.TotalEmployees),
		TodaysBirthdays:         people.Count,
		BirthdayPeople:          people.Birthdays,
	}
}

type OverviewStatus string

const (
	OverviewCompleted OverviewStatus = "completed"
	OverviewPresent   OverviewStatus = "present"
	OverviewAbsent    OverviewStatus = "absent"
)

type OverviewEmployee struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileInitial  string `json:"profile_initial"`
	IsBirthdayToday bool   `json:"is_birthday_today"`
}

type OverviewEntry struct {
	Employee   OverviewEmployee               `json:"employee"`
	Attendance *attendance.AttendanceResponse `json:"attendance"`
	Status     OverviewStatus                 `json:"status"`
}

type OverviewSummary struct {
	Total     int `json:"total"`
	Present   int `json:"present"`
	Absent    int `json:"absent"`
	Late      int `json:"late"`
	Birthdays int `json:"birthdays"`
}

type AttendanceOverviewResponse struct {
	Date     string          `json:"date"`
	Overview []OverviewEntry `json:"overview"`
	Summary  OverviewSummary `json:"summary"`
}

// NewAttendanceOverview marks each employee completed (checked out), present
// (checked in) or absent for day. Present in the summary covers both
// completed and present.
func NewAttendanceOverview(day time.Time, employees []user.User, records []attendance.Attendance) AttendanceOverviewResponse {
	byUser := make(map[string]attendance.Attendance, len(records))
	for _, a := range records {
		byUser[a.UserID] = a
	}

	resp := AttendanceOverviewResponse{
		Date:     day.Format("2006-01-02"),
		Overview: make([]OverviewEntry, 0, len(employees)),
		Summary:  OverviewSummary{Total: len(employees)},
	}
	for _, emp := range employees {
		entry := OverviewEntry{
			Employee: OverviewEmployee{
				ID:              emp.ID,
				Name:            emp.Name,
				Email:           emp.Email,
				ProfileInitial:  emp.ProfileInitial(),
				IsBirthdayToday: emp.IsBirthdayOn(day),
			},
			Status: OverviewAbsent,
		}
		if a, ok := byUser[emp.ID]; ok {
			r := attendance.NewAttendanceResponse(a)
			entry.Attendance = &r
			entry.Status = OverviewPresent
			if a.HasCheckedOut() {
				entry.Status = OverviewCompleted
			}
			if a.IsLate {
				resp.Summary.Late++
			}
			resp.Summary.Present++
		} else {
			resp.Summary.Absent++
		}
		if entry.Employee.IsBirthdayToday {
			resp.Summary.Birthdays++
		}
		resp.Overview = append(resp.Overview, entry)
	}
	return resp
}
