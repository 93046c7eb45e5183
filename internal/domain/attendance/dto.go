package attendance

import (
	"math"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/validator"
)

const DefaultStatsDays = 30

type CheckInRequest struct {
	Notes string `json:"notes"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.Len(r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}

	return errs.Err()
}

type AttendanceResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Date         string     `json:"date"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Status       Status     `json:"status"`
	IsLate       bool       `json:"is_late"`
	WorkHours    float64    `json:"work_hours"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		Date:         a.Date.Format("2006-01-02"),
		CheckInTime:  a.CheckInTime,
		CheckOutTime: a.CheckOutTime,
		Status:       a.Status,
		IsLate:       a.IsLate,
		WorkHours:    a.WorkHours,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func newAttendanceResponses(records []Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, a := range records {
		out = append(out, NewAttendanceResponse(a))
	}
	return out
}

type HistoryFilter struct {
	pagination.Params
}

type ListAttendanceResponse struct {
	Attendances []AttendanceResponse `json:"attendances"`
	Pagination  pagination.Info      `json:"pagination"`
}

func NewListAttendanceResponse(records []Attendance, p pagination.Params, total int64) ListAttendanceResponse {
	return ListAttendanceResponse{
		Attendances: newAttendanceResponses(records),
		Pagination:  pagination.NewInfo(p, total),
	}
}

type StatsFilter struct {
	Days int `json:"days"`
}

func (f *StatsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Days == 0 {
		f.Days = DefaultStatsDays
	}
	if f.Days < 1 || f.Days > 366 {
		errs.Add("days", "days must be between 1 and 366")
	}

	return errs.Err()
}

type StatsResponse struct {
	PeriodDays           int     `json:"period_days"`
	PresentDays          int     `json:"present_days"`
	AbsentDays           int     `json:"absent_days"`
	LateDays             int     `json:"late_days"`
	TotalWorkHours       float64 `json:"total_work_hours"`
	AverageWorkHours     float64 `json:"average_work_hours"`
	AttendancePercentage int     `json:"attendance_percentage"`
}

// NewStatsResponse derives the period summary. Every day in the period
// without a record counts as absent.
func NewStatsResponse(days int, agg Aggregate) StatsResponse {
	stats := StatsResponse{
		PeriodDays:     days,
		PresentDays:    agg.PresentDays,
		AbsentDays:     max(0, days-agg.PresentDays),
		LateDays:       agg.LateDays,
		TotalWorkHours: Round2(agg.TotalWorkHours),
	}
	if agg.PresentDays > 0 {
		stats.AverageWorkHours = Round2(agg.TotalWorkHours / float64(agg.PresentDays))
	}
	if days > 0 {
		stats.AttendancePercentage = int(math.Round(float64(agg.PresentDays) / float64(days) * 100))
	}
	return stats
}

type MonthlyFilter struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (f *MonthlyFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Year != 0 && (f.Year < 1970 || f.Year > 9999) {
		errs.Add("year", "year must be between 1970 and 9999")
	}
	if f.Month < 0 || f.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}

	return errs.Err()
}

type MonthlySummary struct {
	TotalDays        int     `json:"total_days"`
	PresentDays      int     `json:"present_days"`
	LateDays         int     `json:"late_days"`
	TotalWorkHours   float64 `json:"total_work_hours"`
	AverageWorkHours float64 `json:"average_work_hours"`
}

// NewMonthlySummary counts only status "present" as present; late days are
// counted separately.
func NewMonthlySummary(records []Attendance) MonthlySummary {
	var s MonthlySummary
	var total float64
	for _, a := range records {
		if a.Status == StatusPresent {
			s.PresentDays++
		}
		if a.IsLate {
			s.LateDays++
		}
		total += a.WorkHours
	}
	s.TotalDays = len(records)
	s.TotalWorkHours = Round2(total)
	if s.TotalDays > 0 {
		s.AverageWorkHours = Round2(total / float64(s.TotalDays))
	}
	return s
}

type MonthlyResponse struct {
	Year        int                  `json:"year"`
	Month       int                  `json:"month"`
	Attendances []AttendanceResponse `json:"attendances"`
	Summary     MonthlySummary       `json:"summary"`
}

func NewMonthlyResponse(year, month int, records []Attendance) MonthlyResponse {
	return MonthlyResponse{
		Year:        year,
		Month:       month,
		Attendances: newAttendanceResponses(records),
		Summary:     NewMonthlySummary(records),
	}
}

type OverviewFilter struct {
	Date string `json:"date"` // YYYY-MM-DD, empty means today

	// Parsed by Validate
	DateParsed *time.Time `json:"-"`
}

func (f *OverviewFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Date != "" {
		if d, ok := validator.IsValidDate(f.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		} else {
			f.DateParsed = &d
		}
	}

	return errs.Err()
}

type EmployeeAttendance struct {
	Employee   user.UserSummary    `json:"employee"`
	Attendance *AttendanceResponse `json:"attendance"`
	Status     Status              `json:"status"`
}

type OverviewSummary struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Absent  int    `json:"absent"`
}

type DailyOverviewResponse struct {
	Summary   OverviewSummary      `json:"summary"`
	Employees []EmployeeAttendance `json:"employees"`
}

// NewDailyOverview joins employees with their record for day. Employees
// without a record are reported absent.
func NewDailyOverview(day time.Time, employees []user.User, records []Attendance) DailyOverviewResponse {
	byUser := make(map[string]Attendance, len(records))
	for _, a := range records {
		byUser[a.UserID] = a
	}

	resp := DailyOverviewResponse{
		Summary:   OverviewSummary{Date: day.Format("2006-01-02"), Total: len(employees)},
		Employees: make([]EmployeeAttendance, 0, len(employees)),
	}
	for _, emp := range employees {
		item := EmployeeAttendance{Employee: user.NewUserSummary(emp), Status: StatusAbsent}
		if a, ok := byUser[emp.ID]; ok {
			r := NewAttendanceResponse(a)
			item.Attendance = &r
			item.Status = a.Status
			if a.Status == StatusPresent {
				resp.Summary.Present++
			}
			if a.IsLate {
				resp.Summary.Late++
			}
		} else {
			resp.Summary.Absent++
		}
		resp.Employees = append(resp.Employees, item)
	}
	return resp
}
