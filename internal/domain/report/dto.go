package report

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/validator"
)

const (
	minWorkDone        = 20
	maxWorkDone        = 2000
	maxSection         = 1000
	maxManagerComments = 500
	maxProjects        = 20
)

type CreateReportRequest struct {
	WorkDone           string   `json:"work_done"`
	Challenges         string   `json:"challenges"`
	PlanForTomorrow    string   `json:"plan_for_tomorrow"`
	ProjectsWorkedOn   []string `json:"projects_worked_on"`
	HoursWorked        *float64 `json:"hours_worked,omitempty"`
	Productivity       string   `json:"productivity"`
	NeedsManagerReview bool     `json:"needs_manager_review"`
}

func (r *CreateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	r.ProjectsWorkedOn = cleanProjects(r.ProjectsWorkedOn)

	if validator.IsEmpty(r.WorkDone) {
		errs.Add("work_done", "please describe what you did today")
	} else {
		validateWorkDone(&errs, r.WorkDone)
	}
	validateSections(&errs, &r.Challenges, &r.PlanForTomorrow)
	validateProjects(&errs, r.ProjectsWorkedOn)
	if r.HoursWorked != nil {
		validateHours(&errs, *r.HoursWorked)
	}
	if r.Productivity != "" {
		validateProductivity(&errs, r.Productivity)
	}

	return errs.Err()
}

// UpdateReportRequest is a partial update; nil fields are left unchanged.
type UpdateReportRequest struct {
	ID                 string    `json:"-"`
	WorkDone           *string   `json:"work_done,omitempty"`
	Challenges         *string   `json:"challenges,omitempty"`
	PlanForTomorrow    *string   `json:"plan_for_tomorrow,omitempty"`
	ProjectsWorkedOn   *[]string `json:"projects_worked_on,omitempty"`
	HoursWorked        *float64  `json:"hours_worked,omitempty"`
	Productivity       *string   `json:"productivity,omitempty"`
	NeedsManagerReview *bool     `json:"needs_manager_review,omitempty"`
}

func (r *UpdateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.WorkDone != nil {
		validateWorkDone(&errs, *r.WorkDone)
	}
	if r.Challenges != nil {
		validateSections(&errs, r.Challenges, nil)
	}
	if r.PlanForTomorrow != nil {
		validateSections(&errs, nil, r.PlanForTomorrow)
	}
	if r.ProjectsWorkedOn != nil {
		cleaned := cleanProjects(*r.ProjectsWorkedOn)
		r.ProjectsWorkedOn = &cleaned
		validateProjects(&errs, cleaned)
	}
	if r.HoursWorked != nil {
		validateHours(&errs, *r.HoursWorked)
	}
	if r.Productivity != nil {
		validateProductivity(&errs, *r.Productivity)
	}

	return errs.Err()
}

// ApplyTo merges the set fields into dr.
func (r UpdateReportRequest) ApplyTo(dr *DailyReport) {
	if r.WorkDone != nil {
		dr.WorkDone = *r.WorkDone
	}
	if r.Challenges != nil {
		dr.Challenges = *r.Challenges
	}
	if r.PlanForTomorrow != nil {
		dr.PlanForTomorrow = *r.PlanForTomorrow
	}
	if r.ProjectsWorkedOn != nil {
		dr.ProjectsWorkedOn = *r.ProjectsWorkedOn
	}
	if r.HoursWorked != nil {
		dr.HoursWorked = *r.HoursWorked
	}
	if r.Productivity != nil {
		dr.Productivity = Productivity(*r.Productivity)
	}
	if r.NeedsManagerReview != nil {
		dr.NeedsManagerReview = *r.NeedsManagerReview
	}
}

type ReviewRequest struct {
	ID              string `json:"-"`
	ManagerComments string `json:"manager_comments"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	r.ManagerComments = strings.TrimSpace(r.ManagerComments)

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.ManagerComments == "" {
		errs.Add("manager_comments", "please provide your comments")
	} else if validator.Len(r.ManagerComments) > maxManagerComments {
		errs.Add("manager_comments", "manager comments cannot exceed 500 characters")
	}

	return errs.Err()
}

func validateWorkDone(errs *validator.ValidationErrors, workDone string) {
	n := validator.Len(strings.TrimSpace(workDone))
	switch {
	case n < minWorkDone:
		errs.Add("work_done", "report must be at least 20 characters")
	case n > maxWorkDone:
		errs.Add("work_done", "report cannot exceed 2000 characters")
	}
}

func validateSections(errs *validator.ValidationErrors, challenges, plan *string) {
	if challenges != nil && validator.Len(*challenges) > maxSection {
		errs.Add("challenges", "challenges section cannot exceed 1000 characters")
	}
	if plan != nil && validator.Len(*plan) > maxSection {
		errs.Add("plan_for_tomorrow", "plan for tomorrow cannot exceed 1000 characters")
	}
}

func validateProjects(errs *validator.ValidationErrors, projects []string) {
	if len(projects) > maxProjects {
		errs.Add("projects_worked_on", "projects_worked_on cannot have more than 20 entries")
	}
}

func validateHours(errs *validator.ValidationErrors, hours float64) {
	if hours < 0 || hours > 24 {
		errs.Add("hours_worked", "hours_worked must be between 0 and 24")
	}
}

func validateProductivity(errs *validator.ValidationErrors, p string) {
	if !validator.IsInSlice(p, Productivities) {
		errs.Add("productivity", "productivity must be one of: low, medium, high, excellent")
	}
}

// cleanProjects trims entries and drops empty ones.
func cleanProjects(projects []string) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type ReviewerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ReportResponse struct {
	ID                 string            `json:"id"`
	User               user.UserSummary  `json:"user"`
	Date               string            `json:"date"`
	AttendanceID       string            `json:"attendance_id"`
	WorkDone           string            `json:"work_done"`
	Challenges         string            `json:"challenges"`
	PlanForTomorrow    string            `json:"plan_for_tomorrow"`
	ProjectsWorkedOn   []string          `json:"projects_worked_on"`
	HoursWorked        float64           `json:"hours_worked"`
	Productivity       Productivity      `json:"productivity"`
	NeedsManagerReview bool              `json:"needs_manager_review"`
	ManagerComments    string            `json:"manager_comments"`
	ReviewedBy         *ReviewerResponse `json:"reviewed_by"`
	ReviewedAt         *time.Time        `json:"reviewed_at"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func NewReportResponse(r DailyReport) ReportResponse {
	resp := ReportResponse{
		ID:                 r.ID,
		User:               user.NewUserSummary(user.User{ID: r.UserID, Name: r.AuthorName, Email: r.AuthorEmail}),
		Date:               r.Date.Format("2006-01-02"),
		AttendanceID:       r.AttendanceID,
		WorkDone:           r.WorkDone,
		Challenges:         r.Challenges,
		PlanForTomorrow:    r.PlanForTomorrow,
		ProjectsWorkedOn:   r.ProjectsWorkedOn,
		HoursWorked:        r.HoursWorked,
		Productivity:       r.Productivity,
		NeedsManagerReview: r.NeedsManagerReview,
		ManagerComments:    r.ManagerComments,
		ReviewedAt:         r.ReviewedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if resp.ProjectsWorkedOn == nil {
		resp.ProjectsWorkedOn = []string{}
	}
	if r.ReviewedBy != nil {
		resp.ReviewedBy = &ReviewerResponse{ID: *r.ReviewedBy}
		if r.ReviewerName != nil {
			resp.ReviewedBy.Name = *r.ReviewerName
		}
	}
	return resp
}

func newReportResponses(reports []DailyReport) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, NewReportResponse(r))
	}
	return out
}

type HistoryFilter struct {
	pagination.Params
}

type ListReportResponse struct {
	Reports    []ReportResponse `json:"reports"`
	Pagination pagination.Info  `json:"pagination"`
}

func NewListReportResponse(reports []DailyReport, p pagination.Params, total int64) ListReportResponse {
	return ListReportResponse{
		Reports:    newReportResponses(reports),
		Pagination: pagination.NewInfo(p, total),
	}
}

type ListAllFilter struct {
	Date        string `json:"date"`
	NeedsReview bool   `json:"needs_review"`

	// Parsed by Validate
	DateParsed *time.Time `json:"-"`
}

func (f *ListAllFilter) Validate() error {
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

type ListAllSummary struct {
	Total       int    `json:"total"`
	NeedsReview int    `json:"needs_review"`
	Reviewed    int    `json:"reviewed"`
	Date        string `json:"date"`
}

type ListAllResponse struct {
	Summary ListAllSummary   `json:"summary"`
	Reports []ReportResponse `json:"reports"`
}

func NewListAllResponse(filter ListAllFilter, reports []DailyReport) ListAllResponse {
	summary := ListAllSummary{Total: len(reports), Date: "all"}
	if filter.DateParsed != nil {
		summary.Date = filter.DateParsed.Format("2006-01-02")
	}
	for _, r := range reports {
		if r.NeedsManagerReview {
			summary.NeedsReview++
		}
		if r.IsReviewed() {
			summary.Reviewed++
		}
	}
	return ListAllResponse{Summary: summary, Reports: newReportResponses(reports)}
}

type StatsFilter struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (f *StatsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Year != 0 && (f.Year < 1970 || f.Year > 9999) {
		errs.Add("year", "year must be between 1970 and 9999")
	}
	if f.Month < 0 || f.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}

	return errs.Err()
}

type ProductivityBreakdown struct {
	Low       int `json:"low"`
	Medium    int `json:"medium"`
	High      int `json:"high"`
	Excellent int `json:"excellent"`
}

type Stats struct {
	TotalReports int                   `json:"total_reports"`
	AverageHours float64               `json:"average_hours"`
	Productivity ProductivityBreakdown `json:"productivity"`
	NeedsReview  int                   `json:"needs_review"`
	Reviewed     int                   `json:"reviewed"`
}

func NewStats(reports []DailyReport) Stats {
	var s Stats
	var hours float64
	for _, r := range reports {
		hours += r.HoursWorked
		switch r.Productivity {
		case ProductivityLow:
			s.Productivity.Low++
		case ProductivityMedium:
			s.Productivity.Medium++
		case ProductivityHigh:
			s.Productivity.High++
		case ProductivityExcellent:
			s.Productivity.Excellent++
		}
		if r.NeedsManagerReview {
			s.NeedsReview++
		}
		if r.IsReviewed() {
			s.Reviewed++
		}
	}
	s.TotalReports = len(reports)
	if s.TotalReports > 0 {
		s.AverageHours = attendance.Round2(hours / float64(s.TotalReports))
	}
	return s
}

type StatsResponse struct {
	Year    int              `json:"year"`
	Month   int              `json:"month"`
	Stats   Stats            `json:"stats"`
	Reports []ReportResponse `json:"reports"`
}

func NewStatsResponse(year, month int, reports []DailyReport) StatsResponse {
	return StatsResponse{
		Year:    year,
		Month:   month,
		Stats:   NewStats(reports),
		Reports: newReportResponses(reports),
	}
}
