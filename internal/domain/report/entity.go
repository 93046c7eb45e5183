package report

import "time"

type Productivity string

const (
	ProductivityLow       Productivity = "low"
	ProductivityMedium    Productivity = "medium"
	ProductivityHigh      Productivity = "high"
	ProductivityExcellent Productivity = "excellent"
)

var Productivities = []string{
	string(ProductivityLow),
	string(ProductivityMedium),
	string(ProductivityHigh),
	string(ProductivityExcellent),
}

type DailyReport struct {
	ID                 string
	UserID             string
	Date               time.Time // calendar day, midnight UTC
	AttendanceID       string
	WorkDone           string
	Challenges         string
	PlanForTomorrow    string
	ProjectsWorkedOn   []string
	HoursWorked        float64
	Productivity       Productivity
	NeedsManagerReview bool
	ManagerComments    string
	ReviewedBy         *string
	ReviewedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Join
	AuthorName   string
	AuthorEmail  string
	ReviewerName *string
}

func (r DailyReport) IsReviewed() bool {
	return r.ReviewedAt != nil
}

// IsEditableOn reports whether the report's day is today.
func (r DailyReport) IsEditableOn(today time.Time) bool {
	return r.Date.Equal(today)
}
