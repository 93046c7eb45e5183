package attendance

import (
	"math"
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half-day"
	StatusLate    Status = "late"
)

type Attendance struct {
	ID           string
	UserID       string
	Date         time.Time // calendar day, midnight UTC
	CheckInTime  time.Time
	CheckOutTime *time.Time
	Status       Status
	IsLate       bool
	WorkHours    float64
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a Attendance) HasCheckedOut() bool {
	return a.CheckOutTime != nil
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WorkHoursBetween is the elapsed time in hours, rounded to two decimals.
func WorkHoursBetween(checkIn, checkOut time.Time) float64 {
	return Round2(checkOut.Sub(checkIn).Hours())
}

// Aggregate is a per-user summary over a day range.
type Aggregate struct {
	PresentDays    int
	LateDays       int
	TotalWorkHours float64
}

// LateThreshold is the local time of day after which a check-in is late.
type LateThreshold struct {
	Hour   int
	Minute int
}

var DefaultLateThreshold = LateThreshold{Hour: 10, Minute: 0}

// IsLate reports whether checkIn is strictly after the threshold on its own
// civil day in loc. A check-in at exactly the threshold is on time.
func (t LateThreshold) IsLate(checkIn time.Time, loc *time.Location) bool {
	local := checkIn.In(loc)
	threshold := time.Date(local.Year(), local.Month(), local.Day(), t.Hour, t.Minute, 0, 0, loc)
	return checkIn.After(threshold)
}
