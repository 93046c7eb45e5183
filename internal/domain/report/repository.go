package report

import (
	"context"
	"time"
)

type ListFilter struct {
	Date        *time.Time
	NeedsReview bool
}

// ReportRepository stores daily reports. Reads populate the author and
// reviewer join fields.
type ReportRepository interface {
	// Create inserts a report; a second report for the same user and day
	// yields ErrDuplicateReport.
	Create(ctx context.Context, report DailyReport) (DailyReport, error)
	GetByID(ctx context.Context, id string) (DailyReport, error)
	// GetByUserAndDate returns nil, nil when there is none.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*DailyReport, error)
	// Update writes the author-editable content fields.
	Update(ctx context.Context, report DailyReport) (DailyReport, error)
	Review(ctx context.Context, id, reviewerID, comment string, at time.Time) (DailyReport, error)
	Delete(ctx context.Context, id string) error

	ListByUser(ctx context.Context, userID string, limit, offset int) ([]DailyReport, int64, error)
	ListByUserInRange(ctx context.Context, userID string, from, to time.Time) ([]DailyReport, error)
	// List returns reports newest first.
	List(ctx context.Context, filter ListFilter) ([]DailyReport, error)
	ListByDate(ctx context.Context, date time.Time) ([]DailyReport, error)
	CountByUserInRange(ctx context.Context, userID string, from, to time.Time) (int64, error)
	// CountPendingReview counts reports flagged for review and not yet reviewed.
	CountPendingReview(ctx context.Context) (int64, error)
}
