package report

import "context"

// ReportService handles the daily report lifecycle for the user in ctx.
type ReportService interface {
	// Create returns the existing report together with ErrDuplicateReport
	// when today's report already exists.
	Create(ctx context.Context, req CreateReportRequest) (ReportResponse, error)
	Update(ctx context.Context, req UpdateReportRequest) (ReportResponse, error)
	Delete(ctx context.Context, id string) error
	GetToday(ctx context.Context) (*ReportResponse, error)
	GetHistory(ctx context.Context, filter HistoryFilter) (ListReportResponse, error)
	GetMonthlyStats(ctx context.Context, filter StatsFilter) (StatsResponse, error)

	// Manager
	ListAll(ctx context.Context, filter ListAllFilter) (ListAllResponse, error)
	Review(ctx context.Context, req ReviewRequest) (ReportResponse, error)
}
