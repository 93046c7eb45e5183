package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/jwt"
)

type ReportServiceImpl struct {
	report.ReportRepository
	attendance.AttendanceRepository
	clock clock.Clock
}

func NewReportService(reportRepository report.ReportRepository, attendanceRepository attendance.AttendanceRepository, clk clock.Clock) report.ReportService {
	return &ReportServiceImpl{
		ReportRepository:     reportRepository,
		AttendanceRepository: attendanceRepository,
		clock:                clk,
	}
}

// Create implements report.ReportService.
func (s *ReportServiceImpl) Create(ctx context.Context, req report.CreateReportRequest) (report.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ReportResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return report.ReportResponse{}, err
	}

	today := clock.Today(s.clock)

	existing, err := s.ReportRepository.GetByUserAndDate(ctx, actor.UserID, today)
	if err != nil {
		return report.ReportResponse{}, err
	}
	if existing != nil {
		return report.NewReportResponse(*existing), report.ErrDuplicateReport
	}

	att, err := s.AttendanceRepository.GetByUserAndDate(ctx, actor.UserID, today)
	if err != nil {
		return report.ReportResponse{}, err
	}
	if att == nil {
		return report.ReportResponse{}, report.ErrNoAttendance
	}

	hours := att.WorkHours
	if req.HoursWorked != nil {
		hours = *req.HoursWorked
	}
	productivity := report.ProductivityMedium
	if req.Productivity != "" {
		productivity = report.Productivity(req.Productivity)
	}

	created, err := s.ReportRepository.Create(ctx, report.DailyReport{
		UserID:             actor.UserID,
		Date:               today,
		AttendanceID:       att.ID,
		WorkDone:           req.WorkDone,
		Challenges:         req.Challenges,
		PlanForTomorrow:    req.PlanForTomorrow,
		ProjectsWorkedOn:   req.ProjectsWorkedOn,
		HoursWorked:        hours,
		Productivity:       productivity,
		NeedsManagerReview: req.NeedsManagerReview,
	})
	if err != nil {
		if errors.Is(err, report.ErrDuplicateReport) {
			if winner, getErr := s.ReportRepository.GetByUserAndDate(ctx, actor.UserID, today); getErr == nil && winner != nil {
				return report.NewReportResponse(*winner), report.ErrDuplicateReport
			}
			return report.ReportResponse{}, report.ErrDuplicateReport
		}
		return report.ReportResponse{}, fmt.Errorf("failed to create daily report: %w", err)
	}

	return report.NewReportResponse(created), nil
}

// ownedReport loads id and checks that the actor wrote it.
func (s *ReportServiceImpl) ownedReport(ctx context.Context, id string) (report.DailyReport, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return report.DailyReport{}, err
	}

	dr, err := s.ReportRepository.GetByID(ctx, id)
	if err != nil {
		return report.DailyReport{}, err
	}
	if dr.UserID != actor.UserID {
		return report.DailyReport{}, report.ErrNotReportOwner
	}
	return dr, nil
}

// Update implements report.ReportService.
func (s *ReportServiceImpl) Update(ctx context.Context, req report.UpdateReportRequest) (report.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ReportResponse{}, err
	}

	dr, err := s.ownedReport(ctx, req.ID)
	if err != nil {
		return report.ReportResponse{}, err
	}
	if !dr.IsEditableOn(clock.Today(s.clock)) {
		return report.ReportResponse{}, report.ErrEditWindowClosed
	}

	req.ApplyTo(&dr)

	updated, err := s.ReportRepository.Update(ctx, dr)
	if err != nil {
		return report.ReportResponse{}, fmt.Errorf("failed to update daily report: %w", err)
	}
	return report.NewReportResponse(updated), nil
}

// Delete implements report.ReportService.
func (s *ReportServiceImpl) Delete(ctx context.Context, id string) error {
	dr, err := s.ownedReport(ctx, id)
	if err != nil {
		return err
	}
	return s.ReportRepository.Delete(ctx, dr.ID)
}

// GetToday implements report.ReportService.
func (s *ReportServiceImpl) GetToday(ctx context.Context) (*report.ReportResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	dr, err := s.ReportRepository.GetByUserAndDate(ctx, actor.UserID, clock.Today(s.clock))
	if err != nil {
		return nil, err
	}
	if dr == nil {
		return nil, nil
	}
	resp := report.NewReportResponse(*dr)
	return &resp, nil
}

// GetHistory implements report.ReportService.
func (s *ReportServiceImpl) GetHistory(ctx context.Context, filter report.HistoryFilter) (report.ListReportResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.ListReportResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return report.ListReportResponse{}, err
	}

	reports, total, err := s.ReportRepository.ListByUser(ctx, actor.UserID, filter.Limit, filter.Offset())
	if err != nil {
		return report.ListReportResponse{}, err
	}
	return report.NewListReportResponse(reports, filter.Params, total), nil
}

// GetMonthlyStats implements report.ReportService.
func (s *ReportServiceImpl) GetMonthlyStats(ctx context.Context, filter report.StatsFilter) (report.StatsResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.StatsResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return report.StatsResponse{}, err
	}

	today := clock.Today(s.clock)
	if filter.Year == 0 {
		filter.Year = today.Year()
	}
	if filter.Month == 0 {
		filter.Month = int(today.Month())
	}

	first, last := clock.MonthRange(filter.Year, time.Month(filter.Month))
	reports, err := s.ReportRepository.ListByUserInRange(ctx, actor.UserID, first, last)
	if err != nil {
		return report.StatsResponse{}, err
	}
	return report.NewStatsResponse(filter.Year, filter.Month, reports), nil
}

// ListAll implements report.ReportService.
func (s *ReportServiceImpl) ListAll(ctx context.Context, filter report.ListAllFilter) (report.ListAllResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.ListAllResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return report.ListAllResponse{}, err
	}
	if !actor.IsManager() {
		return report.ListAllResponse{}, user.ErrManagerAccessRequired
	}

	reports, err := s.ReportRepository.List(ctx, report.ListFilter{
		Date:        filter.DateParsed,
		NeedsReview: filter.NeedsReview,
	})
	if err != nil {
		return report.ListAllResponse{}, err
	}
	return report.NewListAllResponse(filter, reports), nil
}

// Review implements report.ReportService.
func (s *ReportServiceImpl) Review(ctx context.Context, req report.ReviewRequest) (report.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ReportResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return report.ReportResponse{}, err
	}
	if !actor.IsManager() {
		return report.ReportResponse{}, user.ErrManagerAccessRequired
	}

	reviewed, err := s.ReportRepository.Review(ctx, req.ID, actor.UserID, req.ManagerComments, s.clock.Now())
	if err != nil {
		return report.ReportResponse{}, err
	}
	return report.NewReportResponse(reviewed), nil
}
