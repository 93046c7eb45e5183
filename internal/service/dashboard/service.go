package dashboard

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	user.UserRepository
	attendance.AttendanceRepository
	report.ReportRepository
	clock clock.Clock
}

func NewDashboardService(userRepository user.UserRepository, attendanceRepository attendance.AttendanceRepository, reportRepository report.ReportRepository, clk clock.Clock) dashboard.DashboardService {
	return &DashboardServiceImpl{
		UserRepository:       userRepository,
		AttendanceRepository: attendanceRepository,
		ReportRepository:     reportRepository,
		clock:                clk,
	}
}

func (s *DashboardServiceImpl) requireManager(ctx context.Context) error {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	if !actor.IsManager() {
		return user.ErrManagerAccessRequired
	}
	return nil
}

func (s *DashboardServiceImpl) employees(ctx context.Context) ([]user.User, error) {
	role := user.RoleEmployee
	return s.UserRepository.ListActive(ctx, &role)
}

// TodaysBirthdays implements dashboard.DashboardService.
func (s *DashboardServiceImpl) TodaysBirthdays(ctx context.Context) (dashboard.BirthdaysResponse, error) {
	if _, err := jwt.ActorFromContext(ctx); err != nil {
		return dashboard.BirthdaysResponse{}, err
	}

	users, err := s.UserRepository.ListActive(ctx, nil)
	if err != nil {
		return dashboard.BirthdaysResponse{}, err
	}
	today := clock.Today(s.clock)
	return dashboard.NewBirthdaysResponse(dashboard.TodaysBirthdays(users, today), today), nil
}

// UpcomingBirthdays implements dashboard.DashboardService.
func (s *DashboardServiceImpl) UpcomingBirthdays(ctx context.Context) (dashboard.UpcomingBirthdaysResponse, error) {
	if _, err := jwt.ActorFromContext(ctx); err != nil {
		return dashboard.UpcomingBirthdaysResponse{}, err
	}

	users, err := s.UserRepository.ListActive(ctx, nil)
	if err != nil {
		return dashboard.UpcomingBirthdaysResponse{}, err
	}
	return dashboard.NewUpcomingBirthdays(users, clock.Today(s.clock)), nil
}

// ListEmployees implements dashboard.DashboardService.
func (s *DashboardServiceImpl) ListEmployees(ctx context.Context) ([]dashboard.EmployeeWithStatus, error) {
	if err := s.requireManager(ctx); err != nil {
		return nil, err
	}

	today := clock.Today(s.clock)

	var (
		employees []user.User
		records   []attendance.Attendance
		reports   []report.DailyReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.employees(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.AttendanceRepository.ListByDate(gctx, today)
		return err
	})
	g.Go(func() error {
		var err error
		reports, err = s.ReportRepository.ListByDate(gctx, today)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	reported := make(map[string]bool, len(reports))
	for _, r := range reports {
		reported[r.UserID] = true
	}
	return dashboard.NewEmployeesWithStatus(employees, today, records, reported), nil
}

// EmployeeDetails implements dashboard.DashboardService.
func (s *DashboardServiceImpl) EmployeeDetails(ctx context.Context, employeeID string) (dashboard.EmployeeDetailsResponse, error) {
	if err := s.requireManager(ctx); err != nil {
		return dashboard.EmployeeDetailsResponse{}, err
	}

	emp, err := s.UserRepository.GetByID(ctx, employeeID)
	if err != nil {
		return dashboard.EmployeeDetailsResponse{}, err
	}

	today := clock.Today(s.clock)
	from := today.AddDate(0, 0, -(dashboard.StatsWindowDays - 1))

	agg, err := s.AttendanceRepository.AggregateByUser(ctx, emp.ID, from, today)
	if err != nil {
		return dashboard.EmployeeDetailsResponse{}, err
	}
	reports, err := s.ReportRepository.CountByUserInRange(ctx, emp.ID, from, today)
	if err != nil {
		return dashboard.EmployeeDetailsResponse{}, err
	}
	return dashboard.NewEmployeeDetails(emp, today, agg, reports), nil
}

// TeamStats implements dashboard.DashboardService.
func (s *DashboardServiceImpl) TeamStats(ctx context.Context) (dashboard.TeamStatsResponse, error) {
	if err := s.requireManager(ctx); err != nil {
		return dashboard.TeamStatsResponse{}, err
	}

	today := clock.Today(s.clock)
	from := today.AddDate(0, 0, -(dashboard.StatsWindowDays - 1))

	var (
		employees []user.User
		records   []attendance.Attendance
		reports   []report.DailyReport
		counts    dashboard.TeamCounts
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.employees(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.AttendanceRepository.ListByDate(gctx, today)
		return err
	})
	g.Go(func() error {
		var err error
		reports, err = s.ReportRepository.ListByDate(gctx, today)
		return err
	})
	g.Go(func() error {
		var err error
		counts.PendingReview, err = s.ReportRepository.CountPendingReview(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts.WindowRecords, counts.WindowDays, err = s.AttendanceRepository.EmployeeTotalsInRange(gctx, from, today)
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboard.TeamStatsResponse{}, fmt.Errorf("failed to compute team stats: %w", err)
	}

	// Today's numbers only count employees.
	isEmployee := make(map[string]bool, len(employees))
	for _, e := range employees {
		isEmployee[e.ID] = true
	}
	counts.TotalEmployees = int64(len(employees))
	for _, a := range records {
		if !isEmployee[a.UserID] {
			continue
		}
		counts.TodayAttendance++
		if a.IsLate {
			counts.LateToday++
		}
	}
	for _, r := range reports {
		if isEmployee[r.UserID] {
			counts.TodayReports++
		}
	}

	return dashboard.NewTeamStats(counts, dashboard.TodaysBirthdays(employees, today), today), nil
}

// AttendanceOverview implements dashboard.DashboardService.
func (s *DashboardServiceImpl) AttendanceOverview(ctx context.Context, filter attendance.OverviewFilter) (dashboard.AttendanceOverviewResponse, error) {
	if err := filter.Validate(); err != nil {
		return dashboard.AttendanceOverviewResponse{}, err
	}
	if err := s.requireManager(ctx); err != nil {
		return dashboard.AttendanceOverviewResponse{}, err
	}

	day := clock.Today(s.clock)
	if filter.DateParsed != nil {
		day = *filter.DateParsed
	}

	employees, err := s.employees(ctx)
	if err != nil {
		return dashboard.AttendanceOverviewResponse{}, err
	}
	records, err := s.AttendanceRepository.ListByDate(ctx, day)
	if err != nil {
		return dashboard.AttendanceOverviewResponse{}, err
	}
	return dashboard.NewAttendanceOverview(day, employees, records), nil
}
