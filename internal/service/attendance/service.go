package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	clock         clock.Clock
	lateThreshold attendance.LateThreshold
}

func NewAttendanceService(attendanceRepository attendance.AttendanceRepository, userRepository user.UserRepository, clk clock.Clock, lateThreshold attendance.LateThreshold) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		clock:                clk,
		lateThreshold:        lateThreshold,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	today := clock.DayOf(now, s.clock.Location())

	// Friendly pre-check; the unique index on (user_id, date) is the real guard.
	existing, err := s.AttendanceRepository.GetByUserAndDate(ctx, actor.UserID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if existing != nil {
		return attendance.NewAttendanceResponse(*existing), attendance.ErrAlreadyCheckedIn
	}

	isLate := s.lateThreshold.IsLate(now, s.clock.Location())
	status := attendance.StatusPresent
	if isLate {
		status = attendance.StatusLate
	}

	created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
		UserID:      actor.UserID,
		Date:        today,
		CheckInTime: now,
		Status:      status,
		IsLate:      isLate,
		Notes:       req.Notes,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			// Lost a race with a concurrent check-in.
			if winner, getErr := s.AttendanceRepository.GetByUserAndDate(ctx, actor.UserID, today); getErr == nil && winner != nil {
				return attendance.NewAttendanceResponse(*winner), attendance.ErrAlreadyCheckedIn
			}
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return attendance.NewAttendanceResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	today := clock.DayOf(now, s.clock.Location())

	existing, err := s.AttendanceRepository.GetByUserAndDate(ctx, actor.UserID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if existing == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if existing.HasCheckedOut() {
		return attendance.NewAttendanceResponse(*existing), attendance.ErrAlreadyCheckedOut
	}
	if now.Before(existing.CheckInTime) {
		return attendance.AttendanceResponse{}, attendance.ErrCheckOutBeforeIn
	}

	updated, err := s.AttendanceRepository.CheckOut(ctx, existing.ID, now, attendance.WorkHoursBetween(existing.CheckInTime, now))
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			if current, getErr := s.AttendanceRepository.GetByUserAndDate(ctx, actor.UserID, today); getErr == nil && current != nil {
				return attendance.NewAttendanceResponse(*current), attendance.ErrAlreadyCheckedOut
			}
		}
		return attendance.AttendanceResponse{}, err
	}

	return attendance.NewAttendanceResponse(updated), nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context) (*attendance.AttendanceResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.AttendanceRepository.GetByUserAndDate(ctx, actor.UserID, clock.Today(s.clock))
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	resp := attendance.NewAttendanceResponse(*existing)
	return &resp, nil
}

// GetHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return s.history(ctx, actor.UserID, filter)
}

// GetEmployeeHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetEmployeeHistory(ctx context.Context, employeeID string, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if !actor.IsManager() {
		return attendance.ListAttendanceResponse{}, user.ErrManagerAccessRequired
	}
	if !validator.IsValidUUID(employeeID) {
		return attendance.ListAttendanceResponse{}, user.ErrUserNotFound
	}
	if _, err := s.UserRepository.GetByID(ctx, employeeID); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return s.history(ctx, employeeID, filter)
}

func (s *AttendanceServiceImpl) history(ctx context.Context, userID string, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.ListByUser(ctx, userID, filter.Limit, filter.Offset())
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return attendance.NewListAttendanceResponse(records, filter.Params, total), nil
}

// GetStats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStats(ctx context.Context, filter attendance.StatsFilter) (attendance.StatsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.StatsResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.StatsResponse{}, err
	}

	today := clock.Today(s.clock)
	from := today.AddDate(0, 0, -(filter.Days - 1))

	agg, err := s.AttendanceRepository.AggregateByUser(ctx, actor.UserID, from, today)
	if err != nil {
		return attendance.StatsResponse{}, err
	}
	return attendance.NewStatsResponse(filter.Days, agg), nil
}

// GetMonthly implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMonthly(ctx context.Context, filter attendance.MonthlyFilter) (attendance.MonthlyResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.MonthlyResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.MonthlyResponse{}, err
	}

	today := clock.Today(s.clock)
	if filter.Year == 0 {
		filter.Year = today.Year()
	}
	if filter.Month == 0 {
		filter.Month = int(today.Month())
	}

	first, last := clock.MonthRange(filter.Year, time.Month(filter.Month))
	records, err := s.AttendanceRepository.ListByUserInRange(ctx, actor.UserID, first, last)
	if err != nil {
		return attendance.MonthlyResponse{}, err
	}
	return attendance.NewMonthlyResponse(filter.Year, filter.Month, records), nil
}

// GetDailyOverview implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetDailyOverview(ctx context.Context, filter attendance.OverviewFilter) (attendance.DailyOverviewResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.DailyOverviewResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.DailyOverviewResponse{}, err
	}
	if !actor.IsManager() {
		return attendance.DailyOverviewResponse{}, user.ErrManagerAccessRequired
	}

	day := clock.Today(s.clock)
	if filter.DateParsed != nil {
		day = *filter.DateParsed
	}

	role := user.RoleEmployee
	employees, err := s.UserRepository.ListActive(ctx, &role)
	if err != nil {
		return attendance.DailyOverviewResponse{}, err
	}
	records, err := s.AttendanceRepository.ListByDate(ctx, day)
	if err != nil {
		return attendance.DailyOverviewResponse{}, err
	}
	return attendance.NewDailyOverview(day, employees, records), nil
}
