package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const attendanceColumns = `id, user_id, date, check_in_time, check_out_time, status, is_late, work_hours, notes, created_at, updated_at`

const checkViolationCode = "23514"

type attendanceRepository struct {
	db database.Conn
}

func NewAttendanceRepository(db database.Conn) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.Date, &att.CheckInTime, &att.CheckOutTime,
		&att.Status, &att.IsLate, &att.WorkHours, &att.Notes,
		&att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	return records, rows.Err()
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("generate attendance id: %w", err)
	}

	query := `
		INSERT INTO attendances (id, user_id, date, check_in_time, status, is_late, work_hours, notes)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		id.String(),
		newAttendance.UserID,
		newAttendance.Date,
		newAttendance.CheckInTime,
		newAttendance.Status,
		newAttendance.IsLate,
		newAttendance.Notes,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return created, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE user_id = $1 AND date = $2 LIMIT 1`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}
	return &att, nil
}

// CheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) CheckOut(ctx context.Context, id string, checkOut time.Time, workHours float64) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out_time = $1, work_hours = $2, updated_at = NOW()
		WHERE id = $3 AND check_out_time IS NULL
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query, checkOut, workHours, id))
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		case errors.As(err, &pgErr) && pgErr.Code == checkViolationCode:
			return attendance.Attendance{}, attendance.ErrCheckOutBeforeIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to check out: %w", err)
	}
	return updated, nil
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	records, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListByUserInRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUserInRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date DESC
	`
	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances in range: %w", err)
	}
	return collectAttendances(rows)
}

// AggregateByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) AggregateByUser(ctx context.Context, userID string, from, to time.Time) (attendance.Aggregate, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_late),
		       COALESCE(SUM(work_hours), 0)::float8
		FROM attendances
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
	`

	var present, late int64
	var hours float64
	if err := q.QueryRow(ctx, query, userID, from, to).Scan(&present, &late, &hours); err != nil {
		return attendance.Aggregate{}, fmt.Errorf("failed to aggregate attendances: %w", err)
	}
	return attendance.Aggregate{
		PresentDays:    int(present),
		LateDays:       int(late),
		TotalWorkHours: hours,
	}, nil
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE date = $1 ORDER BY check_in_time ASC`
	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances by date: %w", err)
	}
	return collectAttendances(rows)
}

// EmployeeTotalsInRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) EmployeeTotalsInRange(ctx context.Context, from, to time.Time) (int64, int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COUNT(*), COUNT(DISTINCT a.date)
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE u.role = 'employee' AND u.is_active = TRUE
		  AND a.date BETWEEN $1 AND $2
	`
	var records, days int64
	if err := q.QueryRow(ctx, query, from, to).Scan(&records, &days); err != nil {
		return 0, 0, fmt.Errorf("failed to count employee attendances: %w", err)
	}
	return records, days, nil
}
