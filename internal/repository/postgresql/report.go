package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// reportSelect reads from a relation aliased r and joins author and reviewer.
const reportSelect = `
	SELECT r.id, r.user_id, r.date, r.attendance_id, r.work_done, r.challenges,
	       r.plan_for_tomorrow, r.projects_worked_on, r.hours_worked, r.productivity,
	       r.needs_manager_review, r.manager_comments, r.reviewed_by, r.reviewed_at,
	       r.created_at, r.updated_at,
	       u.name, u.email, rv.name
`

const reportJoins = `
	JOIN users u ON u.id = r.user_id
	LEFT JOIN users rv ON rv.id = r.reviewed_by
`

type reportRepositoryImpl struct {
	db database.Conn
}

func NewReportRepository(db database.Conn) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

func scanReport(row pgx.Row) (report.DailyReport, error) {
	var dr report.DailyReport
	err := row.Scan(
		&dr.ID, &dr.UserID, &dr.Date, &dr.AttendanceID, &dr.WorkDone, &dr.Challenges,
		&dr.PlanForTomorrow, &dr.ProjectsWorkedOn, &dr.HoursWorked, &dr.Productivity,
		&dr.NeedsManagerReview, &dr.ManagerComments, &dr.ReviewedBy, &dr.ReviewedAt,
		&dr.CreatedAt, &dr.UpdatedAt,
		&dr.AuthorName, &dr.AuthorEmail, &dr.ReviewerName,
	)
	return dr, err
}

func collectReports(rows pgx.Rows) ([]report.DailyReport, error) {
	defer rows.Close()

	var reports []report.DailyReport
	for rows.Next() {
		dr, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily report: %w", err)
		}
		reports = append(reports, dr)
	}
	return reports, rows.Err()
}

// Create implements report.ReportRepository.
func (r *reportRepositoryImpl) Create(ctx context.Context, dr report.DailyReport) (report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return report.DailyReport{}, fmt.Errorf("generate report id: %w", err)
	}

	query := `
		WITH r AS (
			INSERT INTO daily_reports (
				id, user_id, date, attendance_id, work_done, challenges, plan_for_tomorrow,
				projects_worked_on, hours_worked, productivity, needs_manager_review
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING *
		)` + reportSelect + `FROM r` + reportJoins

	created, err := scanReport(q.QueryRow(ctx, query,
		id.String(),
		dr.UserID,
		dr.Date,
		dr.AttendanceID,
		dr.WorkDone,
		dr.Challenges,
		dr.PlanForTomorrow,
		projectsOrEmpty(dr.ProjectsWorkedOn),
		dr.HoursWorked,
		dr.Productivity,
		dr.NeedsManagerReview,
	))
	if err != nil {
		return report.DailyReport{}, translatePgError(err, report.ErrReportNotFound, report.ErrDuplicateReport)
	}
	return created, nil
}

// GetByID implements report.ReportRepository.
func (r *reportRepositoryImpl) GetByID(ctx context.Context, id string) (report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := reportSelect + `FROM daily_reports r` + reportJoins + `WHERE r.id = $1`

	dr, err := scanReport(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.DailyReport{}, report.ErrReportNotFound
		}
		return report.DailyReport{}, fmt.Errorf("failed to get daily report: %w", err)
	}
	return dr, nil
}

// GetByUserAndDate implements report.ReportRepository.
func (r *reportRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := reportSelect + `FROM daily_reports r` + reportJoins + `WHERE r.user_id = $1 AND r.date = $2`

	dr, err := scanReport(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get daily report by user and date: %w", err)
	}
	return &dr, nil
}

// Update implements report.ReportRepository.
func (r *reportRepositoryImpl) Update(ctx context.Context, dr report.DailyReport) (report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH r AS (
			UPDATE daily_reports
			SET work_done = $1, challenges = $2, plan_for_tomorrow = $3,
			    projects_worked_on = $4, hours_worked = $5, productivity = $6,
			    needs_manager_review = $7, updated_at = NOW()
			WHERE id = $8
			RETURNING *
		)` + reportSelect + `FROM r` + reportJoins

	updated, err := scanReport(q.QueryRow(ctx, query,
		dr.WorkDone,
		dr.Challenges,
		dr.PlanForTomorrow,
		projectsOrEmpty(dr.ProjectsWorkedOn),
		dr.HoursWorked,
		dr.Productivity,
		dr.NeedsManagerReview,
		dr.ID,
	))
	if err != nil {
		return report.DailyReport{}, translatePgError(err, report.ErrReportNotFound, report.ErrDuplicateReport)
	}
	return updated, nil
}

// Review implements report.ReportRepository.
func (r *reportRepositoryImpl) Review(ctx context.Context, id, reviewerID, comment string, at time.Time) (report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH r AS (
			UPDATE daily_reports
			SET manager_comments = $1, reviewed_by = $2, reviewed_at = $3, updated_at = NOW()
			WHERE id = $4
			RETURNING *
		)` + reportSelect + `FROM r` + reportJoins

	reviewed, err := scanReport(q.QueryRow(ctx, query, comment, reviewerID, at, id))
	if err != nil {
		return report.DailyReport{}, translatePgError(err, report.ErrReportNotFound, report.ErrDuplicateReport)
	}
	return reviewed, nil
}

// Delete implements report.ReportRepository.
func (r *reportRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM daily_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete daily report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

// ListByUser implements report.ReportRepository.
func (r *reportRepositoryImpl) ListByUser(ctx context.Context, userID string, limit, offset int) ([]report.DailyReport, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM daily_reports WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count daily reports: %w", err)
	}

	query := reportSelect + `FROM daily_reports r` + reportJoins + `
		WHERE r.user_id = $1
		ORDER BY r.date DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list daily reports: %w", err)
	}
	reports, err := collectReports(rows)
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// ListByUserInRange implements report.ReportRepository.
func (r *reportRepositoryImpl) ListByUserInRange(ctx context.Context, userID string, from, to time.Time) ([]report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := reportSelect + `FROM daily_reports r` + reportJoins + `
		WHERE r.user_id = $1 AND r.date BETWEEN $2 AND $3
		ORDER BY r.date DESC
	`
	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily reports in range: %w", err)
	}
	return collectReports(rows)
}

// List implements report.ReportRepository.
func (r *reportRepositoryImpl) List(ctx context.Context, filter report.ListFilter) ([]report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := reportSelect + `FROM daily_reports r` + reportJoins + ` WHERE 1=1`
	var args []any
	argIdx := 1

	if filter.Date != nil {
		query += fmt.Sprintf(" AND r.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.NeedsReview {
		query += " AND r.needs_manager_review = TRUE"
	}
	query += " ORDER BY r.date DESC, r.created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily reports: %w", err)
	}
	return collectReports(rows)
}

// ListByDate implements report.ReportRepository.
func (r *reportRepositoryImpl) ListByDate(ctx context.Context, date time.Time) ([]report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := reportSelect + `FROM daily_reports r` + reportJoins + `WHERE r.date = $1 ORDER BY r.created_at ASC`
	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily reports by date: %w", err)
	}
	return collectReports(rows)
}

// CountByUserInRange implements report.ReportRepository.
func (r *reportRepositoryImpl) CountByUserInRange(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	query := `SELECT COUNT(*) FROM daily_reports WHERE user_id = $1 AND date BETWEEN $2 AND $3`
	if err := q.QueryRow(ctx, query, userID, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count daily reports in range: %w", err)
	}
	return n, nil
}

// CountPendingReview implements report.ReportRepository.
func (r *reportRepositoryImpl) CountPendingReview(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	query := `SELECT COUNT(*) FROM daily_reports WHERE needs_manager_review = TRUE AND reviewed_at IS NULL`
	if err := q.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reports pending review: %w", err)
	}
	return n, nil
}

func projectsOrEmpty(projects []string) []string {
	if projects == nil {
		return []string{}
	}
	return projects
}
