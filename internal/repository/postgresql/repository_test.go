package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/task"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

// anyArgs matches n bound parameters of any value.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(anyArgs(6)...).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err := NewUserRepository(mock).Create(context.Background(), user.User{Email: "ana@example.com"})

	assert.ErrorIs(t, err, user.ErrEmailExists)
}

func TestUserRepository_UpdateLastLoginMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("UPDATE users SET last_login").
		WithArgs(pgxmock.AnyArg(), "u1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewUserRepository(mock).UpdateLastLogin(context.Background(), "u1", time.Now())

	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAttendanceRepository_CreateDuplicate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("INSERT INTO attendances").
		WithArgs(anyArgs(7)...).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err := NewAttendanceRepository(mock).Create(context.Background(), attendance.Attendance{UserID: "u1", Date: day})

	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceRepository_GetByUserAndDateNone(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM attendances WHERE user_id").
		WithArgs("u1", day).
		WillReturnError(pgx.ErrNoRows)

	got, err := NewAttendanceRepository(mock).GetByUserAndDate(context.Background(), "u1", day)

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAttendanceRepository_CheckOutErrors(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("UPDATE attendances").
		WithArgs(pgxmock.AnyArg(), 8.0, "a1").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("UPDATE attendances").
		WithArgs(pgxmock.AnyArg(), 8.0, "a1").
		WillReturnError(&pgconn.PgError{Code: checkViolationCode})
	repo := NewAttendanceRepository(mock)

	_, err := repo.CheckOut(context.Background(), "a1", time.Now(), 8)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	_, err = repo.CheckOut(context.Background(), "a1", time.Now(), 8)
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeIn)
}

func TestAttendanceRepository_AggregateByUser(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("u1", day.AddDate(0, 0, -29), day).
		WillReturnRows(mock.NewRows([]string{"count", "late", "hours"}).AddRow(int64(20), int64(3), 160.0))

	agg, err := NewAttendanceRepository(mock).AggregateByUser(context.Background(), "u1", day.AddDate(0, 0, -29), day)

	require.NoError(t, err)
	assert.Equal(t, attendance.Aggregate{PresentDays: 20, LateDays: 3, TotalWorkHours: 160}, agg)
}

func TestReportRepository_CreateDuplicate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("INSERT INTO daily_reports").
		WithArgs(anyArgs(11)...).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err := NewReportRepository(mock).Create(context.Background(), report.DailyReport{UserID: "u1", Date: day})

	assert.ErrorIs(t, err, report.ErrDuplicateReport)
}

func TestReportRepository_GetByIDMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM daily_reports r").WithArgs("r1").WillReturnError(pgx.ErrNoRows)

	_, err := NewReportRepository(mock).GetByID(context.Background(), "r1")

	assert.ErrorIs(t, err, report.ErrReportNotFound)
}

func TestReportRepository_ReviewMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("UPDATE daily_reports").
		WithArgs("ok", "m1", pgxmock.AnyArg(), "r1").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewReportRepository(mock).Review(context.Background(), "r1", "m1", "ok", time.Now())

	assert.ErrorIs(t, err, report.ErrReportNotFound)
}

func TestReportRepository_CountPendingReview(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("needs_manager_review = TRUE AND reviewed_at IS NULL").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(4)))

	n, err := NewReportRepository(mock).CountPendingReview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestTaskRepository_DeleteMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("DELETE FROM tasks").WithArgs("t1").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewTaskRepository(mock).Delete(context.Background(), "t1")

	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestTaskRepository_CountByStatus(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("GROUP BY t.status").
		WithArgs("m1").
		WillReturnRows(mock.NewRows([]string{"status", "count"}).
			AddRow("pending", int64(2)).
			AddRow("completed", int64(5)))

	counts, err := NewTaskRepository(mock).CountByStatus(context.Background(), task.ListFilter{AssignedBy: "m1", Search: "ignored"})

	require.NoError(t, err)
	assert.Equal(t, task.StatusCounts{task.StatusPending: 2, task.StatusCompleted: 5}, counts)
}

func TestTaskRepository_GetAttachmentMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM task_attachments f").WithArgs("a1", "t1").WillReturnError(pgx.ErrNoRows)

	_, err := NewTaskRepository(mock).GetAttachment(context.Background(), "t1", "a1")

	assert.ErrorIs(t, err, task.ErrAttachmentNotFound)
}

func TestBuildTaskWhere(t *testing.T) {
	status := task.StatusReview
	where, args := buildTaskWhere(task.ListFilter{AssignedTo: "e1", Status: &status, Search: "50%_off"})

	assert.Equal(t, " WHERE 1=1 AND t.assigned_to = $1 AND t.status = $2 AND (t.title ILIKE $3 OR t.description ILIKE $3)", where)
	assert.Equal(t, []any{"e1", task.StatusReview, `%50\%\_off%`}, args)
}
