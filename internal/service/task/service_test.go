package task

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/task"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/office-attendance-go/internal/service/file"
	"github.com/cmlabs-hris/office-attendance-go/internal/service/servicetest"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

type fixture struct {
	svc      task.TaskService
	db       pgxmock.PgxPoolIface
	clock    *clock.Fixed
	tasks    *servicetest.TaskRepo
	storage  *storage.LocalStorage
	employee user.User
	other    user.User
	manager  user.User
	manager2 user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	employee := user.User{ID: servicetest.NewID(), Name: "Ana", Email: "ana@example.com", Role: user.RoleEmployee, IsActive: true}
	other := user.User{ID: servicetest.NewID(), Name: "Budi", Email: "budi@example.com", Role: user.RoleEmployee, IsActive: true}
	manager := user.User{ID: servicetest.NewID(), Name: "Maya", Email: "maya@example.com", Role: user.RoleManager, IsActive: true}
	manager2 := user.User{ID: servicetest.NewID(), Name: "Rudi", Email: "rudi@example.com", Role: user.RoleManager, IsActive: true}
	users := servicetest.NewUserRepo(employee, other, manager, manager2)
	tasks := servicetest.NewTaskRepo(users)

	local, err := storage.NewLocalStorage(t.TempDir(), "http://files.test/uploads")
	require.NoError(t, err)

	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(db.Close)

	clk := clock.NewFixed(time.Date(2026, time.March, 2, 9, 0, 0, 0, jakarta))

	return &fixture{
		svc:      NewTaskService(db, tasks, users, file.NewFileService(local, storage.UploadOptions{}), clk),
		db:       db,
		clock:    clk,
		tasks:    tasks,
		storage:  local,
		employee: employee,
		other:    other,
		manager:  manager,
		manager2: manager2,
	}
}

func (f *fixture) ctx(t *testing.T, u user.User) context.Context {
	return servicetest.ContextAs(t, u)
}

func (f *fixture) assigned(status task.Status) task.Task {
	return f.tasks.Put(task.Task{
		Title:       "Prepare slides",
		Description: "For the Monday sync",
		AssignedTo:  f.employee.ID,
		AssignedBy:  f.manager.ID,
		Priority:    task.PriorityMedium,
		Status:      status,
		DueDate:     f.clock.Now().Add(48 * time.Hour),
	})
}

func (f *fixture) storedFiles(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(f.storage.BasePath(), func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files = append(files, path)
		}
		return err
	})
	require.NoError(t, err)
	return files
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(f.ctx(t, f.manager), task.CreateTaskRequest{
		Title:       "Prepare slides",
		Description: "For the Monday sync",
		AssignedTo:  f.employee.ID,
		DueDate:     "2026-03-05",
		Tags:        []string{"sync"},
	})

	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, resp.Status)
	assert.Equal(t, task.PriorityMedium, resp.Priority)
	assert.Equal(t, "Ana", resp.AssignedTo.Name)
	assert.Equal(t, "Maya", resp.AssignedBy.Name)
	assert.True(t, resp.DueDate.Equal(time.Date(2026, 3, 5, 23, 59, 59, 0, jakarta)))
	assert.False(t, resp.IsOverdue)
}

func TestCreate_Rules(t *testing.T) {
	f := newFixture(t)
	req := task.CreateTaskRequest{Title: "x", Description: "y", DueDate: "2026-03-05"}

	req.AssignedTo = f.employee.ID
	_, err := f.svc.Create(f.ctx(t, f.employee), req)
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)

	req.AssignedTo = servicetest.NewID()
	_, err = f.svc.Create(f.ctx(t, f.manager), req)
	assert.ErrorIs(t, err, task.ErrAssigneeNotFound)

	req.AssignedTo = f.manager2.ID
	_, err = f.svc.Create(f.ctx(t, f.manager), req)
	assert.ErrorIs(t, err, task.ErrInvalidAssignee)

	assert.Equal(t, 0, f.tasks.Len())
}

func TestList_ScopedByRole(t *testing.T) {
	f := newFixture(t)
	f.assigned(task.StatusPending)
	f.tasks.Put(task.Task{Title: "Other", Description: "d", AssignedTo: f.other.ID, AssignedBy: f.manager2.ID, Status: task.StatusPending})

	mine, err := f.svc.List(f.ctx(t, f.employee), task.ListTaskFilter{Params: pagination.Params{Page: 1, Limit: 10}})
	require.NoError(t, err)
	require.Len(t, mine.Tasks, 1)
	assert.Equal(t, "Prepare slides", mine.Tasks[0].Title)

	assignedByMe, err := f.svc.List(f.ctx(t, f.manager2), task.ListTaskFilter{Params: pagination.Params{Page: 1, Limit: 10}})
	require.NoError(t, err)
	require.Len(t, assignedByMe.Tasks, 1)
	assert.Equal(t, "Other", assignedByMe.Tasks[0].Title)
}

func TestList_Filters(t *testing.T) {
	f := newFixture(t)
	f.assigned(task.StatusPending)
	f.assigned(task.StatusCompleted)
	f.tasks.Put(task.Task{Title: "Fix login bug", Description: "d", AssignedTo: f.employee.ID, AssignedBy: f.manager.ID, Status: task.StatusPending, Priority: task.PriorityUrgent})

	resp, err := f.svc.List(f.ctx(t, f.employee), task.ListTaskFilter{Status: "pending", Search: "LOGIN", Params: pagination.Params{Page: 1, Limit: 10}})
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, "Fix login bug", resp.Tasks[0].Title)

	resp, err = f.svc.List(f.ctx(t, f.employee), task.ListTaskFilter{Priority: "medium", Params: pagination.Params{Page: 1, Limit: 1}})
	require.NoError(t, err)
	assert.Len(t, resp.Tasks, 1)
	assert.Equal(t, pagination.Info{CurrentPage: 1, TotalPages: 2, TotalRecords: 2, HasMore: true}, resp.Pagination)
}

func TestGet_AccessRule(t *testing.T) {
	f := newFixture(t)
	tk := f.assigned(task.StatusPending)

	_, err := f.svc.Get(f.ctx(t, f.other), tk.ID)
	assert.ErrorIs(t, err, task.ErrForbidden)

	_, err = f.svc.Get(f.ctx(t, f.manager2), tk.ID)
	assert.ErrorIs(t, err, task.ErrForbidden)

	resp, err := f.svc.Get(f.ctx(t, f.manager), tk.ID)
	require.NoError(t, err)
	assert.Equal(t, tk.ID, resp.ID)

	_, err = f.svc.Get(f.ctx(t, f.manager), servicetest.NewID())
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestUpdateStatus_CompletedAt(t *testing.T) {
	f := newFixture(t)
	tk := f.assigned(task.StatusInProgress)
	ctx := f.ctx(t, f.employee)

	done, err := f.svc.UpdateStatus(ctx, task.UpdateStatusRequest{ID: tk.ID, Status: "completed"})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(f.clock.Now()))

	f.clock.Advance(time.Hour)
	reopened, err := f.svc.UpdateStatus(ctx, task.UpdateStatusRequest{ID: tk.ID, Status: "in-progress"})
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, reopened.Status)
	require.NotNil(t, reopened.CompletedAt)
	assert.True(t, reopened.CompletedAt.Equal(*done.CompletedAt))

	_, err = f.svc.UpdateStatus(f.ctx(t, f.other), task.UpdateStatusRequest{ID: tk.ID, Status: "review"})
	assert.ErrorIs(t, err, task.ErrForbidden)
}

func TestUpdate_PartialWithStatus(t *testing.T) {
	f := newFixture(t)
	tk := f.assigned(task.StatusPending)
	priority := "high"
	status := "completed"

	resp, err := f.svc.Update(f.ctx(t, f.manager), task.UpdateTaskRequest{ID: tk.ID, Priority: &priority, Status: &status})

	require.NoError(t, err)
	assert.Equal(t, task.PriorityHigh, resp.Priority)
	assert.Equal(t, "Prepare slides", resp.Title)
	assert.NotNil(t, resp.CompletedAt)
}

func TestOverdue(t *testing.T) {
	f := newFixture(t)
	tk := f.assigned(task.StatusPending)

	f.clock.Advance(72 * time.Hour)
	resp, err := f.svc.Get(f.ctx(t, f.employee), tk.ID)

	require.NoError(t, err)
	assert.True(t, resp.IsOverdue)
}

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	tk := f.assigned(task.StatusPending)

	resp, err := f.svc.AddComment(f.ctx(t, f.employee), task.AddCommentRequest{TaskID: tk.ID, Text: "  Started on it  "})

	require.NoError(t, err)
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, "Started on it", resp.Comments[0].Text)
	assert.Equal(t, "Ana", resp.Comments[0].User.Name)
	assert.Equal(t, 1, resp.CommentCount)

	_, err = f.svc.AddComment(f.ctx(t, f.other), task.AddCommentRequest{TaskID: tk.ID, Text: "hi"})
	assert.ErrorIs(t, err, task.ErrForbidden)
}

func TestAddAttachment(t *testing.T) {
	f := newFixture(t)
	tk := f.assigned(task.StatusPending)
	f.db.ExpectBegin()
	f.db.ExpectCommit()

	resp, err := f.svc.AddAttachment(f.ctx(t, f.employee), task.AddAttachmentRequest{
		TaskID:   tk.ID,
		FileName: "notes.pdf",
		Size:     8,
		File:     strings.NewReader("%PDF-1.4"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Attachments, 1)
	a := resp.Attachments[0]
	assert.Equal(t, "notes.pdf", a.FileName)
	assert.Equal(t, "application/pdf", a.MimeType)
	assert.True(t, strings.HasPrefix(a.FileURL, "http://files.test/uploads/tasks/"+tk.ID+"/"))
	assert.Equal(t, "Ana", a.UploadedBy.Name)
	assert.Len(t, f.storedFiles(t), 1)
	assert.NoError(t, f.db.ExpectationsWereMet())
}

func TestAddAttachment_ForbiddenStoresNothing(t *testing.T) {
	f := newFixture(t)
	tk := f.assigned(task.StatusPending)

	_, err := f.svc.AddAttachment(f.ctx(t, f.other), task.AddAttachmentRequest{
		TaskID:   tk.ID,
		FileName: "notes.pdf",
		File:     strings.NewReader("%PDF-1.4"),
	})

	assert.ErrorIs(t, err, task.ErrForbidden)
	assert.Empty(t, f.storedFiles(t))
}

func TestAddAttachment_SaveFailureRemovesFile(t *testing.T) {
	f := newFixture(t)
	tk := f.assigned(task.StatusPending)
	f.tasks.FailAddAttachment = errors.New("insert failed")
	f.db.ExpectBegin()
	f.db.ExpectRollback()

	_, err := f.svc.AddAttachment(f.ctx(t, f.employee), task.AddAttachmentRequest{
		TaskID:   tk.ID,
		FileName: "notes.pdf",
		File:     strings.NewReader("%PDF-1.4"),
	})

	require.Error(t, err)
	assert.Empty(t, f.storedFiles(t))
	assert.NoError(t, f.db.ExpectationsWereMet())
}

func TestDeleteAttachment_UploaderOrAssigner(t *testing.T) {
	f := newFixture(t)
	tk := f.assigned(task.StatusPending)
	f.db.ExpectBegin()
	f.db.ExpectCommit()
	resp, err := f.svc.AddAttachment(f.ctx(t, f.employee), task.AddAttachmentRequest{
		TaskID:   tk.ID,
		FileName: "notes.txt",
		File:     strings.NewReader("notes"),
	})
	require.NoError(t, err)
	attachmentID := resp.Attachments[0].ID

	err = f.svc.DeleteAttachment(f.ctx(t, f.other), tk.ID, attachmentID)
	assert.ErrorIs(t, err, task.ErrForbidden)

	require.NoError(t, f.svc.DeleteAttachment(f.ctx(t, f.manager), tk.ID, attachmentID))
	assert.Empty(t, f.storedFiles(t))

	err = f.svc.DeleteAttachment(f.ctx(t, f.manager), tk.ID, attachmentID)
	assert.ErrorIs(t, err, task.ErrAttachmentNotFound)
}

func TestDelete_AssignerOnly(t *testing.T) {
	f := newFixture(t)
	tk := f.assigned(task.StatusPending)
	f.db.ExpectBegin()
	f.db.ExpectCommit()
	_, err := f.svc.AddAttachment(f.ctx(t, f.employee), task.AddAttachmentRequest{
		TaskID:   tk.ID,
		FileName: "notes.txt",
		File:     strings.NewReader("notes"),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(f.ctx(t, f.employee), tk.ID), task.ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(f.ctx(t, f.manager2), tk.ID), task.ErrForbidden)

	require.NoError(t, f.svc.Delete(f.ctx(t, f.manager), tk.ID))
	assert.Equal(t, 0, f.tasks.Len())
	assert.Empty(t, f.storedFiles(t))
}

func TestDelete_FailedRowDeleteKeepsFiles(t *testing.T) {
	f := newFixture(t)
	tk := f.assigned(task.StatusPending)
	f.db.ExpectBegin()
	f.db.ExpectCommit()
	_, err := f.svc.AddAttachment(f.ctx(t, f.employee), task.AddAttachmentRequest{
		TaskID:   tk.ID,
		FileName: "notes.txt",
		File:     strings.NewReader("notes"),
	})
	require.NoError(t, err)
	f.tasks.FailDelete = errors.New("connection reset")

	err = f.svc.Delete(f.ctx(t, f.manager), tk.ID)

	require.Error(t, err)
	assert.Equal(t, 1, f.tasks.Len())
	assert.Len(t, f.storedFiles(t), 1)
}

func TestStats_ScopedByRole(t *testing.T) {
	f := newFixture(t)
	f.assigned(task.StatusPending)
	f.assigned(task.StatusPending)
	f.assigned(task.StatusCompleted)
	f.tasks.Put(task.Task{AssignedTo: f.other.ID, AssignedBy: f.manager2.ID, Status: task.StatusReview})

	resp, err := f.svc.Stats(f.ctx(t, f.employee))
	require.NoError(t, err)
	assert.Equal(t, task.StatsResponse{Pending: 2, Completed: 1, Total: 3}, resp)

	resp, err = f.svc.Stats(f.ctx(t, f.manager2))
	require.NoError(t, err)
	assert.Equal(t, task.StatsResponse{Review: 1, Total: 1}, resp)
}
