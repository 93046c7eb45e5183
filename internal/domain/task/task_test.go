package task

import (
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taskID = "0190d7a8-5b3c-7def-8abc-0123456789ab"

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	assert.True(t, Task{DueDate: past, Status: StatusInProgress}.IsOverdue(now))
	assert.True(t, Task{DueDate: past, Status: StatusCancelled}.IsOverdue(now))
	assert.False(t, Task{DueDate: past, Status: StatusCompleted}.IsOverdue(now))
	assert.False(t, Task{DueDate: now.Add(time.Hour), Status: StatusPending}.IsOverdue(now))
}

func TestSetStatus_CompletedAt(t *testing.T) {
	first := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	later := first.Add(2 * time.Hour)
	tk := Task{Status: StatusPending}

	tk.SetStatus(StatusCompleted, first)
	require.NotNil(t, tk.CompletedAt)
	assert.Equal(t, first, *tk.CompletedAt)

	tk.SetStatus(StatusInProgress, later)
	require.NotNil(t, tk.CompletedAt)
	assert.Equal(t, first, *tk.CompletedAt)

	tk.SetStatus(StatusCompleted, later)
	assert.Equal(t, later, *tk.CompletedAt)
}

func TestCanAccess(t *testing.T) {
	tk := Task{AssignedTo: "emp", AssignedBy: "mgr"}

	assert.True(t, tk.CanAccess("emp"))
	assert.True(t, tk.CanAccess("mgr"))
	assert.False(t, tk.CanAccess("other"))
}

func TestCreateTaskRequest_Validate(t *testing.T) {
	req := CreateTaskRequest{
		Title:       "  Prepare Q2 report ",
		Description: "Collect numbers from finance",
		AssignedTo:  taskID,
		DueDate:     "2026-03-10",
		Tags:        []string{" finance ", ""},
	}

	require.NoError(t, req.Validate())
	assert.Equal(t, "Prepare Q2 report", req.Title)
	assert.Equal(t, []string{"finance"}, req.Tags)
	assert.True(t, req.DueDateParsed.IsDay)
}

func TestCreateTaskRequest_Invalid(t *testing.T) {
	req := CreateTaskRequest{
		Title:      strings.Repeat("t", 201),
		AssignedTo: "not-a-uuid",
		Priority:   "asap",
		DueDate:    "next week",
	}

	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	fields := verrs.ToMap()
	for _, f := range []string{"title", "description", "assigned_to", "priority", "due_date"} {
		assert.Contains(t, fields, f)
	}
}

func TestDueDate_In(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)

	day, ok := parseDueDate("2026-03-10")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, 0, wib), day.In(wib))

	instant, ok := parseDueDate("2026-03-10T08:00:00Z")
	require.True(t, ok)
	assert.True(t, instant.In(wib).Equal(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)))
}

func TestUpdateTaskRequest_ApplyTo(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	title := " New title "
	status := "completed"
	req := UpdateTaskRequest{ID: taskID, Title: &title, Status: &status}
	require.NoError(t, req.Validate())

	tk := Task{Title: "Old", Description: "keep", Status: StatusPending}
	req.ApplyTo(&tk, now, time.UTC)

	assert.Equal(t, "New title", tk.Title)
	assert.Equal(t, "keep", tk.Description)
	assert.Equal(t, StatusCompleted, tk.Status)
	require.NotNil(t, tk.CompletedAt)
}

func TestAddCommentRequest_Validate(t *testing.T) {
	req := AddCommentRequest{TaskID: taskID, Text: "   "}
	assert.Error(t, req.Validate())

	req.Text = strings.Repeat("c", 1001)
	assert.Error(t, req.Validate())

	req.Text = "  on it  "
	require.NoError(t, req.Validate())
	assert.Equal(t, "on it", req.Text)
}

func TestAddAttachmentRequest_RequiresFile(t *testing.T) {
	req := AddAttachmentRequest{TaskID: taskID}

	assert.ErrorIs(t, req.Validate(), ErrFileRequired)
}

func TestListTaskFilter_Validate(t *testing.T) {
	f := ListTaskFilter{Status: "done", Params: pagination.Params{Page: 0, Limit: 10}}

	var verrs validator.ValidationErrors
	require.ErrorAs(t, f.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "status")
	assert.Contains(t, verrs.ToMap(), "page")
}

func TestNewStatsResponse(t *testing.T) {
	resp := NewStatsResponse(StatusCounts{StatusPending: 2, StatusCompleted: 3})

	assert.Equal(t, StatsResponse{Pending: 2, Completed: 3, Total: 5}, resp)
}

func TestNewTaskResponse_Children(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tk := Task{
		ID:           taskID,
		AssignedTo:   "emp",
		AssigneeName: "ana",
		DueDate:      now.Add(-time.Minute),
		Status:       StatusReview,
		Comments:     []Comment{{ID: "c1", UserID: "emp", AuthorName: "ana", Text: "done"}},
		Attachments:  []Attachment{{ID: "a1", UploadedBy: "emp", UploaderName: "ana", FileName: "x.pdf"}},
	}

	resp := NewTaskResponse(tk, now)

	assert.True(t, resp.IsOverdue)
	assert.Equal(t, "A", resp.AssignedTo.ProfileInitial)
	assert.Equal(t, []string{}, resp.Tags)
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, "done", resp.Comments[0].Text)
	require.Len(t, resp.Attachments, 1)
	assert.Equal(t, "ana", resp.Attachments[0].UploadedBy.Name)
}
