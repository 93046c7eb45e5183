package task

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/validator"
)

const (
	maxTitle       = 200
	maxDescription = 2000
	maxComment     = 1000
	maxTags        = 20
	maxTag         = 50
	maxSearch      = 100

	DefaultListLimit = 10
)

// DueDate is a due date given either as an RFC 3339 instant or as a bare
// YYYY-MM-DD day, which means the end of that day.
type DueDate struct {
	At    time.Time
	IsDay bool
}

func parseDueDate(s string) (DueDate, bool) {
	if t, ok := validator.IsValidDateTime(s); ok {
		return DueDate{At: t}, true
	}
	if d, ok := validator.IsValidDate(s); ok {
		return DueDate{At: d, IsDay: true}, true
	}
	return DueDate{}, false
}

// In resolves the due instant in loc.
func (d DueDate) In(loc *time.Location) time.Time {
	if !d.IsDay {
		return d.At
	}
	return time.Date(d.At.Year(), d.At.Month(), d.At.Day(), 23, 59, 59, 0, loc)
}

type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AssignedTo  string   `json:"assigned_to"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date"`
	Tags        []string `json:"tags"`

	// Parsed by Validate
	DueDateParsed DueDate `json:"-"`
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Title = strings.TrimSpace(r.Title)
	r.Tags = cleanTags(r.Tags)

	validateTitle(&errs, r.Title)
	validateDescription(&errs, r.Description)

	if validator.IsEmpty(r.AssignedTo) {
		errs.Add("assigned_to", "assigned_to is required")
	} else if !validator.IsValidUUID(r.AssignedTo) {
		errs.Add("assigned_to", "assigned_to must be a valid UUID")
	}

	if r.Priority != "" {
		validatePriority(&errs, r.Priority)
	}

	if validator.IsEmpty(r.DueDate) {
		errs.Add("due_date", "due_date is required")
	} else if d, ok := parseDueDate(r.DueDate); !ok {
		errs.Add("due_date", "due_date must be an ISO 8601 timestamp or YYYY-MM-DD")
	} else {
		r.DueDateParsed = d
	}

	validateTags(&errs, r.Tags)

	return errs.Err()
}

// UpdateTaskRequest is a partial update; nil fields are left unchanged.
type UpdateTaskRequest struct {
	ID          string    `json:"-"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`

	// Parsed by Validate
	DueDateParsed *DueDate `json:"-"`
}

func (r *UpdateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.Title != nil {
		trimmed := strings.TrimSpace(*r.Title)
		r.Title = &trimmed
		validateTitle(&errs, trimmed)
	}
	if r.Description != nil {
		validateDescription(&errs, *r.Description)
	}
	if r.Priority != nil {
		validatePriority(&errs, *r.Priority)
	}
	if r.DueDate != nil {
		if d, ok := parseDueDate(*r.DueDate); !ok {
			errs.Add("due_date", "due_date must be an ISO 8601 timestamp or YYYY-MM-DD")
		} else {
			r.DueDateParsed = &d
		}
	}
	if r.Status != nil {
		validateStatus(&errs, *r.Status)
	}
	if r.Tags != nil {
		cleaned := cleanTags(*r.Tags)
		r.Tags = &cleaned
		validateTags(&errs, cleaned)
	}

	return errs.Err()
}

// ApplyTo merges the set fields into t. A status change goes through
// SetStatus.
func (r UpdateTaskRequest) ApplyTo(t *Task, now time.Time, loc *time.Location) {
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.Priority != nil {
		t.Priority = Priority(*r.Priority)
	}
	if r.DueDateParsed != nil {
		t.DueDate = r.DueDateParsed.In(loc)
	}
	if r.Tags != nil {
		t.Tags = *r.Tags
	}
	if r.Status != nil {
		t.SetStatus(Status(*r.Status), now)
	}
}

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if validator.IsEmpty(r.Status) {
		errs.Add("status", "please provide status")
	} else {
		validateStatus(&errs, r.Status)
	}

	return errs.Err()
}

type AddCommentRequest struct {
	TaskID string `json:"-"`
	Text   string `json:"text"`
}

func (r *AddCommentRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Text = strings.TrimSpace(r.Text)

	if !validator.IsValidUUID(r.TaskID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.Text == "" {
		errs.Add("text", "please provide comment text")
	} else if validator.Len(r.Text) > maxComment {
		errs.Add("text", "comment cannot exceed 1000 characters")
	}

	return errs.Err()
}

type AddAttachmentRequest struct {
	TaskID   string
	FileName string
	Size     int64
	File     io.Reader
}

func (r *AddAttachmentRequest) Validate() error {
	if r.File == nil || strings.TrimSpace(r.FileName) == "" {
		return ErrFileRequired
	}

	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.TaskID) {
		errs.Add("id", "id must be a valid UUID")
	}
	return errs.Err()
}

type ListTaskFilter struct {
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Search   string `json:"search"`
	pagination.Params
}

func (f *ListTaskFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Search = strings.TrimSpace(f.Search)

	if f.Status != "" {
		validateStatus(&errs, f.Status)
	}
	if f.Priority != "" {
		validatePriority(&errs, f.Priority)
	}
	if validator.Len(f.Search) > maxSearch {
		errs.Add("search", "search cannot exceed 100 characters")
	}
	var pageErrs validator.ValidationErrors
	if err := f.Params.Validate(); errors.As(err, &pageErrs) {
		errs = append(errs, pageErrs...)
	}

	return errs.Err()
}

func validateTitle(errs *validator.ValidationErrors, title string) {
	if title == "" {
		errs.Add("title", "please provide task title")
	} else if validator.Len(title) > maxTitle {
		errs.Add("title", "title cannot exceed 200 characters")
	}
}

func validateDescription(errs *validator.ValidationErrors, description string) {
	if validator.IsEmpty(description) {
		errs.Add("description", "please provide task description")
	} else if validator.Len(description) > maxDescription {
		errs.Add("description", "description cannot exceed 2000 characters")
	}
}

func validatePriority(errs *validator.ValidationErrors, p string) {
	if !validator.IsInSlice(p, Priorities) {
		errs.Add("priority", "priority must be one of: low, medium, high, urgent")
	}
}

func validateStatus(errs *validator.ValidationErrors, s string) {
	if !validator.IsInSlice(s, Statuses) {
		errs.Add("status", "status must be one of: pending, in-progress, review, completed, cancelled")
	}
}

func validateTags(errs *validator.ValidationErrors, tags []string) {
	if len(tags) > maxTags {
		errs.Add("tags", "tags cannot have more than 20 entries")
		return
	}
	for _, tag := range tags {
		if validator.Len(tag) > maxTag {
			errs.Add("tags", "each tag cannot exceed 50 characters")
			return
		}
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

type CommentResponse struct {
	ID        string           `json:"id"`
	User      user.UserSummary `json:"user"`
	Text      string           `json:"text"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type AttachmentResponse struct {
	ID         string           `json:"id"`
	FileName   string           `json:"file_name"`
	FileURL    string           `json:"file_url"`
	FileSize   int64            `json:"file_size"`
	MimeType   string           `json:"mime_type"`
	UploadedBy user.UserSummary `json:"uploaded_by"`
	UploadedAt time.Time        `json:"uploaded_at"`
}

type TaskResponse struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	AssignedTo      user.UserSummary     `json:"assigned_to"`
	AssignedBy      user.UserSummary     `json:"assigned_by"`
	Priority        Priority             `json:"priority"`
	Status          Status               `json:"status"`
	DueDate         time.Time            `json:"due_date"`
	CompletedAt     *time.Time           `json:"completed_at"`
	Tags            []string             `json:"tags"`
	IsOverdue       bool                 `json:"is_overdue"`
	CommentCount    int                  `json:"comment_count"`
	AttachmentCount int                  `json:"attachment_count"`
	Comments        []CommentResponse    `json:"comments,omitempty"`
	Attachments     []AttachmentResponse `json:"attachments,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func NewTaskResponse(t Task, now time.Time) TaskResponse {
	resp := TaskResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		AssignedTo:      user.NewUserSummary(user.User{ID: t.AssignedTo, Name: t.AssigneeName, Email: t.AssigneeEmail}),
		AssignedBy:      user.NewUserSummary(user.User{ID: t.AssignedBy, Name: t.AssignerName, Email: t.AssignerEmail}),
		Priority:        t.Priority,
		Status:          t.Status,
		DueDate:         t.DueDate,
		CompletedAt:     t.CompletedAt,
		Tags:            t.Tags,
		IsOverdue:       t.IsOverdue(now),
		CommentCount:    t.CommentCount,
		AttachmentCount: t.AttachmentCount,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	for _, c := range t.Comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:        c.ID,
			User:      user.NewUserSummary(user.User{ID: c.UserID, Name: c.AuthorName, Email: c.AuthorEmail}),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	for _, a := range t.Attachments {
		resp.Attachments = append(resp.Attachments, AttachmentResponse{
			ID:         a.ID,
			FileName:   a.FileName,
			FileURL:    a.FileURL,
			FileSize:   a.FileSize,
			MimeType:   a.MimeType,
			UploadedBy: user.NewUserSummary(user.User{ID: a.UploadedBy, Name: a.UploaderName, Email: a.UploaderEmail}),
			UploadedAt: a.UploadedAt,
		})
	}
	return resp
}

type ListTaskResponse struct {
	Tasks      []TaskResponse  `json:"tasks"`
	Pagination pagination.Info `json:"pagination"`
}

func NewListTaskResponse(tasks []Task, p pagination.Params, total int64, now time.Time) ListTaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t, now))
	}
	return ListTaskResponse{Tasks: out, Pagination: pagination.NewInfo(p, total)}
}

type StatsResponse struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Review     int64 `json:"review"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Total      int64 `json:"total"`
}

func NewStatsResponse(counts StatusCounts) StatsResponse {
	resp := StatsResponse{
		Pending:    counts[StatusPending],
		InProgress: counts[StatusInProgress],
		Review:     counts[StatusReview],
		Completed:  counts[StatusCompleted],
		Cancelled:  counts[StatusCancelled],
	}
	resp.Total = resp.Pending + resp.InProgress + resp.Review + resp.Completed + resp.Cancelled
	return resp
}
