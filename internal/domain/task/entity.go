package task

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var Statuses = []string{
	string(StatusPending),
	string(StatusInProgress),
	string(StatusReview),
	string(StatusCompleted),
	string(StatusCancelled),
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []string{
	string(PriorityLow),
	string(PriorityMedium),
	string(PriorityHigh),
	string(PriorityUrgent),
}

type Task struct {
	ID          string
	Title       string
	Description string
	AssignedTo  string
	AssignedBy  string
	Priority    Priority
	Status      Status
	DueDate     time.Time
	CompletedAt *time.Time
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	AssigneeName    string
	AssigneeEmail   string
	AssignerName    string
	AssignerEmail   string
	CommentCount    int
	AttachmentCount int

	// Loaded by Get only
	Comments    []Comment
	Attachments []Attachment
}

// IsOverdue reports whether the due date has passed on an unfinished task.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate.Before(now) && t.Status != StatusCompleted
}

// CanAccess reports whether userID is the assignee or the assigner.
func (t Task) CanAccess(userID string) bool {
	return t.AssignedTo == userID || t.AssignedBy == userID
}

// SetStatus changes the status. Entering completed stamps CompletedAt;
// leaving it keeps the old stamp.
func (t *Task) SetStatus(status Status, now time.Time) {
	t.Status = status
	if status == StatusCompleted {
		t.CompletedAt = &now
	}
}

type Attachment struct {
	ID         string
	TaskID     string
	FileName   string
	FilePath   string
	FileURL    string
	FileSize   int64
	MimeType   string
	UploadedBy string
	UploadedAt time.Time

	// Join
	UploaderName  string
	UploaderEmail string
}

type Comment struct {
	ID        string
	TaskID    string
	UserID    string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Join
	AuthorName  string
	AuthorEmail string
}

// StatusCounts is the number of tasks per status.
type StatusCounts map[Status]int64
