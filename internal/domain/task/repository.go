package task

import "context"

// ListFilter selects tasks. Exactly one of AssignedTo and AssignedBy is
// normally set, scoping the list to one user.
type ListFilter struct {
	AssignedTo string
	AssignedBy string
	Status     *Status
	Priority   *Priority
	// Search matches title or description, case-insensitive.
	Search string
	Limit  int
	Offset int
}

type TaskRepository interface {
	Create(ctx context.Context, task Task) (Task, error)
	// GetByID returns the task with join fields and counts, without
	// comments and attachments.
	GetByID(ctx context.Context, id string) (Task, error)
	Update(ctx context.Context, task Task) (Task, error)
	// Touch bumps updated_at.
	Touch(ctx context.Context, id string) error
	// Delete removes the task; comments and attachments cascade.
	Delete(ctx context.Context, id string) error
	// List returns tasks newest first with the total matching count.
	List(ctx context.Context, filter ListFilter) ([]Task, int64, error)
	CountByStatus(ctx context.Context, filter ListFilter) (StatusCounts, error)

	AddComment(ctx context.Context, comment Comment) (Comment, error)
	ListComments(ctx context.Context, taskID string) ([]Comment, error)

	AddAttachment(ctx context.Context, attachment Attachment) (Attachment, error)
	GetAttachment(ctx context.Context, taskID, attachmentID string) (Attachment, error)
	ListAttachments(ctx context.Context, taskID string) ([]Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error
}
