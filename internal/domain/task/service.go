package task

import "context"

// TaskService manages tasks for the user in ctx. Managers see the tasks they
// assigned, employees the tasks assigned to them.
type TaskService interface {
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	List(ctx context.Context, filter ListTaskFilter) (ListTaskResponse, error)
	Get(ctx context.Context, id string) (TaskResponse, error)
	Update(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (TaskResponse, error)
	AddComment(ctx context.Context, req AddCommentRequest) (TaskResponse, error)
	AddAttachment(ctx context.Context, req AddAttachmentRequest) (TaskResponse, error)
	DeleteAttachment(ctx context.Context, taskID, attachmentID string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (StatsResponse, error)
}
