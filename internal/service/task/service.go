package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/task"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/office-attendance-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/office-attendance-go/internal/service/file"
)

type TaskServiceImpl struct {
	db database.Conn
	task.TaskRepository
	user.UserRepository
	fileService file.FileService
	clock       clock.Clock
}

func NewTaskService(db database.Conn, taskRepository task.TaskRepository, userRepository user.UserRepository, fileService file.FileService, clk clock.Clock) task.TaskService {
	return &TaskServiceImpl{
		db:             db,
		TaskRepository: taskRepository,
		UserRepository: userRepository,
		fileService:    fileService,
		clock:          clk,
	}
}

// scope limits a listing to the actor's side of the assignment.
func scope(actor jwt.Actor) task.ListFilter {
	if actor.IsManager() {
		return task.ListFilter{AssignedBy: actor.UserID}
	}
	return task.ListFilter{AssignedTo: actor.UserID}
}

// accessibleTask loads id and checks the actor is its assignee or assigner.
func (s *TaskServiceImpl) accessibleTask(ctx context.Context, id string) (task.Task, jwt.Actor, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return task.Task{}, jwt.Actor{}, err
	}

	t, err := s.TaskRepository.GetByID(ctx, id)
	if err != nil {
		return task.Task{}, jwt.Actor{}, err
	}
	if !t.CanAccess(actor.UserID) {
		return task.Task{}, jwt.Actor{}, task.ErrForbidden
	}
	return t, actor, nil
}

// detailed loads the comments and attachments of t.
func (s *TaskServiceImpl) detailed(ctx context.Context, t task.Task) (task.TaskResponse, error) {
	comments, err := s.TaskRepository.ListComments(ctx, t.ID)
	if err != nil {
		return task.TaskResponse{}, err
	}
	attachments, err := s.TaskRepository.ListAttachments(ctx, t.ID)
	if err != nil {
		return task.TaskResponse{}, err
	}
	t.Comments = comments
	t.Attachments = attachments
	return task.NewTaskResponse(t, s.clock.Now()), nil
}

// Create implements task.TaskService.
func (s *TaskServiceImpl) Create(ctx context.Context, req task.CreateTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if !actor.IsManager() {
		return task.TaskResponse{}, user.ErrManagerAccessRequired
	}

	assignee, err := s.UserRepository.GetByID(ctx, req.AssignedTo)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return task.TaskResponse{}, task.ErrAssigneeNotFound
		}
		return task.TaskResponse{}, err
	}
	if !assignee.IsEmployee() {
		return task.TaskResponse{}, task.ErrInvalidAssignee
	}

	priority := task.PriorityMedium
	if req.Priority != "" {
		priority = task.Priority(req.Priority)
	}

	created, err := s.TaskRepository.Create(ctx, task.Task{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  assignee.ID,
		AssignedBy:  actor.UserID,
		Priority:    priority,
		Status:      task.StatusPending,
		DueDate:     req.DueDateParsed.In(s.clock.Location()),
		Tags:        req.Tags,
	})
	if err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task.NewTaskResponse(created, s.clock.Now()), nil
}

// List implements task.TaskService.
func (s *TaskServiceImpl) List(ctx context.Context, filter task.ListTaskFilter) (task.ListTaskResponse, error) {
	if err := filter.Validate(); err != nil {
		return task.ListTaskResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return task.ListTaskResponse{}, err
	}

	f := scope(actor)
	if filter.Status != "" {
		status := task.Status(filter.Status)
		f.Status = &status
	}
	if filter.Priority != "" {
		priority := task.Priority(filter.Priority)
		f.Priority = &priority
	}
	f.Search = filter.Search
	f.Limit = filter.Limit
	f.Offset = filter.Offset()

	tasks, total, err := s.TaskRepository.List(ctx, f)
	if err != nil {
		return task.ListTaskResponse{}, err
	}
	return task.NewListTaskResponse(tasks, filter.Params, total, s.clock.Now()), nil
}

// Get implements task.TaskService.
func (s *TaskServiceImpl) Get(ctx context.Context, id string) (task.TaskResponse, error) {
	t, _, err := s.accessibleTask(ctx, id)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return s.detailed(ctx, t)
}

// Update implements task.TaskService.
func (s *TaskServiceImpl) Update(ctx context.Context, req task.UpdateTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	t, _, err := s.accessibleTask(ctx, req.ID)
	if err != nil {
		return task.TaskResponse{}, err
	}

	req.ApplyTo(&t, s.clock.Now(), s.clock.Location())

	updated, err := s.TaskRepository.Update(ctx, t)
	if err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to update task: %w", err)
	}
	return s.detailed(ctx, updated)
}

// UpdateStatus implements task.TaskService.
func (s *TaskServiceImpl) UpdateStatus(ctx context.Context, req task.UpdateStatusRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	t, _, err := s.accessibleTask(ctx, req.ID)
	if err != nil {
		return task.TaskResponse{}, err
	}

	t.SetStatus(task.Status(req.Status), s.clock.Now())

	updated, err := s.TaskRepository.Update(ctx, t)
	if err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to update task status: %w", err)
	}
	return task.NewTaskResponse(updated, s.clock.Now()), nil
}

// AddComment implements task.TaskService.
func (s *TaskServiceImpl) AddComment(ctx context.Context, req task.AddCommentRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	t, actor, err := s.accessibleTask(ctx, req.TaskID)
	if err != nil {
		return task.TaskResponse{}, err
	}

	if _, err := s.TaskRepository.AddComment(ctx, task.Comment{
		TaskID: t.ID,
		UserID: actor.UserID,
		Text:   req.Text,
	}); err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to add comment: %w", err)
	}

	t, err = s.TaskRepository.GetByID(ctx, t.ID)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return s.detailed(ctx, t)
}

// AddAttachment implements task.TaskService.
func (s *TaskServiceImpl) AddAttachment(ctx context.Context, req task.AddAttachmentRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	// Access is checked before anything is written to storage.
	t, actor, err := s.accessibleTask(ctx, req.TaskID)
	if err != nil {
		return task.TaskResponse{}, err
	}

	stored, err := s.fileService.UploadTaskAttachment(ctx, t.ID, req.File, req.FileName, req.Size)
	if err != nil {
		return task.TaskResponse{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if _, err := s.TaskRepository.AddAttachment(txCtx, task.Attachment{
			TaskID:     t.ID,
			FileName:   stored.FileName,
			FilePath:   stored.Path,
			FileURL:    stored.URL,
			FileSize:   stored.Size,
			MimeType:   stored.MimeType,
			UploadedBy: actor.UserID,
		}); err != nil {
			return err
		}
		return s.TaskRepository.Touch(txCtx, t.ID)
	})
	if err != nil {
		s.removeFile(ctx, stored.Path)
		return task.TaskResponse{}, fmt.Errorf("failed to save attachment: %w", err)
	}

	t, err = s.TaskRepository.GetByID(ctx, t.ID)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return s.detailed(ctx, t)
}

// removeFile deletes a stored file, logging instead of failing.
func (s *TaskServiceImpl) removeFile(ctx context.Context, path string) {
	if err := s.fileService.DeleteFile(ctx, path); err != nil {
		slog.Warn("failed to delete stored file", "path", path, "error", err)
	}
}

// DeleteAttachment implements task.TaskService.
func (s *TaskServiceImpl) DeleteAttachment(ctx context.Context, taskID, attachmentID string) error {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return err
	}

	t, err := s.TaskRepository.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	a, err := s.TaskRepository.GetAttachment(ctx, t.ID, attachmentID)
	if err != nil {
		return err
	}
	if a.UploadedBy != actor.UserID && t.AssignedBy != actor.UserID {
		return task.ErrForbidden
	}

	if err := s.TaskRepository.DeleteAttachment(ctx, a.ID); err != nil {
		return err
	}
	s.removeFile(ctx, a.FilePath)
	return nil
}

// Delete implements task.TaskService.
func (s *TaskServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return err
	}

	t, err := s.TaskRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.AssignedBy != actor.UserID {
		return task.ErrForbidden
	}

	attachments, err := s.TaskRepository.ListAttachments(ctx, t.ID)
	if err != nil {
		return err
	}
	if err := s.TaskRepository.Delete(ctx, t.ID); err != nil {
		return err
	}
	for _, a := range attachments {
		s.removeFile(ctx, a.FilePath)
	}
	return nil
}

// Stats implements task.TaskService.
func (s *TaskServiceImpl) Stats(ctx context.Context) (task.StatsResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return task.StatsResponse{}, err
	}

	counts, err := s.TaskRepository.CountByStatus(ctx, scope(actor))
	if err != nil {
		return task.StatsResponse{}, err
	}
	return task.NewStatsResponse(counts), nil
}
