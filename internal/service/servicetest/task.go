package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/task"
)

// TaskRepo is an in-memory task.TaskRepository. Deleting a task drops its
// comments and attachments.
type TaskRepo struct {
	mu          sync.Mutex
	tasks       map[string]task.Task
	comments    map[string]task.Comment
	attachments map[string]task.Attachment
	users       *UserRepo

	// FailAddAttachment, when set, is returned by AddAttachment.
	FailAddAttachment error

	// FailDelete, when set, is returned by Delete.
	FailDelete error
}

func NewTaskRepo(users *UserRepo) *TaskRepo {
	return &TaskRepo{
		tasks:       make(map[string]task.Task),
		comments:    make(map[string]task.Comment),
		attachments: make(map[string]task.Attachment),
		users:       users,
	}
}

func (r *TaskRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// Put stores a task as-is, assigning an ID when missing.
func (r *TaskRepo) Put(t task.Task) task.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		t.ID = NewID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	r.tasks[t.ID] = t
	return r.join(t)
}

func (r *TaskRepo) userName(id string) (string, string) {
	if r.users == nil {
		return "", ""
	}
	u, err := r.users.GetByID(context.Background(), id)
	if err != nil {
		return "", ""
	}
	return u.Name, u.Email
}

func (r *TaskRepo) join(t task.Task) task.Task {
	t.AssigneeName, t.AssigneeEmail = r.userName(t.AssignedTo)
	t.AssignerName, t.AssignerEmail = r.userName(t.AssignedBy)
	t.CommentCount, t.AttachmentCount = 0, 0
	for _, c := range r.comments {
		if c.TaskID == t.ID {
			t.CommentCount++
		}
	}
	for _, a := range r.attachments {
		if a.TaskID == t.ID {
			t.AttachmentCount++
		}
	}
	return t
}

func (r *TaskRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = NewID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.tasks[t.ID] = t
	return r.join(t), nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id string) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return task.Task{}, task.ErrTaskNotFound
	}
	return r.join(t), nil
}

func (r *TaskRepo) Update(ctx context.Context, t task.Task) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tasks[t.ID]
	if !ok {
		return task.Task{}, task.ErrTaskNotFound
	}
	existing.Title = t.Title
	existing.Description = t.Description
	existing.Priority = t.Priority
	existing.Status = t.Status
	existing.DueDate = t.DueDate
	existing.CompletedAt = t.CompletedAt
	existing.Tags = t.Tags
	existing.UpdatedAt = time.Now()
	r.tasks[t.ID] = existing
	return r.join(existing), nil
}

func (r *TaskRepo) Touch(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return task.ErrTaskNotFound
	}
	t.UpdatedAt = time.Now()
	r.tasks[id] = t
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailDelete != nil {
		return r.FailDelete
	}
	if _, ok := r.tasks[id]; !ok {
		return task.ErrTaskNotFound
	}
	delete(r.tasks, id)
	for cid, c := range r.comments {
		if c.TaskID == id {
			delete(r.comments, cid)
		}
	}
	for aid, a := range r.attachments {
		if a.TaskID == id {
			delete(r.attachments, aid)
		}
	}
	return nil
}

func matches(t task.Task, f task.ListFilter) bool {
	switch {
	case f.AssignedTo != "" && t.AssignedTo != f.AssignedTo:
		return false
	case f.AssignedBy != "" && t.AssignedBy != f.AssignedBy:
		return false
	case f.Status != nil && t.Status != *f.Status:
		return false
	case f.Priority != nil && t.Priority != *f.Priority:
		return false
	}
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		return strings.Contains(strings.ToLower(t.Title), s) || strings.Contains(strings.ToLower(t.Description), s)
	}
	return true
}

func (r *TaskRepo) List(ctx context.Context, f task.ListFilter) ([]task.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []task.Task
	for _, t := range r.tasks {
		if matches(t, f) {
			all = append(all, r.join(t))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, f.Limit, f.Offset), int64(len(all)), nil
}

func (r *TaskRepo) CountByStatus(ctx context.Context, f task.ListFilter) (task.StatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	scope := task.ListFilter{AssignedTo: f.AssignedTo, AssignedBy: f.AssignedBy}
	counts := make(task.StatusCounts)
	for _, t := range r.tasks {
		if matches(t, scope) {
			counts[t.Status]++
		}
	}
	return counts, nil
}

func (r *TaskRepo) AddComment(ctx context.Context, c task.Comment) (task.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[c.TaskID]; !ok {
		return task.Comment{}, task.ErrTaskNotFound
	}
	c.ID = NewID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	c.AuthorName, c.AuthorEmail = r.userName(c.UserID)
	r.comments[c.ID] = c
	return c, nil
}

func (r *TaskRepo) ListComments(ctx context.Context, taskID string) ([]task.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []task.Comment
	for _, c := range r.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *TaskRepo) AddAttachment(ctx context.Context, a task.Attachment) (task.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAddAttachment != nil {
		return task.Attachment{}, r.FailAddAttachment
	}
	if _, ok := r.tasks[a.TaskID]; !ok {
		return task.Attachment{}, task.ErrTaskNotFound
	}
	a.ID = NewID()
	a.UploadedAt = time.Now()
	a.UploaderName, a.UploaderEmail = r.userName(a.UploadedBy)
	r.attachments[a.ID] = a
	return a, nil
}

func (r *TaskRepo) GetAttachment(ctx context.Context, taskID, attachmentID string) (task.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attachments[attachmentID]
	if !ok || a.TaskID != taskID {
		return task.Attachment{}, task.ErrAttachmentNotFound
	}
	return a, nil
}

func (r *TaskRepo) ListAttachments(ctx context.Context, taskID string) ([]task.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []task.Attachment
	for _, a := range r.attachments {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out, nil
}

func (r *TaskRepo) DeleteAttachment(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.attachments[id]; !ok {
		return task.ErrAttachmentNotFound
	}
	delete(r.attachments, id)
	return nil
}
