package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/task"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// taskSelect reads from a relation aliased t.
const taskSelect = `
	SELECT t.id, t.title, t.description, t.assigned_to, t.assigned_by, t.priority,
	       t.status, t.due_date, t.completed_at, t.tags, t.created_at, t.updated_at,
	       ae.name, ae.email, ar.name, ar.email,
	       (SELECT COUNT(*) FROM task_comments c WHERE c.task_id = t.id),
	       (SELECT COUNT(*) FROM task_attachments f WHERE f.task_id = t.id)
`

const taskJoins = `
	JOIN users ae ON ae.id = t.assigned_to
	JOIN users ar ON ar.id = t.assigned_by
`

type taskRepository struct {
	db database.Conn
}

func NewTaskRepository(db database.Conn) task.TaskRepository {
	return &taskRepository{db: db}
}

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	var comments, attachments int64
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.AssignedTo, &t.AssignedBy, &t.Priority,
		&t.Status, &t.DueDate, &t.CompletedAt, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
		&t.AssigneeName, &t.AssigneeEmail, &t.AssignerName, &t.AssignerEmail,
		&comments, &attachments,
	)
	t.CommentCount = int(comments)
	t.AttachmentCount = int(attachments)
	return t, err
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// Create implements task.TaskRepository.
func (r *taskRepository) Create(ctx context.Context, newTask task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return task.Task{}, fmt.Errorf("generate task id: %w", err)
	}

	query := `
		WITH t AS (
			INSERT INTO tasks (id, title, description, assigned_to, assigned_by, priority, status, due_date, tags)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING *
		)` + taskSelect + `FROM t` + taskJoins

	created, err := scanTask(q.QueryRow(ctx, query,
		id.String(),
		newTask.Title,
		newTask.Description,
		newTask.AssignedTo,
		newTask.AssignedBy,
		newTask.Priority,
		newTask.Status,
		newTask.DueDate,
		tagsOrEmpty(newTask.Tags),
	))
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// GetByID implements task.TaskRepository.
func (r *taskRepository) GetByID(ctx context.Context, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := taskSelect + `FROM tasks t` + taskJoins + `WHERE t.id = $1`

	t, err := scanTask(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// Update implements task.TaskRepository.
func (r *taskRepository) Update(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH t AS (
			UPDATE tasks
			SET title = $1, description = $2, priority = $3, status = $4,
			    due_date = $5, completed_at = $6, tags = $7, updated_at = NOW()
			WHERE id = $8
			RETURNING *
		)` + taskSelect + `FROM t` + taskJoins

	updated, err := scanTask(q.QueryRow(ctx, query,
		t.Title,
		t.Description,
		t.Priority,
		t.Status,
		t.DueDate,
		t.CompletedAt,
		tagsOrEmpty(t.Tags),
		t.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

// Touch implements task.TaskRepository.
func (r *taskRepository) Touch(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE tasks SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to touch task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// Delete implements task.TaskRepository.
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// buildTaskWhere renders the filter as a WHERE clause over alias t.
func buildTaskWhere(filter task.ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	argIdx := 1

	if filter.AssignedTo != "" {
		where += fmt.Sprintf(" AND t.assigned_to = $%d", argIdx)
		args = append(args, filter.AssignedTo)
		argIdx++
	}
	if filter.AssignedBy != "" {
		where += fmt.Sprintf(" AND t.assigned_by = $%d", argIdx)
		args = append(args, filter.AssignedBy)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND t.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Priority != nil {
		where += fmt.Sprintf(" AND t.priority = $%d", argIdx)
		args = append(args, *filter.Priority)
		argIdx++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (t.title ILIKE $%d OR t.description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+escapeLike(filter.Search)+"%")
	}
	return where, args
}

// escapeLike escapes LIKE wildcards so search input matches literally.
func escapeLike(s string) string {
	var out []rune
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

// List implements task.TaskRepository.
func (r *taskRepository) List(ctx context.Context, filter task.ListFilter) ([]task.Task, int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := buildTaskWhere(filter)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM tasks t`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	query := taskSelect + `FROM tasks t` + taskJoins + where +
		fmt.Sprintf(" ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := q.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// CountByStatus implements task.TaskRepository.
func (r *taskRepository) CountByStatus(ctx context.Context, filter task.ListFilter) (task.StatusCounts, error) {
	q := GetQuerier(ctx, r.db)

	where, args := buildTaskWhere(task.ListFilter{AssignedTo: filter.AssignedTo, AssignedBy: filter.AssignedBy})
	rows, err := q.Query(ctx, `SELECT t.status, COUNT(*) FROM tasks t`+where+` GROUP BY t.status`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	defer rows.Close()

	counts := make(task.StatusCounts)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan task count: %w", err)
		}
		counts[task.Status(status)] = n
	}
	return counts, rows.Err()
}

// AddComment implements task.TaskRepository.
func (r *taskRepository) AddComment(ctx context.Context, comment task.Comment) (task.Comment, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return task.Comment{}, fmt.Errorf("generate comment id: %w", err)
	}

	query := `
		WITH c AS (
			INSERT INTO task_comments (id, task_id, user_id, text)
			VALUES ($1, $2, $3, $4)
			RETURNING *
		)
		SELECT c.id, c.task_id, c.user_id, c.text, c.created_at, c.updated_at, u.name, u.email
		FROM c JOIN users u ON u.id = c.user_id
	`

	var created task.Comment
	err = q.QueryRow(ctx, query, id.String(), comment.TaskID, comment.UserID, comment.Text).Scan(
		&created.ID, &created.TaskID, &created.UserID, &created.Text,
		&created.CreatedAt, &created.UpdatedAt, &created.AuthorName, &created.AuthorEmail,
	)
	if err != nil {
		return task.Comment{}, fmt.Errorf("failed to add comment: %w", err)
	}
	return created, nil
}

// ListComments implements task.TaskRepository.
func (r *taskRepository) ListComments(ctx context.Context, taskID string) ([]task.Comment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT c.id, c.task_id, c.user_id, c.text, c.created_at, c.updated_at, u.name, u.email
		FROM task_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.task_id = $1
		ORDER BY c.created_at ASC
	`
	rows, err := q.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []task.Comment
	for rows.Next() {
		var c task.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Text, &c.CreatedAt, &c.UpdatedAt, &c.AuthorName, &c.AuthorEmail); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

const attachmentSelect = `
	SELECT f.id, f.task_id, f.file_name, f.file_path, f.file_url, f.file_size,
	       f.mime_type, f.uploaded_by, f.uploaded_at, u.name, u.email
`

func scanAttachment(row pgx.Row) (task.Attachment, error) {
	var a task.Attachment
	err := row.Scan(
		&a.ID, &a.TaskID, &a.FileName, &a.FilePath, &a.FileURL, &a.FileSize,
		&a.MimeType, &a.UploadedBy, &a.UploadedAt, &a.UploaderName, &a.UploaderEmail,
	)
	return a, err
}

// AddAttachment implements task.TaskRepository.
func (r *taskRepository) AddAttachment(ctx context.Context, a task.Attachment) (task.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return task.Attachment{}, fmt.Errorf("generate attachment id: %w", err)
	}

	query := `
		WITH f AS (
			INSERT INTO task_attachments (id, task_id, file_name, file_path, file_url, file_size, mime_type, uploaded_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)` + attachmentSelect + `FROM f JOIN users u ON u.id = f.uploaded_by`

	created, err := scanAttachment(q.QueryRow(ctx, query,
		id.String(), a.TaskID, a.FileName, a.FilePath, a.FileURL, a.FileSize, a.MimeType, a.UploadedBy,
	))
	if err != nil {
		return task.Attachment{}, fmt.Errorf("failed to add attachment: %w", err)
	}
	return created, nil
}

// GetAttachment implements task.TaskRepository.
func (r *taskRepository) GetAttachment(ctx context.Context, taskID, attachmentID string) (task.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	query := attachmentSelect + `
		FROM task_attachments f
		JOIN users u ON u.id = f.uploaded_by
		WHERE f.id = $1 AND f.task_id = $2
	`
	a, err := scanAttachment(q.QueryRow(ctx, query, attachmentID, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Attachment{}, task.ErrAttachmentNotFound
		}
		return task.Attachment{}, fmt.Errorf("failed to get attachment: %w", err)
	}
	return a, nil
}

// ListAttachments implements task.TaskRepository.
func (r *taskRepository) ListAttachments(ctx context.Context, taskID string) ([]task.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	query := attachmentSelect + `
		FROM task_attachments f
		JOIN users u ON u.id = f.uploaded_by
		WHERE f.task_id = $1
		ORDER BY f.uploaded_at ASC
	`
	rows, err := q.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []task.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

// DeleteAttachment implements task.TaskRepository.
func (r *taskRepository) DeleteAttachment(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM task_attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrAttachmentNotFound
	}
	return nil
}
