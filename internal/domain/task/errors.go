package task

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrAssigneeNotFound   = errors.New("assigned user not found")
	ErrInvalidAssignee    = errors.New("tasks can only be assigned to employees")
	ErrForbidden          = errors.New("not authorized to access this task")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrFileRequired       = errors.New("please upload a file")
)
