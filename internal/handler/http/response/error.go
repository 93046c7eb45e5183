package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/task"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, auth.ErrRefreshTokenCookieNotFound):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, err.Error())

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound),
		errors.Is(err, attendance.ErrNotCheckedIn):
		NotFound(w, err.Error())
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrCheckOutBeforeIn):
		BadRequest(w, err.Error(), nil)

	// Report domain errors
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, report.ErrDuplicateReport):
		Conflict(w, err.Error())
	case errors.Is(err, report.ErrNotReportOwner):
		Forbidden(w, err.Error())
	case errors.Is(err, report.ErrNoAttendance),
		errors.Is(err, report.ErrEditWindowClosed):
		BadRequest(w, err.Error(), nil)

	// Task domain errors
	case errors.Is(err, task.ErrTaskNotFound),
		errors.Is(err, task.ErrAttachmentNotFound),
		errors.Is(err, task.ErrAssigneeNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, task.ErrForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, task.ErrInvalidAssignee),
		errors.Is(err, task.ErrFileRequired):
		BadRequest(w, err.Error(), nil)

	// Storage errors
	case errors.Is(err, storage.ErrFileTooLarge):
		PayloadTooLarge(w, err.Error())
	case errors.Is(err, storage.ErrFileTypeNotAllowed),
		errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
