package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn  = errors.New("attendance already marked for today")
	ErrNotCheckedIn      = errors.New("no attendance record found for today, please check in first")
	ErrAlreadyCheckedOut = errors.New("already checked out for today")
	ErrCheckOutBeforeIn  = errors.New("check-out time cannot be before check-in time")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
