package report

import "errors"

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrDuplicateReport  = errors.New("you have already submitted a report for today")
	ErrNoAttendance     = errors.New("please mark your attendance first before submitting a report")
	ErrNotReportOwner   = errors.New("you are not authorized to modify this report")
	ErrEditWindowClosed = errors.New("you can only edit today's report")
)
