package worklog

import "errors"

// Worklog-related errors
var (
	ErrInvalidMinutes = errors.New("minutes must be greater than zero")
	ErrMissingDate    = errors.New("date worked is required")

	ErrWorkLogNotFound = errors.New("work log not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrNotMember       = errors.New("not a member of this project")
	ErrNotOwnEntry     = errors.New("work log entries can only be changed by their author")
)
