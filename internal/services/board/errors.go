package board

import "errors"

// Board-related errors
var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidPosition = errors.New("invalid position: must be >= 0")

	ErrBoardNotFound   = errors.New("board not found")
	ErrColumnNotFound  = errors.New("column not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrNotMember       = errors.New("not a member of this project")
	ErrWrongProject    = errors.New("task belongs to a different project")
)
