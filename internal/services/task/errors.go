package task

import "errors"

// Task-related errors
var (
	// Validation errors
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrTitleTooLong    = errors.New("task title cannot exceed 255 characters")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrInvalidDates    = errors.New("due date cannot be before start date")
	ErrInvalidPercent  = errors.New("completion percentage must be between 0 and 100")

	// Business logic errors
	ErrTaskNotFound       = errors.New("task not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotMember          = errors.New("not a member of this project")
	ErrAssigneeNotMember  = errors.New("assignee must be a project member")
	ErrParentWrongProject = errors.New("parent task belongs to a different project")

	// Dependency errors
	ErrSelfDependency      = errors.New("task cannot depend on itself")
	ErrCrossProjectDep     = errors.New("dependencies must stay within one project")
	ErrDuplicateDependency = errors.New("dependency already exists")
	ErrCircularDependency  = errors.New("circular dependency detected")
)
