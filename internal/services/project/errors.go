package project

import "errors"

// Project-related errors
var (
	// Validation errors
	ErrNameTooShort    = errors.New("project name must be at least 3 characters")
	ErrNameTooLong     = errors.New("project name cannot exceed 200 characters")
	ErrInvalidStatus   = errors.New("invalid project status")
	ErrInvalidPriority = errors.New("invalid project priority")
	ErrInvalidDates    = errors.New("end date cannot be before start date")

	// Business logic errors
	ErrProjectNotFound = errors.New("project not found")
	ErrDuplicateName   = errors.New("you already have a project with this name")
	ErrNotMember       = errors.New("not a member of this project")
	ErrNotOwner        = errors.New("only the project creator can do this")
	ErrCreatorRemoval  = errors.New("the project creator cannot be removed")
	ErrUserNotFound    = errors.New("user not found")

	// Label errors
	ErrEmptyLabelName  = errors.New("label name cannot be empty")
	ErrLabelNotFound   = errors.New("label not found")
	ErrDuplicateLabel  = errors.New("a label with this name already exists in the project")
	ErrInvalidColorHex = errors.New("label color must be a hex value like #RRGGBB")
)
