package user

import "errors"

// User-related errors
var (
	// Validation errors
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrUsernameTooLong  = errors.New("username cannot exceed 150 characters")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	// Business logic errors
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("a user with this email or username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user account is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWrongPassword      = errors.New("current password is incorrect")

	// Role errors
	ErrRoleNotFound  = errors.New("role not found")
	ErrInvalidRole   = errors.New("invalid role name")
	ErrNotStaff      = errors.New("staff privileges required")
	ErrDuplicateRole = errors.New("a role with this name already exists")
)
