package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tarea-pm/tarea/internal/services/analytics"
	"github.com/tarea-pm/tarea/internal/services/board"
	"github.com/tarea-pm/tarea/internal/services/notification"
	"github.com/tarea-pm/tarea/internal/services/project"
	"github.com/tarea-pm/tarea/internal/services/task"
	"github.com/tarea-pm/tarea/internal/services/user"
	"github.com/tarea-pm/tarea/internal/services/worklog"
)

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

var notFoundErrors = []error{
	user.ErrUserNotFound, user.ErrRoleNotFound,
	project.ErrProjectNotFound, project.ErrLabelNotFound, project.ErrUserNotFound,
	board.ErrBoardNotFound, board.ErrColumnNotFound, board.ErrTaskNotFound, board.ErrProjectNotFound,
	task.ErrTaskNotFound, task.ErrProjectNotFound, task.ErrUserNotFound,
	worklog.ErrWorkLogNotFound, worklog.ErrTaskNotFound, worklog.ErrProjectNotFound,
	notification.ErrNotificationNotFound,
	analytics.ErrProjectNotFound,
}

var forbiddenErrors = []error{
	user.ErrNotStaff,
	project.ErrNotMember, project.ErrNotOwner,
	board.ErrNotMember,
	task.ErrNotMember,
	worklog.ErrNotMember, worklog.ErrNotOwnEntry,
	analytics.ErrNotMember,
}

var conflictErrors = []error{
	user.ErrDuplicateUser, user.ErrDuplicateRole,
	project.ErrDuplicateName, project.ErrDuplicateLabel,
	task.ErrDuplicateDependency,
}

var unauthorizedErrors = []error{
	user.ErrInvalidCredentials, user.ErrInvalidToken, user.ErrInactiveUser,
}

var badRequestErrors = []error{
	user.ErrEmptyEmail, user.ErrInvalidEmail, user.ErrEmptyUsername,
	user.ErrUsernameTooLong, user.ErrPasswordTooShort, user.ErrWrongPassword,
	user.ErrInvalidRole,
	project.ErrNameTooShort, project.ErrNameTooLong, project.ErrInvalidStatus,
	project.ErrInvalidPriority, project.ErrInvalidDates, project.ErrCreatorRemoval,
	project.ErrEmptyLabelName, project.ErrInvalidColorHex,
	board.ErrEmptyName, board.ErrInvalidPosition, board.ErrWrongProject,
	task.ErrEmptyTitle, task.ErrTitleTooLong, task.ErrInvalidStatus,
	task.ErrInvalidPriority, task.ErrInvalidDates, task.ErrInvalidPercent,
	task.ErrAssigneeNotMember, task.ErrParentWrongProject,
	task.ErrSelfDependency, task.ErrCrossProjectDep, task.ErrCircularDependency,
	worklog.ErrInvalidMinutes, worklog.ErrMissingDate,
}

// serviceError translates service sentinels into the JSON error envelope.
// Unrecognized errors are logged and become an opaque 500.
func serviceError(c echo.Context, err error) error {
	for _, known := range badRequestErrors {
		if errors.Is(err, known) {
			return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		}
	}
	for _, known := range unauthorizedErrors {
		if errors.Is(err, known) {
			return c.JSON(http.StatusUnauthorized, errorBody(err.Error()))
		}
	}
	for _, known := range forbiddenErrors {
		if errors.Is(err, known) {
			return c.JSON(http.StatusForbidden, errorBody(err.Error()))
		}
	}
	for _, known := range notFoundErrors {
		if errors.Is(err, known) {
			return c.JSON(http.StatusNotFound, errorBody(err.Error()))
		}
	}
	for _, known := range conflictErrors {
		if errors.Is(err, known) {
			return c.JSON(http.StatusConflict, errorBody(err.Error()))
		}
	}

	slog.Error("unhandled service error",
		"method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
	return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorBody(message))
}
