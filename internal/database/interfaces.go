// Package database defines repository interfaces for data access
package database

import (
	"context"
	"time"

	"github.com/tarea-pm/tarea/internal/models"
)

// Store defines the unified interface for all data operations needed by the
// service layer. *Repository implements it; tests may substitute mocks.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetUserActive(ctx context.Context, id string, active bool) error
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error

	// Roles
	CreateRole(ctx context.Context, name, description string) (*models.Role, error)
	GetAllRoles(ctx context.Context) ([]*models.Role, error)
	GetRoleByID(ctx context.Context, id string) (*models.Role, error)
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
	UpdateRole(ctx context.Context, id, name, description string) error
	DeleteRole(ctx context.Context, id string) error

	// Audit trail and token blacklist
	InsertAuditLog(ctx context.Context, entry *models.AuditLog) error
	ListAuditLogs(ctx context.Context, filter AuditFilter) ([]*models.AuditLog, error)
	BlacklistToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
	PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error)

	// Projects
	CreateProject(ctx context.Context, project *models.Project) (*models.Project, error)
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context, filter ProjectFilter) (*PageResult[*models.Project], error)
	UpdateProject(ctx context.Context, project *models.Project) error
	UpdateProjectStatus(ctx context.Context, id, status string) error
	UpdateProjectPriority(ctx context.Context, id, priority string) error
	DeleteProject(ctx context.Context, id string) error
	AddProjectMember(ctx context.Context, projectID, userID string) error
	RemoveProjectMember(ctx context.Context, projectID, userID string) error
	IsProjectMember(ctx context.Context, projectID, userID string) (bool, error)
	GetProjectMembers(ctx context.Context, projectID string) ([]*models.User, error)

	// Labels
	CreateLabel(ctx context.Context, projectID, name, color string) (*models.Label, error)
	GetLabelByID(ctx context.Context, id string) (*models.Label, error)
	GetLabelsByProject(ctx context.Context, projectID string) ([]*models.Label, error)
	UpdateLabel(ctx context.Context, id, name, color string) error
	DeleteLabel(ctx context.Context, id string) error

	// Boards and columns
	CreateBoard(ctx context.Context, projectID, name, description string, columnNames []string) (*models.Board, error)
	GetBoardByID(ctx context.Context, id string) (*models.Board, error)
	GetBoardsByProject(ctx context.Context, projectID string) ([]*models.Board, error)
	UpdateBoard(ctx context.Context, id, name, description string) error
	DeleteBoard(ctx context.Context, id string) error
	CreateColumn(ctx context.Context, boardID, name string) (*models.Column, error)
	GetColumnByID(ctx context.Context, id string) (*models.Column, error)
	GetColumns(ctx context.Context, boardID string) ([]*models.Column, error)
	RenameColumn(ctx context.Context, id, name string) error
	RepositionColumn(ctx context.Context, id string, position int) error
	DeleteColumn(ctx context.Context, id string) error
	MoveTaskToColumn(ctx context.Context, taskID, columnID string, position int) error
	GetTasksByColumn(ctx context.Context, columnID string) ([]*models.Task, error)

	// Tasks
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) (*PageResult[*models.Task], error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error
	AssignUserToTask(ctx context.Context, taskID, userID string) error
	UnassignUserFromTask(ctx context.Context, taskID, userID string) error
	GetTaskAssignees(ctx context.Context, taskID string) ([]*models.User, error)
	AddTaskDependency(ctx context.Context, taskID, dependsOnID string) error
	RemoveTaskDependency(ctx context.Context, taskID, dependsOnID string) error
	GetTaskDependencies(ctx context.Context, taskID string) ([]*models.TaskRef, error)
	GetTaskDependencyIDs(ctx context.Context, taskID string) ([]string, error)
	GetSubtasks(ctx context.Context, taskID string) ([]*models.TaskRef, error)
	GetSubtaskCompletion(ctx context.Context, taskID string) ([]int, error)
	GetTaskOverview(ctx context.Context, userID string, now time.Time) (*models.TaskOverview, error)
	TasksDueWithin(ctx context.Context, now time.Time, days int) ([]*models.Task, error)
	GetProjectTaskStats(ctx context.Context, projectID string, now time.Time) (*models.ProjectStats, error)

	// Worklogs
	CreateWorkLog(ctx context.Context, wl *models.WorkLog) (*models.WorkLog, error)
	GetWorkLogByID(ctx context.Context, id string) (*models.WorkLog, error)
	UpdateWorkLog(ctx context.Context, wl *models.WorkLog) error
	DeleteWorkLog(ctx context.Context, id string) error
	GetWorkLogsByTask(ctx context.Context, taskID string) ([]*models.WorkLog, error)
	GetWorkLogsByUser(ctx context.Context, userID string) ([]*models.WorkLog, error)
	TotalMinutesByTask(ctx context.Context, taskID string) (int, error)
	TotalMinutesByProject(ctx context.Context, projectID string) (int, error)
	MinutesByUserSince(ctx context.Context, userID string, since time.Time) (int, error)

	// Notifications
	CreateNotification(ctx context.Context, n *models.Notification) (*models.Notification, error)
	GetNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)
	UnreadNotificationCount(ctx context.Context, userID string) (int, error)
}

// Compile-time check that Repository satisfies Store
var _ Store = (*Repository)(nil)
