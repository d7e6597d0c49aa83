package database

import (
	"context"
	"time"

	"github.com/tarea-pm/tarea/internal/models"
)

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories behind wrapper methods so the
// overlapping CRUD names stay unambiguous.
type Repository struct {
	users         *UserRepo
	roles         *RoleRepo
	audit         *AuditRepo
	tokens        *TokenRepo
	projects      *ProjectRepo
	boards        *BoardRepo
	tasks         *TaskRepo
	worklogs      *WorkLogRepo
	notifications *NotificationRepo
}

// NewRepository creates a new Repository instance wrapping the given database
func NewRepository(db *DB) *Repository {
	return &Repository{
		users:         &UserRepo{db: db},
		roles:         &RoleRepo{db: db},
		audit:         &AuditRepo{db: db},
		tokens:        &TokenRepo{db: db},
		projects:      &ProjectRepo{db: db},
		boards:        &BoardRepo{db: db},
		tasks:         &TaskRepo{db: db},
		worklogs:      &WorkLogRepo{db: db},
		notifications: &NotificationRepo{db: db},
	}
}

// Users

func (r *Repository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	return r.users.Create(ctx, user)
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.users.GetByID(ctx, id)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.users.GetByEmail(ctx, email)
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.users.GetByUsername(ctx, username)
}

func (r *Repository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	return r.users.GetByLogin(ctx, login)
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.users.UpdateLastLogin(ctx, id, at)
}

func (r *Repository) SetUserActive(ctx context.Context, id string, active bool) error {
	return r.users.SetActive(ctx, id, active)
}

func (r *Repository) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	return r.users.UpdatePassword(ctx, id, passwordHash)
}

func (r *Repository) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return r.users.GetProfile(ctx, userID)
}

func (r *Repository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	return r.users.UpdateProfile(ctx, profile)
}

// Roles

func (r *Repository) CreateRole(ctx context.Context, name, description string) (*models.Role, error) {
	return r.roles.Create(ctx, name, description)
}

func (r *Repository) GetAllRoles(ctx context.Context) ([]*models.Role, error) {
	return r.roles.GetAll(ctx)
}

func (r *Repository) GetRoleByID(ctx context.Context, id string) (*models.Role, error) {
	return r.roles.GetByID(ctx, id)
}

func (r *Repository) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	return r.roles.GetByName(ctx, name)
}

func (r *Repository) UpdateRole(ctx context.Context, id, name, description string) error {
	return r.roles.Update(ctx, id, name, description)
}

func (r *Repository) DeleteRole(ctx context.Context, id string) error {
	return r.roles.Delete(ctx, id)
}

// Audit and tokens

func (r *Repository) InsertAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return r.audit.Insert(ctx, entry)
}

func (r *Repository) ListAuditLogs(ctx context.Context, filter AuditFilter) ([]*models.AuditLog, error) {
	return r.audit.List(ctx, filter)
}

func (r *Repository) BlacklistToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return r.tokens.Blacklist(ctx, tokenID, expiresAt)
}

func (r *Repository) IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	return r.tokens.IsBlacklisted(ctx, tokenID)
}

func (r *Repository) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	return r.tokens.PurgeExpired(ctx, now)
}

// Projects

func (r *Repository) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	return r.projects.Create(ctx, project)
}

func (r *Repository) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	return r.projects.GetByID(ctx, id)
}

func (r *Repository) ListProjects(ctx context.Context, filter ProjectFilter) (*PageResult[*models.Project], error) {
	return r.projects.List(ctx, filter)
}

func (r *Repository) UpdateProject(ctx context.Context, project *models.Project) error {
	return r.projects.Update(ctx, project)
}

func (r *Repository) UpdateProjectStatus(ctx context.Context, id, status string) error {
	return r.projects.UpdateStatus(ctx, id, status)
}

func (r *Repository) UpdateProjectPriority(ctx context.Context, id, priority string) error {
	return r.projects.UpdatePriority(ctx, id, priority)
}

func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	return r.projects.Delete(ctx, id)
}

func (r *Repository) AddProjectMember(ctx context.Context, projectID, userID string) error {
	return r.projects.AddMember(ctx, projectID, userID)
}

func (r *Repository) RemoveProjectMember(ctx context.Context, projectID, userID string) error {
	return r.projects.RemoveMember(ctx, projectID, userID)
}

func (r *Repository) IsProjectMember(ctx context.Context, projectID, userID string) (bool, error) {
	return r.projects.IsMember(ctx, projectID, userID)
}

func (r *Repository) GetProjectMembers(ctx context.Context, projectID string) ([]*models.User, error) {
	return r.projects.GetMembers(ctx, projectID)
}

// Labels

func (r *Repository) CreateLabel(ctx context.Context, projectID, name, color string) (*models.Label, error) {
	return r.projects.CreateLabel(ctx, projectID, name, color)
}

func (r *Repository) GetLabelByID(ctx context.Context, id string) (*models.Label, error) {
	return r.projects.GetLabelByID(ctx, id)
}

func (r *Repository) GetLabelsByProject(ctx context.Context, projectID string) ([]*models.Label, error) {
	return r.projects.GetLabelsByProject(ctx, projectID)
}

func (r *Repository) UpdateLabel(ctx context.Context, id, name, color string) error {
	return r.projects.UpdateLabel(ctx, id, name, color)
}

func (r *Repository) DeleteLabel(ctx context.Context, id string) error {
	return r.projects.DeleteLabel(ctx, id)
}

// Boards and columns

func (r *Repository) CreateBoard(ctx context.Context, projectID, name, description string, columnNames []string) (*models.Board, error) {
	return r.boards.Create(ctx, projectID, name, description, columnNames)
}

func (r *Repository) GetBoardByID(ctx context.Context, id string) (*models.Board, error) {
	return r.boards.GetByID(ctx, id)
}

func (r *Repository) GetBoardsByProject(ctx context.Context, projectID string) ([]*models.Board, error) {
	return r.boards.GetByProject(ctx, projectID)
}

func (r *Repository) UpdateBoard(ctx context.Context, id, name, description string) error {
	return r.boards.Update(ctx, id, name, description)
}

func (r *Repository) DeleteBoard(ctx context.Context, id string) error {
	return r.boards.Delete(ctx, id)
}

func (r *Repository) CreateColumn(ctx context.Context, boardID, name string) (*models.Column, error) {
	return r.boards.CreateColumn(ctx, boardID, name)
}

func (r *Repository) GetColumnByID(ctx context.Context, id string) (*models.Column, error) {
	return r.boards.GetColumnByID(ctx, id)
}

func (r *Repository) GetColumns(ctx context.Context, boardID string) ([]*models.Column, error) {
	return r.boards.GetColumns(ctx, boardID)
}

func (r *Repository) RenameColumn(ctx context.Context, id, name string) error {
	return r.boards.RenameColumn(ctx, id, name)
}

func (r *Repository) RepositionColumn(ctx context.Context, id string, position int) error {
	return r.boards.RepositionColumn(ctx, id, position)
}

func (r *Repository) DeleteColumn(ctx context.Context, id string) error {
	return r.boards.DeleteColumn(ctx, id)
}

func (r *Repository) MoveTaskToColumn(ctx context.Context, taskID, columnID string, position int) error {
	return r.boards.MoveTask(ctx, taskID, columnID, position)
}

func (r *Repository) GetTasksByColumn(ctx context.Context, columnID string) ([]*models.Task, error) {
	return r.boards.GetTasksByColumn(ctx, columnID)
}

// Tasks

func (r *Repository) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	return r.tasks.Create(ctx, task)
}

func (r *Repository) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	return r.tasks.GetByID(ctx, id)
}

func (r *Repository) ListTasks(ctx context.Context, filter TaskFilter) (*PageResult[*models.Task], error) {
	return r.tasks.List(ctx, filter)
}

func (r *Repository) UpdateTask(ctx context.Context, task *models.Task) error {
	return r.tasks.Update(ctx, task)
}

func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	return r.tasks.Delete(ctx, id)
}

func (r *Repository) AssignUserToTask(ctx context.Context, taskID, userID string) error {
	return r.tasks.AssignUser(ctx, taskID, userID)
}

func (r *Repository) UnassignUserFromTask(ctx context.Context, taskID, userID string) error {
	return r.tasks.UnassignUser(ctx, taskID, userID)
}

func (r *Repository) GetTaskAssignees(ctx context.Context, taskID string) ([]*models.User, error) {
	return r.tasks.GetAssignees(ctx, taskID)
}

func (r *Repository) AddTaskDependency(ctx context.Context, taskID, dependsOnID string) error {
	return r.tasks.AddDependency(ctx, taskID, dependsOnID)
}

func (r *Repository) RemoveTaskDependency(ctx context.Context, taskID, dependsOnID string) error {
	return r.tasks.RemoveDependency(ctx, taskID, dependsOnID)
}

func (r *Repository) GetTaskDependencies(ctx context.Context, taskID string) ([]*models.TaskRef, error) {
	return r.tasks.GetDependencies(ctx, taskID)
}

func (r *Repository) GetTaskDependencyIDs(ctx context.Context, taskID string) ([]string, error) {
	return r.tasks.GetDependencyIDs(ctx, taskID)
}

func (r *Repository) GetSubtasks(ctx context.Context, taskID string) ([]*models.TaskRef, error) {
	return r.tasks.GetSubtasks(ctx, taskID)
}

func (r *Repository) GetSubtaskCompletion(ctx context.Context, taskID string) ([]int, error) {
	return r.tasks.GetSubtaskCompletion(ctx, taskID)
}

func (r *Repository) GetTaskOverview(ctx context.Context, userID string, now time.Time) (*models.TaskOverview, error) {
	return r.tasks.Overview(ctx, userID, now)
}

func (r *Repository) TasksDueWithin(ctx context.Context, now time.Time, days int) ([]*models.Task, error) {
	return r.tasks.DueWithin(ctx, now, days)
}

func (r *Repository) GetProjectTaskStats(ctx context.Context, projectID string, now time.Time) (*models.ProjectStats, error) {
	return r.tasks.StatsByProject(ctx, projectID, now)
}

// Worklogs

func (r *Repository) CreateWorkLog(ctx context.Context, wl *models.WorkLog) (*models.WorkLog, error) {
	return r.worklogs.Create(ctx, wl)
}

func (r *Repository) GetWorkLogByID(ctx context.Context, id string) (*models.WorkLog, error) {
	return r.worklogs.GetByID(ctx, id)
}

func (r *Repository) UpdateWorkLog(ctx context.Context, wl *models.WorkLog) error {
	return r.worklogs.Update(ctx, wl)
}

func (r *Repository) DeleteWorkLog(ctx context.Context, id string) error {
	return r.worklogs.Delete(ctx, id)
}

func (r *Repository) GetWorkLogsByTask(ctx context.Context, taskID string) ([]*models.WorkLog, error) {
	return r.worklogs.ListByTask(ctx, taskID)
}

func (r *Repository) GetWorkLogsByUser(ctx context.Context, userID string) ([]*models.WorkLog, error) {
	return r.worklogs.ListByUser(ctx, userID)
}

func (r *Repository) TotalMinutesByTask(ctx context.Context, taskID string) (int, error) {
	return r.worklogs.TotalMinutesByTask(ctx, taskID)
}

func (r *Repository) TotalMinutesByProject(ctx context.Context, projectID string) (int, error) {
	return r.worklogs.TotalMinutesByProject(ctx, projectID)
}

func (r *Repository) MinutesByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	return r.worklogs.MinutesByUserSince(ctx, userID, since)
}

// Notifications

func (r *Repository) CreateNotification(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	return r.notifications.Create(ctx, n)
}

func (r *Repository) GetNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	return r.notifications.ListByUser(ctx, userID, unreadOnly, limit)
}

func (r *Repository) MarkNotificationRead(ctx context.Context, id, userID string) error {
	return r.notifications.MarkRead(ctx, id, userID)
}

func (r *Repository) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	return r.notifications.MarkAllRead(ctx, userID)
}

func (r *Repository) UnreadNotificationCount(ctx context.Context, userID string) (int, error) {
	return r.notifications.UnreadCount(ctx, userID)
}
