package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tarea-pm/tarea/internal/models"
)

// TaskRepo provides access to tasks, assignments and dependencies
type TaskRepo struct {
	db *DB
}

const taskColumns = `id, project_id, created_by, parent_task_id, column_id,
	position, title, description, status, priority, start_date, due_date,
	completion_percentage, completed_at, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	task := &models.Task{}
	var parentID, columnID sql.NullString
	var start, due, completed sql.NullTime
	err := row.Scan(
		&task.ID, &task.ProjectID, &task.CreatedBy, &parentID, &columnID,
		&task.Position, &task.Title, &task.Description, &task.Status,
		&task.Priority, &start, &due, &task.CompletionPercentage,
		&completed, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	task.ParentTaskID = nullStringToPtr(parentID)
	task.ColumnID = nullStringToPtr(columnID)
	task.StartDate = nullTimeToPtr(start)
	task.DueDate = nullTimeToPtr(due)
	task.CompletedAt = nullTimeToPtr(completed)
	return task, nil
}

// Create inserts a task
func (r *TaskRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.ID = newID()
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		`INSERT INTO tasks (id, project_id, created_by, parent_task_id, column_id,
			position, title, description, status, priority, start_date, due_date,
			completion_percentage)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		task.ID, task.ProjectID, task.CreatedBy,
		ptrToNullString(task.ParentTaskID), ptrToNullString(task.ColumnID),
		task.Position, task.Title, task.Description, task.Status, task.Priority,
		ptrToNullTime(task.StartDate), ptrToNullTime(task.DueDate),
		task.CompletionPercentage,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, task.ID)
}

// GetByID retrieves a task by primary key
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		r.db.rebind("SELECT "+taskColumns+" FROM tasks WHERE id = ?"), id)
	return scanTask(row)
}

// TaskFilter narrows task listings
type TaskFilter struct {
	VisibleTo  string // project member, assignee or creator
	ProjectID  string
	Status     string
	Priority   string
	DueBefore  *time.Time // due on or before this date
	AssignedTo string
	Search     string // matches title or description
	OrderBy    string // "priority" (default), "due_date", "created_at"
	Page       PageRequest
}

// List returns a page of tasks ordered by priority rank then due date,
// with tasks lacking a due date sorted last.
func (r *TaskRepo) List(ctx context.Context, filter TaskFilter) (*PageResult[*models.Task], error) {
	where := " WHERE 1=1"
	var args []any

	if filter.VisibleTo != "" {
		where += ` AND (t.created_by = ?
			OR EXISTS (SELECT 1 FROM task_assignees a WHERE a.task_id = t.id AND a.user_id = ?)
			OR EXISTS (SELECT 1 FROM project_members m WHERE m.project_id = t.project_id AND m.user_id = ?))`
		args = append(args, filter.VisibleTo, filter.VisibleTo, filter.VisibleTo)
	}
	if filter.ProjectID != "" {
		where += " AND t.project_id = ?"
		args = append(args, filter.ProjectID)
	}
	if filter.Status != "" {
		where += " AND t.status = ?"
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		where += " AND t.priority = ?"
		args = append(args, filter.Priority)
	}
	if filter.DueBefore != nil {
		where += " AND t.due_date IS NOT NULL AND t.due_date <= ?"
		args = append(args, *filter.DueBefore)
	}
	if filter.AssignedTo != "" {
		where += " AND EXISTS (SELECT 1 FROM task_assignees a WHERE a.task_id = t.id AND a.user_id = ?)"
		args = append(args, filter.AssignedTo)
	}
	if filter.Search != "" {
		where += " AND (t.title LIKE ? OR t.description LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	result := &PageResult[*models.Task]{}
	err := r.db.QueryRowContext(ctx,
		r.db.rebind("SELECT COUNT(*) FROM tasks t"+where), args...,
	).Scan(&result.Total)
	if err != nil {
		return nil, err
	}

	orderBy := taskOrderClause(filter.OrderBy)
	limit, offset := filter.Page.limitOffset()
	query := "SELECT " + prefixColumns("t", taskColumns) + " FROM tasks t" +
		where + orderBy + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, task)
	}
	return result, rows.Err()
}

func taskOrderClause(orderBy string) string {
	switch orderBy {
	case "due_date":
		return " ORDER BY (t.due_date IS NULL), t.due_date, t.created_at DESC"
	case "created_at":
		return " ORDER BY t.created_at DESC"
	default:
		// Priority rank first, then earliest due date, undated last
		return ` ORDER BY CASE t.priority
				WHEN 'critical' THEN 1
				WHEN 'high' THEN 2
				WHEN 'medium' THEN 3
				WHEN 'low' THEN 4
				ELSE 5 END,
			(t.due_date IS NULL), t.due_date`
	}
}

// Update replaces the mutable task fields
func (r *TaskRepo) Update(ctx context.Context, task *models.Task) error {
	result, err := r.db.ExecContext(ctx, r.db.rebind(
		`UPDATE tasks
		 SET title = ?, description = ?, status = ?, priority = ?,
			parent_task_id = ?, start_date = ?, due_date = ?,
			completion_percentage = ?, completed_at = ?,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`),
		task.Title, task.Description, task.Status, task.Priority,
		ptrToNullString(task.ParentTaskID), ptrToNullTime(task.StartDate),
		ptrToNullTime(task.DueDate), task.CompletionPercentage,
		ptrToNullTime(task.CompletedAt), task.ID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes a task; dependency and assignee rows cascade
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		r.db.rebind("DELETE FROM tasks WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// ============================================================================
// Assignees
// ============================================================================

// AssignUser adds a user to the task; re-assigning is a no-op
func (r *TaskRepo) AssignUser(ctx context.Context, taskID, userID string) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		"INSERT INTO task_assignees (task_id, user_id) VALUES (?, ?)"),
		taskID, userID,
	)
	if isUniqueViolation(err) {
		return nil
	}
	return err
}

// UnassignUser removes a user from the task
func (r *TaskRepo) UnassignUser(ctx context.Context, taskID, userID string) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		"DELETE FROM task_assignees WHERE task_id = ? AND user_id = ?"),
		taskID, userID,
	)
	return err
}

// GetAssignees returns the users assigned to a task
func (r *TaskRepo) GetAssignees(ctx context.Context, taskID string) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		`SELECT `+prefixColumns("u", userColumns)+`
		 FROM users u
		 JOIN task_assignees a ON a.user_id = u.id
		 WHERE a.task_id = ?
		 ORDER BY a.assigned_at`), taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ============================================================================
// Dependencies
// ============================================================================

// AddDependency records that taskID depends on dependsOnID
func (r *TaskRepo) AddDependency(ctx context.Context, taskID, dependsOnID string) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		"INSERT INTO task_dependencies (task_id, depends_on_id) VALUES (?, ?)"),
		taskID, dependsOnID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// RemoveDependency deletes a dependency edge if present
func (r *TaskRepo) RemoveDependency(ctx context.Context, taskID, dependsOnID string) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		"DELETE FROM task_dependencies WHERE task_id = ? AND depends_on_id = ?"),
		taskID, dependsOnID,
	)
	return err
}

// GetDependencies returns the tasks this task depends on
func (r *TaskRepo) GetDependencies(ctx context.Context, taskID string) ([]*models.TaskRef, error) {
	return r.queryTaskRefs(ctx, r.db.rebind(
		`SELECT t.id, t.title, t.status
		 FROM tasks t
		 JOIN task_dependencies d ON d.depends_on_id = t.id
		 WHERE d.task_id = ?
		 ORDER BY t.created_at`), taskID)
}

// GetDependencyIDs returns the IDs of direct dependencies of a task
func (r *TaskRepo) GetDependencyIDs(ctx context.Context, taskID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		"SELECT depends_on_id FROM task_dependencies WHERE task_id = ?"), taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetSubtasks returns the direct children of a task
func (r *TaskRepo) GetSubtasks(ctx context.Context, taskID string) ([]*models.TaskRef, error) {
	return r.queryTaskRefs(ctx, r.db.rebind(
		`SELECT id, title, status FROM tasks
		 WHERE parent_task_id = ? ORDER BY created_at`), taskID)
}

// GetSubtaskCompletion returns the completion percentages of direct subtasks
func (r *TaskRepo) GetSubtaskCompletion(ctx context.Context, taskID string) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		"SELECT completion_percentage FROM tasks WHERE parent_task_id = ?"), taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// DueWithin returns open tasks whose due date falls between today and
// today plus the given number of days, inclusive.
func (r *TaskRepo) DueWithin(ctx context.Context, now time.Time, days int) ([]*models.Task, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	until := today.AddDate(0, 0, days)

	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		`SELECT `+taskColumns+` FROM tasks
		 WHERE due_date IS NOT NULL AND due_date >= ? AND due_date <= ?
			AND status IN ('todo', 'in_progress')
		 ORDER BY due_date`), today, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) queryTaskRefs(ctx context.Context, query string, args ...any) ([]*models.TaskRef, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []*models.TaskRef
	for rows.Next() {
		ref := &models.TaskRef{}
		if err := rows.Scan(&ref.ID, &ref.Title, &ref.Status); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// ============================================================================
// Overview
// ============================================================================

// Overview aggregates task counts for a user's created or assigned tasks
func (r *TaskRepo) Overview(ctx context.Context, userID string, now time.Time) (*models.TaskOverview, error) {
	scope := `(t.created_by = ?
		OR EXISTS (SELECT 1 FROM task_assignees a WHERE a.task_id = t.id AND a.user_id = ?))`

	overview := &models.TaskOverview{StatusCounts: map[string]int{}}

	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		"SELECT t.status, COUNT(*) FROM tasks t WHERE "+scope+" GROUP BY t.status"),
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		overview.StatusCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	soon := today.AddDate(0, 0, models.DueSoonDays)

	err = r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT COUNT(*) FROM tasks t
		 WHERE `+scope+` AND t.due_date IS NOT NULL AND t.due_date < ?
			AND t.status IN ('todo', 'in_progress', 'in_review')`),
		userID, userID, today,
	).Scan(&overview.OverdueTasks)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT COUNT(*) FROM tasks t
		 WHERE `+scope+` AND t.due_date IS NOT NULL
			AND t.due_date >= ? AND t.due_date <= ?
			AND t.status IN ('todo', 'in_progress')`),
		userID, userID, today, soon,
	).Scan(&overview.DueSoon)
	if err != nil {
		return nil, err
	}

	return overview, nil
}

// StatsByProject aggregates task counts and completion for a project
func (r *TaskRepo) StatsByProject(ctx context.Context, projectID string, now time.Time) (*models.ProjectStats, error) {
	stats := &models.ProjectStats{
		ProjectID:       projectID,
		TasksByStatus:   map[string]int{},
		TasksByPriority: map[string]int{},
	}

	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		"SELECT status, COUNT(*) FROM tasks WHERE project_id = ? GROUP BY status"), projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.TasksByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := r.db.QueryContext(ctx, r.db.rebind(
		"SELECT priority, COUNT(*) FROM tasks WHERE project_id = ? GROUP BY priority"), projectID)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var priority string
		var count int
		if err := prows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		stats.TasksByPriority[priority] = count
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, r.db.rebind(
		"SELECT COALESCE(CAST(AVG(completion_percentage) AS INTEGER), 0) FROM tasks WHERE project_id = ?"),
		projectID,
	).Scan(&stats.AverageCompletion)
	if err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	err = r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT COUNT(*) FROM tasks
		 WHERE project_id = ? AND due_date IS NOT NULL AND due_date < ?
			AND status <> 'completed'`),
		projectID, today,
	).Scan(&stats.OverdueTasks)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
