package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tarea-pm/tarea/internal/models"
)

// ProjectRepo provides access to projects, memberships and labels
type ProjectRepo struct {
	db *DB
}

const projectColumns = `id, name, description, status, priority, start_date,
	end_date, created_by, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	project := &models.Project{}
	var start, end sql.NullTime
	err := row.Scan(
		&project.ID, &project.Name, &project.Description, &project.Status,
		&project.Priority, &start, &end, &project.CreatedBy,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	project.StartDate = nullTimeToPtr(start)
	project.EndDate = nullTimeToPtr(end)
	return project, nil
}

// Create inserts a project and enrolls the creator as its first member
func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	project.ID = newID()
	if err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.db.rebind(
			`INSERT INTO projects (id, name, description, status, priority,
				start_date, end_date, created_by)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			project.ID, project.Name, project.Description, project.Status,
			project.Priority, ptrToNullTime(project.StartDate),
			ptrToNullTime(project.EndDate), project.CreatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}

		// The creator is always a member
		_, err = tx.ExecContext(ctx, r.db.rebind(
			"INSERT INTO project_members (project_id, user_id) VALUES (?, ?)"),
			project.ID, project.CreatedBy,
		)
		return err
	}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, project.ID)
}

// GetByID retrieves a project by primary key
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx,
		r.db.rebind("SELECT "+projectColumns+" FROM projects WHERE id = ?"), id)
	return scanProject(row)
}

// ProjectFilter narrows project listings
type ProjectFilter struct {
	MemberOf string // only projects this user created or belongs to
	Status   string
	Priority string
	MemberID string // only projects having this member
	Search   string // matches name or description
	Page     PageRequest
}

// List returns a page of projects, newest first
func (r *ProjectRepo) List(ctx context.Context, filter ProjectFilter) (*PageResult[*models.Project], error) {
	where := " WHERE 1=1"
	var args []any

	if filter.MemberOf != "" {
		where += ` AND (p.created_by = ? OR EXISTS (
			SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id = ?))`
		args = append(args, filter.MemberOf, filter.MemberOf)
	}
	if filter.Status != "" {
		where += " AND p.status = ?"
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		where += " AND p.priority = ?"
		args = append(args, filter.Priority)
	}
	if filter.MemberID != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id = ?)`
		args = append(args, filter.MemberID)
	}
	if filter.Search != "" {
		where += " AND (p.name LIKE ? OR p.description LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	result := &PageResult[*models.Project]{}
	err := r.db.QueryRowContext(ctx,
		r.db.rebind("SELECT COUNT(*) FROM projects p"+where), args...,
	).Scan(&result.Total)
	if err != nil {
		return nil, err
	}

	limit, offset := filter.Page.limitOffset()
	query := "SELECT " + prefixColumns("p", projectColumns) + " FROM projects p" +
		where + " ORDER BY p.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, project)
	}
	return result, rows.Err()
}

// Update replaces the mutable project fields
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	result, err := r.db.ExecContext(ctx, r.db.rebind(
		`UPDATE projects
		 SET name = ?, description = ?, status = ?, priority = ?,
			start_date = ?, end_date = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`),
		project.Name, project.Description, project.Status, project.Priority,
		ptrToNullTime(project.StartDate), ptrToNullTime(project.EndDate), project.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return requireRowsAffected(result)
}

// UpdateStatus sets only the project status
func (r *ProjectRepo) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx, r.db.rebind(
		"UPDATE projects SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"),
		status, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// UpdatePriority sets only the project priority
func (r *ProjectRepo) UpdatePriority(ctx context.Context, id, priority string) error {
	result, err := r.db.ExecContext(ctx, r.db.rebind(
		"UPDATE projects SET priority = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"),
		priority, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes a project and, via cascades, its boards, tasks and labels
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		r.db.rebind("DELETE FROM projects WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// AddMember enrolls a user; adding an existing member is a no-op
func (r *ProjectRepo) AddMember(ctx context.Context, projectID, userID string) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		"INSERT INTO project_members (project_id, user_id) VALUES (?, ?)"),
		projectID, userID,
	)
	if isUniqueViolation(err) {
		return nil
	}
	return err
}

// RemoveMember removes a user from the project member list
func (r *ProjectRepo) RemoveMember(ctx context.Context, projectID, userID string) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		"DELETE FROM project_members WHERE project_id = ? AND user_id = ?"),
		projectID, userID,
	)
	return err
}

// IsMember reports whether the user belongs to the project
func (r *ProjectRepo) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, r.db.rebind(
		"SELECT COUNT(*) FROM project_members WHERE project_id = ? AND user_id = ?"),
		projectID, userID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMembers returns the project's members ordered by join date
func (r *ProjectRepo) GetMembers(ctx context.Context, projectID string) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		`SELECT `+prefixColumns("u", userColumns)+`
		 FROM users u
		 JOIN project_members m ON m.user_id = u.id
		 WHERE m.project_id = ?
		 ORDER BY m.added_at`), projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, user)
	}
	return members, rows.Err()
}

// ============================================================================
// Labels
// ============================================================================

func scanLabel(row interface{ Scan(...any) error }) (*models.Label, error) {
	label := &models.Label{}
	err := row.Scan(&label.ID, &label.ProjectID, &label.Name, &label.Color,
		&label.CreatedAt, &label.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return label, nil
}

// CreateLabel inserts a project label
func (r *ProjectRepo) CreateLabel(ctx context.Context, projectID, name, color string) (*models.Label, error) {
	id := newID()
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		"INSERT INTO labels (id, project_id, name, color) VALUES (?, ?, ?, ?)"),
		id, projectID, name, color,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return r.GetLabelByID(ctx, id)
}

// GetLabelByID retrieves a label by primary key
func (r *ProjectRepo) GetLabelByID(ctx context.Context, id string) (*models.Label, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(
		"SELECT id, project_id, name, color, created_at, updated_at FROM labels WHERE id = ?"), id)
	return scanLabel(row)
}

// GetLabelsByProject returns a project's labels ordered by name
func (r *ProjectRepo) GetLabelsByProject(ctx context.Context, projectID string) ([]*models.Label, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		`SELECT id, project_id, name, color, created_at, updated_at
		 FROM labels WHERE project_id = ? ORDER BY name`), projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []*models.Label
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

// UpdateLabel replaces a label's name and color
func (r *ProjectRepo) UpdateLabel(ctx context.Context, id, name, color string) error {
	result, err := r.db.ExecContext(ctx, r.db.rebind(
		`UPDATE labels SET name = ?, color = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`), name, color, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return requireRowsAffected(result)
}

// DeleteLabel removes a label
func (r *ProjectRepo) DeleteLabel(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		r.db.rebind("DELETE FROM labels WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}
