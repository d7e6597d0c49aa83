package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tarea-pm/tarea/internal/models"
)

// WorkLogRepo provides access to time tracking entries
type WorkLogRepo struct {
	db *DB
}

const worklogColumns = `id, task_id, user_id, minutes, date_worked, note,
	created_at, updated_at`

func scanWorkLog(row interface{ Scan(...any) error }) (*models.WorkLog, error) {
	wl := &models.WorkLog{}
	err := row.Scan(&wl.ID, &wl.TaskID, &wl.UserID, &wl.Minutes, &wl.DateWorked,
		&wl.Note, &wl.CreatedAt, &wl.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return wl, nil
}

// Create inserts a worklog entry
func (r *WorkLogRepo) Create(ctx context.Context, wl *models.WorkLog) (*models.WorkLog, error) {
	wl.ID = newID()
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		`INSERT INTO worklogs (id, task_id, user_id, minutes, date_worked, note)
		 VALUES (?, ?, ?, ?, ?, ?)`),
		wl.ID, wl.TaskID, wl.UserID, wl.Minutes, wl.DateWorked, wl.Note,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, wl.ID)
}

// GetByID retrieves a worklog entry by primary key
func (r *WorkLogRepo) GetByID(ctx context.Context, id string) (*models.WorkLog, error) {
	row := r.db.QueryRowContext(ctx,
		r.db.rebind("SELECT "+worklogColumns+" FROM worklogs WHERE id = ?"), id)
	return scanWorkLog(row)
}

// Update replaces an entry's minutes, date and note
func (r *WorkLogRepo) Update(ctx context.Context, wl *models.WorkLog) error {
	result, err := r.db.ExecContext(ctx, r.db.rebind(
		`UPDATE worklogs
		 SET minutes = ?, date_worked = ?, note = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`),
		wl.Minutes, wl.DateWorked, wl.Note, wl.ID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes a worklog entry
func (r *WorkLogRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		r.db.rebind("DELETE FROM worklogs WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// ListByTask returns a task's worklog entries, newest work first
func (r *WorkLogRepo) ListByTask(ctx context.Context, taskID string) ([]*models.WorkLog, error) {
	return r.list(ctx, r.db.rebind(
		"SELECT "+worklogColumns+" FROM worklogs WHERE task_id = ? ORDER BY date_worked DESC"),
		taskID)
}

// ListByUser returns a user's worklog entries, newest work first
func (r *WorkLogRepo) ListByUser(ctx context.Context, userID string) ([]*models.WorkLog, error) {
	return r.list(ctx, r.db.rebind(
		"SELECT "+worklogColumns+" FROM worklogs WHERE user_id = ? ORDER BY date_worked DESC"),
		userID)
}

func (r *WorkLogRepo) list(ctx context.Context, query string, args ...any) ([]*models.WorkLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.WorkLog
	for rows.Next() {
		wl, err := scanWorkLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, wl)
	}
	return entries, rows.Err()
}

// TotalMinutesByTask sums logged minutes for one task
func (r *WorkLogRepo) TotalMinutesByTask(ctx context.Context, taskID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, r.db.rebind(
		"SELECT COALESCE(SUM(minutes), 0) FROM worklogs WHERE task_id = ?"), taskID,
	).Scan(&total)
	return total, err
}

// TotalMinutesByProject sums logged minutes across a project's tasks
func (r *WorkLogRepo) TotalMinutesByProject(ctx context.Context, projectID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT COALESCE(SUM(w.minutes), 0)
		 FROM worklogs w JOIN tasks t ON t.id = w.task_id
		 WHERE t.project_id = ?`), projectID,
	).Scan(&total)
	return total, err
}

// MinutesByUserSince sums a user's logged minutes for work on or after the
// given date
func (r *WorkLogRepo) MinutesByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, r.db.rebind(
		"SELECT COALESCE(SUM(minutes), 0) FROM worklogs WHERE user_id = ? AND date_worked >= ?"),
		userID, since,
	).Scan(&total)
	return total, err
}
