package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tarea-pm/tarea/internal/models"
)

// NotificationRepo provides access to per-user notifications
type NotificationRepo struct {
	db *DB
}

const notificationColumns = `id, user_id, type, message, task_id, project_id,
	is_read, created_at`

func scanNotification(row interface{ Scan(...any) error }) (*models.Notification, error) {
	n := &models.Notification{}
	var taskID, projectID sql.NullString
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &taskID, &projectID,
		&n.Read, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	n.TaskID = nullStringToPtr(taskID)
	n.ProjectID = nullStringToPtr(projectID)
	return n, nil
}

// Create inserts a notification row
func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	n.ID = newID()
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		`INSERT INTO notifications (id, user_id, type, message, task_id, project_id)
		 VALUES (?, ?, ?, ?, ?, ?)`),
		n.ID, n.UserID, n.Type, n.Message,
		ptrToNullString(n.TaskID), ptrToNullString(n.ProjectID),
	)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx,
		r.db.rebind("SELECT "+notificationColumns+" FROM notifications WHERE id = ?"), n.ID)
	return scanNotification(row)
}

// ListByUser returns a user's notifications, newest first
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	query := "SELECT " + notificationColumns + " FROM notifications WHERE user_id = ?"
	args := []any{userID}
	if unreadOnly {
		query += " AND is_read = ?"
		args = append(args, false)
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flags one notification as read, scoped to its owner
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, r.db.rebind(
		"UPDATE notifications SET is_read = ? WHERE id = ? AND user_id = ?"),
		true, id, userID)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// MarkAllRead flags every unread notification of a user as read
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, r.db.rebind(
		"UPDATE notifications SET is_read = ? WHERE user_id = ? AND is_read = ?"),
		true, userID, false)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// UnreadCount returns the number of unread notifications for a user
func (r *NotificationRepo) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, r.db.rebind(
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = ?"),
		userID, false,
	).Scan(&count)
	return count, err
}
