package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/tarea-pm/tarea/internal/models"
)

// AuditRepo stores the account action trail
type AuditRepo struct {
	db *DB
}

// Insert records an audit entry. Failures here are reported but should not
// abort the action being audited; callers decide.
func (r *AuditRepo) Insert(ctx context.Context, entry *models.AuditLog) error {
	entry.ID = newID()
	if entry.Metadata == "" {
		entry.Metadata = "{}"
	}
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		`INSERT INTO audit_logs (id, user_id, action, ip_address, user_agent, metadata)
		 VALUES (?, ?, ?, ?, ?, ?)`),
		entry.ID, ptrToNullString(entry.UserID), entry.Action,
		entry.IPAddress, entry.UserAgent, entry.Metadata,
	)
	return err
}

// AuditFilter narrows audit listings
type AuditFilter struct {
	UserID string
	Action string
	Limit  int
}

// List returns audit entries, newest first
func (r *AuditRepo) List(ctx context.Context, filter AuditFilter) ([]*models.AuditLog, error) {
	query := `SELECT a.id, a.user_id, COALESCE(u.email, ''), a.action,
		a.ip_address, a.user_agent, a.metadata, a.timestamp
		FROM audit_logs a LEFT JOIN users u ON u.id = a.user_id`
	var args []any
	var where []string

	if filter.UserID != "" {
		where = append(where, "a.user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Action != "" {
		where = append(where, "a.action = ?")
		args = append(args, filter.Action)
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY a.timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		entry := &models.AuditLog{}
		var userID sql.NullString
		if err := rows.Scan(
			&entry.ID, &userID, &entry.UserEmail, &entry.Action,
			&entry.IPAddress, &entry.UserAgent, &entry.Metadata, &entry.Timestamp,
		); err != nil {
			return nil, err
		}
		entry.UserID = nullStringToPtr(userID)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// TokenRepo tracks blacklisted refresh tokens
type TokenRepo struct {
	db *DB
}

// Blacklist marks a refresh token ID as unusable until it expires anyway
func (r *TokenRepo) Blacklist(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		"INSERT INTO refresh_blacklist (token_id, expires_at) VALUES (?, ?)"),
		tokenID, expiresAt,
	)
	if isUniqueViolation(err) {
		// Already blacklisted; logout is idempotent
		return nil
	}
	return err
}

// IsBlacklisted reports whether a refresh token ID has been revoked
func (r *TokenRepo) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, r.db.rebind(
		"SELECT COUNT(*) FROM refresh_blacklist WHERE token_id = ?"), tokenID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeExpired drops blacklist rows whose tokens have expired on their own
func (r *TokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, r.db.rebind(
		"DELETE FROM refresh_blacklist WHERE expires_at < ?"), now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
