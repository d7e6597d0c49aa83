package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tarea-pm/tarea/internal/models"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert or update breaks a unique constraint
var ErrDuplicate = errors.New("record already exists")

// UserRepo provides access to users and their profiles
type UserRepo struct {
	db *DB
}

const userColumns = `id, email, username, first_name, last_name, password_hash,
	is_active, is_staff, date_joined, last_login`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.FirstName, &user.LastName,
		&user.PasswordHash, &user.IsActive, &user.IsStaff, &user.DateJoined, &lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.LastLogin = nullTimeToPtr(lastLogin)
	return user, nil
}

// Create inserts a user together with an empty profile
func (r *UserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = newID()
	user.DateJoined = time.Now().UTC()
	if err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.db.rebind(
			`INSERT INTO users (id, email, username, first_name, last_name,
				password_hash, is_active, is_staff, date_joined)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			user.ID, user.Email, user.Username, user.FirstName, user.LastName,
			user.PasswordHash, user.IsActive, user.IsStaff, user.DateJoined,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}

		_, err = tx.ExecContext(ctx, r.db.rebind(
			"INSERT INTO profiles (user_id) VALUES (?)"), user.ID)
		return err
	}); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by primary key
func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		r.db.rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	return scanUser(row)
}

// GetByEmail retrieves a user by email address
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		r.db.rebind("SELECT "+userColumns+" FROM users WHERE email = ?"), email)
	return scanUser(row)
}

// GetByUsername retrieves a user by username
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		r.db.rebind("SELECT "+userColumns+" FROM users WHERE username = ?"), username)
	return scanUser(row)
}

// GetByLogin retrieves a user by username or email, in that order
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	user, err := r.GetByUsername(ctx, login)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return r.GetByEmail(ctx, login)
}

// UpdateLastLogin stamps the user's last successful login time
func (r *UserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		r.db.rebind("UPDATE users SET last_login = ? WHERE id = ?"), at, id)
	return err
}

// SetActive toggles the account's active flag
func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		r.db.rebind("UPDATE users SET is_active = ? WHERE id = ?"), active, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// UpdatePassword replaces the user's password hash
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		r.db.rebind("UPDATE users SET password_hash = ? WHERE id = ?"), passwordHash, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// GetProfile retrieves the profile attached to a user
func (r *UserRepo) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile := &models.Profile{}
	var roleID sql.NullString
	err := r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT user_id, bio, phone_number, timezone, department, position,
			location, preferred_language, role_id, created_at, updated_at
		 FROM profiles WHERE user_id = ?`), userID,
	).Scan(
		&profile.UserID, &profile.Bio, &profile.PhoneNumber, &profile.Timezone,
		&profile.Department, &profile.Position, &profile.Location,
		&profile.PreferredLanguage, &roleID, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	profile.RoleID = nullStringToPtr(roleID)
	return profile, nil
}

// UpdateProfile overwrites the mutable profile fields
func (r *UserRepo) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	result, err := r.db.ExecContext(ctx, r.db.rebind(
		`UPDATE profiles
		 SET bio = ?, phone_number = ?, timezone = ?, department = ?,
			position = ?, location = ?, preferred_language = ?, role_id = ?,
			updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ?`),
		profile.Bio, profile.PhoneNumber, profile.Timezone, profile.Department,
		profile.Position, profile.Location, profile.PreferredLanguage,
		ptrToNullString(profile.RoleID), profile.UserID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// requireRowsAffected maps zero-row updates and deletes to ErrNotFound
func requireRowsAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
