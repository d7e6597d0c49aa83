package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tarea-pm/tarea/internal/models"
)

// RoleRepo provides access to the role table
type RoleRepo struct {
	db *DB
}

func scanRole(row interface{ Scan(...any) error }) (*models.Role, error) {
	role := &models.Role{}
	err := row.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return role, nil
}

// Create inserts a role
func (r *RoleRepo) Create(ctx context.Context, name, description string) (*models.Role, error) {
	id := newID()
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		"INSERT INTO roles (id, name, description) VALUES (?, ?, ?)"),
		id, name, description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetAll returns every role ordered by name
func (r *RoleRepo) GetAll(ctx context.Context) ([]*models.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM roles ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// GetByID retrieves a role by primary key
func (r *RoleRepo) GetByID(ctx context.Context, id string) (*models.Role, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(
		"SELECT id, name, description, created_at, updated_at FROM roles WHERE id = ?"), id)
	return scanRole(row)
}

// GetByName retrieves a role by its unique name
func (r *RoleRepo) GetByName(ctx context.Context, name string) (*models.Role, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(
		"SELECT id, name, description, created_at, updated_at FROM roles WHERE name = ?"), name)
	return scanRole(row)
}

// Update replaces a role's name and description
func (r *RoleRepo) Update(ctx context.Context, id, name, description string) error {
	result, err := r.db.ExecContext(ctx, r.db.rebind(
		`UPDATE roles SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`), name, description, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes a role; profiles referencing it fall back to NULL
func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		r.db.rebind("DELETE FROM roles WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}
