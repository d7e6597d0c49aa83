package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tarea-pm/tarea/internal/models"
)

// BoardRepo provides access to boards and their columns
type BoardRepo struct {
	db *DB
}

func scanBoard(row interface{ Scan(...any) error }) (*models.Board, error) {
	board := &models.Board{}
	err := row.Scan(&board.ID, &board.ProjectID, &board.Name, &board.Description,
		&board.CreatedAt, &board.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return board, nil
}

// Create inserts a board together with an initial set of columns
func (r *BoardRepo) Create(ctx context.Context, projectID, name, description string, columnNames []string) (*models.Board, error) {
	boardID := newID()
	if err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.db.rebind(
			"INSERT INTO boards (id, project_id, name, description) VALUES (?, ?, ?, ?)"),
			boardID, projectID, name, description,
		)
		if err != nil {
			return err
		}
		for pos, colName := range columnNames {
			_, err := tx.ExecContext(ctx, r.db.rebind(
				"INSERT INTO columns (id, board_id, name, position) VALUES (?, ?, ?, ?)"),
				newID(), boardID, colName, pos,
			)
			if err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, boardID)
}

// GetByID retrieves a board by primary key
func (r *BoardRepo) GetByID(ctx context.Context, id string) (*models.Board, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT id, project_id, name, description, created_at, updated_at
		 FROM boards WHERE id = ?`), id)
	return scanBoard(row)
}

// GetByProject returns a project's boards in creation order
func (r *BoardRepo) GetByProject(ctx context.Context, projectID string) ([]*models.Board, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		`SELECT id, project_id, name, description, created_at, updated_at
		 FROM boards WHERE project_id = ? ORDER BY created_at`), projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []*models.Board
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	return boards, rows.Err()
}

// Update replaces a board's name and description
func (r *BoardRepo) Update(ctx context.Context, id, name, description string) error {
	result, err := r.db.ExecContext(ctx, r.db.rebind(
		`UPDATE boards SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`), name, description, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes a board; tasks keep existing but lose their column placement
func (r *BoardRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		r.db.rebind("DELETE FROM boards WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// ============================================================================
// Columns
// ============================================================================

func scanColumn(row interface{ Scan(...any) error }) (*models.Column, error) {
	column := &models.Column{}
	err := row.Scan(&column.ID, &column.BoardID, &column.Name, &column.Position,
		&column.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return column, nil
}

// CreateColumn appends a column at the end of the board
func (r *BoardRepo) CreateColumn(ctx context.Context, boardID, name string) (*models.Column, error) {
	id := newID()
	if err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var position int
		err := tx.QueryRowContext(ctx, r.db.rebind(
			"SELECT COALESCE(MAX(position) + 1, 0) FROM columns WHERE board_id = ?"),
			boardID,
		).Scan(&position)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, r.db.rebind(
			"INSERT INTO columns (id, board_id, name, position) VALUES (?, ?, ?, ?)"),
			id, boardID, name, position,
		)
		return err
	}); err != nil {
		return nil, err
	}
	return r.GetColumnByID(ctx, id)
}

// GetColumnByID retrieves a column by primary key
func (r *BoardRepo) GetColumnByID(ctx context.Context, id string) (*models.Column, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(
		"SELECT id, board_id, name, position, created_at FROM columns WHERE id = ?"), id)
	return scanColumn(row)
}

// GetColumns returns a board's columns ordered by position
func (r *BoardRepo) GetColumns(ctx context.Context, boardID string) ([]*models.Column, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		`SELECT id, board_id, name, position, created_at
		 FROM columns WHERE board_id = ? ORDER BY position`), boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []*models.Column
	for rows.Next() {
		column, err := scanColumn(rows)
		if err != nil {
			return nil, err
		}
		columns = append(columns, column)
	}
	return columns, rows.Err()
}

// RenameColumn updates a column's display name
func (r *BoardRepo) RenameColumn(ctx context.Context, id, name string) error {
	result, err := r.db.ExecContext(ctx,
		r.db.rebind("UPDATE columns SET name = ? WHERE id = ?"), name, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// RepositionColumn moves a column to a new position, shifting its siblings
func (r *BoardRepo) RepositionColumn(ctx context.Context, id string, position int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var boardID string
		var current int
		err := tx.QueryRowContext(ctx, r.db.rebind(
			"SELECT board_id, position FROM columns WHERE id = ?"), id,
		).Scan(&boardID, &current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if position == current {
			return nil
		}

		if position < current {
			// Shift the columns in between one slot to the right
			_, err = tx.ExecContext(ctx, r.db.rebind(
				`UPDATE columns SET position = position + 1
				 WHERE board_id = ? AND position >= ? AND position < ?`),
				boardID, position, current)
		} else {
			_, err = tx.ExecContext(ctx, r.db.rebind(
				`UPDATE columns SET position = position - 1
				 WHERE board_id = ? AND position > ? AND position <= ?`),
				boardID, current, position)
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, r.db.rebind(
			"UPDATE columns SET position = ? WHERE id = ?"), position, id)
		return err
	})
}

// DeleteColumn removes a column and closes the position gap it leaves
func (r *BoardRepo) DeleteColumn(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var boardID string
		var position int
		err := tx.QueryRowContext(ctx, r.db.rebind(
			"SELECT board_id, position FROM columns WHERE id = ?"), id,
		).Scan(&boardID, &position)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		if _, err := tx.ExecContext(ctx,
			r.db.rebind("DELETE FROM columns WHERE id = ?"), id); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, r.db.rebind(
			"UPDATE columns SET position = position - 1 WHERE board_id = ? AND position > ?"),
			boardID, position)
		return err
	})
}

// MoveTask places a task into a column at the given position within it
func (r *BoardRepo) MoveTask(ctx context.Context, taskID, columnID string, position int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		// Make room in the target column
		_, err := tx.ExecContext(ctx, r.db.rebind(
			`UPDATE tasks SET position = position + 1
			 WHERE column_id = ? AND position >= ? AND id <> ?`),
			columnID, position, taskID)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, r.db.rebind(
			`UPDATE tasks SET column_id = ?, position = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`), columnID, position, taskID)
		if err != nil {
			return err
		}
		return requireRowsAffected(result)
	})
}

// GetTasksByColumn returns the tasks in a column ordered by position
func (r *BoardRepo) GetTasksByColumn(ctx context.Context, columnID string) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		"SELECT "+taskColumns+" FROM tasks WHERE column_id = ? ORDER BY position"), columnID)
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
