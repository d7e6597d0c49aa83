// Package board implements kanban boards: columns, ordering, and task
// placement within a project.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/models"
)

// Service defines all board-related business operations
type Service interface {
	// Boards
	CreateBoard(ctx context.Context, actorID, projectID, name, description string) (*models.Board, error)
	GetBoard(ctx context.Context, actorID, boardID string) (*BoardDetail, error)
	ListBoards(ctx context.Context, actorID, projectID string) ([]*models.Board, error)
	UpdateBoard(ctx context.Context, actorID, boardID, name, description string) error
	DeleteBoard(ctx context.Context, actorID, boardID string) error

	// Columns
	CreateColumn(ctx context.Context, actorID, boardID, name string) (*models.Column, error)
	RenameColumn(ctx context.Context, actorID, columnID, name string) error
	RepositionColumn(ctx context.Context, actorID, columnID string, position int) error
	DeleteColumn(ctx context.Context, actorID, columnID string) error

	// Task placement
	MoveTask(ctx context.Context, actorID, taskID, columnID string, position int) error
}

// BoardDetail is a board with its columns and each column's tasks in order
type BoardDetail struct {
	Board   models.Board
	Columns []ColumnDetail
}

type ColumnDetail struct {
	Column models.Column
	Tasks  []*models.Task
}

type service struct {
	repo database.Store
}

// NewService creates a new board service
func NewService(repo database.Store) Service {
	return &service{repo: repo}
}

func (s *service) CreateBoard(ctx context.Context, actorID, projectID, name, description string) (*models.Board, error) {
	if err := s.requireMember(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	board, err := s.repo.CreateBoard(ctx, projectID, name, description, models.DefaultBoardColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	return board, nil
}

func (s *service) GetBoard(ctx context.Context, actorID, boardID string) (*BoardDetail, error) {
	board, err := s.getMemberBoard(ctx, actorID, boardID)
	if err != nil {
		return nil, err
	}

	columns, err := s.repo.GetColumns(ctx, board.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}

	detail := &BoardDetail{Board: *board, Columns: make([]ColumnDetail, 0, len(columns))}
	for _, column := range columns {
		tasks, err := s.repo.GetTasksByColumn(ctx, column.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load tasks for column %s: %w", column.ID, err)
		}
		detail.Columns = append(detail.Columns, ColumnDetail{Column: *column, Tasks: tasks})
	}
	return detail, nil
}

func (s *service) ListBoards(ctx context.Context, actorID, projectID string) ([]*models.Board, error) {
	if err := s.requireMember(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	return s.repo.GetBoardsByProject(ctx, projectID)
}

func (s *service) UpdateBoard(ctx context.Context, actorID, boardID, name, description string) error {
	if _, err := s.getMemberBoard(ctx, actorID, boardID); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return s.repo.UpdateBoard(ctx, boardID, name, description)
}

func (s *service) DeleteBoard(ctx context.Context, actorID, boardID string) error {
	if _, err := s.getMemberBoard(ctx, actorID, boardID); err != nil {
		return err
	}
	return s.repo.DeleteBoard(ctx, boardID)
}

func (s *service) CreateColumn(ctx context.Context, actorID, boardID, name string) (*models.Column, error) {
	if _, err := s.getMemberBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	column, err := s.repo.CreateColumn(ctx, boardID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	return column, nil
}

func (s *service) RenameColumn(ctx context.Context, actorID, columnID, name string) error {
	if _, err := s.getMemberColumn(ctx, actorID, columnID); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return s.repo.RenameColumn(ctx, columnID, name)
}

func (s *service) RepositionColumn(ctx context.Context, actorID, columnID string, position int) error {
	if position < 0 {
		return ErrInvalidPosition
	}
	if _, err := s.getMemberColumn(ctx, actorID, columnID); err != nil {
		return err
	}
	return s.repo.RepositionColumn(ctx, columnID, position)
}

func (s *service) DeleteColumn(ctx context.Context, actorID, columnID string) error {
	if _, err := s.getMemberColumn(ctx, actorID, columnID); err != nil {
		return err
	}
	return s.repo.DeleteColumn(ctx, columnID)
}

// MoveTask places a task into a column at the given position. The task and
// the column's board must belong to the same project.
func (s *service) MoveTask(ctx context.Context, actorID, taskID, columnID string, position int) error {
	if position < 0 {
		return ErrInvalidPosition
	}

	column, err := s.getMemberColumn(ctx, actorID, columnID)
	if err != nil {
		return err
	}
	board, err := s.repo.GetBoardByID(ctx, column.BoardID)
	if err != nil {
		return ErrBoardNotFound
	}

	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	if task.ProjectID != board.ProjectID {
		return ErrWrongProject
	}

	return s.repo.MoveTaskToColumn(ctx, taskID, columnID, position)
}

func (s *service) getMemberBoard(ctx context.Context, actorID, boardID string) (*models.Board, error) {
	board, err := s.repo.GetBoardByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	if err := s.requireMember(ctx, actorID, board.ProjectID); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *service) getMemberColumn(ctx context.Context, actorID, columnID string) (*models.Column, error) {
	column, err := s.repo.GetColumnByID(ctx, columnID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	board, err := s.repo.GetBoardByID(ctx, column.BoardID)
	if err != nil {
		return nil, ErrBoardNotFound
	}
	if err := s.requireMember(ctx, actorID, board.ProjectID); err != nil {
		return nil, err
	}
	return column, nil
}

func (s *service) requireMember(ctx context.Context, actorID, projectID string) error {
	if _, err := s.repo.GetProjectByID(ctx, projectID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	isMember, err := s.repo.IsProjectMember(ctx, projectID, actorID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotMember
	}
	return nil
}
