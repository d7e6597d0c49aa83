// Package worklog implements time tracking against tasks.
package worklog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/models"
)

// Service defines all time-tracking business operations
type Service interface {
	LogTime(ctx context.Context, req LogRequest) (*models.WorkLog, error)
	UpdateEntry(ctx context.Context, req UpdateRequest) (*models.WorkLog, error)
	DeleteEntry(ctx context.Context, actorID, worklogID string) error

	ListByTask(ctx context.Context, actorID, taskID string) ([]*models.WorkLog, error)
	ListByUser(ctx context.Context, userID string) ([]*models.WorkLog, error)
	TotalMinutesByTask(ctx context.Context, actorID, taskID string) (int, error)
}

// LogRequest encapsulates a new time entry
type LogRequest struct {
	TaskID     string
	UserID     string
	Minutes    int
	DateWorked time.Time
	Note       string
}

// UpdateRequest uses pointers for optional fields; nil means keep
type UpdateRequest struct {
	ActorID    string
	WorkLogID  string
	Minutes    *int
	DateWorked *time.Time
	Note       *string
}

type service struct {
	repo database.Store
}

// NewService creates a new worklog service
func NewService(repo database.Store) Service {
	return &service{repo: repo}
}

func (s *service) LogTime(ctx context.Context, req LogRequest) (*models.WorkLog, error) {
	if req.Minutes <= 0 {
		return nil, ErrInvalidMinutes
	}
	if req.DateWorked.IsZero() {
		return nil, ErrMissingDate
	}
	if _, err := s.getVisibleTask(ctx, req.UserID, req.TaskID); err != nil {
		return nil, err
	}

	entry, err := s.repo.CreateWorkLog(ctx, &models.WorkLog{
		TaskID:     req.TaskID,
		UserID:     req.UserID,
		Minutes:    req.Minutes,
		DateWorked: req.DateWorked,
		Note:       req.Note,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to log time: %w", err)
	}
	return entry, nil
}

func (s *service) UpdateEntry(ctx context.Context, req UpdateRequest) (*models.WorkLog, error) {
	entry, err := s.getOwnEntry(ctx, req.ActorID, req.WorkLogID)
	if err != nil {
		return nil, err
	}

	if req.Minutes != nil {
		if *req.Minutes <= 0 {
			return nil, ErrInvalidMinutes
		}
		entry.Minutes = *req.Minutes
	}
	if req.DateWorked != nil {
		entry.DateWorked = *req.DateWorked
	}
	if req.Note != nil {
		entry.Note = *req.Note
	}

	if err := s.repo.UpdateWorkLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update work log: %w", err)
	}
	return entry, nil
}

func (s *service) DeleteEntry(ctx context.Context, actorID, worklogID string) error {
	if _, err := s.getOwnEntry(ctx, actorID, worklogID); err != nil {
		return err
	}
	return s.repo.DeleteWorkLog(ctx, worklogID)
}

func (s *service) ListByTask(ctx context.Context, actorID, taskID string) ([]*models.WorkLog, error) {
	if _, err := s.getVisibleTask(ctx, actorID, taskID); err != nil {
		return nil, err
	}
	return s.repo.GetWorkLogsByTask(ctx, taskID)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]*models.WorkLog, error) {
	return s.repo.GetWorkLogsByUser(ctx, userID)
}

func (s *service) TotalMinutesByTask(ctx context.Context, actorID, taskID string) (int, error) {
	if _, err := s.getVisibleTask(ctx, actorID, taskID); err != nil {
		return 0, err
	}
	return s.repo.TotalMinutesByTask(ctx, taskID)
}

func (s *service) getOwnEntry(ctx context.Context, actorID, worklogID string) (*models.WorkLog, error) {
	entry, err := s.repo.GetWorkLogByID(ctx, worklogID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrWorkLogNotFound
		}
		return nil, err
	}
	if entry.UserID != actorID {
		return nil, ErrNotOwnEntry
	}
	return entry, nil
}

func (s *service) getVisibleTask(ctx context.Context, actorID, taskID string) (*models.Task, error) {
	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	isMember, err := s.repo.IsProjectMember(ctx, task.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}
	return task, nil
}
