// Package analytics aggregates read-only reporting over projects and tasks.
package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/models"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotMember       = errors.New("not a member of this project")
)

// UserOverview combines the task overview with recent time tracking
type UserOverview struct {
	Tasks           models.TaskOverview
	MinutesThisWeek int
}

// Service defines reporting operations
type Service interface {
	ProjectStats(ctx context.Context, actorID, projectID string) (*models.ProjectStats, error)
	UserOverview(ctx context.Context, userID string) (*UserOverview, error)
}

type service struct {
	repo database.Store
}

// NewService creates a new analytics service
func NewService(repo database.Store) Service {
	return &service{repo: repo}
}

func (s *service) ProjectStats(ctx context.Context, actorID, projectID string) (*models.ProjectStats, error) {
	if _, err := s.repo.GetProjectByID(ctx, projectID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	isMember, err := s.repo.IsProjectMember(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	stats, err := s.repo.GetProjectTaskStats(ctx, projectID, time.Now())
	if err != nil {
		return nil, err
	}

	minutes, err := s.repo.TotalMinutesByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	stats.LoggedMinutes = minutes

	members, err := s.repo.GetProjectMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	stats.MemberCount = len(members)

	return stats, nil
}

func (s *service) UserOverview(ctx context.Context, userID string) (*UserOverview, error) {
	tasks, err := s.repo.GetTaskOverview(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}
	minutes, err := s.repo.MinutesByUserSince(ctx, userID, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	return &UserOverview{Tasks: *tasks, MinutesThisWeek: minutes}, nil
}
