// Package notification exposes read access to the notification inbox.
// Rows are produced by the worker pool; this service only reads and
// flips the read flag.
package notification

import (
	"context"
	"errors"

	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/models"
)

// ErrNotificationNotFound covers both a missing row and one that belongs
// to another user.
var ErrNotificationNotFound = errors.New("notification not found")

const defaultListLimit = 50

// Service defines notification inbox operations
type Service interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type service struct {
	repo database.Store
}

// NewService creates a new notification service
func NewService(repo database.Store) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.GetNotificationsByUser(ctx, userID, unreadOnly, limit)
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.repo.MarkNotificationRead(ctx, notificationID, userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllNotificationsRead(ctx, userID)
}

func (s *service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.UnreadNotificationCount(ctx, userID)
}
