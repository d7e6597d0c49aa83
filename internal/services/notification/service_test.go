package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/models"
	"github.com/tarea-pm/tarea/internal/testutil"
)

func seedNotifications(t *testing.T, repo *database.Repository, userID string, count int) []*models.Notification {
	t.Helper()
	var created []*models.Notification
	for i := 0; i < count; i++ {
		n, err := repo.CreateNotification(context.Background(), &models.Notification{
			UserID: userID, Type: models.NotificationTaskAssigned, Message: "assigned",
		})
		require.NoError(t, err)
		created = append(created, n)
	}
	return created
}

func TestInboxFlow(t *testing.T) {
	repo := testutil.OpenTestDB(t)
	svc := NewService(repo)
	ctx := context.Background()

	user := testutil.SeedUser(t, repo, "ada@example.com", "ada")
	seeded := seedNotifications(t, repo, user.ID, 3)

	count, err := svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, svc.MarkRead(ctx, user.ID, seeded[0].ID))

	unread, err := svc.List(ctx, user.ID, true, 0)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	all, err := svc.List(ctx, user.ID, false, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	marked, err := svc.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	repo := testutil.OpenTestDB(t)
	svc := NewService(repo)
	ctx := context.Background()

	owner := testutil.SeedUser(t, repo, "ada@example.com", "ada")
	other := testutil.SeedUser(t, repo, "bob@example.com", "bob")
	seeded := seedNotifications(t, repo, owner.ID, 1)

	assert.ErrorIs(t, svc.MarkRead(ctx, other.ID, seeded[0].ID), ErrNotificationNotFound)
	assert.ErrorIs(t, svc.MarkRead(ctx, owner.ID, "missing"), ErrNotificationNotFound)
}
