package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarea-pm/tarea/internal/config"
	"github.com/tarea-pm/tarea/internal/services/project"
	"github.com/tarea-pm/tarea/internal/services/task"
	"github.com/tarea-pm/tarea/internal/services/user"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Engine: config.EngineSQLite,
			Path:   filepath.Join(t.TempDir(), "test.db"),
		},
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			AccessTTLMins:   30,
			RefreshTTLHours: 168,
		},
	}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, a.Close())
	})
	return a
}

// The container test exercises the full async path: a service action
// publishes an event and the worker pool turns it into a notification.
func TestAssignmentProducesNotification(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	owner, err := a.Services.Users.Register(ctx, user.RegisterRequest{
		Email: "owner@example.com", Username: "owner", Password: "correct horse",
	})
	require.NoError(t, err)
	dev, err := a.Services.Users.Register(ctx, user.RegisterRequest{
		Email: "dev@example.com", Username: "dev", Password: "correct horse",
	})
	require.NoError(t, err)

	proj, err := a.Services.Projects.CreateProject(ctx, project.CreateRequest{
		Name: "Apollo", CreatedBy: owner.ID,
	})
	require.NoError(t, err)
	require.NoError(t, a.Services.Projects.AddMember(ctx, owner.ID, proj.ID, dev.ID))

	created, err := a.Services.Tasks.CreateTask(ctx, task.CreateRequest{
		ProjectID: proj.ID, CreatedBy: owner.ID, Title: "wire the panel",
	})
	require.NoError(t, err)
	require.NoError(t, a.Services.Tasks.AssignUser(ctx, owner.ID, created.ID, dev.ID))

	// Delivery is asynchronous; poll until the workers catch up
	deadline := time.Now().Add(2 * time.Second)
	for {
		count, err := a.Services.Notifications.UnreadCount(ctx, dev.ID)
		require.NoError(t, err)
		if count >= 2 || time.Now().After(deadline) {
			// member_added plus task_assigned
			assert.Equal(t, 2, count)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}
