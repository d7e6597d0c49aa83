package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarea-pm/tarea/internal/models"
	"github.com/tarea-pm/tarea/internal/testutil"
)

func TestProjectStats(t *testing.T) {
	repo := testutil.OpenTestDB(t)
	svc := NewService(repo)
	ctx := context.Background()

	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	outsider := testutil.SeedUser(t, repo, "out@example.com", "out")
	project := testutil.SeedProject(t, repo, owner, "Apollo")

	done := testutil.SeedTask(t, repo, project, owner, "done")
	done.Status = models.TaskStatusCompleted
	done.CompletionPercentage = 100
	require.NoError(t, repo.UpdateTask(ctx, done))

	late := testutil.SeedTask(t, repo, project, owner, "late")
	past := time.Now().AddDate(0, 0, -2)
	late.DueDate = &past
	require.NoError(t, repo.UpdateTask(ctx, late))

	_, err := repo.CreateWorkLog(ctx, &models.WorkLog{
		TaskID: done.ID, UserID: owner.ID, Minutes: 60, DateWorked: time.Now(),
	})
	require.NoError(t, err)

	stats, err := svc.ProjectStats(ctx, owner.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TasksByStatus[models.TaskStatusCompleted])
	assert.Equal(t, 1, stats.TasksByStatus[models.TaskStatusTodo])
	assert.Equal(t, 1, stats.OverdueTasks)
	assert.Equal(t, 60, stats.LoggedMinutes)
	assert.Equal(t, 1, stats.MemberCount)
	assert.InDelta(t, 50.0, stats.AverageCompletion, 0.01)

	_, err = svc.ProjectStats(ctx, outsider.ID, project.ID)
	assert.ErrorIs(t, err, ErrNotMember)

	_, err = svc.ProjectStats(ctx, owner.ID, "missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUserOverview(t *testing.T) {
	repo := testutil.OpenTestDB(t)
	svc := NewService(repo)
	ctx := context.Background()

	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	project := testutil.SeedProject(t, repo, owner, "Apollo")
	task := testutil.SeedTask(t, repo, project, owner, "work")

	_, err := repo.CreateWorkLog(ctx, &models.WorkLog{
		TaskID: task.ID, UserID: owner.ID, Minutes: 120, DateWorked: time.Now(),
	})
	require.NoError(t, err)

	overview, err := svc.UserOverview(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, overview.Tasks.StatusCounts[models.TaskStatusTodo])
	assert.Equal(t, 120, overview.MinutesThisWeek)
}
