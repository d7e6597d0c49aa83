package task

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/events"
	"github.com/tarea-pm/tarea/internal/models"
	"github.com/tarea-pm/tarea/internal/testutil"
)

func newTestService(t *testing.T) (Service, *database.Repository, *events.Bus) {
	t.Helper()
	repo := testutil.OpenTestDB(t)
	bus := events.NewBus()
	t.Cleanup(bus.Close)
	return NewService(repo, bus), repo, bus
}

func TestCreateTaskValidation(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	project := testutil.SeedProject(t, repo, owner, "Apollo")

	_, err := svc.CreateTask(ctx, CreateRequest{ProjectID: project.ID, CreatedBy: owner.ID, Title: "  "})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = svc.CreateTask(ctx, CreateRequest{
		ProjectID: project.ID, CreatedBy: owner.ID, Title: strings.Repeat("x", 256),
	})
	assert.ErrorIs(t, err, ErrTitleTooLong)

	start := time.Now()
	due := start.AddDate(0, 0, -1)
	_, err = svc.CreateTask(ctx, CreateRequest{
		ProjectID: project.ID, CreatedBy: owner.ID, Title: "t", StartDate: &start, DueDate: &due,
	})
	assert.ErrorIs(t, err, ErrInvalidDates)
}

func TestCreateTaskRequiresMembership(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	outsider := testutil.SeedUser(t, repo, "out@example.com", "out")
	project := testutil.SeedProject(t, repo, owner, "Apollo")

	_, err := svc.CreateTask(ctx, CreateRequest{ProjectID: project.ID, CreatedBy: outsider.ID, Title: "sneaky"})
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestCreateTaskWithParent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	project := testutil.SeedProject(t, repo, owner, "Apollo")
	other := testutil.SeedProject(t, repo, owner, "Gemini")

	parent := testutil.SeedTask(t, repo, project, owner, "epic")
	foreign := testutil.SeedTask(t, repo, other, owner, "elsewhere")

	sub, err := svc.CreateTask(ctx, CreateRequest{
		ProjectID: project.ID, CreatedBy: owner.ID, Title: "subtask", ParentTaskID: &parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, sub.ParentTaskID)
	assert.Equal(t, parent.ID, *sub.ParentTaskID)

	_, err = svc.CreateTask(ctx, CreateRequest{
		ProjectID: project.ID, CreatedBy: owner.ID, Title: "bad sub", ParentTaskID: &foreign.ID,
	})
	assert.ErrorIs(t, err, ErrParentWrongProject)
}

func TestTaskDetailAveragesSubtasks(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	project := testutil.SeedProject(t, repo, owner, "Apollo")

	parent := testutil.SeedTask(t, repo, project, owner, "epic")
	for _, pct := range []int{100, 50, 0} {
		sub, err := svc.CreateTask(ctx, CreateRequest{
			ProjectID: project.ID, CreatedBy: owner.ID, Title: "sub", ParentTaskID: &parent.ID,
		})
		require.NoError(t, err)
		p := pct
		_, err = svc.UpdateTask(ctx, UpdateRequest{
			ActorID: owner.ID, TaskID: sub.ID, CompletionPercentage: &p,
		})
		require.NoError(t, err)
	}

	detail, err := svc.GetTaskDetail(ctx, owner.ID, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, detail.Task.CompletionPercentage)
	assert.Len(t, detail.Subtasks, 3)
}

func TestChangeStatusSideEffects(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	project := testutil.SeedProject(t, repo, owner, "Apollo")
	task := testutil.SeedTask(t, repo, project, owner, "work")

	started, err := svc.ChangeStatus(ctx, owner.ID, task.ID, models.TaskStatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, started.StartDate, "first in_progress stamps start date")
	firstStart := *started.StartDate

	completed, err := svc.ChangeStatus(ctx, owner.ID, task.ID, models.TaskStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, 100, completed.CompletionPercentage)

	// Reopening clears completed_at but keeps the original start date
	reopened, err := svc.ChangeStatus(ctx, owner.ID, task.ID, models.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
	assert.Equal(t, firstStart.Unix(), reopened.StartDate.Unix())

	_, err = svc.ChangeStatus(ctx, owner.ID, task.ID, "bogus")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestChangeStatusNotifiesAssignees(t *testing.T) {
	svc, repo, bus := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	dev := testutil.SeedUser(t, repo, "dev@example.com", "dev")
	project := testutil.SeedProject(t, repo, owner, "Apollo")
	require.NoError(t, repo.AddProjectMember(ctx, project.ID, dev.ID))
	task := testutil.SeedTask(t, repo, project, owner, "work")

	require.NoError(t, svc.AssignUser(ctx, owner.ID, task.ID, dev.ID))

	// First event is the assignment itself
	assignEvent := <-bus.Events()
	assert.Equal(t, events.EventTaskAssigned, assignEvent.Type)

	_, err := svc.ChangeStatus(ctx, owner.ID, task.ID, models.TaskStatusInReview)
	require.NoError(t, err)

	select {
	case event := <-bus.Events():
		assert.Equal(t, events.EventTaskStatusChanged, event.Type)
		assert.Equal(t, []string{dev.ID}, event.TargetUserIDs)
	case <-time.After(time.Second):
		t.Fatal("expected a status change event")
	}
}

func TestAssignUserRequiresMembership(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	outsider := testutil.SeedUser(t, repo, "out@example.com", "out")
	project := testutil.SeedProject(t, repo, owner, "Apollo")
	task := testutil.SeedTask(t, repo, project, owner, "work")

	assert.ErrorIs(t, svc.AssignUser(ctx, owner.ID, task.ID, outsider.ID), ErrAssigneeNotMember)
	assert.ErrorIs(t, svc.AssignUser(ctx, owner.ID, task.ID, "missing"), ErrUserNotFound)

	// Idempotent once the user is a member
	require.NoError(t, repo.AddProjectMember(ctx, project.ID, outsider.ID))
	require.NoError(t, svc.AssignUser(ctx, owner.ID, task.ID, outsider.ID))
	require.NoError(t, svc.AssignUser(ctx, owner.ID, task.ID, outsider.ID))

	assignees, err := repo.GetTaskAssignees(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, assignees, 1)
}

func TestDependencyRules(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	project := testutil.SeedProject(t, repo, owner, "Apollo")
	other := testutil.SeedProject(t, repo, owner, "Gemini")

	a := testutil.SeedTask(t, repo, project, owner, "a")
	b := testutil.SeedTask(t, repo, project, owner, "b")
	c := testutil.SeedTask(t, repo, project, owner, "c")
	foreign := testutil.SeedTask(t, repo, other, owner, "foreign")

	assert.ErrorIs(t, svc.AddDependency(ctx, owner.ID, a.ID, a.ID), ErrSelfDependency)
	assert.ErrorIs(t, svc.AddDependency(ctx, owner.ID, a.ID, foreign.ID), ErrCrossProjectDep)

	require.NoError(t, svc.AddDependency(ctx, owner.ID, a.ID, b.ID))
	assert.ErrorIs(t, svc.AddDependency(ctx, owner.ID, a.ID, b.ID), ErrDuplicateDependency)

	// a -> b -> c; c -> a would close the loop
	require.NoError(t, svc.AddDependency(ctx, owner.ID, b.ID, c.ID))
	assert.ErrorIs(t, svc.AddDependency(ctx, owner.ID, c.ID, a.ID), ErrCircularDependency)

	require.NoError(t, svc.RemoveDependency(ctx, owner.ID, a.ID, b.ID))
	require.NoError(t, svc.AddDependency(ctx, owner.ID, c.ID, a.ID))
}

func TestListTasksScopedToProjects(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	outsider := testutil.SeedUser(t, repo, "out@example.com", "out")
	project := testutil.SeedProject(t, repo, owner, "Apollo")
	testutil.SeedTask(t, repo, project, owner, "visible")

	mine, err := svc.ListTasks(ctx, owner.ID, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Total)

	theirs, err := svc.ListTasks(ctx, outsider.ID, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, theirs.Total)

	_, err = svc.ListTasks(ctx, outsider.ID, ListFilter{ProjectID: project.ID})
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestGetOverview(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	project := testutil.SeedProject(t, repo, owner, "Apollo")

	task := testutil.SeedTask(t, repo, project, owner, "late")
	past := time.Now().AddDate(0, 0, -1)
	task.DueDate = &past
	require.NoError(t, repo.UpdateTask(ctx, task))

	overview, err := svc.GetOverview(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, overview.StatusCounts[models.TaskStatusTodo])
	assert.Equal(t, 1, overview.OverdueTasks)
}
