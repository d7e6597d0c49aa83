package project

import (
	"context"
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

func TestCreateProjectValidation(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")

	_, err := svc.CreateProject(ctx, CreateRequest{Name: "ab", CreatedBy: owner.ID})
	assert.ErrorIs(t, err, ErrNameTooShort)

	_, err = svc.CreateProject(ctx, CreateRequest{Name: "Apollo", Status: "XX", CreatedBy: owner.ID})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	start := time.Now()
	end := start.AddDate(0, 0, -1)
	_, err = svc.CreateProject(ctx, CreateRequest{
		Name: "Apollo", StartDate: &start, EndDate: &end, CreatedBy: owner.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidDates)
}

func TestCreateProjectDefaultsAndBoard(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")

	project, err := svc.CreateProject(ctx, CreateRequest{Name: "Apollo", CreatedBy: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusPlanned, project.Status)
	assert.Equal(t, models.ProjectPriorityMedium, project.Priority)

	boards, err := repo.GetBoardsByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, "Main Board", boards[0].Name)

	columns, err := repo.GetColumns(ctx, boards[0].ID)
	require.NoError(t, err)
	assert.Len(t, columns, len(models.DefaultBoardColumns))
}

func TestCreateProjectDuplicateName(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")

	_, err := svc.CreateProject(ctx, CreateRequest{Name: "Apollo", CreatedBy: owner.ID})
	require.NoError(t, err)

	_, err = svc.CreateProject(ctx, CreateRequest{Name: "Apollo", CreatedBy: owner.ID})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestGetProjectRequiresMembership(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	outsider := testutil.SeedUser(t, repo, "out@example.com", "out")

	project, err := svc.CreateProject(ctx, CreateRequest{Name: "Apollo", CreatedBy: owner.ID})
	require.NoError(t, err)

	detail, err := svc.GetProject(ctx, owner.ID, project.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Members, 1)

	_, err = svc.GetProject(ctx, outsider.ID, project.ID)
	assert.ErrorIs(t, err, ErrNotMember)

	_, err = svc.GetProject(ctx, owner.ID, "missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUpdateProjectOwnerOnly(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	member := testutil.SeedUser(t, repo, "member@example.com", "member")

	project, err := svc.CreateProject(ctx, CreateRequest{Name: "Apollo", CreatedBy: owner.ID})
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(ctx, owner.ID, project.ID, member.ID))

	name := "Apollo Revised"
	_, err = svc.UpdateProject(ctx, UpdateRequest{ActorID: member.ID, ProjectID: project.ID, Name: &name})
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.UpdateProject(ctx, UpdateRequest{ActorID: owner.ID, ProjectID: project.ID, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Apollo Revised", updated.Name)
}

func TestArchiveProject(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")

	project, err := svc.CreateProject(ctx, CreateRequest{Name: "Apollo", CreatedBy: owner.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Archive(ctx, owner.ID, project.ID))

	got, err := repo.GetProjectByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusArchived, got.Status)
}

func TestAddMemberPublishesEvent(t *testing.T) {
	svc, repo, bus := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	member := testutil.SeedUser(t, repo, "member@example.com", "member")

	project, err := svc.CreateProject(ctx, CreateRequest{Name: "Apollo", CreatedBy: owner.ID})
	require.NoError(t, err)

	require.NoError(t, svc.AddMember(ctx, owner.ID, project.ID, member.ID))

	isMember, err := repo.IsProjectMember(ctx, project.ID, member.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	select {
	case event := <-bus.Events():
		assert.Equal(t, events.EventMemberAdded, event.Type)
		assert.Equal(t, []string{member.ID}, event.TargetUserIDs)
	case <-time.After(time.Second):
		t.Fatal("expected a member_added event")
	}

	err = svc.AddMember(ctx, owner.ID, project.ID, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRemoveMemberProtectsCreator(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	member := testutil.SeedUser(t, repo, "member@example.com", "member")

	project, err := svc.CreateProject(ctx, CreateRequest{Name: "Apollo", CreatedBy: owner.ID})
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(ctx, owner.ID, project.ID, member.ID))

	assert.ErrorIs(t, svc.RemoveMember(ctx, owner.ID, project.ID, owner.ID), ErrCreatorRemoval)

	require.NoError(t, svc.RemoveMember(ctx, owner.ID, project.ID, member.ID))
	isMember, err := repo.IsProjectMember(ctx, project.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, isMember)
}

func TestListProjectsScopedToActor(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	outsider := testutil.SeedUser(t, repo, "out@example.com", "out")

	_, err := svc.CreateProject(ctx, CreateRequest{Name: "Apollo", CreatedBy: owner.ID})
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, CreateRequest{Name: "Gemini", CreatedBy: owner.ID})
	require.NoError(t, err)

	mine, err := svc.ListProjects(ctx, owner.ID, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Total)

	theirs, err := svc.ListProjects(ctx, outsider.ID, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, theirs.Total)
}

func TestLabelLifecycle(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")

	project, err := svc.CreateProject(ctx, CreateRequest{Name: "Apollo", CreatedBy: owner.ID})
	require.NoError(t, err)

	_, err = svc.CreateLabel(ctx, owner.ID, project.ID, "b", "")
	assert.ErrorIs(t, err, ErrEmptyLabelName)

	_, err = svc.CreateLabel(ctx, owner.ID, project.ID, "bug", "red")
	assert.ErrorIs(t, err, ErrInvalidColorHex)

	label, err := svc.CreateLabel(ctx, owner.ID, project.ID, "bug", "")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultLabelColor, label.Color)

	_, err = svc.CreateLabel(ctx, owner.ID, project.ID, "bug", "#FF0000")
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	require.NoError(t, svc.UpdateLabel(ctx, owner.ID, project.ID, label.ID, "defect", "#CC0000"))
	require.NoError(t, svc.DeleteLabel(ctx, owner.ID, project.ID, label.ID))

	labels, err := repo.GetLabelsByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, labels)
}
