package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/models"
	"github.com/tarea-pm/tarea/internal/testutil"
)

func newTestService(t *testing.T) (Service, *database.Repository) {
	t.Helper()
	repo := testutil.OpenTestDB(t)
	return NewService(repo), repo
}

func TestCreateBoardWithDefaultColumns(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	project := testutil.SeedProject(t, repo, owner, "Apollo")

	board, err := svc.CreateBoard(ctx, owner.ID, project.ID, "Sprint 1", "first sprint")
	require.NoError(t, err)

	detail, err := svc.GetBoard(ctx, owner.ID, board.ID)
	require.NoError(t, err)
	require.Len(t, detail.Columns, len(models.DefaultBoardColumns))
	assert.Equal(t, "To Do", detail.Columns[0].Column.Name)
}

func TestCreateBoardRequiresMembership(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	outsider := testutil.SeedUser(t, repo, "out@example.com", "out")
	project := testutil.SeedProject(t, repo, owner, "Apollo")

	_, err := svc.CreateBoard(ctx, outsider.ID, project.ID, "Sprint 1", "")
	assert.ErrorIs(t, err, ErrNotMember)

	_, err = svc.CreateBoard(ctx, owner.ID, project.ID, "  ", "")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestColumnLifecycle(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	project := testutil.SeedProject(t, repo, owner, "Apollo")

	board, err := svc.CreateBoard(ctx, owner.ID, project.ID, "Sprint 1", "")
	require.NoError(t, err)

	column, err := svc.CreateColumn(ctx, owner.ID, board.ID, "Blocked")
	require.NoError(t, err)
	assert.Equal(t, len(models.DefaultBoardColumns), column.Position, "new columns append at the end")

	require.NoError(t, svc.RenameColumn(ctx, owner.ID, column.ID, "On Hold"))
	require.NoError(t, svc.RepositionColumn(ctx, owner.ID, column.ID, 0))

	columns, err := repo.GetColumns(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, "On Hold", columns[0].Name)

	require.NoError(t, svc.DeleteColumn(ctx, owner.ID, column.ID))
	assert.ErrorIs(t, svc.RenameColumn(ctx, owner.ID, column.ID, "x"), ErrColumnNotFound)

	assert.ErrorIs(t, svc.RepositionColumn(ctx, owner.ID, columns[1].ID, -1), ErrInvalidPosition)
}

func TestMoveTask(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, repo, "owner@example.com", "owner")
	project := testutil.SeedProject(t, repo, owner, "Apollo")
	other := testutil.SeedProject(t, repo, owner, "Gemini")

	board, err := svc.CreateBoard(ctx, owner.ID, project.ID, "Sprint 1", "")
	require.NoError(t, err)
	columns, err := repo.GetColumns(ctx, board.ID)
	require.NoError(t, err)

	task := testutil.SeedTask(t, repo, project, owner, "implement")
	foreign := testutil.SeedTask(t, repo, other, owner, "unrelated")

	require.NoError(t, svc.MoveTask(ctx, owner.ID, task.ID, columns[0].ID, 0))

	detail, err := svc.GetBoard(ctx, owner.ID, board.ID)
	require.NoError(t, err)
	require.Len(t, detail.Columns[0].Tasks, 1)
	assert.Equal(t, task.ID, detail.Columns[0].Tasks[0].ID)

	assert.ErrorIs(t, svc.MoveTask(ctx, owner.ID, foreign.ID, columns[0].ID, 0), ErrWrongProject)
	assert.ErrorIs(t, svc.MoveTask(ctx, owner.ID, "missing", columns[0].ID, 0), ErrTaskNotFound)
}
