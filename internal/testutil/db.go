// Package testutil provides shared helpers for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tarea-pm/tarea/internal/config"
	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/models"
)

// OpenTestDB creates a throwaway sqlite database with migrations applied
// and returns a repository over it. The database is removed with the
// test's temp directory.
func OpenTestDB(t *testing.T) *database.Repository {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Engine: config.EngineSQLite,
			Path:   filepath.Join(t.TempDir(), "test.db"),
		},
	}

	db, err := database.Open(context.Background(), cfg)
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return database.NewRepository(db)
}

// SeedUser inserts a user with sensible defaults
func SeedUser(t *testing.T, repo *database.Repository, email, username string) *models.User {
	t.Helper()
	user, err := repo.CreateUser(context.Background(), &models.User{
		Email:        email,
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
		IsActive:     true,
	})
	require.NoError(t, err)
	return user
}

// SeedProject inserts a project owned by the given user
func SeedProject(t *testing.T, repo *database.Repository, owner *models.User, name string) *models.Project {
	t.Helper()
	project, err := repo.CreateProject(context.Background(), &models.Project{
		Name:      name,
		Status:    models.ProjectStatusPlanned,
		Priority:  models.ProjectPriorityMedium,
		CreatedBy: owner.ID,
	})
	require.NoError(t, err)
	return project
}

// SeedTask inserts a task in the given project
func SeedTask(t *testing.T, repo *database.Repository, project *models.Project, creator *models.User, title string) *models.Task {
	t.Helper()
	task, err := repo.CreateTask(context.Background(), &models.Task{
		ProjectID: project.ID,
		CreatedBy: creator.ID,
		Title:     title,
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
	})
	require.NoError(t, err)
	return task
}
