package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tarea-pm/tarea/internal/config"
	"github.com/tarea-pm/tarea/internal/models"
)

// openTestDB creates a throwaway sqlite database with migrations applied
func openTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Engine: config.EngineSQLite,
			Path:   filepath.Join(t.TempDir(), "test.db"),
		},
	}

	db, err := Open(context.Background(), cfg)
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return db
}

// createTestUser inserts a user with sensible defaults
func createTestUser(t *testing.T, repo *Repository, email, username string) *models.User {
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

// createTestProject inserts a project owned by the given user
func createTestProject(t *testing.T, repo *Repository, owner *models.User, name string) *models.Project {
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

// createTestTask inserts a task in the given project
func createTestTask(t *testing.T, repo *Repository, project *models.Project, creator *models.User, title string) *models.Task {
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
