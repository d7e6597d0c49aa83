package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarea-pm/tarea/internal/auth"
	"github.com/tarea-pm/tarea/internal/config"
	"github.com/tarea-pm/tarea/internal/events"
	"github.com/tarea-pm/tarea/internal/models"
	"github.com/tarea-pm/tarea/internal/services/analytics"
	"github.com/tarea-pm/tarea/internal/services/board"
	"github.com/tarea-pm/tarea/internal/services/notification"
	"github.com/tarea-pm/tarea/internal/services/project"
	"github.com/tarea-pm/tarea/internal/services/task"
	"github.com/tarea-pm/tarea/internal/services/user"
	"github.com/tarea-pm/tarea/internal/services/worklog"
	"github.com/tarea-pm/tarea/internal/testutil"
)

type testEnv struct {
	server *Server
	bus    *events.Bus
	users  user.Service
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()
	repo := testutil.OpenTestDB(t)
	bus := events.NewBus()
	t.Cleanup(bus.Close)

	issuer := auth.NewIssuer(config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTTLMins:   30,
		RefreshTTLHours: 168,
	})

	users := user.NewService(repo, issuer)
	server := NewServer(issuer, Services{
		Users:         users,
		Projects:      project.NewService(repo, bus),
		Boards:        board.NewService(repo),
		Tasks:         task.NewService(repo, bus),
		WorkLogs:      worklog.NewService(repo),
		Notifications: notification.NewService(repo),
		Analytics:     analytics.NewService(repo),
	})
	return &testEnv{server: server, bus: bus, users: users}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// registerAndLogin creates an account over the API and returns an access token
func (e *testEnv) registerAndLogin(t *testing.T, email, username string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "username": username,
		"password": "correct horse", "password_confirm": "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"login": username, "password": "correct horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[loginResponse](t, rec).Access
}

func TestHealthzIsPublic(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodGet, "/api/v1/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/projects", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestRegisterValidation(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "ada@example.com", "username": "ada",
		"password": "correct horse", "password_confirm": "different",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "passwords do not match")

	rec = env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "ada@example.com", "username": "ada",
		"password": "short", "password_confirm": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	env := newTestServer(t)
	env.registerAndLogin(t, "ada@example.com", "ada")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "ada@example.com", "username": "ada2",
		"password": "correct horse", "password_confirm": "correct horse",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthTokenLifecycle(t *testing.T) {
	env := newTestServer(t)
	env.registerAndLogin(t, "ada@example.com", "ada")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"login": "ada", "password": "correct horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[loginResponse](t, rec)

	// Verify the access token
	rec = env.do(t, http.MethodPost, "/api/v1/auth/verify", "", map[string]string{"token": login.Access})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Refresh rotates
	rec = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh": login.Refresh})
	require.Equal(t, http.StatusOK, rec.Code)
	fresh := decode[auth.TokenPair](t, rec)
	assert.NotEqual(t, login.Refresh, fresh.RefreshToken)

	// Logout blacklists, further refresh fails
	rec = env.do(t, http.MethodPost, "/api/v1/auth/logout", login.Access, map[string]string{"refresh": fresh.RefreshToken})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh": fresh.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	env := newTestServer(t)
	owner := env.registerAndLogin(t, "owner@example.com", "owner")
	outsider := env.registerAndLogin(t, "out@example.com", "out")

	// Create
	rec := env.do(t, http.MethodPost, "/api/v1/projects", owner, map[string]string{
		"name": "Apollo", "description": "moon landing",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[projectResponse](t, rec)
	assert.Equal(t, "PL", created.Status)

	// Name too short
	rec = env.do(t, http.MethodPost, "/api/v1/projects", owner, map[string]string{"name": "ab"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Duplicate
	rec = env.do(t, http.MethodPost, "/api/v1/projects", owner, map[string]string{"name": "Apollo"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Detail includes the creator as member
	rec = env.do(t, http.MethodGet, "/api/v1/projects/"+created.ID, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[projectDetailResponse](t, rec)
	assert.Len(t, detail.Members, 1)

	// Outsider cannot read it
	rec = env.do(t, http.MethodGet, "/api/v1/projects/"+created.ID, outsider, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Missing project
	rec = env.do(t, http.MethodGet, "/api/v1/projects/nope", owner, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// List is scoped
	rec = env.do(t, http.MethodGet, "/api/v1/projects", outsider, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decode[pageResponse[projectResponse]](t, rec)
	assert.Equal(t, 0, listing.Count)

	// Archive
	rec = env.do(t, http.MethodPost, "/api/v1/projects/"+created.ID+"/archive", owner, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/v1/projects/"+created.ID, owner, nil)
	assert.Equal(t, "AR", decode[projectDetailResponse](t, rec).Status)
}

func TestDefaultBoardOverHTTP(t *testing.T) {
	env := newTestServer(t)
	owner := env.registerAndLogin(t, "owner@example.com", "owner")

	rec := env.do(t, http.MethodPost, "/api/v1/projects", owner, map[string]string{"name": "Apollo"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[projectResponse](t, rec)

	rec = env.do(t, http.MethodGet, "/api/v1/projects/"+created.ID+"/boards", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	boards := decode[[]boardResponse](t, rec)
	require.Len(t, boards, 1)

	rec = env.do(t, http.MethodGet, "/api/v1/boards/"+boards[0].ID, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	boardDetail := decode[boardDetailResponse](t, rec)
	assert.Len(t, boardDetail.Columns, 4)
}

func TestTaskFlowOverHTTP(t *testing.T) {
	env := newTestServer(t)
	owner := env.registerAndLogin(t, "owner@example.com", "owner")

	rec := env.do(t, http.MethodPost, "/api/v1/projects", owner, map[string]string{"name": "Apollo"})
	require.Equal(t, http.StatusCreated, rec.Code)
	proj := decode[projectResponse](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/tasks", owner, map[string]any{
		"project_id": proj.ID, "title": "design the engine", "priority": "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[taskResponse](t, rec)
	assert.Equal(t, "todo", created.Status)

	// Status transition stamps side effects
	rec = env.do(t, http.MethodPost, "/api/v1/tasks/"+created.ID+"/status", owner, map[string]string{"status": "in_progress"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, decode[taskResponse](t, rec).StartDate)

	rec = env.do(t, http.MethodPost, "/api/v1/tasks/"+created.ID+"/status", owner, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	completed := decode[taskResponse](t, rec)
	assert.Equal(t, 100, completed.CompletionPercentage)
	assert.NotNil(t, completed.CompletedAt)

	// Invalid status
	rec = env.do(t, http.MethodPost, "/api/v1/tasks/"+created.ID+"/status", owner, map[string]string{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Overview counts it
	rec = env.do(t, http.MethodGet, "/api/v1/tasks/overview", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decode[taskOverviewResponse](t, rec)
	assert.Equal(t, 1, overview.StatusCounts["completed"])
}

func TestDependenciesOverHTTP(t *testing.T) {
	env := newTestServer(t)
	owner := env.registerAndLogin(t, "owner@example.com", "owner")

	rec := env.do(t, http.MethodPost, "/api/v1/projects", owner, map[string]string{"name": "Apollo"})
	proj := decode[projectResponse](t, rec)

	makeTask := func(title string) taskResponse {
		rec := env.do(t, http.MethodPost, "/api/v1/tasks", owner, map[string]any{
			"project_id": proj.ID, "title": title,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		return decode[taskResponse](t, rec)
	}
	a := makeTask("a")
	b := makeTask("b")

	rec = env.do(t, http.MethodPost, "/api/v1/tasks/"+a.ID+"/dependencies", owner,
		map[string]string{"depends_on_id": b.ID})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Cycle rejected
	rec = env.do(t, http.MethodPost, "/api/v1/tasks/"+b.ID+"/dependencies", owner,
		map[string]string{"depends_on_id": a.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Duplicate conflicts
	rec = env.do(t, http.MethodPost, "/api/v1/tasks/"+a.ID+"/dependencies", owner,
		map[string]string{"depends_on_id": b.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/tasks/%s/dependencies/%s", a.ID, b.ID), owner, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestWorkLogsOverHTTP(t *testing.T) {
	env := newTestServer(t)
	owner := env.registerAndLogin(t, "owner@example.com", "owner")

	rec := env.do(t, http.MethodPost, "/api/v1/projects", owner, map[string]string{"name": "Apollo"})
	proj := decode[projectResponse](t, rec)
	rec = env.do(t, http.MethodPost, "/api/v1/tasks", owner, map[string]any{
		"project_id": proj.ID, "title": "work",
	})
	created := decode[taskResponse](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/tasks/"+created.ID+"/worklogs", owner, map[string]any{
		"minutes": 90, "date_worked": "2026-08-27", "note": "pair session",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decode[worklogResponse](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/tasks/"+created.ID+"/worklogs", owner, map[string]any{
		"minutes": 0, "date_worked": "2026-08-27",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/tasks/"+created.ID+"/worklogs", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_minutes":90`)

	rec = env.do(t, http.MethodPut, "/api/v1/worklogs/"+entry.ID, owner, map[string]any{"minutes": 60})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 60, decode[worklogResponse](t, rec).Minutes)

	rec = env.do(t, http.MethodGet, "/api/v1/users/me/worklogs", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]worklogResponse](t, rec), 1)

	rec = env.do(t, http.MethodDelete, "/api/v1/worklogs/"+entry.ID, owner, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProjectStatsOverHTTP(t *testing.T) {
	env := newTestServer(t)
	owner := env.registerAndLogin(t, "owner@example.com", "owner")

	rec := env.do(t, http.MethodPost, "/api/v1/projects", owner, map[string]string{"name": "Apollo"})
	proj := decode[projectResponse](t, rec)
	env.do(t, http.MethodPost, "/api/v1/tasks", owner, map[string]any{"project_id": proj.ID, "title": "one"})

	rec = env.do(t, http.MethodPost, "/api/v1/tasks", owner, map[string]any{"project_id": proj.ID, "title": "two"})
	done := decode[taskResponse](t, rec)
	rec = env.do(t, http.MethodPatch, "/api/v1/tasks/"+done.ID, owner, map[string]any{"completion_percentage": 100})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/v1/projects/"+proj.ID+"/stats", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[projectStatsResponse](t, rec)
	assert.Equal(t, 2, stats.TasksByStatus["todo"])
	assert.Equal(t, 50, stats.AverageCompletion)
	assert.Equal(t, 1, stats.MemberCount)
}

func TestRolesRequireStaffOverHTTP(t *testing.T) {
	env := newTestServer(t)
	token := env.registerAndLogin(t, "dev@example.com", "dev")

	rec := env.do(t, http.MethodGet, "/api/v1/roles", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	roles := decode[[]roleResponse](t, rec)
	assert.Len(t, roles, 4, "seeded roles are readable by anyone")

	rec = env.do(t, http.MethodPost, "/api/v1/roles", token, map[string]string{"name": "auditor"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/audit-logs", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuditLogsOverHTTP(t *testing.T) {
	env := newTestServer(t)

	_, err := env.users.Register(context.Background(), user.RegisterRequest{
		Email:    "admin@example.com",
		Username: "admin",
		Password: "correct horse",
		IsStaff:  true,
	})
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"login": "admin", "password": "correct horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decode[loginResponse](t, rec).Access

	rec = env.do(t, http.MethodGet, "/api/v1/audit-logs", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decode[[]auditLogResponse](t, rec)
	require.NotEmpty(t, logs)
	for _, entry := range logs {
		assert.False(t, entry.CreatedAt.IsZero())
	}

	actions := make([]string, 0, len(logs))
	for _, entry := range logs {
		actions = append(actions, entry.Action)
	}
	assert.Contains(t, actions, models.AuditActionLogin)
}

func TestNotificationEndpoints(t *testing.T) {
	env := newTestServer(t)
	token := env.registerAndLogin(t, "ada@example.com", "ada")

	rec := env.do(t, http.MethodGet, "/api/v1/notifications", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]notificationResponse](t, rec))

	rec = env.do(t, http.MethodGet, "/api/v1/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unread":0`)

	rec = env.do(t, http.MethodPost, "/api/v1/notifications/nope/read", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
