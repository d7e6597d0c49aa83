// Package api exposes the REST surface over the service layer.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tarea-pm/tarea/internal/auth"
	"github.com/tarea-pm/tarea/internal/services/analytics"
	"github.com/tarea-pm/tarea/internal/services/board"
	"github.com/tarea-pm/tarea/internal/services/notification"
	"github.com/tarea-pm/tarea/internal/services/project"
	"github.com/tarea-pm/tarea/internal/services/task"
	"github.com/tarea-pm/tarea/internal/services/user"
	"github.com/tarea-pm/tarea/internal/services/worklog"
)

// Services bundles everything the HTTP layer depends on
type Services struct {
	Users         user.Service
	Projects      project.Service
	Boards        board.Service
	Tasks         task.Service
	WorkLogs      worklog.Service
	Notifications notification.Service
	Analytics     analytics.Service
}

// Server wraps echo with the application routes
type Server struct {
	echo     *echo.Echo
	issuer   *auth.Issuer
	services Services
}

// NewServer builds the router with all routes registered
func NewServer(issuer *auth.Issuer, services Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger())

	s := &Server{echo: e, issuer: issuer, services: services}
	s.routes()
	return s
}

// Handler exposes the underlying http.Handler, used by httptest
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start begins serving on the given address and blocks
func (s *Server) Start(addr string) error {
	slog.Info("http server listening", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.handleHealthz)

	v1 := s.echo.Group("/api/v1")

	// Public auth routes
	v1.POST("/auth/register", s.handleRegister)
	v1.POST("/auth/login", s.handleLogin)
	v1.POST("/auth/refresh", s.handleRefresh)
	v1.POST("/auth/verify", s.handleVerify)

	// Everything else needs a bearer token
	protected := v1.Group("", s.requireAuth)

	protected.POST("/auth/logout", s.handleLogout)
	protected.POST("/auth/change-password", s.handleChangePassword)
	protected.GET("/auth/profile", s.handleGetProfile)
	protected.PATCH("/auth/profile", s.handleUpdateProfile)

	protected.GET("/roles", s.handleListRoles)
	protected.POST("/roles", s.handleCreateRole)
	protected.GET("/roles/:id", s.handleGetRole)
	protected.PUT("/roles/:id", s.handleUpdateRole)
	protected.DELETE("/roles/:id", s.handleDeleteRole)
	protected.POST("/roles/:id/assign/:userID", s.handleAssignRole)
	protected.GET("/audit-logs", s.handleListAuditLogs)
	protected.GET("/audit-logs/actions", s.handleListAuditActions)

	protected.GET("/projects", s.handleListProjects)
	protected.POST("/projects", s.handleCreateProject)
	protected.GET("/projects/:id", s.handleGetProject)
	protected.PATCH("/projects/:id", s.handleUpdateProject)
	protected.DELETE("/projects/:id", s.handleDeleteProject)
	protected.POST("/projects/:id/archive", s.handleArchiveProject)
	protected.POST("/projects/:id/status", s.handleProjectStatus)
	protected.POST("/projects/:id/priority", s.handleProjectPriority)
	protected.POST("/projects/:id/members", s.handleAddMember)
	protected.DELETE("/projects/:id/members/:userID", s.handleRemoveMember)
	protected.GET("/projects/:id/labels", s.handleListLabels)
	protected.POST("/projects/:id/labels", s.handleCreateLabel)
	protected.PUT("/projects/:id/labels/:labelID", s.handleUpdateLabel)
	protected.DELETE("/projects/:id/labels/:labelID", s.handleDeleteLabel)
	protected.GET("/projects/:id/boards", s.handleListBoards)
	protected.POST("/projects/:id/boards", s.handleCreateBoard)
	protected.GET("/projects/:id/stats", s.handleProjectStats)

	protected.GET("/boards/:id", s.handleGetBoard)
	protected.PUT("/boards/:id", s.handleUpdateBoard)
	protected.DELETE("/boards/:id", s.handleDeleteBoard)
	protected.POST("/boards/:id/columns", s.handleCreateColumn)
	protected.PUT("/columns/:id", s.handleUpdateColumn)
	protected.DELETE("/columns/:id", s.handleDeleteColumn)

	protected.GET("/tasks", s.handleListTasks)
	protected.POST("/tasks", s.handleCreateTask)
	protected.GET("/tasks/overview", s.handleTaskOverview)
	protected.GET("/tasks/:id", s.handleGetTask)
	protected.PATCH("/tasks/:id", s.handleUpdateTask)
	protected.DELETE("/tasks/:id", s.handleDeleteTask)
	protected.POST("/tasks/:id/assign", s.handleAssignTask)
	protected.POST("/tasks/:id/unassign", s.handleUnassignTask)
	protected.POST("/tasks/:id/status", s.handleTaskStatus)
	protected.POST("/tasks/:id/move", s.handleMoveTask)
	protected.POST("/tasks/:id/dependencies", s.handleAddDependency)
	protected.DELETE("/tasks/:id/dependencies/:depID", s.handleRemoveDependency)
	protected.GET("/tasks/:id/worklogs", s.handleListTaskWorkLogs)
	protected.POST("/tasks/:id/worklogs", s.handleLogTime)

	protected.PUT("/worklogs/:id", s.handleUpdateWorkLog)
	protected.DELETE("/worklogs/:id", s.handleDeleteWorkLog)
	protected.GET("/users/me/worklogs", s.handleMyWorkLogs)
	protected.GET("/users/me/overview", s.handleMyOverview)

	protected.GET("/notifications", s.handleListNotifications)
	protected.POST("/notifications/:id/read", s.handleMarkNotificationRead)
	protected.POST("/notifications/read-all", s.handleMarkAllNotificationsRead)
	protected.GET("/notifications/unread-count", s.handleUnreadCount)
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
