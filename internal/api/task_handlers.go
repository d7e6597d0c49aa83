package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tarea-pm/tarea/internal/services/task"
)

type createTaskRequest struct {
	ProjectID    string     `json:"project_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	ParentTaskID *string    `json:"parent_task_id"`
	StartDate    *time.Time `json:"start_date"`
	DueDate      *time.Time `json:"due_date"`
	AssigneeIDs  []string   `json:"assignee_ids"`
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	created, err := s.services.Tasks.CreateTask(c.Request().Context(), task.CreateRequest{
		ProjectID:    req.ProjectID,
		CreatedBy:    actorID(c),
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		ParentTaskID: req.ParentTaskID,
		StartDate:    req.StartDate,
		DueDate:      req.DueDate,
		AssigneeIDs:  req.AssigneeIDs,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toTaskResponse(created))
}

func (s *Server) handleListTasks(c echo.Context) error {
	page := pageRequest(c)
	filter := task.ListFilter{
		ProjectID:  c.QueryParam("project"),
		Status:     c.QueryParam("status"),
		Priority:   c.QueryParam("priority"),
		AssignedTo: c.QueryParam("assignee"),
		Search:     c.QueryParam("search"),
		OrderBy:    c.QueryParam("ordering"),
		Page:       page,
	}
	if raw := c.QueryParam("due_before"); raw != "" {
		due, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(c, "due_before must be YYYY-MM-DD")
		}
		filter.DueBefore = &due
	}

	result, err := s.services.Tasks.ListTasks(c.Request().Context(), actorID(c), filter)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toPageResponse(page, result, toTaskResponse))
}

func (s *Server) handleGetTask(c echo.Context) error {
	detail, err := s.services.Tasks.GetTaskDetail(c.Request().Context(), actorID(c), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toTaskDetailResponse(detail))
}

type updateTaskRequest struct {
	Title                *string    `json:"title"`
	Description          *string    `json:"description"`
	Priority             *string    `json:"priority"`
	StartDate            *time.Time `json:"start_date"`
	DueDate              *time.Time `json:"due_date"`
	CompletionPercentage *int       `json:"completion_percentage"`
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	updated, err := s.services.Tasks.UpdateTask(c.Request().Context(), task.UpdateRequest{
		ActorID:              actorID(c),
		TaskID:               c.Param("id"),
		Title:                req.Title,
		Description:          req.Description,
		Priority:             req.Priority,
		StartDate:            req.StartDate,
		DueDate:              req.DueDate,
		CompletionPercentage: req.CompletionPercentage,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toTaskResponse(updated))
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	if err := s.services.Tasks.DeleteTask(c.Request().Context(), actorID(c), c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleTaskStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	updated, err := s.services.Tasks.ChangeStatus(c.Request().Context(), actorID(c), c.Param("id"), req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toTaskResponse(updated))
}

func (s *Server) handleAssignTask(c echo.Context) error {
	var req memberRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := s.services.Tasks.AssignUser(c.Request().Context(), actorID(c), c.Param("id"), req.UserID); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleUnassignTask(c echo.Context) error {
	var req memberRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := s.services.Tasks.UnassignUser(c.Request().Context(), actorID(c), c.Param("id"), req.UserID); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type dependencyRequest struct {
	DependsOnID string `json:"depends_on_id"`
}

func (s *Server) handleAddDependency(c echo.Context) error {
	var req dependencyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	err := s.services.Tasks.AddDependency(c.Request().Context(), actorID(c), c.Param("id"), req.DependsOnID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleRemoveDependency(c echo.Context) error {
	err := s.services.Tasks.RemoveDependency(c.Request().Context(), actorID(c), c.Param("id"), c.Param("depID"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleTaskOverview(c echo.Context) error {
	overview, err := s.services.Tasks.GetOverview(c.Request().Context(), actorID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, taskOverviewResponse{
		StatusCounts: overview.StatusCounts,
		OverdueTasks: overview.OverdueTasks,
		DueSoon:      overview.DueSoon,
	})
}
