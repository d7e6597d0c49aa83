package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tarea-pm/tarea/internal/services/project"
)

type createProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	created, err := s.services.Projects.CreateProject(c.Request().Context(), project.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   actorID(c),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toProjectResponse(created))
}

func (s *Server) handleListProjects(c echo.Context) error {
	page := pageRequest(c)
	result, err := s.services.Projects.ListProjects(c.Request().Context(), actorID(c), project.ListFilter{
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
		MemberID: c.QueryParam("member"),
		Search:   c.QueryParam("search"),
		Page:     page,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toPageResponse(page, result, toProjectResponse))
}

func (s *Server) handleGetProject(c echo.Context) error {
	detail, err := s.services.Projects.GetProject(c.Request().Context(), actorID(c), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toProjectDetailResponse(detail))
}

type updateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	updated, err := s.services.Projects.UpdateProject(c.Request().Context(), project.UpdateRequest{
		ActorID:     actorID(c),
		ProjectID:   c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toProjectResponse(updated))
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	if err := s.services.Projects.DeleteProject(c.Request().Context(), actorID(c), c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleArchiveProject(c echo.Context) error {
	if err := s.services.Projects.Archive(c.Request().Context(), actorID(c), c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleProjectStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	err := s.services.Projects.UpdateStatus(c.Request().Context(), actorID(c), c.Param("id"), req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type priorityRequest struct {
	Priority string `json:"priority"`
}

func (s *Server) handleProjectPriority(c echo.Context) error {
	var req priorityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	err := s.services.Projects.UpdatePriority(c.Request().Context(), actorID(c), c.Param("id"), req.Priority)
	if err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type memberRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleAddMember(c echo.Context) error {
	var req memberRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	err := s.services.Projects.AddMember(c.Request().Context(), actorID(c), c.Param("id"), req.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleRemoveMember(c echo.Context) error {
	err := s.services.Projects.RemoveMember(c.Request().Context(), actorID(c), c.Param("id"), c.Param("userID"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListLabels(c echo.Context) error {
	detail, err := s.services.Projects.GetProject(c.Request().Context(), actorID(c), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]labelResponse, 0, len(detail.Labels))
	for _, label := range detail.Labels {
		out = append(out, toLabelResponse(label))
	}
	return c.JSON(http.StatusOK, out)
}

type labelRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleCreateLabel(c echo.Context) error {
	var req labelRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	label, err := s.services.Projects.CreateLabel(c.Request().Context(), actorID(c), c.Param("id"), req.Name, req.Color)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toLabelResponse(label))
}

func (s *Server) handleUpdateLabel(c echo.Context) error {
	var req labelRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	err := s.services.Projects.UpdateLabel(c.Request().Context(),
		actorID(c), c.Param("id"), c.Param("labelID"), req.Name, req.Color)
	if err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteLabel(c echo.Context) error {
	err := s.services.Projects.DeleteLabel(c.Request().Context(), actorID(c), c.Param("id"), c.Param("labelID"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleProjectStats(c echo.Context) error {
	stats, err := s.services.Analytics.ProjectStats(c.Request().Context(), actorID(c), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toProjectStatsResponse(stats))
}
