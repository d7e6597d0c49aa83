package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tarea-pm/tarea/internal/services/worklog"
)

type logTimeRequest struct {
	Minutes    int    `json:"minutes"`
	DateWorked string `json:"date_worked"` // YYYY-MM-DD
	Note       string `json:"note"`
}

func (s *Server) handleLogTime(c echo.Context) error {
	var req logTimeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	dateWorked, err := time.Parse("2006-01-02", req.DateWorked)
	if err != nil {
		return badRequest(c, "date_worked must be YYYY-MM-DD")
	}

	entry, err := s.services.WorkLogs.LogTime(c.Request().Context(), worklog.LogRequest{
		TaskID:     c.Param("id"),
		UserID:     actorID(c),
		Minutes:    req.Minutes,
		DateWorked: dateWorked,
		Note:       req.Note,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toWorkLogResponse(entry))
}

func (s *Server) handleListTaskWorkLogs(c echo.Context) error {
	ctx := c.Request().Context()
	entries, err := s.services.WorkLogs.ListByTask(ctx, actorID(c), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	total, err := s.services.WorkLogs.TotalMinutesByTask(ctx, actorID(c), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}

	out := make([]worklogResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toWorkLogResponse(entry))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"total_minutes": total,
		"results":       out,
	})
}

type updateWorkLogRequest struct {
	Minutes    *int    `json:"minutes"`
	DateWorked *string `json:"date_worked"`
	Note       *string `json:"note"`
}

func (s *Server) handleUpdateWorkLog(c echo.Context) error {
	var req updateWorkLogRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	update := worklog.UpdateRequest{
		ActorID:   actorID(c),
		WorkLogID: c.Param("id"),
		Minutes:   req.Minutes,
		Note:      req.Note,
	}
	if req.DateWorked != nil {
		dateWorked, err := time.Parse("2006-01-02", *req.DateWorked)
		if err != nil {
			return badRequest(c, "date_worked must be YYYY-MM-DD")
		}
		update.DateWorked = &dateWorked
	}

	entry, err := s.services.WorkLogs.UpdateEntry(c.Request().Context(), update)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toWorkLogResponse(entry))
}

func (s *Server) handleDeleteWorkLog(c echo.Context) error {
	if err := s.services.WorkLogs.DeleteEntry(c.Request().Context(), actorID(c), c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleMyWorkLogs(c echo.Context) error {
	entries, err := s.services.WorkLogs.ListByUser(c.Request().Context(), actorID(c))
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]worklogResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toWorkLogResponse(entry))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleMyOverview(c echo.Context) error {
	overview, err := s.services.Analytics.UserOverview(c.Request().Context(), actorID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toUserOverviewResponse(overview))
}

func (s *Server) handleListNotifications(c echo.Context) error {
	unreadOnly := c.QueryParam("unread") == "true"
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	notifications, err := s.services.Notifications.List(c.Request().Context(), actorID(c), unreadOnly, limit)
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, toNotificationResponse(n))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleMarkNotificationRead(c echo.Context) error {
	if err := s.services.Notifications.MarkRead(c.Request().Context(), actorID(c), c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleMarkAllNotificationsRead(c echo.Context) error {
	marked, err := s.services.Notifications.MarkAllRead(c.Request().Context(), actorID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"marked": marked})
}

func (s *Server) handleUnreadCount(c echo.Context) error {
	count, err := s.services.Notifications.UnreadCount(c.Request().Context(), actorID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"unread": count})
}
