package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type boardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleCreateBoard(c echo.Context) error {
	var req boardRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	created, err := s.services.Boards.CreateBoard(c.Request().Context(),
		actorID(c), c.Param("id"), req.Name, req.Description)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toBoardResponse(created))
}

func (s *Server) handleListBoards(c echo.Context) error {
	boards, err := s.services.Boards.ListBoards(c.Request().Context(), actorID(c), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]boardResponse, 0, len(boards))
	for _, b := range boards {
		out = append(out, toBoardResponse(b))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetBoard(c echo.Context) error {
	detail, err := s.services.Boards.GetBoard(c.Request().Context(), actorID(c), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toBoardDetailResponse(detail))
}

func (s *Server) handleUpdateBoard(c echo.Context) error {
	var req boardRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	err := s.services.Boards.UpdateBoard(c.Request().Context(), actorID(c), c.Param("id"), req.Name, req.Description)
	if err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteBoard(c echo.Context) error {
	if err := s.services.Boards.DeleteBoard(c.Request().Context(), actorID(c), c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type columnRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateColumn(c echo.Context) error {
	var req columnRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	column, err := s.services.Boards.CreateColumn(c.Request().Context(), actorID(c), c.Param("id"), req.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, columnResponse{
		ID:       column.ID,
		BoardID:  column.BoardID,
		Name:     column.Name,
		Position: column.Position,
	})
}

type updateColumnRequest struct {
	Name     *string `json:"name"`
	Position *int    `json:"position"`
}

func (s *Server) handleUpdateColumn(c echo.Context) error {
	var req updateColumnRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	if req.Name != nil {
		if err := s.services.Boards.RenameColumn(ctx, actorID(c), c.Param("id"), *req.Name); err != nil {
			return serviceError(c, err)
		}
	}
	if req.Position != nil {
		if err := s.services.Boards.RepositionColumn(ctx, actorID(c), c.Param("id"), *req.Position); err != nil {
			return serviceError(c, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteColumn(c echo.Context) error {
	if err := s.services.Boards.DeleteColumn(c.Request().Context(), actorID(c), c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type moveTaskRequest struct {
	ColumnID string `json:"column_id"`
	Position int    `json:"position"`
}

func (s *Server) handleMoveTask(c echo.Context) error {
	var req moveTaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	err := s.services.Boards.MoveTask(c.Request().Context(), actorID(c), c.Param("id"), req.ColumnID, req.Position)
	if err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
