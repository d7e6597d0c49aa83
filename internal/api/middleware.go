package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tarea-pm/tarea/internal/auth"
)

const userIDKey = "user_id"

// requireAuth validates the bearer access token and stores the caller's
// user ID in the request context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return c.JSON(http.StatusUnauthorized, errorBody("missing bearer token"))
		}

		claims, err := s.issuer.Parse(token, auth.TokenTypeAccess)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorBody("invalid or expired token"))
		}

		c.Set(userIDKey, claims.UserID)
		return next(c)
	}
}

// actorID returns the authenticated caller's user ID. Only valid on
// routes behind requireAuth.
func actorID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

// requestLogger emits one slog line per request
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			slog.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}
