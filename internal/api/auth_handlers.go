package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tarea-pm/tarea/internal/auth"
	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/models"
	"github.com/tarea-pm/tarea/internal/services/user"
)

type registerRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Password != req.PasswordConfirm {
		return badRequest(c, "passwords do not match")
	}

	created, err := s.services.Users.Register(c.Request().Context(), user.RegisterRequest{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toUserResponse(created))
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    userResponse `json:"user"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	pair, loggedIn, err := s.services.Users.Login(c.Request().Context(), user.LoginRequest{
		Login:     req.Login,
		Password:  req.Password,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, loginResponse{
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
		User:    toUserResponse(loggedIn),
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (s *Server) handleRefresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	pair, err := s.services.Users.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, pair)
}

type verifyRequest struct {
	Token string `json:"token"`
}

// handleVerify checks an access token without touching any state
func (s *Server) handleVerify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if _, err := s.issuer.Parse(req.Token, auth.TokenTypeAccess); err != nil {
		return c.JSON(http.StatusUnauthorized, errorBody("invalid or expired token"))
	}
	return c.JSON(http.StatusOK, map[string]bool{"valid": true})
}

func (s *Server) handleLogout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := s.services.Users.Logout(c.Request().Context(), req.Refresh); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (s *Server) handleChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	err := s.services.Users.ChangePassword(c.Request().Context(), user.ChangePasswordRequest{
		UserID:      actorID(c),
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type fullProfileResponse struct {
	User    userResponse    `json:"user"`
	Profile profileResponse `json:"profile"`
}

func (s *Server) handleGetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	account, err := s.services.Users.GetUser(ctx, actorID(c))
	if err != nil {
		return serviceError(c, err)
	}
	profile, err := s.services.Users.GetProfile(ctx, actorID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, fullProfileResponse{
		User:    toUserResponse(account),
		Profile: toProfileResponse(profile),
	})
}

type updateProfileRequest struct {
	Bio               *string `json:"bio"`
	PhoneNumber       *string `json:"phone_number"`
	Timezone          *string `json:"timezone"`
	Department        *string `json:"department"`
	Position          *string `json:"position"`
	Location          *string `json:"location"`
	PreferredLanguage *string `json:"preferred_language"`
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	profile, err := s.services.Users.UpdateProfile(c.Request().Context(), user.UpdateProfileRequest{
		UserID:            actorID(c),
		Bio:               req.Bio,
		PhoneNumber:       req.PhoneNumber,
		Timezone:          req.Timezone,
		Department:        req.Department,
		Position:          req.Position,
		Location:          req.Location,
		PreferredLanguage: req.PreferredLanguage,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (s *Server) handleListRoles(c echo.Context) error {
	roles, err := s.services.Users.ListRoles(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, toRoleResponse(role))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetRole(c echo.Context) error {
	role, err := s.services.Users.GetRole(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toRoleResponse(role))
}

type roleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleCreateRole(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	role, err := s.services.Users.CreateRole(c.Request().Context(), actorID(c), req.Name, req.Description)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toRoleResponse(role))
}

func (s *Server) handleUpdateRole(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	err := s.services.Users.UpdateRole(c.Request().Context(), actorID(c), c.Param("id"), req.Name, req.Description)
	if err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteRole(c echo.Context) error {
	if err := s.services.Users.DeleteRole(c.Request().Context(), actorID(c), c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleAssignRole(c echo.Context) error {
	err := s.services.Users.AssignRole(c.Request().Context(), actorID(c), c.Param("userID"), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListAuditLogs(c echo.Context) error {
	logs, err := s.services.Users.ListAuditLogs(c.Request().Context(), actorID(c), database.AuditFilter{
		UserID: c.QueryParam("user_id"),
		Action: c.QueryParam("action"),
	})
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]auditLogResponse, 0, len(logs))
	for _, entry := range logs {
		out = append(out, toAuditLogResponse(entry))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleListAuditActions(c echo.Context) error {
	return c.JSON(http.StatusOK, models.AuditActions)
}
