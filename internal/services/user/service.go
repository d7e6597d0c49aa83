// Package user implements account management: registration, login with
// JWT issuance, profile and role administration, and the audit trail.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tarea-pm/tarea/internal/auth"
	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/models"
)

const minPasswordLength = 8

// Service defines all account-related business operations
type Service interface {
	// Registration and authentication
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req LoginRequest) (*auth.TokenPair, *models.User, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error

	// Account access
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*models.Profile, error)

	// Role administration
	ListRoles(ctx context.Context) ([]*models.Role, error)
	GetRole(ctx context.Context, roleID string) (*models.Role, error)
	CreateRole(ctx context.Context, actorID, name, description string) (*models.Role, error)
	UpdateRole(ctx context.Context, actorID, roleID, name, description string) error
	DeleteRole(ctx context.Context, actorID, roleID string) error
	AssignRole(ctx context.Context, actorID, userID, roleID string) error

	// Audit trail
	ListAuditLogs(ctx context.Context, actorID string, filter database.AuditFilter) ([]*models.AuditLog, error)
}

// RegisterRequest encapsulates all data needed to create an account
type RegisterRequest struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	IsStaff   bool

	IPAddress string
	UserAgent string
}

// LoginRequest carries credentials; Login accepts either username or email
type LoginRequest struct {
	Login    string
	Password string

	IPAddress string
	UserAgent string
}

type ChangePasswordRequest struct {
	UserID      string
	OldPassword string
	NewPassword string
}

// UpdateProfileRequest uses pointers for optional fields; nil means keep
type UpdateProfileRequest struct {
	UserID            string
	FirstName         *string
	LastName          *string
	Bio               *string
	PhoneNumber       *string
	Timezone          *string
	Department        *string
	Position          *string
	Location          *string
	PreferredLanguage *string
}

type service struct {
	repo   database.Store
	issuer *auth.Issuer
}

// NewService creates a new user service
func NewService(repo database.Store, issuer *auth.Issuer) Service {
	return &service{repo: repo, issuer: issuer}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := validateRegister(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      req.IsStaff,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit(ctx, &user.ID, user.Email, models.AuditActionRegister, req.IPAddress, req.UserAgent)
	return user, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*auth.TokenPair, *models.User, error) {
	user, err := s.repo.GetUserByLogin(ctx, strings.TrimSpace(req.Login))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		return nil, nil, ErrInactiveUser
	}
	if auth.CheckPassword(user.PasswordHash, req.Password) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuer.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		slog.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}
	user.LastLogin = &now

	s.audit(ctx, &user.ID, user.Email, models.AuditActionLogin, req.IPAddress, req.UserAgent)
	return pair, user, nil
}

// Logout revokes a refresh token by blacklisting its token ID until it
// would have expired anyway. Access tokens are left to expire on their own.
func (s *service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.issuer.Parse(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return ErrInvalidToken
	}
	if err := s.repo.BlacklistToken(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	s.audit(ctx, &claims.UserID, claims.Email, models.AuditActionLogout, "", "")
	return nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.issuer.Parse(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	revoked, err := s.repo.IsTokenBlacklisted(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	// Rotate: the old refresh token is revoked once a new pair is issued.
	if err := s.repo.BlacklistToken(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	return s.issuer.IssuePair(user.ID, user.Email)
}

func (s *service) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.repo.GetUserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if auth.CheckPassword(user.PasswordHash, req.OldPassword) != nil {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.audit(ctx, &user.ID, user.Email, models.AuditActionPasswordChange, "", "")
	return nil
}

func (s *service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *service) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&profile.Bio, req.Bio)
	applyString(&profile.PhoneNumber, req.PhoneNumber)
	applyString(&profile.Timezone, req.Timezone)
	applyString(&profile.Department, req.Department)
	applyString(&profile.Position, req.Position)
	applyString(&profile.Location, req.Location)
	applyString(&profile.PreferredLanguage, req.PreferredLanguage)

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	user, err := s.repo.GetUserByID(ctx, req.UserID)
	if err == nil {
		s.audit(ctx, &user.ID, user.Email, models.AuditActionProfileUpdate, "", "")
	}
	return profile, nil
}

func (s *service) ListRoles(ctx context.Context) ([]*models.Role, error) {
	return s.repo.GetAllRoles(ctx)
}

func (s *service) GetRole(ctx context.Context, roleID string) (*models.Role, error) {
	role, err := s.repo.GetRoleByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return role, nil
}

func (s *service) CreateRole(ctx context.Context, actorID, name, description string) (*models.Role, error) {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidRole
	}
	role, err := s.repo.CreateRole(ctx, name, description)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDuplicateRole
		}
		return nil, err
	}
	return role, nil
}

func (s *service) UpdateRole(ctx context.Context, actorID, roleID, name, description string) error {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return ErrInvalidRole
	}
	if err := s.repo.UpdateRole(ctx, roleID, strings.TrimSpace(name), description); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	return nil
}

func (s *service) DeleteRole(ctx context.Context, actorID, roleID string) error {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return err
	}
	if err := s.repo.DeleteRole(ctx, roleID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	return nil
}

func (s *service) AssignRole(ctx context.Context, actorID, userID, roleID string) error {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return err
	}
	if _, err := s.repo.GetRoleByID(ctx, roleID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	profile.RoleID = &roleID
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	if user, err := s.repo.GetUserByID(ctx, userID); err == nil {
		s.audit(ctx, &user.ID, user.Email, models.AuditActionRoleUpdate, "", "")
	}
	return nil
}

func (s *service) ListAuditLogs(ctx context.Context, actorID string, filter database.AuditFilter) ([]*models.AuditLog, error) {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListAuditLogs(ctx, filter)
}

func (s *service) requireStaff(ctx context.Context, actorID string) error {
	actor, err := s.repo.GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !actor.IsStaff {
		return ErrNotStaff
	}
	return nil
}

// audit writes a trail entry. Failures are logged, never surfaced: the
// user-facing operation has already succeeded at this point.
func (s *service) audit(ctx context.Context, userID *string, email, action, ip, userAgent string) {
	entry := &models.AuditLog{
		UserID:    userID,
		UserEmail: email,
		Action:    action,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.repo.InsertAuditLog(ctx, entry); err != nil {
		slog.Error("failed to write audit log", "action", action, "error", err)
	}
}

func validateRegister(req RegisterRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return ErrEmptyEmail
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return ErrInvalidEmail
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return ErrEmptyUsername
	}
	if len(username) > 150 {
		return ErrUsernameTooLong
	}
	if len(req.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
