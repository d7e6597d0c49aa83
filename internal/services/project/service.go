// Package project implements project lifecycle, membership, and label
// management on top of the repository layer.
package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tarea-pm/tarea/internal/database"
	"github.com/tarea-pm/tarea/internal/events"
	"github.com/tarea-pm/tarea/internal/models"
)

const (
	minNameLength  = 3
	maxNameLength  = 200
	minLabelLength = 2
)

// Service defines all project-related business operations
type Service interface {
	// Read operations
	GetProject(ctx context.Context, actorID, projectID string) (*models.ProjectDetail, error)
	ListProjects(ctx context.Context, actorID string, filter ListFilter) (*database.PageResult[*models.Project], error)

	// Write operations
	CreateProject(ctx context.Context, req CreateRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, req UpdateRequest) (*models.Project, error)
	UpdateStatus(ctx context.Context, actorID, projectID, status string) error
	UpdatePriority(ctx context.Context, actorID, projectID, priority string) error
	Archive(ctx context.Context, actorID, projectID string) error
	DeleteProject(ctx context.Context, actorID, projectID string) error

	// Membership
	AddMember(ctx context.Context, actorID, projectID, userID string) error
	RemoveMember(ctx context.Context, actorID, projectID, userID string) error

	// Labels
	CreateLabel(ctx context.Context, actorID, projectID, name, color string) (*models.Label, error)
	UpdateLabel(ctx context.Context, actorID, projectID, labelID, name, color string) error
	DeleteLabel(ctx context.Context, actorID, projectID, labelID string) error
}

// CreateRequest encapsulates all data needed to create a project
type CreateRequest struct {
	Name        string
	Description string
	Status      string // Optional: empty means planned
	Priority    string // Optional: empty means medium
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedBy   string
}

// UpdateRequest uses pointers for optional fields; nil means keep
type UpdateRequest struct {
	ActorID     string
	ProjectID   string
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// ListFilter narrows the member-scoped project listing
type ListFilter struct {
	Status   string
	Priority string
	MemberID string
	Search   string
	Page     database.PageRequest
}

type service struct {
	repo database.Store
	bus  events.Publisher
}

// NewService creates a new project service
func NewService(repo database.Store, bus events.Publisher) Service {
	return &service{repo: repo, bus: bus}
}

func (s *service) CreateProject(ctx context.Context, req CreateRequest) (*models.Project, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.ProjectStatusPlanned
	}
	if !models.ValidProjectStatus(status) {
		return nil, ErrInvalidStatus
	}
	priority := req.Priority
	if priority == "" {
		priority = models.ProjectPriorityMedium
	}
	if !models.ValidProjectPriority(priority) {
		return nil, ErrInvalidPriority
	}
	if err := validateDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	project, err := s.repo.CreateProject(ctx, &models.Project{
		Name:        name,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	// Every project starts with a ready-to-use kanban board.
	if _, err := s.repo.CreateBoard(ctx, project.ID, "Main Board", "", models.DefaultBoardColumns); err != nil {
		return nil, fmt.Errorf("failed to create default board: %w", err)
	}

	return project, nil
}

func (s *service) GetProject(ctx context.Context, actorID, projectID string) (*models.ProjectDetail, error) {
	project, err := s.getMemberProject(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.GetProjectMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	labels, err := s.repo.GetLabelsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}

	return &models.ProjectDetail{Project: *project, Members: members, Labels: labels}, nil
}

func (s *service) ListProjects(ctx context.Context, actorID string, filter ListFilter) (*database.PageResult[*models.Project], error) {
	if filter.Status != "" && !models.ValidProjectStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	if filter.Priority != "" && !models.ValidProjectPriority(filter.Priority) {
		return nil, ErrInvalidPriority
	}
	return s.repo.ListProjects(ctx, database.ProjectFilter{
		MemberOf: actorID,
		Status:   filter.Status,
		Priority: filter.Priority,
		MemberID: filter.MemberID,
		Search:   filter.Search,
		Page:     filter.Page,
	})
}

func (s *service) UpdateProject(ctx context.Context, req UpdateRequest) (*models.Project, error) {
	project, err := s.getOwnedProject(ctx, req.ActorID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		project.Name = name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if err := validateDates(project.StartDate, project.EndDate); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProject(ctx, project); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

func (s *service) UpdateStatus(ctx context.Context, actorID, projectID, status string) error {
	if !models.ValidProjectStatus(status) {
		return ErrInvalidStatus
	}
	if _, err := s.getMemberProject(ctx, actorID, projectID); err != nil {
		return err
	}
	return s.repo.UpdateProjectStatus(ctx, projectID, status)
}

func (s *service) UpdatePriority(ctx context.Context, actorID, projectID, priority string) error {
	if !models.ValidProjectPriority(priority) {
		return ErrInvalidPriority
	}
	if _, err := s.getMemberProject(ctx, actorID, projectID); err != nil {
		return err
	}
	return s.repo.UpdateProjectPriority(ctx, projectID, priority)
}

func (s *service) Archive(ctx context.Context, actorID, projectID string) error {
	if _, err := s.getOwnedProject(ctx, actorID, projectID); err != nil {
		return err
	}
	return s.repo.UpdateProjectStatus(ctx, projectID, models.ProjectStatusArchived)
}

func (s *service) DeleteProject(ctx context.Context, actorID, projectID string) error {
	if _, err := s.getOwnedProject(ctx, actorID, projectID); err != nil {
		return err
	}
	return s.repo.DeleteProject(ctx, projectID)
}

func (s *service) AddMember(ctx context.Context, actorID, projectID, userID string) error {
	project, err := s.getMemberProject(ctx, actorID, projectID)
	if err != nil {
		return err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.repo.AddProjectMember(ctx, projectID, userID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	s.bus.Publish(events.Event{
		Type:          events.EventMemberAdded,
		ActorID:       actorID,
		TargetUserIDs: []string{user.ID},
		ProjectID:     projectID,
		Message:       fmt.Sprintf("You were added to project %q", project.Name),
	})
	return nil
}

func (s *service) RemoveMember(ctx context.Context, actorID, projectID, userID string) error {
	project, err := s.getMemberProject(ctx, actorID, projectID)
	if err != nil {
		return err
	}
	if userID == project.CreatedBy {
		return ErrCreatorRemoval
	}
	return s.repo.RemoveProjectMember(ctx, projectID, userID)
}

func (s *service) CreateLabel(ctx context.Context, actorID, projectID, name, color string) (*models.Label, error) {
	if _, err := s.getMemberProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if len(name) < minLabelLength {
		return nil, ErrEmptyLabelName
	}
	if color == "" {
		color = models.DefaultLabelColor
	}
	if !validHexColor(color) {
		return nil, ErrInvalidColorHex
	}

	label, err := s.repo.CreateLabel(ctx, projectID, name, color)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDuplicateLabel
		}
		return nil, fmt.Errorf("failed to create label: %w", err)
	}
	return label, nil
}

func (s *service) UpdateLabel(ctx context.Context, actorID, projectID, labelID, name, color string) error {
	if _, err := s.getMemberProject(ctx, actorID, projectID); err != nil {
		return err
	}
	label, err := s.repo.GetLabelByID(ctx, labelID)
	if err != nil || label.ProjectID != projectID {
		return ErrLabelNotFound
	}

	name = strings.TrimSpace(name)
	if len(name) < minLabelLength {
		return ErrEmptyLabelName
	}
	if color == "" {
		color = label.Color
	}
	if !validHexColor(color) {
		return ErrInvalidColorHex
	}

	if err := s.repo.UpdateLabel(ctx, labelID, name, color); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return ErrDuplicateLabel
		}
		return err
	}
	return nil
}

func (s *service) DeleteLabel(ctx context.Context, actorID, projectID, labelID string) error {
	if _, err := s.getMemberProject(ctx, actorID, projectID); err != nil {
		return err
	}
	label, err := s.repo.GetLabelByID(ctx, labelID)
	if err != nil || label.ProjectID != projectID {
		return ErrLabelNotFound
	}
	return s.repo.DeleteLabel(ctx, labelID)
}

// getMemberProject loads a project and verifies the actor belongs to it.
func (s *service) getMemberProject(ctx context.Context, actorID, projectID string) (*models.Project, error) {
	project, err := s.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	isMember, err := s.repo.IsProjectMember(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}
	return project, nil
}

// getOwnedProject loads a project and verifies the actor created it.
func (s *service) getOwnedProject(ctx context.Context, actorID, projectID string) (*models.Project, error) {
	project, err := s.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if project.CreatedBy != actorID {
		return nil, ErrNotOwner
	}
	return project, nil
}

func validateName(name string) error {
	if len(name) < minNameLength {
		return ErrNameTooShort
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidDates
	}
	return nil
}

func validHexColor(color string) bool {
	if len(color) != 7 || color[0] != '#' {
		return false
	}
	for _, c := range color[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
