// Package task implements task lifecycle, assignment, dependencies, and
// the per-user overview.
package task

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

const maxTitleLength = 255

// Service defines all task-related business operations
type Service interface {
	// Read operations
	GetTaskDetail(ctx context.Context, actorID, taskID string) (*models.TaskDetail, error)
	ListTasks(ctx context.Context, actorID string, filter ListFilter) (*database.PageResult[*models.Task], error)
	GetOverview(ctx context.Context, actorID string) (*models.TaskOverview, error)

	// Write operations
	CreateTask(ctx context.Context, req CreateRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, req UpdateRequest) (*models.Task, error)
	ChangeStatus(ctx context.Context, actorID, taskID, status string) (*models.Task, error)
	DeleteTask(ctx context.Context, actorID, taskID string) error

	// Assignment
	AssignUser(ctx context.Context, actorID, taskID, userID string) error
	UnassignUser(ctx context.Context, actorID, taskID, userID string) error

	// Dependencies
	AddDependency(ctx context.Context, actorID, taskID, dependsOnID string) error
	RemoveDependency(ctx context.Context, actorID, taskID, dependsOnID string) error
}

// CreateRequest encapsulates all data needed to create a task
type CreateRequest struct {
	ProjectID    string
	CreatedBy    string
	Title        string
	Description  string
	Status       string // Optional: empty means todo
	Priority     string // Optional: empty means medium
	ParentTaskID *string
	StartDate    *time.Time
	DueDate      *time.Time
	AssigneeIDs  []string
}

// UpdateRequest uses pointers for optional fields; nil means keep
type UpdateRequest struct {
	ActorID              string
	TaskID               string
	Title                *string
	Description          *string
	Priority             *string
	StartDate            *time.Time
	DueDate              *time.Time
	CompletionPercentage *int
}

// ListFilter narrows the visibility-scoped task listing
type ListFilter struct {
	ProjectID  string
	Status     string
	Priority   string
	DueBefore  *time.Time
	AssignedTo string
	Search     string
	OrderBy    string
	Page       database.PageRequest
}

type service struct {
	repo database.Store
	bus  events.Publisher
}

// NewService creates a new task service
func NewService(repo database.Store, bus events.Publisher) Service {
	return &service{repo: repo, bus: bus}
}

func (s *service) CreateTask(ctx context.Context, req CreateRequest) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, req.CreatedBy, req.ProjectID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidStatus
	}
	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskPriority(priority) {
		return nil, ErrInvalidPriority
	}
	if err := validateDates(req.StartDate, req.DueDate); err != nil {
		return nil, err
	}

	if req.ParentTaskID != nil {
		parent, err := s.repo.GetTaskByID(ctx, *req.ParentTaskID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, ErrTaskNotFound
			}
			return nil, err
		}
		if parent.ProjectID != req.ProjectID {
			return nil, ErrParentWrongProject
		}
	}

	task, err := s.repo.CreateTask(ctx, &models.Task{
		ProjectID:    req.ProjectID,
		CreatedBy:    req.CreatedBy,
		ParentTaskID: req.ParentTaskID,
		Title:        title,
		Description:  req.Description,
		Status:       status,
		Priority:     priority,
		StartDate:    req.StartDate,
		DueDate:      req.DueDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	for _, assigneeID := range req.AssigneeIDs {
		if err := s.AssignUser(ctx, req.CreatedBy, task.ID, assigneeID); err != nil {
			return nil, err
		}
	}
	return task, nil
}

func (s *service) GetTaskDetail(ctx context.Context, actorID, taskID string) (*models.TaskDetail, error) {
	task, err := s.getVisibleTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	assignees, err := s.repo.GetTaskAssignees(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignees: %w", err)
	}
	dependencies, err := s.repo.GetTaskDependencies(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dependencies: %w", err)
	}
	subtasks, err := s.repo.GetSubtasks(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subtasks: %w", err)
	}

	// A parent task reports the mean completion of its subtasks.
	if len(subtasks) > 0 {
		percentages, err := s.repo.GetSubtaskCompletion(ctx, taskID)
		if err != nil {
			return nil, err
		}
		task.CompletionPercentage = meanCompletion(percentages)
	}

	return &models.TaskDetail{
		Task:         *task,
		Assignees:    assignees,
		Dependencies: dependencies,
		Subtasks:     subtasks,
	}, nil
}

func (s *service) ListTasks(ctx context.Context, actorID string, filter ListFilter) (*database.PageResult[*models.Task], error) {
	if filter.Status != "" && !models.ValidTaskStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	if filter.Priority != "" && !models.ValidTaskPriority(filter.Priority) {
		return nil, ErrInvalidPriority
	}
	if filter.ProjectID != "" {
		if err := s.requireMember(ctx, actorID, filter.ProjectID); err != nil {
			return nil, err
		}
	}
	return s.repo.ListTasks(ctx, database.TaskFilter{
		VisibleTo:  actorID,
		ProjectID:  filter.ProjectID,
		Status:     filter.Status,
		Priority:   filter.Priority,
		DueBefore:  filter.DueBefore,
		AssignedTo: filter.AssignedTo,
		Search:     filter.Search,
		OrderBy:    filter.OrderBy,
		Page:       filter.Page,
	})
}

func (s *service) GetOverview(ctx context.Context, actorID string) (*models.TaskOverview, error) {
	return s.repo.GetTaskOverview(ctx, actorID, time.Now())
}

func (s *service) UpdateTask(ctx context.Context, req UpdateRequest) (*models.Task, error) {
	task, err := s.getVisibleTask(ctx, req.ActorID, req.TaskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		if !models.ValidTaskPriority(*req.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *req.Priority
	}
	if req.StartDate != nil {
		task.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.CompletionPercentage != nil {
		if *req.CompletionPercentage < 0 || *req.CompletionPercentage > 100 {
			return nil, ErrInvalidPercent
		}
		task.CompletionPercentage = *req.CompletionPercentage
	}
	if err := validateDates(task.StartDate, task.DueDate); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// ChangeStatus transitions a task and applies the side effects of the
// transition: the first move into in_progress stamps the start date, and
// completion stamps completed_at and forces 100 percent.
func (s *service) ChangeStatus(ctx context.Context, actorID, taskID, status string) (*models.Task, error) {
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidStatus
	}
	task, err := s.getVisibleTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == status {
		return task, nil
	}

	task.Status = status
	now := time.Now()
	switch status {
	case models.TaskStatusInProgress:
		if task.StartDate == nil {
			task.StartDate = &now
		}
	case models.TaskStatusCompleted:
		task.CompletedAt = &now
		task.CompletionPercentage = 100
	}
	if task.Status != models.TaskStatusCompleted {
		task.CompletedAt = nil
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to change status: %w", err)
	}

	s.notifyAssignees(ctx, actorID, task, events.EventTaskStatusChanged,
		fmt.Sprintf("Task %q moved to %s", task.Title, status))
	return task, nil
}

func (s *service) DeleteTask(ctx context.Context, actorID, taskID string) error {
	if _, err := s.getVisibleTask(ctx, actorID, taskID); err != nil {
		return err
	}
	return s.repo.DeleteTask(ctx, taskID)
}

func (s *service) AssignUser(ctx context.Context, actorID, taskID, userID string) error {
	task, err := s.getVisibleTask(ctx, actorID, taskID)
	if err != nil {
		return err
	}

	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	isMember, err := s.repo.IsProjectMember(ctx, task.ProjectID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrAssigneeNotMember
	}

	if err := s.repo.AssignUserToTask(ctx, taskID, userID); err != nil {
		return fmt.Errorf("failed to assign user: %w", err)
	}

	s.bus.Publish(events.Event{
		Type:          events.EventTaskAssigned,
		ActorID:       actorID,
		TargetUserIDs: []string{userID},
		ProjectID:     task.ProjectID,
		TaskID:        task.ID,
		Message:       fmt.Sprintf("You were assigned to task %q", task.Title),
	})
	return nil
}

func (s *service) UnassignUser(ctx context.Context, actorID, taskID, userID string) error {
	if _, err := s.getVisibleTask(ctx, actorID, taskID); err != nil {
		return err
	}
	return s.repo.UnassignUserFromTask(ctx, taskID, userID)
}

func (s *service) AddDependency(ctx context.Context, actorID, taskID, dependsOnID string) error {
	if taskID == dependsOnID {
		return ErrSelfDependency
	}

	task, err := s.getVisibleTask(ctx, actorID, taskID)
	if err != nil {
		return err
	}
	dependsOn, err := s.repo.GetTaskByID(ctx, dependsOnID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	if task.ProjectID != dependsOn.ProjectID {
		return ErrCrossProjectDep
	}

	// Adding taskID -> dependsOnID closes a cycle if taskID is already
	// reachable from dependsOnID.
	reachable, err := s.dependsTransitively(ctx, dependsOnID, taskID)
	if err != nil {
		return err
	}
	if reachable {
		return ErrCircularDependency
	}

	if err := s.repo.AddTaskDependency(ctx, taskID, dependsOnID); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return ErrDuplicateDependency
		}
		return fmt.Errorf("failed to add dependency: %w", err)
	}
	return nil
}

func (s *service) RemoveDependency(ctx context.Context, actorID, taskID, dependsOnID string) error {
	if _, err := s.getVisibleTask(ctx, actorID, taskID); err != nil {
		return err
	}
	return s.repo.RemoveTaskDependency(ctx, taskID, dependsOnID)
}

// dependsTransitively reports whether target is reachable from start by
// following dependency edges.
func (s *service) dependsTransitively(ctx context.Context, start, target string) (bool, error) {
	visited := map[string]bool{}
	stack := []string{start}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current == target {
			return true, nil
		}
		if visited[current] {
			continue
		}
		visited[current] = true

		next, err := s.repo.GetTaskDependencyIDs(ctx, current)
		if err != nil {
			return false, err
		}
		stack = append(stack, next...)
	}
	return false, nil
}

func (s *service) notifyAssignees(ctx context.Context, actorID string, task *models.Task, eventType events.EventType, message string) {
	assignees, err := s.repo.GetTaskAssignees(ctx, task.ID)
	if err != nil || len(assignees) == 0 {
		return
	}
	targets := make([]string, 0, len(assignees))
	for _, assignee := range assignees {
		targets = append(targets, assignee.ID)
	}
	s.bus.Publish(events.Event{
		Type:          eventType,
		ActorID:       actorID,
		TargetUserIDs: targets,
		ProjectID:     task.ProjectID,
		TaskID:        task.ID,
		Message:       message,
	})
}

func (s *service) getVisibleTask(ctx context.Context, actorID, taskID string) (*models.Task, error) {
	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if err := s.requireMember(ctx, actorID, task.ProjectID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *service) requireMember(ctx context.Context, actorID, projectID string) error {
	if _, err := s.repo.GetProjectByID(ctx, projectID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	isMember, err := s.repo.IsProjectMember(ctx, projectID, actorID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotMember
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func validateDates(start, due *time.Time) error {
	if start != nil && due != nil && due.Before(*start) {
		return ErrInvalidDates
	}
	return nil
}

func meanCompletion(percentages []int) int {
	if len(percentages) == 0 {
		return 0
	}
	sum := 0
	for _, p := range percentages {
		sum += p
	}
	mean := sum / len(percentages)
	if mean < 0 {
		return 0
	}
	if mean > 100 {
		return 100
	}
	return mean
}
