package api

import (
	"time"

	"github.com/tarea-pm/tarea/internal/models"
	"github.com/tarea-pm/tarea/internal/services/analytics"
	"github.com/tarea-pm/tarea/internal/services/board"
)

// Response shapes. Models stay tag-free; the wire format is defined here.

type userResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	FullName   string     `json:"full_name"`
	IsActive   bool       `json:"is_active"`
	IsStaff    bool       `json:"is_staff"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"last_login"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		FullName:   u.FullName(),
		IsActive:   u.IsActive,
		IsStaff:    u.IsStaff,
		DateJoined: u.DateJoined,
		LastLogin:  u.LastLogin,
	}
}

func toUserResponses(users []*models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type profileResponse struct {
	UserID            string  `json:"user_id"`
	Bio               string  `json:"bio"`
	PhoneNumber       string  `json:"phone_number"`
	Timezone          string  `json:"timezone"`
	Department        string  `json:"department"`
	Position          string  `json:"position"`
	Location          string  `json:"location"`
	PreferredLanguage string  `json:"preferred_language"`
	RoleID            *string `json:"role_id"`
}

func toProfileResponse(p *models.Profile) profileResponse {
	return profileResponse{
		UserID:            p.UserID,
		Bio:               p.Bio,
		PhoneNumber:       p.PhoneNumber,
		Timezone:          p.Timezone,
		Department:        p.Department,
		Position:          p.Position,
		Location:          p.Location,
		PreferredLanguage: p.PreferredLanguage,
		RoleID:            p.RoleID,
	}
}

type roleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toRoleResponse(r *models.Role) roleResponse {
	return roleResponse{ID: r.ID, Name: r.Name, Description: r.Description}
}

type auditLogResponse struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	UserEmail string    `json:"user_email"`
	Action    string    `json:"action"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

func toAuditLogResponse(a *models.AuditLog) auditLogResponse {
	return auditLogResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		UserEmail: a.UserEmail,
		Action:    a.Action,
		IPAddress: a.IPAddress,
		UserAgent: a.UserAgent,
		Metadata:  a.Metadata,
		CreatedAt: a.Timestamp,
	}
}

type projectResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toProjectResponse(p *models.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Priority:    p.Priority,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type projectDetailResponse struct {
	projectResponse
	Members []userResponse  `json:"members"`
	Labels  []labelResponse `json:"labels"`
}

func toProjectDetailResponse(d *models.ProjectDetail) projectDetailResponse {
	labels := make([]labelResponse, 0, len(d.Labels))
	for _, l := range d.Labels {
		labels = append(labels, toLabelResponse(l))
	}
	return projectDetailResponse{
		projectResponse: toProjectResponse(&d.Project),
		Members:         toUserResponses(d.Members),
		Labels:          labels,
	}
}

type labelResponse struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
}

func toLabelResponse(l *models.Label) labelResponse {
	return labelResponse{ID: l.ID, ProjectID: l.ProjectID, Name: l.Name, Color: l.Color}
}

type boardResponse struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toBoardResponse(b *models.Board) boardResponse {
	return boardResponse{ID: b.ID, ProjectID: b.ProjectID, Name: b.Name, Description: b.Description}
}

type columnResponse struct {
	ID       string `json:"id"`
	BoardID  string `json:"board_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type boardDetailResponse struct {
	boardResponse
	Columns []boardColumnResponse `json:"columns"`
}

type boardColumnResponse struct {
	columnResponse
	Tasks []taskResponse `json:"tasks"`
}

func toBoardDetailResponse(d *board.BoardDetail) boardDetailResponse {
	out := boardDetailResponse{boardResponse: toBoardResponse(&d.Board)}
	for _, col := range d.Columns {
		columnOut := boardColumnResponse{
			columnResponse: columnResponse{
				ID:       col.Column.ID,
				BoardID:  col.Column.BoardID,
				Name:     col.Column.Name,
				Position: col.Column.Position,
			},
			Tasks: make([]taskResponse, 0, len(col.Tasks)),
		}
		for _, t := range col.Tasks {
			columnOut.Tasks = append(columnOut.Tasks, toTaskResponse(t))
		}
		out.Columns = append(out.Columns, columnOut)
	}
	return out
}

type taskResponse struct {
	ID                   string     `json:"id"`
	ProjectID            string     `json:"project_id"`
	CreatedBy            string     `json:"created_by"`
	ParentTaskID         *string    `json:"parent_task_id"`
	ColumnID             *string    `json:"column_id"`
	Position             int        `json:"position"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Status               string     `json:"status"`
	Priority             string     `json:"priority"`
	StartDate            *time.Time `json:"start_date"`
	DueDate              *time.Time `json:"due_date"`
	CompletionPercentage int        `json:"completion_percentage"`
	CompletedAt          *time.Time `json:"completed_at"`
	IsOverdue            bool       `json:"is_overdue"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func toTaskResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:                   t.ID,
		ProjectID:            t.ProjectID,
		CreatedBy:            t.CreatedBy,
		ParentTaskID:         t.ParentTaskID,
		ColumnID:             t.ColumnID,
		Position:             t.Position,
		Title:                t.Title,
		Description:          t.Description,
		Status:               t.Status,
		Priority:             t.Priority,
		StartDate:            t.StartDate,
		DueDate:              t.DueDate,
		CompletionPercentage: t.CompletionPercentage,
		CompletedAt:          t.CompletedAt,
		IsOverdue:            t.IsOverdue(time.Now()),
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

type taskRefResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type taskDetailResponse struct {
	taskResponse
	Assignees    []userResponse    `json:"assignees"`
	Dependencies []taskRefResponse `json:"dependencies"`
	Subtasks     []taskRefResponse `json:"subtasks"`
}

func toTaskDetailResponse(d *models.TaskDetail) taskDetailResponse {
	refs := func(in []*models.TaskRef) []taskRefResponse {
		out := make([]taskRefResponse, 0, len(in))
		for _, r := range in {
			out = append(out, taskRefResponse{ID: r.ID, Title: r.Title, Status: r.Status})
		}
		return out
	}
	return taskDetailResponse{
		taskResponse: toTaskResponse(&d.Task),
		Assignees:    toUserResponses(d.Assignees),
		Dependencies: refs(d.Dependencies),
		Subtasks:     refs(d.Subtasks),
	}
}

type worklogResponse struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	UserID     string    `json:"user_id"`
	Minutes    int       `json:"minutes"`
	DateWorked time.Time `json:"date_worked"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

func toWorkLogResponse(w *models.WorkLog) worklogResponse {
	return worklogResponse{
		ID:         w.ID,
		TaskID:     w.TaskID,
		UserID:     w.UserID,
		Minutes:    w.Minutes,
		DateWorked: w.DateWorked,
		Note:       w.Note,
		CreatedAt:  w.CreatedAt,
	}
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	TaskID    *string   `json:"task_id"`
	ProjectID *string   `json:"project_id"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationResponse(n *models.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		TaskID:    n.TaskID,
		ProjectID: n.ProjectID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

type projectStatsResponse struct {
	TasksByStatus     map[string]int `json:"tasks_by_status"`
	TasksByPriority   map[string]int `json:"tasks_by_priority"`
	AverageCompletion int            `json:"average_completion"`
	OverdueTasks      int            `json:"overdue_tasks"`
	LoggedMinutes     int            `json:"logged_minutes"`
	MemberCount       int            `json:"member_count"`
}

func toProjectStatsResponse(s *models.ProjectStats) projectStatsResponse {
	return projectStatsResponse{
		TasksByStatus:     s.TasksByStatus,
		TasksByPriority:   s.TasksByPriority,
		AverageCompletion: s.AverageCompletion,
		OverdueTasks:      s.OverdueTasks,
		LoggedMinutes:     s.LoggedMinutes,
		MemberCount:       s.MemberCount,
	}
}

type taskOverviewResponse struct {
	StatusCounts map[string]int `json:"status_counts"`
	OverdueTasks int            `json:"overdue_tasks"`
	DueSoon      int            `json:"due_soon"`
}

type userOverviewResponse struct {
	taskOverviewResponse
	MinutesThisWeek int `json:"minutes_this_week"`
}

func toUserOverviewResponse(o *analytics.UserOverview) userOverviewResponse {
	return userOverviewResponse{
		taskOverviewResponse: taskOverviewResponse{
			StatusCounts: o.Tasks.StatusCounts,
			OverdueTasks: o.Tasks.OverdueTasks,
			DueSoon:      o.Tasks.DueSoon,
		},
		MinutesThisWeek: o.MinutesThisWeek,
	}
}

// pageResponse is the pagination envelope for paged listings
type pageResponse[T any] struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Results  []T `json:"results"`
}
