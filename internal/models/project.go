package models

import "time"

// Project represents a container for boards, tasks and members.
// Projects are the top-level organizational unit.
type Project struct {
	ID          string
	Name        string
	Description string
	Status      string
	Priority    string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectDetail is a DTO combining a project with its members and labels
type ProjectDetail struct {
	Project
	Members []*User
	Labels  []*Label
}

// Label represents a tag scoped to a project, similar to GitHub labels
type Label struct {
	ID        string
	ProjectID string
	Name      string
	Color     string // Hex color code (e.g., "#808080")
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectStats aggregates task and worklog figures for a project
type ProjectStats struct {
	ProjectID         string
	TasksByStatus     map[string]int
	TasksByPriority   map[string]int
	AverageCompletion int
	OverdueTasks      int
	LoggedMinutes     int
	MemberCount       int
}
