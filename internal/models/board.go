package models

import "time"

// Board represents a kanban board belonging to a project
type Board struct {
	ID          string
	ProjectID   string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Column represents a board column (e.g., "To Do", "In Progress", "Done")
// Columns are ordered by Position within their board
type Column struct {
	ID        string
	BoardID   string
	Name      string
	Position  int
	CreatedAt time.Time
}
