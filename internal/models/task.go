package models

import "time"

// Task represents a unit of work inside a project
type Task struct {
	ID                   string
	ProjectID            string
	CreatedBy            string
	ParentTaskID         *string
	ColumnID             *string
	Position             int
	Title                string
	Description          string
	Status               string
	Priority             string
	StartDate            *time.Time
	DueDate              *time.Time
	CompletionPercentage int
	CompletedAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsOverdue reports whether the task is past its due date and not completed
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(truncateToDay(now)) && t.Status != TaskStatusCompleted
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TaskRef is a lightweight reference to a related task
// Used for dependencies and subtasks without loading full task details
type TaskRef struct {
	ID     string
	Title  string
	Status string
}

// TaskDetail is a DTO for the full task view, including relationship data
type TaskDetail struct {
	Task
	Assignees    []*User
	Dependencies []*TaskRef
	Subtasks     []*TaskRef
}

// TaskOverview summarizes a user's workload
type TaskOverview struct {
	StatusCounts map[string]int
	OverdueTasks int
	DueSoon      int
}

// WorkLog records time spent by a user on a task
type WorkLog struct {
	ID         string
	TaskID     string
	UserID     string
	Minutes    int
	DateWorked time.Time
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Notification is a message delivered to a single user
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Message   string
	TaskID    *string
	ProjectID *string
	Read      bool
	CreatedAt time.Time
}
