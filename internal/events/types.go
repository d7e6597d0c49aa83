package events

import "time"

// EventType indicates what kind of domain change occurred
type EventType string

const (
	EventTaskAssigned      EventType = "task_assigned"
	EventTaskStatusChanged EventType = "task_status"
	EventMemberAdded       EventType = "member_added"
	EventTaskDueSoon       EventType = "task_due"
)

// Event represents a domain change that downstream consumers may react to.
// TargetUserIDs names the users who should be notified; ActorID is the user
// whose action triggered the event and is excluded from notification fanout.
type Event struct {
	Type          EventType
	ActorID       string
	TargetUserIDs []string
	ProjectID     string
	TaskID        string
	Message       string
	Timestamp     time.Time
}
