package models

// ============================================================================
// ROLE CONSTANTS
// ============================================================================

const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"
	RoleDeveloper = "developer"
	RoleClient    = "client"
)

// SeedRoles lists the roles created by migrations, in creation order
var SeedRoles = []string{RoleAdmin, RoleManager, RoleDeveloper, RoleClient}

// ============================================================================
// PROJECT STATUS / PRIORITY
// ============================================================================

const (
	ProjectStatusPlanned    = "PL"
	ProjectStatusInProgress = "IP"
	ProjectStatusOnHold     = "OH"
	ProjectStatusCompleted  = "CO"
	ProjectStatusArchived   = "AR"
)

const (
	ProjectPriorityLow      = "LOW"
	ProjectPriorityMedium   = "MED"
	ProjectPriorityHigh     = "HI"
	ProjectPriorityCritical = "CRIT"
)

// ValidProjectStatus reports whether s is a known project status code
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusPlanned, ProjectStatusInProgress, ProjectStatusOnHold,
		ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

// ValidProjectPriority reports whether p is a known project priority code
func ValidProjectPriority(p string) bool {
	switch p {
	case ProjectPriorityLow, ProjectPriorityMedium, ProjectPriorityHigh, ProjectPriorityCritical:
		return true
	}
	return false
}

// ============================================================================
// TASK STATUS / PRIORITY
// ============================================================================

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusInReview   = "in_review"
	TaskStatusBlocked    = "blocked"
	TaskStatusCompleted  = "completed"
)

const (
	TaskPriorityLow      = "low"
	TaskPriorityMedium   = "medium"
	TaskPriorityHigh     = "high"
	TaskPriorityCritical = "critical"
)

// ValidTaskStatus reports whether s is a known task status
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview,
		TaskStatusBlocked, TaskStatusCompleted:
		return true
	}
	return false
}

// ValidTaskPriority reports whether p is a known task priority
func ValidTaskPriority(p string) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityCritical:
		return true
	}
	return false
}

// PriorityRank maps task priorities to sort weight (lower sorts first)
func PriorityRank(p string) int {
	switch p {
	case TaskPriorityCritical:
		return 1
	case TaskPriorityHigh:
		return 2
	case TaskPriorityMedium:
		return 3
	case TaskPriorityLow:
		return 4
	}
	return 5
}

// ============================================================================
// AUDIT ACTIONS
// ============================================================================

const (
	AuditActionRegister       = "register"
	AuditActionLogin          = "login"
	AuditActionLogout         = "logout"
	AuditActionPasswordChange = "password_change"
	AuditActionProfileUpdate  = "profile_update"
	AuditActionRoleUpdate     = "role_update"
)

// AuditActions lists every recognized audit action
var AuditActions = []string{
	AuditActionRegister,
	AuditActionLogin,
	AuditActionLogout,
	AuditActionPasswordChange,
	AuditActionProfileUpdate,
	AuditActionRoleUpdate,
}

// ============================================================================
// NOTIFICATION TYPES
// ============================================================================

const (
	NotificationTaskAssigned = "task_assigned"
	NotificationTaskStatus   = "task_status"
	NotificationMemberAdded  = "member_added"
	NotificationTaskDue      = "task_due"
)

// ============================================================================
// DEFAULTS
// ============================================================================

// DefaultLabelColor is used when a label is created without a color
const DefaultLabelColor = "#808080"

// DefaultBoardColumns are created with every new project's board
var DefaultBoardColumns = []string{"To Do", "In Progress", "In Review", "Done"}

// DueSoonDays is the window used for "due soon" overview counts
const DueSoonDays = 3
