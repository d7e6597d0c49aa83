package models

import "time"

// User is an account that can authenticate and own or join projects.
// IDs are UUID strings generated at creation time.
type User struct {
	ID           string
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	DateJoined   time.Time
	LastLogin    *time.Time
}

// FullName returns the first and last name joined with a space.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Role groups users by responsibility (admin, manager, developer, client)
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Profile holds the optional per-user settings attached to a User
type Profile struct {
	UserID            string
	Bio               string
	PhoneNumber       string
	Timezone          string
	Department        string
	Position          string
	Location          string
	PreferredLanguage string
	RoleID            *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AuditLog records a security-relevant account action
type AuditLog struct {
	ID        string
	UserID    *string
	UserEmail string
	Action    string
	IPAddress string
	UserAgent string
	Metadata  string // JSON blob
	Timestamp time.Time
}
