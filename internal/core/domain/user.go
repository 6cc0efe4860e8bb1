package domain

import "time"

// Role identifies what part of the console a user operates.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleHealth Role = "health"
	RoleDriver Role = "driver"
	// RoleUnknown is the display fallback for role values that predate the
	// current enumeration. Stored rows may carry them; new writes may not.
	RoleUnknown Role = "unknown"
)

// Known reports whether the role belongs to the accepted set for writes.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleHealth, RoleDriver:
		return true
	}
	return false
}

// Display returns the role itself when known, RoleUnknown otherwise.
func (r Role) Display() Role {
	if r.Known() {
		return r
	}
	return RoleUnknown
}

// Status is the account state of a user.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Known reports whether the status belongs to the accepted set.
func (s Status) Known() bool {
	return s == StatusActive || s == StatusInactive
}

// User is the sole persisted entity: one row per console account.
// PasswordHash never serialises, so API responses are sanitized by construction.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
