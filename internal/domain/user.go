package domain

import "time"

// Role enumerates the closed set of account roles. Any other value is
// rejected at the boundary.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleSupport Role = "support"
	RoleUser    Role = "user"
)

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin, RoleSupport, RoleUser:
		return Role(raw), true
	}
	return "", false
}

// User is an account on the platform: an employee filing tickets, a support
// specialist working them, or an administrator.
type User struct {
	ID            int64
	Email         string
	PasswordHash  string
	Role          Role
	FirstName     string
	LastName      string
	MiddleName    *string
	MobilePhone   *string
	InternalPhone *string
	Floor         *int
	OfficeNumber  *string
	Position      string
	IsBlocked     bool
	CreatedAt     time.Time
}
