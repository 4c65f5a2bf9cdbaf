package entity

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// RoleAssignment is the single role row stored on a user's profile.
// Only RoleAdmin grants access to protected paths.
type RoleAssignment struct {
	UserID string
	Role   string
}

func (r RoleAssignment) IsAdmin() bool { return r.Role == RoleAdmin }
