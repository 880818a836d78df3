package entity

import "time"

// Roles known to the console.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// SessionUser is the authenticated principal behind a session token.
type SessionUser struct {
	ID     string
	Name   string
	Email  string
	Role   string // admin, user
	Avatar string
}

// IsAdmin reports whether the user holds the admin role.
func (u *SessionUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// User is a shop account managed from the Users section.
type User struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Role      string
	IsActive  bool
	CreatedAt time.Time
}
