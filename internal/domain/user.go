package domain

import (
	"time"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// IsValidRole checks whether the given role string is a valid user role.
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered user. The username is normalized at
// registration and immutable afterwards; the password hash only changes
// through a re-encode operation.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is an authenticated identity. It carries no credential material:
// the password is verified and discarded before a Principal is built.
type Principal struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
