// Package models pkg/models/users.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level assigned to a user.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleOperator Role = "Operator"
)

// ParseRole maps a request string onto a known role, case-sensitively on
// the canonical forms and tolerantly on common lowercase input.
func ParseRole(s string) (Role, bool) {
	switch s {
	case string(RoleAdmin), "admin":
		return RoleAdmin, true
	case string(RoleOperator), "operator":
		return RoleOperator, true
	default:
		return "", false
	}
}

// User is an account in the management UI. PasswordHash is a bcrypt hash
// and must never leave the auth package in API responses.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"fullName"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// UserDTO is the external representation of a User.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"fullName"`
	Role        Role       `json:"role"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// DTO converts a User to its external representation.
func (u *User) DTO() UserDTO {
	return UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
