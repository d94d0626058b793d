package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	TokenType string
	User      UserInfo
}

// LogoutInput identifies the token being revoked
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TTL      time.Duration // remaining lifetime of the token
}

// Actor is the authenticated user performing an operation
type Actor struct {
	ID   uuid.UUID
	Role identity.Role
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == identity.RoleAdmin
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID         uuid.UUID     `json:"id"`
	Username   string        `json:"username"`
	Name       string        `json:"name"`
	Email      string        `json:"email,omitempty"`
	Role       identity.Role `json:"role"`
	Department string        `json:"department,omitempty"`
	IsActive   bool          `json:"is_active"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// ToUserInfo converts a domain user to its public view
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:         u.ID,
		Username:   u.Username,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// CreateUserInput contains the fields for a new user
type CreateUserInput struct {
	Username   string
	Password   string
	Name       string
	Email      string
	Role       string
	Department string
}

// UpdateUserInput is a partial update; nil fields are left unchanged
type UpdateUserInput struct {
	Name       *string
	Email      *string
	Department *string
	Role       *string
	IsActive   *bool
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}
