package handler

import (
	"time"

	appidentity "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/identity"
)

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse represents the response body for successful login
type LoginResponse struct {
	Token     string               `json:"token"`
	TokenType string               `json:"token_type"`
	ExpiresAt time.Time            `json:"expires_at"`
	User      appidentity.UserInfo `json:"user"`
}

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=100"`
	Password   string `json:"password" binding:"required,min=6,max=128"`
	Name       string `json:"name" binding:"required,max=200"`
	Email      string `json:"email" binding:"omitempty,email"`
	Role       string `json:"role" binding:"omitempty,oneof=admin user"`
	Department string `json:"department" binding:"omitempty,oneof=societario fiscal pessoal"`
}

// UpdateUserRequest is the body of PATCH /users/:id; omitted fields are kept
type UpdateUserRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Department *string `json:"department"`
	Role       *string `json:"role" binding:"omitempty,oneof=admin user"`
	IsActive   *bool   `json:"is_active"`
}

// ChangePasswordRequest represents the request body for password change.
// Admins changing another user's password may omit the current one.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=128"`
}
