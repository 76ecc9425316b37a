package dto

import (
	"time"

	"github.com/noah-isme/adr-api/internal/models"
)

// LoginRequest captures POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserInfo is the safe subset of a user returned to clients.
type UserInfo struct {
	ID                string          `json:"id"`
	Username          string          `json:"username"`
	Email             string          `json:"email"`
	FullName          string          `json:"full_name"`
	Role              models.UserRole `json:"role"`
	AdministratorName string          `json:"administrator_name,omitempty"`
	ClientOperation   string          `json:"client_operation,omitempty"`
}

// LoginResponse carries the issued token and its owner.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// ChangePasswordRequest captures POST /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// RegisterUserRequest captures admin-driven account creation.
type RegisterUserRequest struct {
	Username          string `json:"username" binding:"required,min=3,max=50"`
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required,min=8"`
	FullName          string `json:"full_name" binding:"required"`
	Role              string `json:"role" binding:"required,oneof=admin supervisor operator viewer"`
	AdministratorName string `json:"administrator_name"`
	ClientOperation   string `json:"client_operation"`
}

// FromUser converts a user model into its wire form.
func FromUser(u *models.User) UserInfo {
	return UserInfo{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		FullName:          u.FullName,
		Role:              u.Role,
		AdministratorName: u.AdministratorName,
		ClientOperation:   u.ClientOperation,
	}
}
