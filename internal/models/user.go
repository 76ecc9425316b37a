package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the available roles for the back office.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSupervisor UserRole = "supervisor"
	RoleOperator   UserRole = "operator"
	RoleViewer     UserRole = "viewer"
)

// User represents an administrator's login identity. AdministratorName links
// the account to the name used in report attribution; the reference is by
// string, not a foreign key, because the tabular store predates the accounts.
type User struct {
	ID                string     `db:"id" json:"id"`
	Username          string     `db:"username" json:"username"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	FullName          string     `db:"full_name" json:"full_name"`
	Role              UserRole   `db:"role" json:"role"`
	AdministratorName string     `db:"administrator_name" json:"administrator_name"`
	ClientOperation   string     `db:"client_operation" json:"client_operation"`
	Active            bool       `db:"is_active" json:"is_active"`
	Verified          bool       `db:"is_verified" json:"is_verified"`
	LastLogin         *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// JWTClaims is the token payload attached to authenticated requests.
type JWTClaims struct {
	UserID            string   `json:"uid"`
	Username          string   `json:"username"`
	Role              UserRole `json:"role"`
	AdministratorName string   `json:"administrator_name,omitempty"`
	jwt.RegisteredClaims
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
