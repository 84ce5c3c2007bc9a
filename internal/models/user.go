package models

import (
	"strings"
	"time"
)

// UserRole represents an administrative role
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleOperator UserRole = "operator"
	RoleStaff    UserRole = "staff"
)

// UserStatus represents a staff account status
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// User is a staff account able to authenticate against the admin backend.
// Drivers referenced by id from bus assignments are users too.
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Role         UserRole   `json:"role" db:"role"`
	Status       UserStatus `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// LoginRequest is the credential payload for token issuance
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Validate validates the LoginRequest
func (req *LoginRequest) Validate() error {
	if !emailPattern.MatchString(NormalizeEmail(req.Email)) {
		return NewValidationError("email", "invalid email address")
	}
	if strings.TrimSpace(req.Password) == "" {
		return NewValidationError("password", "password is required")
	}
	return nil
}
