package model

import (
	"time"
)

// Roles recognized by the API. ADMIN and HR are staff accounts stored in
// users; EMPLOYEE principals are backed by the employees table.
const (
	RoleAdmin    = "ADMIN"
	RoleHR       = "HR"
	RoleEmployee = "EMPLOYEE"
)

// User represents an ADMIN or HR account
type User struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	FullName  string    `json:"fullName" gorm:"size:100;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Password  string    `json:"-" gorm:"size:255"` // bcrypt hash
	Role      string    `json:"role" gorm:"size:20;not null"` // ADMIN, HR
	CreatedAt time.Time `json:"createdAt"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
}

// CreateUserRequest creates an ADMIN or HR account
type CreateUserRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=ADMIN HR"`
}

// UpdateUserRequest updates an existing ADMIN/HR account
type UpdateUserRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,oneof=ADMIN HR"`
}

// ChangePasswordRequest is a self-service password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ResetPasswordRequest is an admin-initiated password reset
type ResetPasswordRequest struct {
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Reason          string `json:"reason"`
}

// UpdateProfileRequest updates the caller's own profile
type UpdateProfileRequest struct {
	FullName    string  `json:"fullName" binding:"required"`
	Department  *string `json:"department"`
	Designation *string `json:"designation"`
}
