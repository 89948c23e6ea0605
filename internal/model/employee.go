package model

import (
	"time"
)

// Employee represents an employee record with its linked login
type Employee struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	EmployeeID  string    `json:"employeeId" gorm:"uniqueIndex;size:50;not null"`
	FullName    string    `json:"fullName" gorm:"size:100;not null"`
	Email       string    `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Department  string    `json:"department" gorm:"size:100"`
	Designation string    `json:"designation" gorm:"size:100"`
	Salary      float64   `json:"salary"`
	Password    string    `json:"-" gorm:"size:255"` // bcrypt hash
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateEmployeeRequest creates an employee and its login
type CreateEmployeeRequest struct {
	EmployeeID  string  `json:"employeeId" binding:"required"`
	FullName    string  `json:"fullName" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Department  string  `json:"department" binding:"required"`
	Designation string  `json:"designation" binding:"required"`
	Salary      float64 `json:"salary"`
	Password    string  `json:"password" binding:"required"`
}

// UpdateEmployeeRequest carries optional field updates
type UpdateEmployeeRequest struct {
	FullName    *string  `json:"fullName"`
	Email       *string  `json:"email" binding:"omitempty,email"`
	Department  *string  `json:"department"`
	Designation *string  `json:"designation"`
	Salary      *float64 `json:"salary"`
}
