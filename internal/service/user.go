package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"hrms/api/internal/model"
)

// UserService manages ADMIN/HR accounts and profile self-service
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List returns all staff accounts, passwords omitted by the model
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).Find(&users).Error
	return users, err
}

// Create creates a new ADMIN or HR account
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return failf(ErrConflict, "User already exists")
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := model.User{
		FullName: strings.TrimSpace(req.FullName),
		Email:    email,
		Password: hashed,
		Role:     req.Role,
	}
	return s.db.WithContext(ctx).Create(&user).Error
}

// Update updates a staff account's name, email, and role
func (s *UserService) Update(ctx context.Context, email string, req *model.UpdateUserRequest) error {
	oldEmail := strings.ToLower(strings.TrimSpace(email))
	newEmail := strings.ToLower(strings.TrimSpace(req.Email))

	if strings.TrimSpace(req.FullName) == "" {
		return failf(ErrValidation, "Full name is required")
	}

	var existing model.User
	if err := s.db.WithContext(ctx).Where("email = ?", oldEmail).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failf(ErrNotFound, "User not found")
		}
		return err
	}

	if newEmail != oldEmail {
		var count int64
		s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", newEmail).Count(&count)
		if count > 0 {
			return failf(ErrValidation, "Email already exists")
		}
	}

	return s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", oldEmail).
		Updates(map[string]interface{}{
			"full_name": strings.TrimSpace(req.FullName),
			"email":     newEmail,
			"role":      req.Role,
		}).Error
}

// Delete removes a staff account. Callers must prevent self-deletion.
func (s *UserService) Delete(ctx context.Context, email string) error {
	result := s.db.WithContext(ctx).Where("email = ?", email).Delete(&model.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return failf(ErrNotFound, "User not found")
	}
	return nil
}

// ChangePassword verifies the old password and sets a new one for the
// caller, in whichever table backs their role.
func (s *UserService) ChangePassword(ctx context.Context, principal *Principal, oldPassword, newPassword string) error {
	if principal.Role == model.RoleEmployee {
		var emp model.Employee
		if err := s.db.WithContext(ctx).Where("email = ?", principal.Email).First(&emp).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return failf(ErrNotFound, "User not found")
			}
			return err
		}
		if !VerifyPassword(emp.Password, oldPassword) {
			return failf(ErrValidation, "Old password is incorrect")
		}
		hashed, err := HashPassword(newPassword)
		if err != nil {
			return err
		}
		return s.db.WithContext(ctx).Model(&emp).Update("password", hashed).Error
	}

	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", principal.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failf(ErrNotFound, "User not found")
		}
		return err
	}
	if !VerifyPassword(user.Password, oldPassword) {
		return failf(ErrValidation, "Old password is incorrect")
	}
	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&user).Update("password", hashed).Error
}

// ResetPassword sets a new password for any account by email, staff or
// employee, without the old password. Admin only.
func (s *UserService) ResetPassword(ctx context.Context, email string, req *model.ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return failf(ErrValidation, "Passwords do not match")
	}
	if len(req.NewPassword) < 6 {
		return failf(ErrValidation, "Password must be at least 6 characters")
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Update("password", hashed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	result = s.db.WithContext(ctx).Model(&model.Employee{}).Where("email = ?", email).Update("password", hashed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return failf(ErrNotFound, "User not found")
	}
	return nil
}

// GetProfile returns the caller's own profile from the table backing their role
func (s *UserService) GetProfile(ctx context.Context, principal *Principal) (interface{}, error) {
	if principal.Role == model.RoleEmployee {
		var emp model.Employee
		if err := s.db.WithContext(ctx).Where("email = ?", principal.Email).First(&emp).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, failf(ErrNotFound, "Employee not found")
			}
			return nil, err
		}
		return map[string]interface{}{
			"employeeId":  emp.EmployeeID,
			"fullName":    emp.FullName,
			"email":       emp.Email,
			"department":  emp.Department,
			"designation": emp.Designation,
			"salary":      emp.Salary,
			"role":        model.RoleEmployee,
			"createdAt":   emp.CreatedAt.Format(time.RFC3339),
		}, nil
	}

	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", principal.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, failf(ErrNotFound, "User not found")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile updates the caller's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, principal *Principal, req *model.UpdateProfileRequest) error {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return failf(ErrValidation, "Full name is required")
	}

	if principal.Role == model.RoleEmployee {
		updates := map[string]interface{}{"full_name": fullName}
		if req.Department != nil {
			updates["department"] = strings.TrimSpace(*req.Department)
		}
		if req.Designation != nil {
			updates["designation"] = strings.TrimSpace(*req.Designation)
		}

		result := s.db.WithContext(ctx).Model(&model.Employee{}).
			Where("email = ?", principal.Email).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return failf(ErrNotFound, "Employee not found")
		}
		return nil
	}

	result := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", principal.Email).Update("full_name", fullName)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return failf(ErrNotFound, "User not found")
	}
	return nil
}
