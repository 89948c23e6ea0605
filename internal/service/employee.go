package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hrms/api/internal/model"
)

// EmployeeService handles employee directory business logic
type EmployeeService struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(db *gorm.DB, redisClient *redis.Client) *EmployeeService {
	return &EmployeeService{db: db, redis: redisClient}
}

// Create creates an employee and its linked login
func (s *EmployeeService) Create(ctx context.Context, req *model.CreateEmployeeRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Email must be unique across staff accounts and employees
	var count int64
	s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count == 0 {
		s.db.WithContext(ctx).Model(&model.Employee{}).Where("email = ?", email).Count(&count)
	}
	if count > 0 {
		return failf(ErrValidation, "Email already exists")
	}

	s.db.WithContext(ctx).Model(&model.Employee{}).Where("employee_id = ?", req.EmployeeID).Count(&count)
	if count > 0 {
		return failf(ErrValidation, "Employee ID already exists")
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return err
	}

	emp := model.Employee{
		EmployeeID:  req.EmployeeID,
		FullName:    req.FullName,
		Email:       email,
		Department:  req.Department,
		Designation: req.Designation,
		Salary:      req.Salary,
		Password:    hashed,
	}
	return s.db.WithContext(ctx).Create(&emp).Error
}

// List returns all employees
func (s *EmployeeService) List(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := s.db.WithContext(ctx).Find(&employees).Error
	return employees, err
}

// GetByEmail returns the employee linked to a login email
func (s *EmployeeService) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var emp model.Employee
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&emp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, failf(ErrNotFound, "Employee not linked")
		}
		return nil, err
	}
	return &emp, nil
}

// GetByEmployeeID returns an employee by its employee ID
func (s *EmployeeService) GetByEmployeeID(ctx context.Context, employeeID string) (*model.Employee, error) {
	var emp model.Employee
	if err := s.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&emp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, failf(ErrNotFound, "Employee not found")
		}
		return nil, err
	}
	return &emp, nil
}

// ResolveEmployeeID resolves a login email to its employeeId, cached in
// Redis to keep the hot self-service path off the database.
func (s *EmployeeService) ResolveEmployeeID(ctx context.Context, email string) (string, error) {
	cacheKey := fmt.Sprintf("hrms:employee:id:%s", email)
	if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
		return cached, nil
	}

	emp, err := s.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	s.redis.Set(ctx, cacheKey, emp.EmployeeID, 1*time.Hour)
	return emp.EmployeeID, nil
}

// NameMap returns employeeId -> fullName for display enrichment
func (s *EmployeeService) NameMap(ctx context.Context) (map[string]string, error) {
	var employees []model.Employee
	if err := s.db.WithContext(ctx).Select("employee_id", "full_name").Find(&employees).Error; err != nil {
		return nil, err
	}

	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.EmployeeID] = e.FullName
	}
	return names, nil
}

// Update updates employee fields. An email change also invalidates the
// cached email→employeeId mapping.
func (s *EmployeeService) Update(ctx context.Context, employeeID string, req *model.UpdateEmployeeRequest) error {
	existing, err := s.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Designation != nil {
		updates["designation"] = *req.Designation
	}
	if req.Salary != nil {
		updates["salary"] = *req.Salary
	}
	if len(updates) == 0 {
		return nil
	}

	if newEmail, ok := updates["email"].(string); ok && newEmail != existing.Email {
		var count int64
		s.db.WithContext(ctx).Model(&model.Employee{}).Where("email = ?", newEmail).Count(&count)
		if count > 0 {
			return failf(ErrConflict, "Email already in use")
		}
	}

	if err := s.db.WithContext(ctx).Model(&model.Employee{}).
		Where("employee_id = ?", employeeID).Updates(updates).Error; err != nil {
		return err
	}

	s.invalidateIDCache(ctx, existing.Email)
	return nil
}

// Delete removes an employee and everything keyed to it: attendance records,
// leave applications, and any linked staff login.
func (s *EmployeeService) Delete(ctx context.Context, employeeID string) error {
	existing, err := s.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employeeID).Delete(&model.Employee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", employeeID).Delete(&model.AttendanceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", employeeID).Delete(&model.LeaveRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("email = ?", existing.Email).Delete(&model.User{}).Error; err != nil {
			return err
		}
		s.invalidateIDCache(ctx, existing.Email)
		return nil
	})
}

// Count returns the total number of employees
func (s *EmployeeService) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Employee{}).Count(&count).Error
	return count, err
}

func (s *EmployeeService) invalidateIDCache(ctx context.Context, email string) {
	s.redis.Del(ctx, fmt.Sprintf("hrms:employee:id:%s", email))
}
