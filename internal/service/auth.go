package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hrms/api/internal/model"
)

// Principal is a verified identity attached to every authorized call
type Principal struct {
	Email      string
	Role       string
	FullName   string
	EmployeeID string
}

// AuthService handles authentication business logic
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Authenticate validates credentials against staff accounts first, then
// employee logins, mirroring the two-table identity model.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil {
			return &Principal{
				Email:    user.Email,
				Role:     user.Role,
				FullName: user.FullName,
			}, nil
		}
		return nil, failf(ErrUnauthorized, "Invalid email or password")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var emp model.Employee
	err = s.db.WithContext(ctx).Where("email = ?", email).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, failf(ErrUnauthorized, "Invalid email or password")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(emp.Password), []byte(password)) != nil {
		return nil, failf(ErrUnauthorized, "Invalid email or password")
	}

	return &Principal{
		Email:      emp.Email,
		Role:       model.RoleEmployee,
		FullName:   emp.FullName,
		EmployeeID: emp.EmployeeID,
	}, nil
}

// SeedDefaultAdmin ensures the default ADMIN account exists on startup and
// repairs its role if it was changed.
func (s *AuthService) SeedDefaultAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := model.User{
			FullName: "Default Admin",
			Email:    email,
			Password: string(hashed),
			Role:     model.RoleAdmin,
		}
		if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
			return err
		}
		log.Println("[Auth] Default admin created")
		return nil
	}
	if err != nil {
		return err
	}

	if existing.Role != model.RoleAdmin {
		if err := s.db.WithContext(ctx).Model(&existing).Update("role", model.RoleAdmin).Error; err != nil {
			return err
		}
		log.Println("[Auth] Default admin role corrected to ADMIN")
	}

	return nil
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash
func VerifyPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
