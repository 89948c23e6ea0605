package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"hrms/api/internal/model"
)

// PayslipService generates and serves salary slips
type PayslipService struct {
	db        *gorm.DB
	employees *EmployeeService
}

// NewPayslipService creates a new payslip service
func NewPayslipService(db *gorm.DB, employees *EmployeeService) *PayslipService {
	return &PayslipService{db: db, employees: employees}
}

// Generate creates a payslip for one employee and month. At most one payslip
// may exist per employee per month.
func (s *PayslipService) Generate(ctx context.Context, generatorEmail string, req *model.GeneratePayslipRequest) (*model.Payslip, error) {
	emp, err := s.employees.GetByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	monthYear := fmt.Sprintf("%s %d", req.Month, req.Year)

	var count int64
	s.db.WithContext(ctx).Model(&model.Payslip{}).
		Where("employee_id = ? AND month_year = ?", req.EmployeeID, monthYear).
		Count(&count)
	if count > 0 {
		return nil, failf(ErrValidation, "Payslip already generated for this month")
	}

	basic := req.BasicSalary
	if basic <= 0 {
		basic = emp.Salary
	}

	totalEarnings := basic + req.HRA + req.Allowance
	netSalary := totalEarnings - req.Deduction
	if netSalary < 0 {
		netSalary = 0
	}

	payslip := model.Payslip{
		PayslipID:     payslipID(req.Year, req.Month, req.EmployeeID),
		EmployeeID:    emp.EmployeeID,
		FullName:      emp.FullName,
		Email:         emp.Email,
		MonthYear:     monthYear,
		BasicSalary:   basic,
		HRA:           req.HRA,
		Allowance:     req.Allowance,
		Deduction:     req.Deduction,
		TotalEarnings: totalEarnings,
		NetSalary:     netSalary,
		GeneratedBy:   generatorEmail,
		GeneratedAt:   time.Now().Format(time.RFC3339),
	}
	if err := s.db.WithContext(ctx).Create(&payslip).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, failf(ErrValidation, "Payslip already generated for this month")
		}
		return nil, err
	}
	return &payslip, nil
}

// ListAll returns every payslip, newest first
func (s *PayslipService) ListAll(ctx context.Context) ([]model.Payslip, error) {
	var payslips []model.Payslip
	err := s.db.WithContext(ctx).Order("generated_at DESC").Find(&payslips).Error
	return payslips, err
}

// ListMine returns the calling employee's payslips, newest first
func (s *PayslipService) ListMine(ctx context.Context, principal *Principal) ([]model.Payslip, error) {
	employeeID, err := s.employees.ResolveEmployeeID(ctx, principal.Email)
	if err != nil {
		return nil, err
	}

	var payslips []model.Payslip
	err = s.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("generated_at DESC").
		Find(&payslips).Error
	return payslips, err
}

// payslipID builds the stable slip identifier, e.g. PS-2026-AUG-EMP001
func payslipID(year int, month, employeeID string) string {
	mon := strings.ToUpper(month)
	if len(mon) > 3 {
		mon = mon[:3]
	}
	return fmt.Sprintf("PS-%d-%s-%s", year, mon, employeeID)
}
