package model

// Payslip is a generated salary slip for one employee and month
type Payslip struct {
	ID         uint   `json:"-" gorm:"primaryKey"`
	PayslipID  string `json:"payslipId" gorm:"size:60;not null"`
	EmployeeID string `json:"employeeId" gorm:"size:50;not null;uniqueIndex:idx_payslip_employee_month"`
	FullName   string `json:"fullName" gorm:"size:100"`
	Email      string `json:"email" gorm:"size:100"`
	MonthYear  string `json:"monthYear" gorm:"size:20;not null;uniqueIndex:idx_payslip_employee_month"`

	BasicSalary float64 `json:"basicSalary"`
	HRA         float64 `json:"hra"`
	Allowance   float64 `json:"allowance"`
	Deduction   float64 `json:"deduction"`

	TotalEarnings float64 `json:"totalEarnings"`
	NetSalary     float64 `json:"netSalary"`

	GeneratedBy string `json:"generatedBy" gorm:"size:100"`
	GeneratedAt string `json:"generatedAt" gorm:"size:35"`
}

// GeneratePayslipRequest generates a payslip for one month
type GeneratePayslipRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Month      string `json:"month" binding:"required"`
	Year       int    `json:"year" binding:"required"`

	BasicSalary float64 `json:"basicSalary"`
	HRA         float64 `json:"hra"`
	Allowance   float64 `json:"allowance"`
	Deduction   float64 `json:"deduction"`
}
