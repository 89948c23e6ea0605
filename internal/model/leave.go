package model

// Leave status values
const (
	LeavePending  = "PENDING"
	LeaveApproved = "APPROVED"
	LeaveRejected = "REJECTED"
)

// LeaveRequest is an employee leave application
type LeaveRequest struct {
	ID         uint   `json:"-" gorm:"primaryKey"`
	LeaveID    string `json:"leaveId" gorm:"uniqueIndex;size:36;not null"`
	EmployeeID string `json:"employeeId" gorm:"size:50;not null;index"`
	StartDate  string `json:"startDate" gorm:"size:10;not null"`
	EndDate    string `json:"endDate" gorm:"size:10;not null"`
	Reason     string `json:"reason"`
	Status     string `json:"status" gorm:"size:20;default:PENDING"`
	Remark     string `json:"remark"`
	AppliedAt  string `json:"appliedAt" gorm:"size:35"`
}

// ApplyLeaveRequest applies for leave
type ApplyLeaveRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	StartDate  string `json:"startDate" binding:"required"`
	EndDate    string `json:"endDate" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

// LeaveActionRequest approves or rejects a leave application
type LeaveActionRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	Remark string `json:"remark"`
}

// LeaveSummary counts leave applications by status
type LeaveSummary struct {
	Pending  int64 `json:"PENDING"`
	Approved int64 `json:"APPROVED"`
	Rejected int64 `json:"REJECTED"`
}
