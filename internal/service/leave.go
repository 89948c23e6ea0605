package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/api/internal/model"
)

// LeaveService handles leave applications and approvals
type LeaveService struct {
	db        *gorm.DB
	employees *EmployeeService
}

// NewLeaveService creates a new leave service
func NewLeaveService(db *gorm.DB, employees *EmployeeService) *LeaveService {
	return &LeaveService{db: db, employees: employees}
}

// Apply files a new leave request. Employees may only apply for themselves;
// staff may file on behalf of any employee.
func (s *LeaveService) Apply(ctx context.Context, principal *Principal, req *model.ApplyLeaveRequest) (*model.LeaveRequest, error) {
	if principal.Role == model.RoleEmployee {
		ownID, err := s.employees.ResolveEmployeeID(ctx, principal.Email)
		if err != nil {
			return nil, err
		}
		if req.EmployeeID != ownID {
			return nil, failf(ErrForbidden, "You can only apply leave for yourself")
		}
	} else {
		if _, err := s.employees.GetByEmployeeID(ctx, req.EmployeeID); err != nil {
			return nil, err
		}
	}

	start, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return nil, failf(ErrValidation, "Invalid start date, expected YYYY-MM-DD")
	}
	end, err := time.Parse(DateLayout, req.EndDate)
	if err != nil {
		return nil, failf(ErrValidation, "Invalid end date, expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, failf(ErrValidation, "End date cannot be before start date")
	}

	leave := model.LeaveRequest{
		LeaveID:    uuid.NewString(),
		EmployeeID: req.EmployeeID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reason:     req.Reason,
		Status:     model.LeavePending,
		AppliedAt:  time.Now().Format(time.RFC3339),
	}
	if err := s.db.WithContext(ctx).Create(&leave).Error; err != nil {
		return nil, err
	}
	return &leave, nil
}

// ListMine returns the calling employee's leave requests, newest first
func (s *LeaveService) ListMine(ctx context.Context, principal *Principal) ([]model.LeaveRequest, error) {
	employeeID, err := s.employees.ResolveEmployeeID(ctx, principal.Email)
	if err != nil {
		return nil, err
	}

	var leaves []model.LeaveRequest
	err = s.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("applied_at DESC").
		Find(&leaves).Error
	return leaves, err
}

// ListAll returns every leave request, optionally filtered by status
func (s *LeaveService) ListAll(ctx context.Context, status string) ([]model.LeaveRequest, error) {
	query := s.db.WithContext(ctx).Order("applied_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var leaves []model.LeaveRequest
	err := query.Find(&leaves).Error
	return leaves, err
}

// Act approves or rejects a pending leave request
func (s *LeaveService) Act(ctx context.Context, leaveID string, req *model.LeaveActionRequest) (*model.LeaveRequest, error) {
	var leave model.LeaveRequest
	err := s.db.WithContext(ctx).Where("leave_id = ?", leaveID).First(&leave).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, failf(ErrNotFound, "Leave request not found")
		}
		return nil, err
	}

	if leave.Status != model.LeavePending {
		return nil, failf(ErrValidation, "Leave request already processed")
	}

	updates := map[string]interface{}{"status": req.Status, "remark": req.Remark}
	if err := s.db.WithContext(ctx).Model(&leave).Updates(updates).Error; err != nil {
		return nil, err
	}
	leave.Status = req.Status
	leave.Remark = req.Remark
	return &leave, nil
}

// PendingCount returns the number of pending leave requests
func (s *LeaveService) PendingCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.LeaveRequest{}).
		Where("status = ?", model.LeavePending).Count(&count).Error
	return count, err
}

// Summary counts leave applications by status
func (s *LeaveService) Summary(ctx context.Context) (*model.LeaveSummary, error) {
	summary := &model.LeaveSummary{}
	counts := map[string]*int64{
		model.LeavePending:  &summary.Pending,
		model.LeaveApproved: &summary.Approved,
		model.LeaveRejected: &summary.Rejected,
	}
	for status, dest := range counts {
		if err := s.db.WithContext(ctx).Model(&model.LeaveRequest{}).
			Where("status = ?", status).Count(dest).Error; err != nil {
			return nil, err
		}
	}
	return summary, nil
}
