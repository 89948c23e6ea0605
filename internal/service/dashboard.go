package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hrms/api/internal/model"
)

// DashboardService aggregates counts for the admin and employee dashboards
type DashboardService struct {
	db         *gorm.DB
	employees  *EmployeeService
	attendance *AttendanceService
	leaves     *LeaveService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, employees *EmployeeService, attendance *AttendanceService, leaves *LeaveService) *DashboardService {
	return &DashboardService{db: db, employees: employees, attendance: attendance, leaves: leaves}
}

// TotalEmployees returns the employee headcount
func (s *DashboardService) TotalEmployees(ctx context.Context) (int64, error) {
	return s.employees.Count(ctx)
}

// TodayAttendance returns today's marked/present/absent counts. Absent is
// headcount minus marked plus explicitly absent records.
func (s *DashboardService) TodayAttendance(ctx context.Context) (map[string]int64, error) {
	today := time.Now().Format(DateLayout)

	marked, present, err := s.attendance.TodayCounts(ctx, today)
	if err != nil {
		return nil, err
	}
	total, err := s.employees.Count(ctx)
	if err != nil {
		return nil, err
	}

	absent := total - present
	if absent < 0 {
		absent = 0
	}

	return map[string]int64{
		"total":   total,
		"marked":  marked,
		"present": present,
		"absent":  absent,
	}, nil
}

// PendingLeaves returns the count of leave requests awaiting action
func (s *DashboardService) PendingLeaves(ctx context.Context) (int64, error) {
	return s.leaves.PendingCount(ctx)
}

// DailyAttendancePoint is one day of the monthly attendance chart
type DailyAttendancePoint struct {
	Date    string `json:"date"`
	Present int64  `json:"present"`
	Absent  int64  `json:"absent"`
}

// MonthlyAttendance returns per-day present/absent counts for the last 30
// days, oldest first.
func (s *DashboardService) MonthlyAttendance(ctx context.Context) ([]DailyAttendancePoint, error) {
	now := time.Now()
	since := now.AddDate(0, 0, -29).Format(DateLayout)

	type row struct {
		Date   string
		Status string
		Count  int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Select("date, status, count(*) as count").
		Where("date >= ?", since).
		Group("date, status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*DailyAttendancePoint)
	for _, r := range rows {
		point, ok := byDate[r.Date]
		if !ok {
			point = &DailyAttendancePoint{Date: r.Date}
			byDate[r.Date] = point
		}
		switch r.Status {
		case model.StatusPresent, model.StatusHalfDay:
			point.Present += r.Count
		case model.StatusAbsent:
			point.Absent += r.Count
		}
	}

	points := make([]DailyAttendancePoint, 0, 30)
	for i := 29; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format(DateLayout)
		if point, ok := byDate[date]; ok {
			points = append(points, *point)
		} else {
			points = append(points, DailyAttendancePoint{Date: date})
		}
	}
	return points, nil
}

// EmployeeSummary returns the calling employee's own dashboard numbers for
// the current month.
func (s *DashboardService) EmployeeSummary(ctx context.Context, principal *Principal) (map[string]interface{}, error) {
	employeeID, err := s.employees.ResolveEmployeeID(ctx, principal.Email)
	if err != nil {
		return nil, err
	}

	month := time.Now().Format("2006-01")
	summary, err := s.attendance.Summary(ctx, employeeID, month)
	if err != nil {
		return nil, err
	}

	var pendingLeaves int64
	err = s.db.WithContext(ctx).Model(&model.LeaveRequest{}).
		Where("employee_id = ? AND status = ?", employeeID, model.LeavePending).
		Count(&pendingLeaves).Error
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"employeeId":    employeeID,
		"month":         month,
		"attendance":    summary,
		"pendingLeaves": pendingLeaves,
	}, nil
}
