package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"hrms/api/internal/model"
)

// AttendanceService is the attendance state machine: one record per employee
// per day, check-in before check-out, each settable exactly once except by
// admin correction.
type AttendanceService struct {
	db        *gorm.DB
	geofence  *GeofenceService
	employees *EmployeeService
	events    *EventPublisher
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(db *gorm.DB, geofence *GeofenceService, employees *EmployeeService, events *EventPublisher) *AttendanceService {
	return &AttendanceService{db: db, geofence: geofence, employees: employees, events: events}
}

// Mark applies a check-in, check-out, or status update for one day.
// Employees may only mark their own record for today, and every submitted
// time field must pass geo-fence validation. Staff callers skip both checks.
func (s *AttendanceService) Mark(ctx context.Context, principal *Principal, req *model.MarkAttendanceRequest) (*model.AttendanceRecord, error) {
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		return nil, failf(ErrValidation, "Invalid date format, expected YYYY-MM-DD")
	}
	if err := validateClock(req.CheckInTime); err != nil {
		return nil, err
	}
	if err := validateClock(req.CheckOutTime); err != nil {
		return nil, err
	}

	isEmployee := principal.Role == model.RoleEmployee
	if isEmployee {
		ownID, err := s.employees.ResolveEmployeeID(ctx, principal.Email)
		if err != nil {
			return nil, err
		}
		if req.EmployeeID != ownID {
			return nil, failf(ErrForbidden, "You can only mark your own attendance")
		}
		if req.Date != time.Now().Format(DateLayout) {
			return nil, failf(ErrValidation, "Attendance can only be marked for today")
		}
	} else {
		if _, err := s.employees.GetByEmployeeID(ctx, req.EmployeeID); err != nil {
			return nil, err
		}
	}

	// Geo-fence every submitted time field for employees, stamping the
	// matched office into the stored location.
	if isEmployee && req.CheckInTime != "" {
		meta, err := s.geofence.ValidateLocation(ctx, req.CheckInLocation, "Check-in")
		if err != nil {
			s.publishGeofenceRejection(req, err)
			return nil, err
		}
		stampLocation(req.CheckInLocation, meta)
	}
	if isEmployee && req.CheckOutTime != "" {
		meta, err := s.geofence.ValidateLocation(ctx, req.CheckOutLocation, "Check-out")
		if err != nil {
			s.publishGeofenceRejection(req, err)
			return nil, err
		}
		stampLocation(req.CheckOutLocation, meta)
	}

	var existing model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", req.EmployeeID, req.Date).
		First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.createRecord(ctx, req)
	case err != nil:
		return nil, err
	default:
		return s.updateRecord(ctx, &existing, req, isEmployee)
	}
}

// createRecord inserts the first record of the day. The unique index on
// (employee_id, date) rejects a concurrent duplicate create.
func (s *AttendanceService) createRecord(ctx context.Context, req *model.MarkAttendanceRequest) (*model.AttendanceRecord, error) {
	if req.CheckOutTime != "" && req.CheckInTime == "" {
		return nil, failf(ErrValidation, "Check-out not allowed without check-in")
	}

	status := req.Status
	if status == "" {
		status = model.StatusPresent
	}

	record := model.AttendanceRecord{
		EmployeeID:       req.EmployeeID,
		Date:             req.Date,
		Status:           status,
		CheckInTime:      req.CheckInTime,
		CheckOutTime:     req.CheckOutTime,
		CheckInLocation:  req.CheckInLocation,
		CheckOutLocation: req.CheckOutLocation,
		TotalHours:       computeTotalHours(req.CheckInTime, req.CheckOutTime),
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, failf(ErrConflict, "Attendance already marked for today")
		}
		return nil, err
	}

	s.publishMark(&record, record.CheckInTime != "", record.CheckOutTime != "")
	return &record, nil
}

// updateRecord applies set-once semantics to an existing record. An employee
// re-submitting a set field gets a conflict; staff submissions skip the
// already-set field and still apply the status. The time fields are guarded
// by conditional UPDATEs so two concurrent requests cannot both win.
func (s *AttendanceService) updateRecord(ctx context.Context, existing *model.AttendanceRecord, req *model.MarkAttendanceRequest, isEmployee bool) (*model.AttendanceRecord, error) {
	if req.CheckOutTime != "" && existing.CheckInTime == "" {
		return nil, failf(ErrValidation, "Check-out not allowed without check-in")
	}

	checkInApplied := false
	if req.CheckInTime != "" {
		if existing.CheckInTime != "" {
			if isEmployee {
				return nil, failf(ErrConflict, "Already checked in for today")
			}
		} else {
			updates := map[string]interface{}{"check_in_time": req.CheckInTime}
			if req.CheckInLocation != nil {
				updates["check_in_location"] = req.CheckInLocation
			}

			result := s.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
				Where("employee_id = ? AND date = ? AND (check_in_time = '' OR check_in_time IS NULL)",
					req.EmployeeID, req.Date).
				Updates(updates)
			if result.Error != nil {
				return nil, result.Error
			}
			if result.RowsAffected == 0 {
				if isEmployee {
					return nil, failf(ErrConflict, "Already checked in for today")
				}
			} else {
				checkInApplied = true
			}
		}
	}

	checkOutApplied := false
	if req.CheckOutTime != "" {
		if existing.CheckOutTime != "" {
			if isEmployee {
				return nil, failf(ErrConflict, "Already checked out for today")
			}
		} else {
			updates := map[string]interface{}{
				"check_out_time": req.CheckOutTime,
				"total_hours":    computeTotalHours(existing.CheckInTime, req.CheckOutTime),
				"auto_checkout":  false,
			}
			if req.CheckOutLocation != nil {
				updates["check_out_location"] = req.CheckOutLocation
			}

			result := s.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
				Where("employee_id = ? AND date = ? AND (check_out_time = '' OR check_out_time IS NULL)",
					req.EmployeeID, req.Date).
				Updates(updates)
			if result.Error != nil {
				return nil, result.Error
			}
			if result.RowsAffected == 0 {
				if isEmployee {
					return nil, failf(ErrConflict, "Already checked out for today")
				}
			} else {
				checkOutApplied = true
			}
		}
	}

	// Status is overwritten whenever supplied, independent of the time fields
	if req.Status != "" {
		if err := s.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
			Where("employee_id = ? AND date = ?", req.EmployeeID, req.Date).
			Update("status", req.Status).Error; err != nil {
			return nil, err
		}
	}

	var updated model.AttendanceRecord
	if err := s.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", req.EmployeeID, req.Date).
		First(&updated).Error; err != nil {
		return nil, err
	}

	s.publishMark(&updated, checkInApplied, checkOutApplied)
	return &updated, nil
}

// Edit is the admin correction path for an existing day. It overwrites the
// status and both time fields unconditionally, recomputes total hours, and
// stamps edit provenance. Days that were never marked cannot be corrected.
func (s *AttendanceService) Edit(ctx context.Context, editorEmail string, req *model.EditAttendanceRequest) (*model.AttendanceRecord, error) {
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		return nil, failf(ErrValidation, "Invalid date format, expected YYYY-MM-DD")
	}
	if err := validateClock(req.CheckInTime); err != nil {
		return nil, err
	}
	if err := validateClock(req.CheckOutTime); err != nil {
		return nil, err
	}
	if req.CheckOutTime != "" && req.CheckInTime == "" {
		return nil, failf(ErrValidation, "Check-out not allowed without check-in")
	}

	var existing model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", req.EmployeeID, req.Date).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, failf(ErrNotFound, "Attendance record not found")
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&existing).
		Updates(map[string]interface{}{
			"status":         req.Status,
			"check_in_time":  req.CheckInTime,
			"check_out_time": req.CheckOutTime,
			"total_hours":    computeTotalHours(req.CheckInTime, req.CheckOutTime),
			"auto_checkout":  false,
			"edited_by":      editorEmail,
			"edit_reason":    req.Reason,
			"edited_at":      &now,
		}).Error; err != nil {
		return nil, err
	}

	var updated model.AttendanceRecord
	if err := s.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", req.EmployeeID, req.Date).
		First(&updated).Error; err != nil {
		return nil, err
	}

	s.events.PublishAttendance(SubjectAttendanceEdit, &model.AttendanceEvent{
		Type:       "edit",
		EmployeeID: updated.EmployeeID,
		Date:       updated.Date,
	})
	return &updated, nil
}

// AttendanceFilter narrows List results. Zero values mean no filtering.
type AttendanceFilter struct {
	EmployeeID string
	Date       string // exact day, YYYY-MM-DD
	Month      string // month prefix, YYYY-MM
	StartDate  string // inclusive range start, YYYY-MM-DD
	EndDate    string // inclusive range end, YYYY-MM-DD
}

// List returns attendance records enriched with employee names, newest first
func (s *AttendanceService) List(ctx context.Context, filter AttendanceFilter) ([]model.AttendanceRecordView, error) {
	query := s.db.WithContext(ctx).Model(&model.AttendanceRecord{})
	if filter.EmployeeID != "" {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Date != "" {
		query = query.Where("date = ?", filter.Date)
	}
	if filter.Month != "" {
		query = query.Where("date LIKE ?", filter.Month+"%")
	}
	switch {
	case filter.StartDate != "" && filter.EndDate != "":
		query = query.Where("date BETWEEN ? AND ?", filter.StartDate, filter.EndDate)
	case filter.StartDate != "":
		query = query.Where("date >= ?", filter.StartDate)
	case filter.EndDate != "":
		query = query.Where("date <= ?", filter.EndDate)
	}

	var records []model.AttendanceRecord
	if err := query.Order("date DESC, employee_id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	names, err := s.employees.NameMap(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]model.AttendanceRecordView, 0, len(records))
	for _, r := range records {
		views = append(views, model.AttendanceRecordView{
			AttendanceRecord: r,
			FullName:         names[r.EmployeeID],
		})
	}
	return views, nil
}

// SelfEmployeeID resolves the caller's own employee id. Handlers use it to
// pin employee queries to the caller.
func (s *AttendanceService) SelfEmployeeID(ctx context.Context, principal *Principal) (string, error) {
	return s.employees.ResolveEmployeeID(ctx, principal.Email)
}

// SelfHistory returns the caller's own records for an optional month
func (s *AttendanceService) SelfHistory(ctx context.Context, principal *Principal, month string) ([]model.AttendanceRecordView, error) {
	employeeID, err := s.SelfEmployeeID(ctx, principal)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, AttendanceFilter{EmployeeID: employeeID, Month: month})
}

// Summary counts records by status for one employee and month
func (s *AttendanceService) Summary(ctx context.Context, employeeID, month string) (*model.AttendanceSummary, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	query := s.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Select("status, count(*) as count").
		Where("employee_id = ?", employeeID)
	if month != "" {
		query = query.Where("date LIKE ?", month+"%")
	}

	var counts []statusCount
	if err := query.Group("status").Find(&counts).Error; err != nil {
		return nil, err
	}

	summary := &model.AttendanceSummary{}
	for _, c := range counts {
		switch c.Status {
		case model.StatusPresent:
			summary.Present = c.Count
		case model.StatusAbsent:
			summary.Absent = c.Count
		case model.StatusHalfDay:
			summary.HalfDay = c.Count
		case model.StatusLeave:
			summary.Leave = c.Count
		}
	}
	return summary, nil
}

// TodayCounts returns marked/present/absent counts for the dashboard
func (s *AttendanceService) TodayCounts(ctx context.Context, date string) (marked, present int64, err error) {
	if err = s.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Where("date = ?", date).Count(&marked).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Where("date = ? AND status = ?", date, model.StatusPresent).Count(&present).Error; err != nil {
		return 0, 0, err
	}
	return marked, present, nil
}

func (s *AttendanceService) publishMark(record *model.AttendanceRecord, checkInApplied, checkOutApplied bool) {
	if checkInApplied {
		event := &model.AttendanceEvent{
			Type:       "checkin",
			EmployeeID: record.EmployeeID,
			Date:       record.Date,
			Time:       record.CheckInTime,
		}
		if record.CheckInLocation != nil {
			event.OfficeID = record.CheckInLocation.OfficeID
			event.OfficeName = record.CheckInLocation.OfficeName
		}
		s.events.PublishAttendance(SubjectCheckIn, event)
	}
	if checkOutApplied {
		event := &model.AttendanceEvent{
			Type:       "checkout",
			EmployeeID: record.EmployeeID,
			Date:       record.Date,
			Time:       record.CheckOutTime,
		}
		if record.CheckOutLocation != nil {
			event.OfficeID = record.CheckOutLocation.OfficeID
			event.OfficeName = record.CheckOutLocation.OfficeName
		}
		s.events.PublishAttendance(SubjectCheckOut, event)
	}
}

func (s *AttendanceService) publishGeofenceRejection(req *model.MarkAttendanceRequest, cause error) {
	var gfe *GeofenceError
	if !errors.As(cause, &gfe) {
		return
	}
	s.events.PublishAttendance(SubjectGeofenceRejection, &model.AttendanceEvent{
		Type:       "geofence_denied",
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		OfficeName: gfe.OfficeName,
	})
}

func stampLocation(loc *model.Location, meta *model.OfficeMeta) {
	if loc == nil || meta == nil {
		return
	}
	loc.OfficeID = meta.OfficeID
	loc.OfficeName = meta.OfficeName
	loc.DistanceMeters = meta.DistanceMeters
}

func validateClock(value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(ClockLayout, value); err != nil {
		return failf(ErrValidation, "Invalid time format, expected HH:MM")
	}
	return nil
}

// isDuplicateKey detects a unique constraint violation without depending on
// driver-specific error types.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
