package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Attendance status values
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusHalfDay = "Half-Day"
	StatusLeave   = "Leave"
)

// Location is a GPS coordinate submitted with a check-in or check-out.
// Lat and Lng are pointers so an absent coordinate is distinguishable from
// zero and rejected at the boundary. After geo-fence validation the matched
// office metadata is stamped in.
type Location struct {
	Lat      *float64 `json:"lat" binding:"required"`
	Lng      *float64 `json:"lng" binding:"required"`
	Accuracy *float64 `json:"accuracy,omitempty"`
	Address  string   `json:"address,omitempty"`
	// Optional office selection by the employee
	OfficeID string `json:"officeId,omitempty"`

	// Stamped by the validator
	OfficeName     string   `json:"officeName,omitempty"`
	DistanceMeters *float64 `json:"distanceMeters,omitempty"`
}

// Value implements driver.Valuer so Location persists as JSONB
func (l Location) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *Location) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for Location")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, l)
}

// AttendanceRecord is the per-employee-per-day attendance document.
// Times are zero-padded "HH:MM" wall-clock strings; TotalHours is always
// derived from the check-in/check-out pair.
type AttendanceRecord struct {
	ID         uint   `json:"-" gorm:"primaryKey"`
	EmployeeID string `json:"employeeId" gorm:"size:50;not null;uniqueIndex:idx_attendance_employee_date"`
	Date       string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_attendance_employee_date"` // YYYY-MM-DD
	Status     string `json:"status" gorm:"size:20;not null"`

	CheckInTime  string `json:"checkInTime" gorm:"size:5"`
	CheckOutTime string `json:"checkOutTime" gorm:"size:5"`
	TotalHours   string `json:"totalHours" gorm:"size:8"`

	CheckInLocation  *Location `json:"checkInLocation" gorm:"type:jsonb"`
	CheckOutLocation *Location `json:"checkOutLocation" gorm:"type:jsonb"`

	AutoCheckout bool `json:"autoCheckout,omitempty"`

	// Present only after an admin correction
	EditedBy   string     `json:"editedBy,omitempty" gorm:"size:100"`
	EditReason string     `json:"editReason,omitempty"`
	EditedAt   *time.Time `json:"editedAt,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// AttendanceRecordView is an AttendanceRecord enriched with the employee name
type AttendanceRecordView struct {
	AttendanceRecord
	FullName string `json:"fullName"`
}

// MarkAttendanceRequest submits a check-in, check-out, or status update
type MarkAttendanceRequest struct {
	EmployeeID   string `json:"employeeId" binding:"required"`
	Date         string `json:"date" binding:"required"` // YYYY-MM-DD
	Status       string `json:"status" binding:"omitempty,oneof=Present Absent Half-Day Leave"`
	CheckInTime  string `json:"checkInTime"`
	CheckOutTime string `json:"checkOutTime"`

	CheckInLocation  *Location `json:"checkInLocation"`
	CheckOutLocation *Location `json:"checkOutLocation"`
}

// EditAttendanceRequest is the admin correction payload. It overwrites both
// time fields unconditionally and stamps edit provenance.
type EditAttendanceRequest struct {
	EmployeeID   string `json:"employeeId" binding:"required"`
	Date         string `json:"date" binding:"required"`
	Status       string `json:"status" binding:"required,oneof=Present Absent Half-Day Leave"`
	CheckInTime  string `json:"checkInTime"`
	CheckOutTime string `json:"checkOutTime"`
	Reason       string `json:"reason" binding:"required"`
}

// AttendanceSummary counts records by status
type AttendanceSummary struct {
	Present int64 `json:"Present"`
	Absent  int64 `json:"Absent"`
	HalfDay int64 `json:"Half-Day"`
	Leave   int64 `json:"Leave"`
}

// AttendanceEvent is published to NATS on every attendance mutation
type AttendanceEvent struct {
	Type       string `json:"type"` // checkin, checkout, autocheckout, edit
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	Time       string `json:"time,omitempty"`
	OfficeID   string `json:"officeId,omitempty"`
	OfficeName string `json:"officeName,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}
