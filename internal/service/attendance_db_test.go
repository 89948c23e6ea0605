package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hrms/api/internal/model"
)

// newTestDB opens an in-memory database with the attendance schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Employee{},
		&model.AttendanceRecord{},
		&model.OfficeBranch{},
		&model.GeoFenceSetting{},
	))
	return db
}

// unreachableRedis returns a client whose every call errors, so cache reads
// fall through to the database.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
}

func newAttendanceFixture(t *testing.T) (*AttendanceService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	rdb := unreachableRedis()
	employees := NewEmployeeService(db, rdb)
	geofence := NewGeofenceService(db, rdb)
	svc := NewAttendanceService(db, geofence, employees, NewEventPublisher(nil))

	require.NoError(t, db.Create(&model.Employee{
		EmployeeID: "EMP001",
		FullName:   "Asha Rao",
		Email:      "asha@hrms.com",
		Department: "Engineering",
		Password:   "x",
	}).Error)

	return svc, db
}

func employeePrincipal() *Principal {
	return &Principal{Email: "asha@hrms.com", Role: model.RoleEmployee}
}

func adminPrincipal() *Principal {
	return &Principal{Email: "admin@hrms.com", Role: model.RoleAdmin}
}

func loadRecord(t *testing.T, db *gorm.DB, employeeID, date string) *model.AttendanceRecord {
	t.Helper()
	var record model.AttendanceRecord
	require.NoError(t, db.Where("employee_id = ? AND date = ?", employeeID, date).First(&record).Error)
	return &record
}

func TestMarkSecondCheckInConflict(t *testing.T) {
	svc, _ := newAttendanceFixture(t)
	ctx := context.Background()
	today := time.Now().Format(DateLayout)

	first, err := svc.Mark(ctx, employeePrincipal(), &model.MarkAttendanceRequest{
		EmployeeID:      "EMP001",
		Date:            today,
		CheckInTime:     "09:00",
		CheckInLocation: coord(12.9716, 77.5946),
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", first.CheckInTime)
	assert.Equal(t, model.StatusPresent, first.Status)

	_, err = svc.Mark(ctx, employeePrincipal(), &model.MarkAttendanceRequest{
		EmployeeID:      "EMP001",
		Date:            today,
		CheckInTime:     "09:30",
		CheckInLocation: coord(12.9716, 77.5946),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Contains(t, err.Error(), "Already checked in for today")
}

func TestMarkCheckOutWithoutCheckIn(t *testing.T) {
	svc, db := newAttendanceFixture(t)
	ctx := context.Background()
	today := time.Now().Format(DateLayout)

	t.Run("no record yet", func(t *testing.T) {
		_, err := svc.Mark(ctx, employeePrincipal(), &model.MarkAttendanceRequest{
			EmployeeID:       "EMP001",
			Date:             today,
			CheckOutTime:     "17:00",
			CheckOutLocation: coord(12.9716, 77.5946),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Contains(t, err.Error(), "Check-out not allowed without check-in")

		var count int64
		db.Model(&model.AttendanceRecord{}).Where("employee_id = ?", "EMP001").Count(&count)
		assert.Zero(t, count)
	})

	t.Run("record exists without check-in", func(t *testing.T) {
		// Staff marked a bare status; the record has no check-in time
		_, err := svc.Mark(ctx, adminPrincipal(), &model.MarkAttendanceRequest{
			EmployeeID: "EMP001",
			Date:       today,
			Status:     model.StatusHalfDay,
		})
		require.NoError(t, err)

		_, err = svc.Mark(ctx, employeePrincipal(), &model.MarkAttendanceRequest{
			EmployeeID:       "EMP001",
			Date:             today,
			CheckOutTime:     "17:00",
			CheckOutLocation: coord(12.9716, 77.5946),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))

		record := loadRecord(t, db, "EMP001", today)
		assert.Empty(t, record.CheckInTime)
		assert.Empty(t, record.CheckOutTime)
		assert.Equal(t, model.StatusHalfDay, record.Status)
	})
}

func TestMarkStatusAlongsideCheckOut(t *testing.T) {
	svc, db := newAttendanceFixture(t)
	ctx := context.Background()
	today := time.Now().Format(DateLayout)

	_, err := svc.Mark(ctx, employeePrincipal(), &model.MarkAttendanceRequest{
		EmployeeID:      "EMP001",
		Date:            today,
		CheckInTime:     "09:00",
		CheckInLocation: coord(12.9716, 77.5946),
	})
	require.NoError(t, err)

	// Check-out riding with a status: both must land
	record, err := svc.Mark(ctx, employeePrincipal(), &model.MarkAttendanceRequest{
		EmployeeID:       "EMP001",
		Date:             today,
		Status:           model.StatusHalfDay,
		CheckOutTime:     "13:00",
		CheckOutLocation: coord(12.9716, 77.5946),
	})
	require.NoError(t, err)
	assert.Equal(t, "13:00", record.CheckOutTime)
	assert.Equal(t, model.StatusHalfDay, record.Status)
	assert.Equal(t, "04:00", record.TotalHours)

	stored := loadRecord(t, db, "EMP001", today)
	assert.Equal(t, model.StatusHalfDay, stored.Status)
}

func TestMarkStaffSkipsSetFields(t *testing.T) {
	svc, db := newAttendanceFixture(t)
	ctx := context.Background()
	today := time.Now().Format(DateLayout)

	_, err := svc.Mark(ctx, employeePrincipal(), &model.MarkAttendanceRequest{
		EmployeeID:      "EMP001",
		Date:            today,
		CheckInTime:     "09:00",
		CheckInLocation: coord(12.9716, 77.5946),
	})
	require.NoError(t, err)

	// A staff re-submit of an already-set check-in is skipped, not a
	// conflict, and the status still lands
	record, err := svc.Mark(ctx, adminPrincipal(), &model.MarkAttendanceRequest{
		EmployeeID:  "EMP001",
		Date:        today,
		CheckInTime: "10:30",
		Status:      model.StatusHalfDay,
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", record.CheckInTime)
	assert.Equal(t, model.StatusHalfDay, record.Status)

	stored := loadRecord(t, db, "EMP001", today)
	assert.Equal(t, "09:00", stored.CheckInTime)
}

func TestEditOverwritesRecord(t *testing.T) {
	svc, db := newAttendanceFixture(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.AttendanceRecord{
		EmployeeID:   "EMP001",
		Date:         "2026-08-28",
		Status:       model.StatusPresent,
		CheckInTime:  "09:00",
		CheckOutTime: "17:00",
		TotalHours:   "08:00",
		AutoCheckout: true,
	}).Error)

	record, err := svc.Edit(ctx, "admin@hrms.com", &model.EditAttendanceRequest{
		EmployeeID:   "EMP001",
		Date:         "2026-08-28",
		Status:       model.StatusHalfDay,
		CheckInTime:  "10:00",
		CheckOutTime: "14:30",
		Reason:       "badge reader outage",
	})
	require.NoError(t, err)

	assert.Equal(t, "10:00", record.CheckInTime)
	assert.Equal(t, "14:30", record.CheckOutTime)
	assert.Equal(t, "04:30", record.TotalHours)
	assert.Equal(t, model.StatusHalfDay, record.Status)
	assert.False(t, record.AutoCheckout)
	assert.Equal(t, "admin@hrms.com", record.EditedBy)
	assert.Equal(t, "badge reader outage", record.EditReason)
	require.NotNil(t, record.EditedAt)
}

func TestEditMissingRecordNotFound(t *testing.T) {
	svc, db := newAttendanceFixture(t)
	ctx := context.Background()

	// Corrections only amend days that were marked; they never create
	_, err := svc.Edit(ctx, "admin@hrms.com", &model.EditAttendanceRequest{
		EmployeeID:  "EMP001",
		Date:        "2026-08-27",
		Status:      model.StatusPresent,
		CheckInTime: "09:00",
		Reason:      "forgot to mark",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "Attendance record not found")

	var count int64
	db.Model(&model.AttendanceRecord{}).Where("employee_id = ?", "EMP001").Count(&count)
	assert.Zero(t, count)
}

func TestListDateRange(t *testing.T) {
	svc, db := newAttendanceFixture(t)
	ctx := context.Background()

	for _, date := range []string{"2026-08-25", "2026-08-26", "2026-08-27", "2026-08-28"} {
		require.NoError(t, db.Create(&model.AttendanceRecord{
			EmployeeID: "EMP001", Date: date, Status: model.StatusPresent,
		}).Error)
	}

	views, err := svc.List(ctx, AttendanceFilter{StartDate: "2026-08-26", EndDate: "2026-08-27"})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "2026-08-27", views[0].Date)
	assert.Equal(t, "2026-08-26", views[1].Date)
	assert.Equal(t, "Asha Rao", views[0].FullName)

	openEnded, err := svc.List(ctx, AttendanceFilter{StartDate: "2026-08-27"})
	require.NoError(t, err)
	assert.Len(t, openEnded, 2)
}
