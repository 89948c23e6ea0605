package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hrms/api/internal/model"
	"hrms/api/internal/service"
)

// asPrincipal stands in for the auth middleware in tests
func asPrincipal(email, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxKeyEmail, email)
		c.Set(ctxKeyRole, role)
		c.Next()
	}
}

func newAttendanceRouter(t *testing.T, email, role string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Employee{},
		&model.AttendanceRecord{},
		&model.OfficeBranch{},
		&model.GeoFenceSetting{},
	))

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	events := service.NewEventPublisher(nil)
	employees := service.NewEmployeeService(db, rdb)
	geofence := service.NewGeofenceService(db, rdb)
	attendance := service.NewAttendanceService(db, geofence, employees, events)
	autoCheckout := service.NewAutoCheckoutService(db, events, "19:00")
	export := service.NewExportService(attendance)
	h := NewAttendanceHandler(attendance, autoCheckout, geofence, export)

	r := gin.New()
	r.Use(asPrincipal(email, role))
	r.GET("/attendance/summary/:employeeId", h.Summary)
	r.GET("/attendance/export", h.Export)
	return r, db
}

func seedTwoEmployees(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&model.Employee{
		EmployeeID: "EMP001", FullName: "Asha Rao", Email: "asha@hrms.com", Password: "x",
	}).Error)
	require.NoError(t, db.Create(&model.Employee{
		EmployeeID: "EMP002", FullName: "Vikram Shah", Email: "vikram@hrms.com", Password: "x",
	}).Error)

	records := []model.AttendanceRecord{
		{EmployeeID: "EMP001", Date: "2026-08-27", Status: model.StatusPresent},
		{EmployeeID: "EMP001", Date: "2026-08-28", Status: model.StatusPresent},
		{EmployeeID: "EMP002", Date: "2026-08-28", Status: model.StatusAbsent},
	}
	for i := range records {
		require.NoError(t, db.Create(&records[i]).Error)
	}
}

func TestSummaryPinsEmployeeToSelf(t *testing.T) {
	r, db := newAttendanceRouter(t, "asha@hrms.com", model.RoleEmployee)
	seedTwoEmployees(t, db)

	// Asking for another employee's summary still answers with the caller's
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/attendance/summary/EMP002", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var summary model.AttendanceSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, int64(2), summary.Present)
	assert.Equal(t, int64(0), summary.Absent)
}

func TestSummaryStaffReadsAnyEmployee(t *testing.T) {
	r, db := newAttendanceRouter(t, "admin@hrms.com", model.RoleAdmin)
	seedTwoEmployees(t, db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/attendance/summary/EMP002", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var summary model.AttendanceSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, int64(1), summary.Absent)
	assert.Equal(t, int64(0), summary.Present)
}

func TestExportPinsEmployeeToSelf(t *testing.T) {
	r, db := newAttendanceRouter(t, "asha@hrms.com", model.RoleEmployee)
	seedTwoEmployees(t, db)

	// The employeeId filter is overridden with the caller's own id
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/attendance/export?employeeId=EMP002", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "Employee ID,Name,Date,Status"))
	assert.Contains(t, body, "EMP001")
	assert.NotContains(t, body, "EMP002")
}
