package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hrms/api/internal/model"
	"hrms/api/internal/service"
)

// AttendanceHandler handles attendance marking, corrections, queries, and
// exports.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
	autoCheckout      *service.AutoCheckoutService
	geofenceService   *service.GeofenceService
	exportService     *service.ExportService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(
	attendanceService *service.AttendanceService,
	autoCheckout *service.AutoCheckoutService,
	geofenceService *service.GeofenceService,
	exportService *service.ExportService,
) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		autoCheckout:      autoCheckout,
		geofenceService:   geofenceService,
		exportService:     exportService,
	}
}

// Mark records a check-in, check-out, or status update
// @Summary Mark attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.MarkAttendanceRequest true "Attendance data"
// @Success 200 {object} model.AttendanceRecord
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /attendance/mark [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.attendanceService.Mark(c.Request.Context(), principal, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Edit overwrites a day's record with admin-supplied values
// @Summary Edit attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.EditAttendanceRequest true "Correction data"
// @Success 200 {object} model.AttendanceRecord
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /attendance/edit [put]
func (h *AttendanceHandler) Edit(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.EditAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.attendanceService.Edit(c.Request.Context(), principal.Email, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// List returns attendance records with optional filters
// @Summary List attendance
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param employeeId query string false "Filter by employee"
// @Param date query string false "Filter by day (YYYY-MM-DD)"
// @Param month query string false "Filter by month (YYYY-MM)"
// @Param startDate query string false "Range start (YYYY-MM-DD, inclusive)"
// @Param endDate query string false "Range end (YYYY-MM-DD, inclusive)"
// @Success 200 {array} model.AttendanceRecordView
// @Failure 401 {object} map[string]string
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	views, err := h.attendanceService.List(c.Request.Context(), service.AttendanceFilter{
		EmployeeID: c.Query("employeeId"),
		Date:       c.Query("date"),
		Month:      c.Query("month"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// Me returns the caller's own attendance history
// @Summary Own attendance
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param month query string false "Filter by month (YYYY-MM)"
// @Success 200 {array} model.AttendanceRecordView
// @Failure 401 {object} map[string]string
// @Router /attendance/me [get]
func (h *AttendanceHandler) Me(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	views, err := h.attendanceService.SelfHistory(c.Request.Context(), principal, c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// Summary returns per-status counts for one employee and month
// @Summary Attendance summary
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param employeeId path string true "Employee ID"
// @Param month query string false "Month (YYYY-MM)"
// @Success 200 {object} model.AttendanceSummary
// @Failure 401 {object} map[string]string
// @Router /attendance/summary/{employeeId} [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	// Employees only ever see their own summary, whatever the path says
	employeeID := c.Param("employeeId")
	if principal.Role == model.RoleEmployee {
		ownID, err := h.attendanceService.SelfEmployeeID(c.Request.Context(), principal)
		if err != nil {
			respondError(c, err)
			return
		}
		employeeID = ownID
	}

	summary, err := h.attendanceService.Summary(c.Request.Context(), employeeID, c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Export downloads filtered attendance records as CSV or XLSX
// @Summary Export attendance
// @Tags Attendance
// @Produce application/octet-stream
// @Security BearerAuth
// @Param format query string false "csv or xlsx" default(csv)
// @Param employeeId query string false "Filter by employee (staff only)"
// @Param month query string false "Filter by month (YYYY-MM)"
// @Success 200 {file} file
// @Failure 401 {object} map[string]string
// @Router /attendance/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	filter := service.AttendanceFilter{
		EmployeeID: c.Query("employeeId"),
		Date:       c.Query("date"),
		Month:      c.Query("month"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
	}

	// Employees export their own records only
	if principal.Role == model.RoleEmployee {
		ownID, err := h.attendanceService.SelfEmployeeID(c.Request.Context(), principal)
		if err != nil {
			respondError(c, err)
			return
		}
		filter.EmployeeID = ownID
	}

	stamp := time.Now().Format("20060102")

	if c.DefaultQuery("format", "csv") == "xlsx" {
		data, err := h.exportService.AttendanceXLSX(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=attendance_%s.xlsx", stamp))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
		return
	}

	data, err := h.exportService.AttendanceCSV(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=attendance_%s.csv", stamp))
	c.Data(http.StatusOK, "text/csv", data)
}

// PreviewLocation validates a coordinate without writing anything
// @Summary Preview geo-fence result
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param location body model.Location true "Coordinate to test"
// @Success 200 {object} model.OfficeMeta
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /attendance/preview-location [post]
func (h *AttendanceHandler) PreviewLocation(c *gin.Context) {
	var loc model.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta, err := h.geofenceService.ValidateLocation(c.Request.Context(), &loc, "Preview")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

// TriggerAutoCheckout runs the auto-checkout sweep immediately
// @Summary Run auto-checkout sweep
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /auto-checkout [post]
func (h *AttendanceHandler) TriggerAutoCheckout(c *gin.Context) {
	closed, err := h.autoCheckout.Sweep(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Auto checkout completed", "closed": closed})
}
