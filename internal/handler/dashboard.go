package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hrms/api/internal/service"
)

// DashboardHandler serves admin and employee dashboard aggregates
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// TotalEmployees returns the employee headcount
// @Summary Total employees
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /dashboard/total-employees [get]
func (h *DashboardHandler) TotalEmployees(c *gin.Context) {
	total, err := h.dashboardService.TotalEmployees(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

// TodayAttendance returns today's marked/present/absent counts
// @Summary Today's attendance
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /dashboard/today-attendance [get]
func (h *DashboardHandler) TodayAttendance(c *gin.Context) {
	counts, err := h.dashboardService.TodayAttendance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// PendingLeaves returns the count of leave requests awaiting action
// @Summary Pending leaves
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /dashboard/pending-leaves [get]
func (h *DashboardHandler) PendingLeaves(c *gin.Context) {
	pending, err := h.dashboardService.PendingLeaves(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

// MonthlyAttendance returns per-day counts for the last 30 days
// @Summary Monthly attendance chart
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.DailyAttendancePoint
// @Router /dashboard/monthly-attendance [get]
func (h *DashboardHandler) MonthlyAttendance(c *gin.Context) {
	points, err := h.dashboardService.MonthlyAttendance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// EmployeeSummary returns the caller's own dashboard numbers
// @Summary Employee dashboard summary
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /dashboard/employee-summary [get]
func (h *DashboardHandler) EmployeeSummary(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	summary, err := h.dashboardService.EmployeeSummary(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
