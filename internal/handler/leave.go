package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hrms/api/internal/model"
	"hrms/api/internal/service"
)

// LeaveHandler handles leave applications and approvals
type LeaveHandler struct {
	leaveService *service.LeaveService
}

// NewLeaveHandler creates a new leave handler
func NewLeaveHandler(leaveService *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

// Apply files a new leave request
// @Summary Apply for leave
// @Tags Leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.ApplyLeaveRequest true "Leave application"
// @Success 201 {object} model.LeaveRequest
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /leaves [post]
func (h *LeaveHandler) Apply(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	leave, err := h.leaveService.Apply(c.Request.Context(), principal, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, leave)
}

// ListMine returns the caller's own leave requests
// @Summary Own leave requests
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.LeaveRequest
// @Failure 401 {object} map[string]string
// @Router /leaves/me [get]
func (h *LeaveHandler) ListMine(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	leaves, err := h.leaveService.ListMine(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leaves)
}

// ListAll returns every leave request, optionally filtered by status
// @Summary List leave requests
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Param status query string false "PENDING, APPROVED, or REJECTED"
// @Success 200 {array} model.LeaveRequest
// @Failure 401 {object} map[string]string
// @Router /leaves [get]
func (h *LeaveHandler) ListAll(c *gin.Context) {
	leaves, err := h.leaveService.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leaves)
}

// Act approves or rejects a pending leave request
// @Summary Approve or reject leave
// @Tags Leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Leave ID"
// @Param body body model.LeaveActionRequest true "Decision"
// @Success 200 {object} model.LeaveRequest
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /leaves/{id}/action [put]
func (h *LeaveHandler) Act(c *gin.Context) {
	var req model.LeaveActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	leave, err := h.leaveService.Act(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leave)
}
