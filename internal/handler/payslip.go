package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hrms/api/internal/model"
	"hrms/api/internal/service"
)

// PayslipHandler handles payslip generation and retrieval
type PayslipHandler struct {
	payslipService *service.PayslipService
}

// NewPayslipHandler creates a new payslip handler
func NewPayslipHandler(payslipService *service.PayslipService) *PayslipHandler {
	return &PayslipHandler{payslipService: payslipService}
}

// Generate creates a payslip for one employee and month
// @Summary Generate payslip
// @Tags Payslips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.GeneratePayslipRequest true "Payslip inputs"
// @Success 201 {object} model.Payslip
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /payslips/generate [post]
func (h *PayslipHandler) Generate(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.GeneratePayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payslip, err := h.payslipService.Generate(c.Request.Context(), principal.Email, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payslip)
}

// ListAll returns every payslip
// @Summary List payslips
// @Tags Payslips
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Payslip
// @Failure 401 {object} map[string]string
// @Router /payslips [get]
func (h *PayslipHandler) ListAll(c *gin.Context) {
	payslips, err := h.payslipService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payslips)
}

// ListMine returns the caller's own payslips
// @Summary Own payslips
// @Tags Payslips
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Payslip
// @Failure 401 {object} map[string]string
// @Router /payslips/me [get]
func (h *PayslipHandler) ListMine(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	payslips, err := h.payslipService.ListMine(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payslips)
}
