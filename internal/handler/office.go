package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hrms/api/internal/model"
	"hrms/api/internal/service"
)

// OfficeHandler handles office branches and the geo-fencing toggle
type OfficeHandler struct {
	geofenceService *service.GeofenceService
}

// NewOfficeHandler creates a new office handler
func NewOfficeHandler(geofenceService *service.GeofenceService) *OfficeHandler {
	return &OfficeHandler{geofenceService: geofenceService}
}

// Create creates an office branch
// @Summary Create office
// @Tags Offices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param office body model.OfficeRequest true "Office data"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /offices [post]
func (h *OfficeHandler) Create(c *gin.Context) {
	var req model.OfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.geofenceService.CreateOffice(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Office created"})
}

// List returns all office branches
// @Summary List offices
// @Tags Offices
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.OfficeBranch
// @Failure 401 {object} map[string]string
// @Router /offices [get]
func (h *OfficeHandler) List(c *gin.Context) {
	offices, err := h.geofenceService.ListOffices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offices)
}

// Update replaces an office branch's fields
// @Summary Update office
// @Tags Offices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Office ID"
// @Param office body model.OfficeRequest true "Updated fields"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /offices/{id} [put]
func (h *OfficeHandler) Update(c *gin.Context) {
	var req model.OfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.geofenceService.UpdateOffice(c.Request.Context(), c.Param("id"), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Office updated"})
}

// Delete removes an office branch
// @Summary Delete office
// @Tags Offices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Office ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /offices/{id} [delete]
func (h *OfficeHandler) Delete(c *gin.Context) {
	if err := h.geofenceService.DeleteOffice(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Office deleted"})
}

// GetSetting returns the geo-fencing toggle
// @Summary Get geo-fencing setting
// @Tags Offices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string
// @Router /settings/geo-fencing [get]
func (h *OfficeHandler) GetSetting(c *gin.Context) {
	enabled, err := h.geofenceService.GetSetting(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

// SetSetting upserts the geo-fencing toggle
// @Summary Set geo-fencing setting
// @Tags Offices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.GeoFenceSettingRequest true "Toggle value"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /settings/geo-fencing [put]
func (h *OfficeHandler) SetSetting(c *gin.Context) {
	var req model.GeoFenceSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.geofenceService.SetSetting(c.Request.Context(), *req.Enabled); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Setting updated", "enabled": *req.Enabled})
}
