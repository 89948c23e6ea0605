package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hrms/api/internal/service"
)

// Context keys set by the auth middleware
const (
	ctxKeyEmail      = "email"
	ctxKeyRole       = "role"
	ctxKeyFullName   = "full_name"
	ctxKeyEmployeeID = "employee_id"
)

// principalFromContext rebuilds the verified identity set by AuthMiddleware
func principalFromContext(c *gin.Context) (*service.Principal, bool) {
	email, ok := c.Get(ctxKeyEmail)
	if !ok {
		return nil, false
	}
	role, _ := c.Get(ctxKeyRole)
	fullName, _ := c.Get(ctxKeyFullName)
	employeeID, _ := c.Get(ctxKeyEmployeeID)

	p := &service.Principal{
		Email: email.(string),
	}
	if s, ok := role.(string); ok {
		p.Role = s
	}
	if s, ok := fullName.(string); ok {
		p.FullName = s
	}
	if s, ok := employeeID.(string); ok {
		p.EmployeeID = s
	}
	return p, true
}

// respondError maps service errors onto HTTP status codes. Unclassified
// errors become opaque 500s.
func respondError(c *gin.Context, err error) {
	var gfe *service.GeofenceError
	if errors.As(err, &gfe) {
		status := http.StatusBadRequest
		if gfe.Reason == service.GeofenceOutOfRange {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": gfe.Message, "reason": gfe.Reason})
		return
	}

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
