package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rolesRouter(contextRole string, allowed ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded",
		func(c *gin.Context) {
			if contextRole != "" {
				c.Set("role", contextRole)
			}
		},
		RequireRoles(allowed...),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)
	return r
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		allowed    []string
		wantStatus int
	}{
		{"allowed role passes", "ADMIN", []string{"ADMIN", "HR"}, http.StatusOK},
		{"second allowed role passes", "HR", []string{"ADMIN", "HR"}, http.StatusOK},
		{"disallowed role forbidden", "EMPLOYEE", []string{"ADMIN", "HR"}, http.StatusForbidden},
		{"missing role unauthorized", "", []string{"ADMIN"}, http.StatusUnauthorized},
		{"single role gate", "ADMIN", []string{"ADMIN"}, http.StatusOK},
		{"hr blocked by admin gate", "HR", []string{"ADMIN"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := rolesRouter(tt.role, tt.allowed...)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
