package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/api/internal/service"
)

func newTestRouter(h *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protected := r.Group("/api/v1")
	protected.Use(h.AuthMiddleware())
	protected.GET("/auth/me", h.GetMe)
	return r
}

func TestTokenRoundTrip(t *testing.T) {
	h := NewAuthHandler(nil, "test-secret", time.Hour)
	router := newTestRouter(h)

	token, err := h.generateToken(&service.Principal{
		Email:      "jordan@hrms.com",
		Role:       "EMPLOYEE",
		FullName:   "Jordan Lee",
		EmployeeID: "EMP042",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"jordan@hrms.com"`)
	assert.Contains(t, w.Body.String(), `"role":"EMPLOYEE"`)
	assert.Contains(t, w.Body.String(), `"employeeId":"EMP042"`)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	h := NewAuthHandler(nil, "test-secret", time.Hour)
	router := newTestRouter(h)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	issuer := NewAuthHandler(nil, "issuer-secret", time.Hour)
	verifier := NewAuthHandler(nil, "other-secret", time.Hour)
	router := newTestRouter(verifier)

	token, err := issuer.generateToken(&service.Principal{Email: "a@b.com", Role: "ADMIN"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	h := NewAuthHandler(nil, "test-secret", -time.Minute)
	router := newTestRouter(h)

	token, err := h.generateToken(&service.Principal{Email: "a@b.com", Role: "ADMIN"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
