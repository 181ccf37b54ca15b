package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paneteria_admin/internal/auth"
	"paneteria_admin/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", middleware.RequireAuth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("username"), "role": c.GetString("role")})
	})
	return router
}

func TestRequireAuth(t *testing.T) {
	const secret = "test-secret"
	token, _, err := auth.GenerateToken([]byte(secret), 1, "admin", "super_admin", time.Hour)
	require.NoError(t, err)

	expired, _, err := auth.GenerateToken([]byte(secret), 1, "admin", "super_admin", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid_token", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "missing_header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "not_bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage_token", header: "Bearer not.a.token", wantStatus: http.StatusUnauthorized},
		{name: "expired_token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
	}

	router := protectedRouter(secret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(recorder, request)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, recorder.Body.String(), `"username":"admin"`)
				assert.Contains(t, recorder.Body.String(), `"role":"super_admin"`)
			}
		})
	}
}

func TestRequireAuth_RejectsTokenFromOtherSecret(t *testing.T) {
	token, _, err := auth.GenerateToken([]byte("other-secret"), 1, "admin", "admin", time.Hour)
	require.NoError(t, err)

	router := protectedRouter("test-secret")
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
