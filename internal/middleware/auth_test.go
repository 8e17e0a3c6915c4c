package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasinarivo/vax-slot-api/internal/utils"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		userID, _ := c.Get("userID")
		role, _ := c.Get("userRole")
		c.JSON(http.StatusOK, gin.H{"userID": userID, "role": role})
	})
	r.GET("/admin-only", AuthMiddleware(), AdminOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	r := setupRouter()

	w := doRequest(r, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	r := setupRouter()

	w := doRequest(r, "/protected", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	r := setupRouter()

	tok, err := utils.GenerateUserToken("6554a1b2c3d4e5f6a7b8c9d0", "9876543210")
	require.NoError(t, err)

	w := doRequest(r, "/protected", tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "6554a1b2c3d4e5f6a7b8c9d0")
}

func TestAdminOnlyRejectsUserToken(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	r := setupRouter()

	tok, err := utils.GenerateUserToken("6554a1b2c3d4e5f6a7b8c9d0", "9876543210")
	require.NoError(t, err)

	w := doRequest(r, "/admin-only", tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminOnlyAllowsAdminToken(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	r := setupRouter()

	tok, err := utils.GenerateAdminToken("6554a1b2c3d4e5f6a7b8c9d1", "drh")
	require.NoError(t, err)

	w := doRequest(r, "/admin-only", tok)
	assert.Equal(t, http.StatusOK, w.Code)
}
