package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"feedfind-api-server/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	auth.Init("test-secret", "1h")
}

func protectedRouter(roles ...string) *gin.Engine {
	router := gin.New()
	group := router.Group("/")
	group.Use(Authenticate())
	if len(roles) > 0 {
		group.Use(Authorize(roles...))
	}
	group.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":     c.GetString("user_id"),
			"role":       c.GetString("user_role"),
			"providerID": c.GetString("user_provider_id"),
		})
	})
	return router
}

func doGet(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_ValidTokenPopulatesContext(t *testing.T) {
	token, err := auth.GenerateJWT("user-1", "owner@pantry.org", "provider", "prov-1")
	require.NoError(t, err)

	w := doGet(protectedRouter(), "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":"user-1"`)
	assert.Contains(t, w.Body.String(), `"role":"provider"`)
	assert.Contains(t, w.Body.String(), `"providerID":"prov-1"`)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	w := doGet(protectedRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_NotBearerFormat(t *testing.T) {
	token, err := auth.GenerateJWT("user-1", "owner@pantry.org", "provider", "")
	require.NoError(t, err)

	w := doGet(protectedRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	w := doGet(protectedRouter(), "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorize_AllowsListedRole(t *testing.T) {
	token, err := auth.GenerateJWT("user-1", "admin@feedfind.local", "admin", "")
	require.NoError(t, err)

	w := doGet(protectedRouter("admin", "superuser"), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorize_ForbidsUnlistedRole(t *testing.T) {
	token, err := auth.GenerateJWT("user-1", "someone@example.com", "user", "")
	require.NoError(t, err)

	w := doGet(protectedRouter("admin", "superuser"), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
