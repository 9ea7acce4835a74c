package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authService "github.com/allisson/actionserver/internal/auth/service"
)

// setupProtectedRouter builds a router with the API key middleware in front
// of a probe endpoint.
func setupProtectedRouter(apiKeyHash, apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	keyService := authService.NewAPIKeyService()
	logger := slog.Default()

	router := gin.New()
	router.Use(APIKeyMiddleware(keyService, apiKeyHash, apiKey, logger))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

func TestAPIKeyMiddleware_PlainKey(t *testing.T) {
	router := setupProtectedRouter("", "the-plain-key")

	t.Run("Success_KeyHeader", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(KeyHeader, "the-plain-key")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_BearerToken", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer the-plain-key")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_BearerPrefixIsCaseInsensitive", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "BEARER the-plain-key")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_MissingKey", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "unauthorized")
	})

	t.Run("Error_WrongKey", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(KeyHeader, "not-the-key")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_MalformedAuthorizationHeader", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_EmptyBearerToken", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer ")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAPIKeyMiddleware_HashedKey(t *testing.T) {
	keyService := authService.NewAPIKeyService()
	plainKey, hashedKey, err := keyService.GenerateKey()
	require.NoError(t, err)

	router := setupProtectedRouter(hashedKey, "")

	t.Run("Success_KeyMatchesHash", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(KeyHeader, plainKey)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_WrongKeyAgainstHash", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(KeyHeader, "not-the-key")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Success_HashTakesPrecedenceOverPlainKey", func(t *testing.T) {
		// When both are configured, only the hash counts.
		both := setupProtectedRouter(hashedKey, "the-plain-key")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(KeyHeader, "the-plain-key")
		both.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAPIKeyMiddleware_NoKeyConfigured(t *testing.T) {
	router := setupProtectedRouter("", "")

	// Closed by default: with no configured key every request is rejected.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(KeyHeader, "anything")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
