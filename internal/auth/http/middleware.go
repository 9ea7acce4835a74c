// Package http provides HTTP middleware for API key authentication and rate limiting.
package http

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authService "github.com/allisson/actionserver/internal/auth/service"
	apperrors "github.com/allisson/actionserver/internal/errors"
	"github.com/allisson/actionserver/internal/httputil"
)

// KeyHeader is the dedicated request header carrying the static API key.
const KeyHeader = "X-Action-Server-Key"

// APIKeyMiddleware authenticates requests against the server's static API key.
//
// The middleware:
// 1. Extracts the key from the X-Action-Server-Key header, or from a Bearer
//    token in the Authorization header (case-insensitive "bearer")
// 2. Verifies it against the configured Argon2id hash when one is set
// 3. Falls back to a constant-time comparison against the plain configured key
//
// Error handling:
//   - No key in the request → 401 Unauthorized
//   - Key does not match → 401 Unauthorized
//   - Neither a hash nor a plain key configured → 401 Unauthorized (closed by default)
//
// Failure logs carry only the failure reason, never the presented key.
//
// Usage:
//
//	router.Use(APIKeyMiddleware(keyService, cfg.APIKeyHash, cfg.APIKey, logger))
func APIKeyMiddleware(
	keyService authService.APIKeyService,
	apiKeyHash string,
	apiKey string,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		candidate := extractAPIKey(c)
		if candidate == "" {
			logger.Debug("authentication failed: no api key in request")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !verifyAPIKey(keyService, candidate, apiKeyHash, apiKey) {
			logger.Debug("authentication failed: api key mismatch")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractAPIKey pulls the presented key from the request. The dedicated
// header wins over the Authorization header when both are set.
func extractAPIKey(c *gin.Context) string {
	if key := c.GetHeader(KeyHeader); key != "" {
		return key
	}

	authHeader := c.GetHeader("Authorization")
	const bearerPrefix = "bearer "
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}

	return authHeader[len(bearerPrefix):]
}

// verifyAPIKey checks the candidate against the configured expectation.
// The Argon2id hash takes precedence; the plain-key fallback still compares
// in constant time. With nothing configured every request is rejected.
func verifyAPIKey(keyService authService.APIKeyService, candidate, apiKeyHash, apiKey string) bool {
	if apiKeyHash != "" {
		return keyService.CompareKey(candidate, apiKeyHash)
	}
	if apiKey != "" {
		return subtle.ConstantTimeCompare([]byte(candidate), []byte(apiKey)) == 1
	}
	return false
}
