package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/actionserver/internal/auth/http"
	envelopeDomain "github.com/allisson/actionserver/internal/envelope/domain"
)

// createCORSMiddleware builds the CORS middleware, or returns nil when CORS
// is disabled or no usable origin is configured. The server is normally
// called service-to-service, so CORS stays off unless a browser console
// needs to trigger runs directly.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOriginsStr)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no usable origins configured - CORS will not be applied")
		return nil
	}

	logger.Info("CORS enabled",
		slog.Int("origin_count", len(origins)),
		slog.Any("origins", origins))

	// Context envelopes travel in request headers, so every context header
	// must be allowed or browsers will strip them in preflight. Split
	// envelope segments carry numeric suffixes (x-action-context-1, ...);
	// browser callers sending split headers must extend this list.
	allowHeaders := []string{
		"Authorization",
		"Content-Type",
		authHTTP.KeyHeader,
	}
	for _, kind := range envelopeDomain.Kinds() {
		allowHeaders = append(allowHeaders, kind.Header())
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     allowHeaders,
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// parseOrigins splits a comma-separated origin list, trimming whitespace and
// dropping empty entries.
func parseOrigins(originsStr string) []string {
	var origins []string
	for _, part := range strings.Split(originsStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
