// Package http provides the HTTP server and routing for the action API.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	actionsHTTP "github.com/allisson/actionserver/internal/actions/http"
	authHTTP "github.com/allisson/actionserver/internal/auth/http"
	authService "github.com/allisson/actionserver/internal/auth/service"
	"github.com/allisson/actionserver/internal/metrics"
)

// Server represents the HTTP API server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// RouterConfig holds the handlers and middleware settings SetupRouter needs
// to assemble the API router.
type RouterConfig struct {
	ActionHandler *actionsHTTP.ActionHandler
	RunHandler    *actionsHTTP.RunHandler

	KeyService authService.APIKeyService
	APIKeyHash string
	APIKey     string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	CORSEnabled      bool
	CORSAllowOrigins string

	// MeterProvider is optional; when nil no HTTP metrics are recorded.
	MeterProvider    metric.MeterProvider
	MetricsNamespace string
}

// NewServer creates a new HTTP server. Call SetupRouter before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:        fmt.Sprintf("%s:%d", host, port),
			ReadTimeout: 15 * time.Second,
			// Run execution is synchronous: the response is held open until
			// the action finishes, and the per-run deadline already bounds
			// that. A fixed write timeout here would kill long runs.
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the Gin router with all middleware and routes.
//
// Route layout:
//   - GET  /health and /ready: unauthenticated probes
//   - /api/*: rate limited (when enabled), then API key authenticated
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	// Health and readiness probes stay outside the authenticated group
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/api")

	// Rate limiting runs before authentication so key guessing is
	// throttled along with everything else.
	if cfg.RateLimitEnabled {
		api.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, s.logger))
	}
	api.Use(authHTTP.APIKeyMiddleware(cfg.KeyService, cfg.APIKeyHash, cfg.APIKey, s.logger))

	// Action catalog and run execution
	api.GET("/actions", cfg.ActionHandler.ListHandler)
	api.POST("/actions/:name/run", cfg.RunHandler.ExecuteHandler)
	api.GET("/runs", cfg.RunHandler.ListHandler)
	api.GET("/runs/:id", cfg.RunHandler.GetHandler)

	s.router = router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can do useful work. The
// database is the only hard dependency checked: actions themselves are
// loaded at startup and the envelope keyring is resolved per request.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// GetHandler returns the configured router, for tests that mount the server
// in an httptest.Server. Returns nil before SetupRouter is called.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		return nil
	}
	return s.router
}

// Start starts the HTTP server. SetupRouter must have been called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured: call SetupRouter before Start")
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
