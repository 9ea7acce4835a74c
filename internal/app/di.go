// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	actionsHTTP "github.com/allisson/actionserver/internal/actions/http"
	actionsService "github.com/allisson/actionserver/internal/actions/service"
	actionsUseCase "github.com/allisson/actionserver/internal/actions/usecase"
	authService "github.com/allisson/actionserver/internal/auth/service"
	"github.com/allisson/actionserver/internal/config"
	credentialsService "github.com/allisson/actionserver/internal/credentials/service"
	credentialsUseCase "github.com/allisson/actionserver/internal/credentials/usecase"
	cryptoDomain "github.com/allisson/actionserver/internal/crypto/domain"
	cryptoService "github.com/allisson/actionserver/internal/crypto/service"
	"github.com/allisson/actionserver/internal/database"
	envelopeService "github.com/allisson/actionserver/internal/envelope/service"
	"github.com/allisson/actionserver/internal/http"
	"github.com/allisson/actionserver/internal/metrics"
	"github.com/allisson/actionserver/internal/redact"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger         *slog.Logger
	redactRegistry *redact.Registry
	db             *sql.DB

	// Managers
	txManager database.TxManager

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Crypto
	aeadManager     cryptoService.AEADManager
	kmsService      cryptoService.KMSService
	kmsKeeper       cryptoDomain.KMSKeeper
	storageKeyChain *cryptoDomain.StorageKeyChain

	// Envelope decoding
	envelopeKeyring *envelopeService.EnvKeyring
	contextService  *envelopeService.ContextService

	// Authentication
	apiKeyService authService.APIKeyService

	// Actions
	actionRegistry *actionsService.Registry
	runner         *actionsService.Runner
	runRepo        actionsUseCase.RunRepository
	actionUseCase  actionsUseCase.ActionUseCase
	runUseCase     actionsUseCase.RunUseCase
	actionHandler  *actionsHTTP.ActionHandler
	runHandler     *actionsHTTP.RunHandler

	// Credentials
	credentialRepo    credentialsUseCase.CredentialRepository
	credentialSealer  credentialsService.CredentialSealer
	credentialUseCase credentialsUseCase.CredentialUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	redactRegistryInit    sync.Once
	dbInit                sync.Once
	txManagerInit         sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	aeadManagerInit       sync.Once
	kmsServiceInit        sync.Once
	kmsKeeperInit         sync.Once
	storageKeyChainInit   sync.Once
	envelopeKeyringInit   sync.Once
	contextServiceInit    sync.Once
	apiKeyServiceInit     sync.Once
	actionRegistryInit    sync.Once
	runnerInit            sync.Once
	runRepoInit           sync.Once
	actionUseCaseInit     sync.Once
	runUseCaseInit        sync.Once
	actionHandlerInit     sync.Once
	runHandlerInit        sync.Once
	credentialRepoInit    sync.Once
	credentialSealerInit  sync.Once
	credentialUseCaseInit sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// RedactRegistry returns the shared redaction registry.
// Every component that handles decrypted secrets registers them here, and the
// logger and run output writers scrub through the same instance.
func (c *Container) RedactRegistry() *redact.Registry {
	c.redactRegistryInit.Do(func() {
		c.redactRegistry = redact.NewRegistry()
	})
	return c.redactRegistry
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
// The handler is wrapped with the redaction registry so secret values never
// reach the log output, whichever component logs them.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider.
// It returns nil when metrics are disabled in configuration.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// When metrics are disabled it returns a no-op recorder, so use case
// decorators can be wired unconditionally.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the HTTP server instance with all routes configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance.
// It returns nil when metrics are disabled in configuration.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP servers if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Flush pending metrics if the provider was initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Release the KMS keeper if one was opened
	if c.kmsKeeper != nil {
		if err := c.kmsKeeper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("kms keeper close: %w", err))
		}
	}

	// Zeroize storage keys if the keychain was loaded
	if c.storageKeyChain != nil {
		c.storageKeyChain.Close()
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(redact.NewLogHandler(handler, c.RedactRegistry()))
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(context.Background(), database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initMetricsProvider creates the OpenTelemetry metrics provider.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	actionHandler, err := c.ActionHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get action handler for http server: %w", err)
	}

	runHandler, err := c.RunHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get run handler for http server: %w", err)
	}

	routerConfig := http.RouterConfig{
		ActionHandler:    actionHandler,
		RunHandler:       runHandler,
		KeyService:       c.APIKeyService(),
		APIKeyHash:       c.config.APIKeyHash,
		APIKey:           c.config.APIKey,
		RateLimitEnabled: c.config.RateLimitEnabled,
		RateLimitRPS:     c.config.RateLimitRequestsPerSec,
		RateLimitBurst:   c.config.RateLimitBurst,
		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,
		MetricsNamespace: c.config.MetricsNamespace,
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}
	if provider != nil {
		routerConfig.MeterProvider = provider.MeterProvider()
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(routerConfig)

	return server, nil
}

// initMetricsServer creates the metrics HTTP server.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}
