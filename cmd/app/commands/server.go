package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/allisson/actionserver/internal/app"
	"github.com/allisson/actionserver/internal/config"
)

// RunServer starts the API and metrics servers and blocks until a shutdown
// signal arrives or one of them fails. Either way both servers get a graceful
// shutdown window of DBConnMaxLifetime before the container closes.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverErr := make(chan error, 2)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErr <- fmt.Errorf("api server error: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	// cause is nil on a clean signal-driven shutdown, the failing server's
	// error otherwise. errors.Join drops the nils.
	shutdown := func(cause error) error {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
		defer shutdownCancel()

		errs := []error{cause}
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("api server shutdown: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}
		return errors.Join(errs...)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return shutdown(nil)
	case err := <-serverErr:
		logger.Error("server error, initiating shutdown", slog.Any("error", err))
		return shutdown(err)
	}
}
