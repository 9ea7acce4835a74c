package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all pending database migrations for the given driver.
// The migration path is selected from the driver (postgresql or mysql).
// Returns nil if there are no migrations to apply.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations",
		slog.String("driver", driver),
	)

	// Determine migration path based on driver
	var migrationsPath string
	switch driver {
	case "postgres":
		migrationsPath = "file://migrations/postgresql"
	case "mysql":
		migrationsPath = "file://migrations/mysql"
	default:
		return fmt.Errorf("failed to create migrate instance: unsupported database driver %q", driver)
	}

	m, err := migrate.New(migrationsPath, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
