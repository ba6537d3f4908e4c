package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/allisson/filevault/migrations"
)

// migrateURL turns the application DSN into the URL golang-migrate expects.
// The mysql driver DSN carries no scheme, so one is added.
func migrateURL(driver, dsn string) (string, error) {
	switch driver {
	case "postgres":
		return dsn, nil
	case "mysql":
		if strings.HasPrefix(dsn, "mysql://") {
			return dsn, nil
		}
		return "mysql://" + dsn, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// RunMigrations applies every pending migration embedded in the binary for the given driver.
// Returns nil when the schema is already up to date.
func RunMigrations(logger *slog.Logger, driver, dsn string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	url, err := migrateURL(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	source, err := iofs.New(migrations.FS, migrations.Dir(driver))
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, url)
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
