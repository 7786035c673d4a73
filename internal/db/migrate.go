package db

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/humanosaude/portal/internal/logger"
)

const migrateComponent = "MIGRATE"

// Migrator applies the versioned schema held in an fs.FS.
type Migrator struct {
	m   *migrate.Migrate
	log *logger.Logger
}

func NewMigrator(db *sql.DB, migrations fs.FS, log *logger.Logger) (*Migrator, error) {
	src, err := iofs.New(migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{m: m, log: log}, nil
}

func (mg *Migrator) Up() error {
	mg.log.Info(migrateComponent, "Running migrations up")
	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Info(migrateComponent, "No migrations to apply")
			return nil
		}
		return fmt.Errorf("migration up failed: %w", err)
	}
	return mg.logVersion("Migrations completed")
}

func (mg *Migrator) Down() error {
	mg.log.Info(migrateComponent, "Running migrations down")
	if err := mg.m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Info(migrateComponent, "No migrations to roll back")
			return nil
		}
		return fmt.Errorf("migration down failed: %w", err)
	}
	mg.log.Info(migrateComponent, "All migrations rolled back")
	return nil
}

// Steps applies n migrations, rolling back when n is negative.
func (mg *Migrator) Steps(n int) error {
	mg.log.Info(migrateComponent, "Running %d migration steps", n)
	if err := mg.m.Steps(n); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Info(migrateComponent, "No migrations to apply")
			return nil
		}
		return fmt.Errorf("migration steps failed: %w", err)
	}
	return mg.logVersion("Migration steps completed")
}

func (mg *Migrator) GoTo(version uint) error {
	mg.log.Info(migrateComponent, "Migrating to version %d", version)
	if err := mg.m.Migrate(version); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Info(migrateComponent, "Already at version %d", version)
			return nil
		}
		return fmt.Errorf("migration to version %d failed: %w", version, err)
	}
	return mg.logVersion("Migration to version completed")
}

// Version reports the applied version. A fresh database reports 0.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force sets the version without running anything. It clears a dirty flag
// left by a failed migration.
func (mg *Migrator) Force(version int) error {
	mg.log.Warn(migrateComponent, "Forcing migration version %d", version)
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

func (mg *Migrator) Close() error {
	sourceErr, dbErr := mg.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}

func (mg *Migrator) logVersion(message string) error {
	version, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	mg.log.Info(migrateComponent, "%s: version=%d dirty=%t", message, version, dirty)
	return nil
}
