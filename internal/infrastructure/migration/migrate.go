package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator wraps golang-migrate for the schema migration CLI
type Migrator struct {
	migrate *migrate.Migrate
	log     *zap.Logger
}

// New creates a Migrator reading migration files from migrationsPath
func New(db *sql.DB, migrationsPath string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{migrate: m, log: log}, nil
}

// Up applies all pending migrations
func (m *Migrator) Up() error {
	m.log.Info("Running migrations up")

	if noChange, err := m.run(m.migrate.Up()); err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	} else if noChange {
		return nil
	}
	return m.logVersion("Migrations completed")
}

// Down rolls back all migrations
func (m *Migrator) Down() error {
	m.log.Info("Running migrations down")

	if noChange, err := m.run(m.migrate.Down()); err != nil {
		return fmt.Errorf("migration down failed: %w", err)
	} else if noChange {
		return nil
	}

	m.log.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations, negative n rolls back
func (m *Migrator) Steps(n int) error {
	m.log.Info("Running migration steps", zap.Int("steps", n))

	if noChange, err := m.run(m.migrate.Steps(n)); err != nil {
		return fmt.Errorf("migration steps failed: %w", err)
	} else if noChange {
		return nil
	}
	return m.logVersion("Migration steps completed")
}

// GoTo migrates up or down to a specific version
func (m *Migrator) GoTo(version uint) error {
	m.log.Info("Migrating to version", zap.Uint("target_version", version))

	if noChange, err := m.run(m.migrate.Migrate(version)); err != nil {
		return fmt.Errorf("migration to version %d failed: %w", version, err)
	} else if noChange {
		return nil
	}

	m.log.Info("Migration to version completed", zap.Uint("version", version))
	return nil
}

// Version returns the current migration version. A database with no applied
// migrations reports version 0, not an error.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force sets the migration version without running migrations. Only for
// recovering from a dirty database state.
func (m *Migrator) Force(version int) error {
	m.log.Warn("Forcing migration version", zap.Int("version", version))

	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Drop drops every object in the database
func (m *Migrator) Drop() error {
	m.log.Warn("Dropping database - all data will be lost")

	if err := m.migrate.Drop(); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}

// run normalizes migrate results: ErrNoChange means nothing to do
func (m *Migrator) run(err error) (noChange bool, _ error) {
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info("No migrations to apply")
		return true, nil
	}
	return false, err
}

func (m *Migrator) logVersion(msg string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.log.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
