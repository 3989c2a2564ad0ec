package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationResult reports the schema state after a migration run.
type MigrationResult struct {
	Version  uint
	Dirty    bool
	NoChange bool
}

func withMigrator(dsn, dir string, fn func(*migrate.Migrate) error) (MigrationResult, error) {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("opening migrations in %s: %w", dir, err)
	}
	defer m.Close()

	var res MigrationResult
	if err := fn(m); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return res, err
		}
		res.NoChange = true
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
	case err != nil:
		return res, fmt.Errorf("reading schema version: %w", err)
	default:
		res.Version, res.Dirty = version, dirty
	}
	return res, nil
}

// Migrate moves the schema at dsn using the files in dir. Positive steps go
// up that many versions, negative steps go down, and zero applies every
// pending migration.
//
// Postcondition: an already current schema yields NoChange, not an error.
func Migrate(dsn, dir string, steps int) (MigrationResult, error) {
	return withMigrator(dsn, dir, func(m *migrate.Migrate) error {
		var err error
		if steps == 0 {
			err = m.Up()
		} else {
			err = m.Steps(steps)
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrating %+d: %w", steps, err)
		}
		return err
	})
}

// MigrateDown reverts every applied migration.
func MigrateDown(dsn, dir string) (MigrationResult, error) {
	return withMigrator(dsn, dir, func(m *migrate.Migrate) error {
		err := m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("reverting all: %w", err)
		}
		return err
	})
}
