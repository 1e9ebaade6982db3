package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// ErrDirtySchema means a previous migration stopped halfway.
var ErrDirtySchema = errors.New("schema is dirty")

// RunMigrations brings the audit and analyse_ia tables up to date and
// returns the schema version.
func RunMigrations(dsn, migrationsPath string, logger *zap.Logger) (uint, error) {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return 0, fmt.Errorf("migration init: %w", err)
	}
	defer m.Close()

	before, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		before = 0
	case err != nil:
		return 0, fmt.Errorf("read schema version: %w", err)
	case dirty:
		return before, fmt.Errorf("%w at version %d", ErrDirtySchema, before)
	}

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return before, fmt.Errorf("migration up: %w", err)
		}
		logger.Info("✅ Schéma déjà à jour", zap.Uint("version", before))
		return before, nil
	}

	after, _, err := m.Version()
	if err != nil {
		return before, fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("✅ Migrations appliquées", zap.Uint("from", before), zap.Uint("to", after))
	return after, nil
}
