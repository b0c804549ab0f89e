package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrator returns a goose provider bound to this pool's dialect and the
// embedded SQL files for it.
func (p *Pool) Migrator() (*goose.Provider, error) {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch p.driver {
	case DriverPostgres:
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	case DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	default:
		return nil, fmt.Errorf("database: no migrations for driver %q", p.driver)
	}

	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("database: opening %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, p.db.DB, sub)
	if err != nil {
		return nil, fmt.Errorf("database: creating migrator: %w", err)
	}
	return provider, nil
}

// Migrate applies every pending migration.
func (p *Pool) Migrate(ctx context.Context) ([]*goose.MigrationResult, error) {
	provider, err := p.Migrator()
	if err != nil {
		return nil, err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("database: migrating up: %w", err)
	}
	return results, nil
}
