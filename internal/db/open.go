package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"taskboard/internal/config"
	"taskboard/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Handle is an open database of either backend. Exactly one of Pool and SQL is set.
type Handle struct {
	Driver string
	Pool   *pgxpool.Pool
	SQL    *sql.DB
}

// Open connects to the backend named by driver.
func Open(ctx context.Context, driver, source string) (*Handle, error) {
	switch driver {
	case config.DriverPostgres:
		pool, err := Connect(ctx, source)
		if err != nil {
			return nil, err
		}
		return &Handle{Driver: driver, Pool: pool}, nil
	case config.DriverSQLite:
		sqlDB, err := OpenSQLite(ctx, source)
		if err != nil {
			return nil, err
		}
		return &Handle{Driver: driver, SQL: sqlDB}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (h *Handle) Migrate(ctx context.Context) error {
	if h.Pool != nil {
		return MigratePostgres(ctx, h.Pool)
	}
	return MigrateSQLite(ctx, h.SQL)
}

// MigrationFiles lists the embedded migrations for this backend.
func (h *Handle) MigrationFiles() ([]string, error) {
	fsys, dir := fs.FS(migrations.SQLite), "sqlite"
	if h.Pool != nil {
		fsys, dir = migrations.Postgres, "postgres"
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (h *Handle) Ping(ctx context.Context) error {
	if h.Pool != nil {
		return h.Pool.Ping(ctx)
	}
	return h.SQL.PingContext(ctx)
}

func (h *Handle) Close() {
	if h.Pool != nil {
		h.Pool.Close()
	}
	if h.SQL != nil {
		h.SQL.Close()
	}
}
