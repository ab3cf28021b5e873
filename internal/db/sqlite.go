package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"taskboard/internal/logger"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (or creates) a sqlite database file, creating parent
// directories as needed. Foreign keys are enforced on every connection.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// a single writer avoids SQLITE_BUSY under concurrent requests
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	logger.Info("database connected", "driver", "sqlite", "path", path)
	return db, nil
}
