package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// NewSQLiteDB opens (or creates) the SQLite file at path and makes sure the
// page_views table exists.
func NewSQLiteDB(ctx context.Context, path string) (*sql.DB, error) {
	// busy_timeout lets concurrent writers queue instead of failing with SQLITE_BUSY.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite ping failed: %w", err)
	}

	if _, err := sqlDB.ExecContext(ctx, PageViewsSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create page_views: %w", err)
	}

	return sqlDB, nil
}
