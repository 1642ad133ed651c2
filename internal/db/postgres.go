// Package db provides database connection helpers.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PageViewsSchema creates the counter table shared by the Postgres and SQLite
// backends. The statement is valid for both engines.
const PageViewsSchema = `CREATE TABLE IF NOT EXISTS page_views (
	view_key TEXT PRIMARY KEY,
	views    BIGINT NOT NULL DEFAULT 0
)`

// NewPostgresPool creates and verifies a pgxpool connection pool, then makes
// sure the page_views table exists.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	if _, err := pool.Exec(ctx, PageViewsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create page_views: %w", err)
	}

	return pool, nil
}
