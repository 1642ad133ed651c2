package counter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLiteStore keeps counters in a local SQLite file. It shares the schema and
// upsert semantics of PostgresStore and is meant for single-instance use.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps a database opened with db.NewSQLiteDB.
func NewSQLiteStore(sqlDB *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: sqlDB}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (int64, bool, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT views FROM page_views WHERE view_key = ?`, key,
	).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("select page_views: %w", err)
	}
	return n, true, nil
}

func (s *SQLiteStore) IncrementBy(ctx context.Context, key string, delta int64) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO page_views (view_key, views)
		 VALUES (?, ?)
		 ON CONFLICT (view_key) DO UPDATE
		 SET views = page_views.views + excluded.views
		 RETURNING views`,
		key, delta,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("upsert page_views: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) MultiGet(ctx context.Context, keys []string) ([]Value, error) {
	if len(keys) == 0 {
		return []Value{}, nil
	}

	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")

	rows, err := s.db.QueryContext(ctx,
		`SELECT view_key, views FROM page_views WHERE view_key IN (`+placeholders+`)`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("select page_views: %w", err)
	}
	defer rows.Close()

	found := make(map[string]int64, len(keys))
	for rows.Next() {
		var (
			k string
			n int64
		)
		if err := rows.Scan(&k, &n); err != nil {
			return nil, fmt.Errorf("scan page_views: %w", err)
		}
		found[k] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate page_views: %w", err)
	}
	return orderValues(keys, found), nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
