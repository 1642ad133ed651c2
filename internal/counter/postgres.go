package counter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps counters in the page_views table. Increments are a
// single upsert, so concurrent callers serialise on the row lock.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps a pool whose database already has page_views
// (see db.NewPostgresPool).
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (int64, bool, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT views FROM page_views WHERE view_key = $1`, key,
	).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("select page_views: %w", err)
	}
	return n, true, nil
}

func (s *PostgresStore) IncrementBy(ctx context.Context, key string, delta int64) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO page_views (view_key, views)
		 VALUES ($1, $2)
		 ON CONFLICT (view_key) DO UPDATE
		 SET views = page_views.views + EXCLUDED.views
		 RETURNING views`,
		key, delta,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("upsert page_views: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) MultiGet(ctx context.Context, keys []string) ([]Value, error) {
	if len(keys) == 0 {
		return []Value{}, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT view_key, views FROM page_views WHERE view_key = ANY($1)`, keys,
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

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Merge upserts a snapshot of counters, keeping whichever of the stored and
// snapshot value is larger. Counters only grow, so re-running a backup with
// an older snapshot never moves a row backwards.
func (s *PostgresStore) Merge(ctx context.Context, snapshot map[string]int64) error {
	if len(snapshot) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for k, n := range snapshot {
		batch.Queue(
			`INSERT INTO page_views (view_key, views)
			 VALUES ($1, $2)
			 ON CONFLICT (view_key) DO UPDATE
			 SET views = GREATEST(page_views.views, EXCLUDED.views)`,
			k, n,
		)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("merge page_views: %w", err)
	}
	return nil
}
