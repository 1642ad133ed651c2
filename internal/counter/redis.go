package counter

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint passed to SCAN when snapshotting.
const scanBatch = 200

// RedisStore keeps counters as plain Redis integer strings (GET/INCRBY/MGET).
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an already connected client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) (int64, bool, error) {
	n, err := s.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis GET %s: %w", key, err)
	}
	return n, true, nil
}

func (s *RedisStore) IncrementBy(ctx context.Context, key string, delta int64) (int64, error) {
	n, err := s.rdb.IncrBy(ctx, key, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("redis INCRBY %s: %w", key, err)
	}
	return n, nil
}

func (s *RedisStore) MultiGet(ctx context.Context, keys []string) ([]Value, error) {
	if len(keys) == 0 {
		return []Value{}, nil
	}
	raw, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis MGET: %w", err)
	}
	return parseMGet(keys, raw)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Snapshot returns every counter whose key starts with prefix. It walks the
// keyspace with SCAN so it never blocks Redis the way KEYS would.
func (s *RedisStore) Snapshot(ctx context.Context, prefix string) (map[string]int64, error) {
	out := make(map[string]int64)
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("redis SCAN: %w", err)
		}
		if len(keys) > 0 {
			vals, err := s.MultiGet(ctx, keys)
			if err != nil {
				return nil, err
			}
			for i, v := range vals {
				// Keys can expire or be deleted between SCAN and MGET.
				if v.OK {
					out[keys[i]] = v.N
				}
			}
		}
		cursor = next
		if cursor == 0 {
			return out, nil
		}
	}
}

func parseMGet(keys []string, raw []any) ([]Value, error) {
	out := make([]Value, len(keys))
	for i, r := range raw {
		if r == nil {
			continue
		}
		str, ok := r.(string)
		if !ok {
			return nil, fmt.Errorf("redis MGET %s: unexpected type %T", keys[i], r)
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("redis MGET %s: %w", keys[i], err)
		}
		out[i] = Value{N: n, OK: true}
	}
	return out, nil
}
