// Package counter defines the contract for the shared page-view counter store
// and its backends.
//
// Every backend keeps one int64 per string key. Reads of keys never written
// report absence rather than an error, and IncrementBy is atomic under
// concurrent callers so simultaneous page views never lose an update.
package counter

import (
	"context"
	"errors"
)

// Value is the result of reading one key: N is only meaningful when OK is true.
type Value struct {
	N  int64
	OK bool
}

// Store is the counter backend used by the view service.
type Store interface {
	// Get returns the stored value, or ok=false when the key was never written.
	Get(ctx context.Context, key string) (n int64, ok bool, err error)
	// IncrementBy atomically adds delta, creating the key at delta when absent,
	// and returns the new value.
	IncrementBy(ctx context.Context, key string, delta int64) (int64, error)
	// MultiGet reads keys in one round trip. The result has the same length
	// and order as keys.
	MultiGet(ctx context.Context, keys []string) ([]Value, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// ErrUnavailable is returned by MemoryStore while an outage is simulated.
var ErrUnavailable = errors.New("counter store unavailable")

// orderValues maps found rows back onto the requested key order.
func orderValues(keys []string, found map[string]int64) []Value {
	out := make([]Value, len(keys))
	for i, k := range keys {
		if n, ok := found[k]; ok {
			out[i] = Value{N: n, OK: true}
		}
	}
	return out
}
