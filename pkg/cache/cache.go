// Package cache stores allocation results keyed by their inputs.
//
// Allocation is deterministic: the same device, dependency stream, allocator
// and settings always produce the same solution. The pipeline hashes those
// inputs with a [Keyer] and keeps encoded solutions in a [Cache].
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the API server
//   - [NullCache]: stores nothing, for --no-cache and tests
package cache

import (
	"context"
	"time"
)

// TTLSolution is how long a cached solution stays valid.
const TTLSolution = 30 * 24 * time.Hour

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value stored under key. A missing or expired entry
	// reports ok=false with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry and reports how many were removed.
	Clear(ctx context.Context) (int, error)

	Close() error
}

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Clear(context.Context) (int, error)                       { return 0, nil }
func (NullCache) Close() error                                             { return nil }
