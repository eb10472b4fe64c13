// Package db defines the key-value storage contract backing the content
// store, the embedding cache, and the query-intent cache.
package db

import (
	"context"
	"time"
)

// Store is the storage facade. Consumers depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	KVStore
	SetStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore is a byte-oriented key-value store.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// DelPrefix removes every key matching prefix. Used for cache clearing.
	DelPrefix(ctx context.Context, prefix string) (int, error)
}

// SetStore maintains unordered string sets (per-user content indexes).
type SetStore interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}
