// Package cache provides the key-value backends behind the read-through cache.
// Entries carry tags so a writer can drop every view derived from an entity
// type without enumerating keys.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss is returned by Get when the key is absent or expired.
	ErrMiss = errors.New("cache miss")
	// ErrNoTTL rejects entries without an expiry.
	ErrNoTTL = errors.New("cache ttl must be positive")
	// ErrVersionMismatch is returned when versions and tags differ in length.
	ErrVersionMismatch = errors.New("cache tag versions do not match tags")
)

// Backend is a TTL key-value store with tag based invalidation
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error
	Delete(ctx context.Context, keys ...string) error
	// SetIfFresh stores the entry only if every tag still has the version in
	// versions, as read by TagVersions before the value was computed.
	SetIfFresh(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string, versions []int64) (bool, error)
	// TagVersions returns the invalidation count of each tag.
	TagVersions(ctx context.Context, tags ...string) ([]int64, error)
	// InvalidateTags deletes every key stored under any of the tags and
	// advances their versions.
	InvalidateTags(ctx context.Context, tags ...string) error
	Ping(ctx context.Context) error
	Stats(ctx context.Context) map[string]interface{}
	Name() string
	Close() error
}
