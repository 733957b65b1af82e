package providers

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Get when the key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// DeletePattern removes every key matching a glob pattern
	DeletePattern(ctx context.Context, pattern string) error
}

// CacheKeyPrefix prefixes every cached HTTP response
const CacheKeyPrefix = "http:cache:"

// Cached response groups
const (
	CacheGroupCapacity  = "capacity"
	CacheGroupDashboard = "dashboard"
)

// CacheGroupPattern matches every cached response of a group
func CacheGroupPattern(group string) string {
	return CacheKeyPrefix + group + ":*"
}
