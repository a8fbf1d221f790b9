// Package cache provides byte-level caching with pluggable backends.
//
// The solver pipeline caches the expensive intermediate results of a solve:
// isomorphism images and extracted pattern tables. Keys are derived from
// content hashes of the input graphs, so a cache entry is valid for exactly
// as long as the inputs it was computed from.
//
// # Backends
//
//   - file: entries stored as JSON files under a directory (CLI default)
//   - memory: in-process LRU, for tests and the API server
//   - redis: shared cache for multi-instance deployments
//   - mongo: cache collection in MongoDB, for deployments already running it
//   - null: never stores anything, used when no cache is configured and in tests
//
// Use [Open] to construct a backend from configuration; the returned cache
// emits hit/miss/set events through the observability hooks.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/graphwfc/pkg/observability"
)

// Cache is the interface all backends implement. Implementations must treat
// a missing key as (nil, false, nil), never as an error.
type Cache interface {
	// Get retrieves a value. The second result reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A ttl of 0 means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Config selects and configures a cache backend.
type Config struct {
	// Backend is one of "file", "memory", "redis", "mongo", "null".
	Backend string `toml:"backend"`

	// Dir is the directory used by the file backend. Empty means the
	// platform default under the user cache directory.
	Dir string `toml:"dir"`

	// Addr is the redis address, host:port.
	Addr string `toml:"addr"`

	// URI is the mongo connection string.
	URI string `toml:"uri"`

	// Size is the entry capacity of the memory backend.
	Size int `toml:"size"`

	// TTL is read from configuration; Open does not apply it. Entry
	// lifetime is set by the ttl passed to each Set call.
	TTL time.Duration `toml:"ttl"`
}

// Open constructs the backend named by cfg and wraps it with observability
// instrumentation. An empty backend name means "file".
func Open(ctx context.Context, cfg Config) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend {
	case "", "file":
		c, err = NewFileCache(cfg.Dir)
	case "memory":
		c, err = NewMemoryCache(cfg.Size)
	case "redis":
		c, err = NewRedisCache(ctx, cfg.Addr)
	case "mongo":
		c, err = NewMongoCache(ctx, cfg.URI)
	case "null":
		c = NewNullCache()
	default:
		return nil, &UnknownBackendError{Backend: cfg.Backend}
	}
	if err != nil {
		return nil, err
	}
	return instrument(c), nil
}

// UnknownBackendError reports a backend name Open does not recognize.
type UnknownBackendError struct{ Backend string }

func (e *UnknownBackendError) Error() string {
	return "unknown cache backend " + e.Backend
}

// instrumented emits observability events around an inner cache.
type instrumented struct {
	inner Cache
}

func instrument(c Cache) Cache {
	return &instrumented{inner: c}
}

// keyType extracts the namespace prefix of a key for metrics labeling.
func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

func (c *instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *instrumented) Close() error {
	return c.inner.Close()
}
