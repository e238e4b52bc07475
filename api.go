package clustercache

import (
	"context"
	"time"
)

// Factory produces and tears down the shared resource for a key.
// Create may block for a network round trip; the cache never holds its
// internal lock across a Create call. Destroy must be idempotent and must
// tolerate a resource that is already partially torn down.
type Factory[K comparable, R any] interface {
	Create(ctx context.Context, key K) (R, error)
	Destroy(res R) error
}

// FactoryFuncs adapts plain functions to the Factory interface.
// CreateFunc is required; DestroyFunc may be nil for resources that need no
// teardown, in which case Destroy is a no-op.
type FactoryFuncs[K comparable, R any] struct {
	CreateFunc  func(ctx context.Context, key K) (R, error)
	DestroyFunc func(res R) error
}

func (f FactoryFuncs[K, R]) Create(ctx context.Context, key K) (R, error) {
	return f.CreateFunc(ctx, key)
}

func (f FactoryFuncs[K, R]) Destroy(res R) error {
	if f.DestroyFunc == nil {
		return nil
	}
	return f.DestroyFunc(res)
}

// AliasFunc derives the alternate keys that must resolve to the same live
// resource as key. It runs once, right after a successful Create, and may
// inspect the fresh resource (e.g. its discovered topology). Returning nil
// or an empty slice is fine. A returned key that is already bound to a
// different live entry is a consistency fault and fails the acquire with
// AliasConflictError.
type AliasFunc[K comparable, R any] func(key K, res R) []K

// Cache is the reference-counted resource cache. All methods are safe for
// concurrent use by multiple goroutines.
type Cache[K comparable, R any] interface {
	// Acquire returns the live resource for key, creating it via the Factory
	// on first use. Concurrent acquires for the same key coalesce into one
	// Create; every successful Acquire must be paired with exactly one
	// Release. After Close, Acquire fails fast with ErrClosed.
	Acquire(ctx context.Context, key K) (R, error)

	// Release drops one reference obtained by Acquire. When the count
	// reaches zero the entry is not destroyed synchronously; a deferred
	// eviction timer is armed for the keep-alive delay instead.
	// Releasing an unmapped key, or a key whose count is already zero,
	// returns an InvariantError (a caller bug, never swallowed).
	Release(key K) error

	// EvictAll immediately destroys every entry with zero references,
	// ignoring the keep-alive delay. Entries still held survive untouched
	// and remain acquirable.
	EvictAll(ctx context.Context) error

	// Len reports the number of distinct live entries (aliases counted once).
	Len() int

	// Close cancels all pending eviction timers and destroys every entry
	// regardless of reference count. It is idempotent; callers racing with
	// Close observe ErrClosed rather than silently recreated resources.
	Close(ctx context.Context) error
}

// Options tune the cache. Factory is required; everything else has defaults.
type Options[K comparable, R any] struct {
	// Required.
	Factory Factory[K, R]

	// Aliases derives alternate keys after creation. Nil disables aliasing.
	Aliases AliasFunc[K, R]

	// KeepAlive is the minimum idle duration before a zero-reference entry
	// becomes eligible for destruction. 0 => CLUSTERCACHE_KEEPALIVE_MS env
	// var, or 250ms if unset.
	KeepAlive time.Duration

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks
}

// New builds a Cache from opts.
func New[K comparable, R any](opts Options[K, R]) (Cache[K, R], error) {
	return newCache[K, R](opts)
}
