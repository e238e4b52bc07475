// Package clustercache implements a reference-counted cache for shared,
// expensive-to-create network resources (database cluster handles, sessions).
// At most one live resource exists per distinct configuration key; concurrent
// acquirers of the same key are served the same instance, and a resource that
// drops to zero holders is kept alive for a configurable delay before a
// background reaper destroys it.
//
// Components:
//   - Factory: creates a live resource for a key and destroys it (idempotent).
//   - AliasFunc: after creation, derives alternate keys that must resolve to
//     the same resource (key-aliasing).
//   - Cache: the refcounted map with per-key in-flight creation, deferred
//     eviction timers, EvictAll and Close.
//   - cluster subpackage: the connector facade for the database-cluster
//     domain (sessions, endpoint ranking, process-wide shared cache).
//
// Lifecycle:
//
//	res, _ := cache.Acquire(ctx, key) // hit: refs++; miss: create once
//	...
//	_ = cache.Release(key)            // refs--; at 0, eviction timer armed
//
// Re-acquiring before the keep-alive delay elapses cancels the pending
// eviction; otherwise the reaper removes every alias and destroys the
// resource exactly once.
package clustercache
