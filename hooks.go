package clustercache

import "time"

// Destroy reasons passed to Hooks.ResourceDestroyed.
const (
	DestroyIdle     = "idle"      // keep-alive delay elapsed with zero refs
	DestroyEvictAll = "evict_all" // administrative EvictAll sweep
	DestroyShutdown = "shutdown"  // Close
)

// Hooks lightweight callbacks for high-signal lifecycle events.
// Implementations MUST be cheap and non-blocking; the cache calls them on
// hot paths. Wrap with hooks/async or metrics/prom for heavier sinks.
type Hooks interface {
	// A factory Create succeeded; dur is the creation latency.
	ResourceCreated(key any, dur time.Duration)

	// A factory Create failed; every coalesced waiter saw the same error.
	CreateFailed(key any, err error)

	// An entry was destroyed. reason ∈ {DestroyIdle, DestroyEvictAll, DestroyShutdown}.
	ResourceDestroyed(key any, reason string)

	// Factory.Destroy returned an error during a sweep (best-effort; the
	// sweep continues).
	DestroyFailed(key any, err error)

	// Reference count hit zero; deferred eviction timer armed.
	EvictionArmed(key any)

	// A pending eviction was cancelled by reacquisition.
	EvictionCancelled(key any)

	// An alias key was already bound to a different live entry.
	AliasConflict(key, alias any)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) ResourceCreated(any, time.Duration) {}
func (NopHooks) CreateFailed(any, error)            {}
func (NopHooks) ResourceDestroyed(any, string)      {}
func (NopHooks) DestroyFailed(any, error)           {}
func (NopHooks) EvictionArmed(any)                  {}
func (NopHooks) EvictionCancelled(any)              {}
func (NopHooks) AliasConflict(any, any)             {}
