package cluster

import (
	"context"
	"sync"

	cc "github.com/unkn0wn-root/clustercache"
)

// Process-wide shared cache. Kept behind an explicit init-on-first-use and
// shutdown entry point rather than package-level magic: the host wires
// ShutdownShared into its exit/signal handling, and tests can swap the
// instance with SetShared.
var (
	sharedMu sync.Mutex
	shared   cc.Cache[Key, Conn]
)

// Shared returns the process-wide cache, initializing it from cfg on first
// use. Subsequent calls return the existing instance and ignore cfg.
func Shared(cfg Config) (cc.Cache[Key, Conn], error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared != nil {
		return shared, nil
	}
	c, err := NewCache(cfg)
	if err != nil {
		return nil, err
	}
	shared = c
	return shared, nil
}

// SetShared injects a cache instance (tests) and returns the previous one,
// which the caller owns. A nil argument just clears the slot.
func SetShared(c cc.Cache[Key, Conn]) cc.Cache[Key, Conn] {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	prev := shared
	shared = c
	return prev
}

// ShutdownShared closes the shared cache and clears the slot so a later
// Shared call starts fresh. Idempotent: with no instance it returns nil.
// Intended for the host's process-exit path.
func ShutdownShared(ctx context.Context) error {
	sharedMu.Lock()
	c := shared
	shared = nil
	sharedMu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close(ctx)
}
