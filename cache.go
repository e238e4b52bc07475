package clustercache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// entry is the unit of ownership: one per physical resource, reachable from
// every key in keys. Mutated only under cache.mu.
type entry[K comparable, R any] struct {
	res  R
	refs int
	keys []K // primary first, then aliases

	// Deferred eviction. epoch is bumped on every arm/cancel/removal so a
	// timer callback that lost the Stop race can detect it is stale.
	timer *time.Timer
	epoch uint64
}

func (e *entry[K, R]) primary() K { return e.keys[0] }

// creation is the per-key in-flight marker. The leader publishes res/err
// before closing done; followers re-lookup the map after <-done so their
// reference is taken under the same lock that published the entry.
type creation struct {
	done chan struct{}
	err  error
}

type cache[K comparable, R any] struct {
	factory   Factory[K, R]
	aliases   AliasFunc[K, R]
	keepAlive time.Duration
	log       Logger
	hooks     Hooks

	mu       sync.Mutex
	entries  map[K]*entry[K, R]
	creating map[K]*creation
	closed   bool

	// reaping counts timer-initiated teardowns that have passed their
	// checks and left the lock. Add happens under mu; Close waits on it so
	// shutdown never returns with a destroy still executing.
	reaping sync.WaitGroup
}

func newCache[K comparable, R any](opts Options[K, R]) (*cache[K, R], error) {
	if opts.Factory == nil {
		return nil, fmt.Errorf("clustercache: factory is required")
	}

	c := &cache[K, R]{
		factory:  opts.Factory,
		aliases:  opts.Aliases,
		entries:  make(map[K]*entry[K, R]),
		creating: make(map[K]*creation),
	}

	// defaults
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.keepAlive = opts.KeepAlive
	if c.keepAlive == 0 {
		c.keepAlive = keepAliveFromEnv()
	}

	return c, nil
}

func (c *cache[K, R]) Acquire(ctx context.Context, key K) (R, error) {
	var zero R
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return zero, ErrClosed
		}
		if e, ok := c.entries[key]; ok {
			e.refs++
			c.cancelEvictionLocked(e)
			res := e.res
			c.mu.Unlock()
			return res, nil
		}
		if fl, ok := c.creating[key]; ok {
			// Another goroutine is creating this key. Wait for its result,
			// then loop: the leader registers the entry before closing done,
			// so the retry takes a reference on the shared entry.
			c.mu.Unlock()
			select {
			case <-fl.done:
				if fl.err != nil {
					return zero, fl.err
				}
				continue
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		// We are the leader for this key.
		fl := &creation{done: make(chan struct{})}
		c.creating[key] = fl
		c.mu.Unlock()
		return c.create(ctx, key, fl)
	}
}

// create runs the factory outside the map lock, then registers the entry and
// its aliases atomically. fl is resolved exactly once on every path.
func (c *cache[K, R]) create(ctx context.Context, key K, fl *creation) (R, error) {
	var zero R

	start := time.Now()
	res, err := c.factory.Create(ctx, key)
	if err != nil {
		cerr := &CreateError{Key: key, Err: err}
		c.resolve(key, fl, cerr)
		c.hooks.CreateFailed(key, err)
		c.log.Warn("resource creation failed", Fields{"key": key, "err": err})
		return zero, cerr
	}

	// Alias derivation may inspect the live resource (e.g. discovered
	// topology); keep it outside the lock too.
	var aliasKeys []K
	if c.aliases != nil {
		aliasKeys = c.aliases(key, res)
	}

	c.mu.Lock()
	if c.closed {
		delete(c.creating, key)
		fl.err = ErrClosed
		close(fl.done)
		c.mu.Unlock()
		c.discard(key, res)
		return zero, ErrClosed
	}

	// Another creation may have registered our primary key as one of its
	// aliases while our factory call was in flight. Both keys describe the
	// same configuration, so this is not a conflict: adopt the existing
	// entry and discard the duplicate resource.
	if existing, ok := c.entries[key]; ok {
		existing.refs++
		c.cancelEvictionLocked(existing)
		shared := existing.res
		delete(c.creating, key)
		close(fl.done)
		c.mu.Unlock()
		c.log.Debug("adopted entry registered during creation", Fields{"key": key})
		c.discard(key, res)
		return shared, nil
	}

	// The entry is not registered yet, so any existing binding for an
	// alias points at a different live resource.
	keys := dedupe(key, aliasKeys)
	for _, k := range keys[1:] {
		if _, bound := c.entries[k]; bound {
			delete(c.creating, key)
			aerr := &AliasConflictError{Key: key, Alias: k}
			fl.err = aerr
			close(fl.done)
			c.mu.Unlock()
			c.hooks.AliasConflict(key, k)
			c.log.Error("alias already bound to a different resource", Fields{"key": key, "alias": k})
			c.discard(key, res)
			return zero, aerr
		}
	}

	e := &entry[K, R]{res: res, refs: 1, keys: keys}
	for _, k := range keys {
		c.entries[k] = e
	}
	delete(c.creating, key)
	close(fl.done)
	c.mu.Unlock()

	c.hooks.ResourceCreated(key, time.Since(start))
	c.log.Debug("resource created", Fields{"key": key, "aliases": len(keys) - 1, "took": time.Since(start)})
	return res, nil
}

// resolve publishes a creation failure and removes the in-flight marker.
func (c *cache[K, R]) resolve(key K, fl *creation, err error) {
	c.mu.Lock()
	delete(c.creating, key)
	fl.err = err
	close(fl.done)
	c.mu.Unlock()
}

func (c *cache[K, R]) Release(key K) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return &InvariantError{Op: "release", Key: key, Reason: "key not mapped to a live resource"}
	}
	if e.refs == 0 {
		c.mu.Unlock()
		return &InvariantError{Op: "release", Key: key, Reason: "reference count already zero"}
	}
	e.refs--
	if e.refs == 0 {
		c.armEvictionLocked(e)
	}
	c.mu.Unlock()
	return nil
}

// armEvictionLocked schedules the deferred destruction of an idle entry.
// Caller holds c.mu and e.refs == 0.
func (c *cache[K, R]) armEvictionLocked(e *entry[K, R]) {
	e.epoch++
	epoch := e.epoch
	e.timer = time.AfterFunc(c.keepAlive, func() { c.reap(e, epoch) })
	c.hooks.EvictionArmed(e.primary())
}

// cancelEvictionLocked disarms a pending eviction, if any. The epoch bump
// makes an already-fired timer a stale no-op even when Stop loses the race.
func (c *cache[K, R]) cancelEvictionLocked(e *entry[K, R]) {
	if e.timer == nil {
		return
	}
	e.timer.Stop()
	e.timer = nil
	e.epoch++
	c.hooks.EvictionCancelled(e.primary())
}

// reap is the eviction timer callback. It re-validates under the lock:
// destruction never proceeds if the entry was reacquired, re-armed, or
// already removed.
func (c *cache[K, R]) reap(e *entry[K, R], epoch uint64) {
	c.mu.Lock()
	if c.closed || e.epoch != epoch || e.refs != 0 {
		c.mu.Unlock()
		return
	}
	c.removeLocked(e)
	c.reaping.Add(1)
	c.mu.Unlock()

	c.destroy(e.primary(), e.res, DestroyIdle)
	c.reaping.Done()
}

// removeLocked unmaps every alias of e and invalidates pending timers.
func (c *cache[K, R]) removeLocked(e *entry[K, R]) {
	for _, k := range e.keys {
		if c.entries[k] == e {
			delete(c.entries, k)
		}
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.epoch++
}

// discard tears down a freshly created resource that was never published
// (shutdown raced the creation, or an alias conflict was detected).
func (c *cache[K, R]) discard(key K, res R) {
	if err := c.factory.Destroy(res); err != nil {
		c.hooks.DestroyFailed(key, err)
		c.log.Error("discard of unpublished resource failed", Fields{"key": key, "err": err})
	}
}

// destroy invokes the factory teardown exactly once per removed entry.
func (c *cache[K, R]) destroy(key K, res R, reason string) {
	if err := c.factory.Destroy(res); err != nil {
		c.hooks.DestroyFailed(key, err)
		c.log.Error("resource destroy failed", Fields{"key": key, "reason": reason, "err": err})
		return
	}
	c.hooks.ResourceDestroyed(key, reason)
	c.log.Debug("resource destroyed", Fields{"key": key, "reason": reason})
}

func (c *cache[K, R]) EvictAll(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	var victims []*entry[K, R]
	for _, e := range c.uniqueEntriesLocked() {
		if e.refs == 0 {
			c.removeLocked(e)
			victims = append(victims, e)
		}
	}
	c.mu.Unlock()

	return c.sweep(ctx, victims, DestroyEvictAll)
}

func (c *cache[K, R]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.uniqueEntriesLocked())
}

func (c *cache[K, R]) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	victims := c.uniqueEntriesLocked()
	for _, e := range victims {
		c.removeLocked(e)
	}
	c.entries = nil
	c.mu.Unlock()

	err := c.sweep(ctx, victims, DestroyShutdown)
	// Drain timer-initiated teardowns that were already past their checks
	// when we flipped closed; after this, no destroy is in flight.
	c.reaping.Wait()
	return err
}

// uniqueEntriesLocked returns each live entry once, regardless of how many
// aliases reach it. Caller holds c.mu.
func (c *cache[K, R]) uniqueEntriesLocked() []*entry[K, R] {
	seen := make(map[*entry[K, R]]struct{}, len(c.entries))
	out := make([]*entry[K, R], 0, len(c.entries))
	for _, e := range c.entries {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// sweep destroys already-unmapped entries in parallel. Best-effort: destroy
// failures are logged and do not stop the sweep; the first error is returned.
func (c *cache[K, R]) sweep(ctx context.Context, victims []*entry[K, R], reason string) error {
	if len(victims) == 0 {
		return nil
	}
	g, _ := errgroup.WithContext(ctx)
	for _, e := range victims {
		e := e
		g.Go(func() error {
			if err := c.factory.Destroy(e.res); err != nil {
				c.hooks.DestroyFailed(e.primary(), err)
				c.log.Error("resource destroy failed", Fields{"key": e.primary(), "reason": reason, "err": err})
				return err
			}
			c.hooks.ResourceDestroyed(e.primary(), reason)
			return nil
		})
	}
	return g.Wait()
}

// dedupe builds the registration list: primary first, aliases once each.
func dedupe[K comparable](primary K, aliases []K) []K {
	out := make([]K, 1, len(aliases)+1)
	out[0] = primary
	seen := map[K]struct{}{primary: {}}
	for _, k := range aliases {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
