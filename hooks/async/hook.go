// Package asynchook decouples Hooks sinks from the cache's hot paths:
// events are handed to a bounded queue served by worker goroutines, and
// dropped when the queue is full (lifecycle events are advisory, never worth
// blocking an acquire for).
//
//	raw := promhook.New(nil, "myapp", "clustercache", nil)
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
package asynchook

import (
	"sync"
	"time"

	cc "github.com/unkn0wn-root/clustercache"
)

type Hooks struct {
	inner cc.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ cc.Hooks = (*Hooks)(nil)

func New(inner cc.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains the queue and stops the workers. Safe to call twice.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) ResourceCreated(key any, dur time.Duration) {
	h.try(func() { h.inner.ResourceCreated(key, dur) })
}
func (h *Hooks) CreateFailed(key any, err error) {
	h.try(func() { h.inner.CreateFailed(key, err) })
}
func (h *Hooks) ResourceDestroyed(key any, reason string) {
	h.try(func() { h.inner.ResourceDestroyed(key, reason) })
}
func (h *Hooks) DestroyFailed(key any, err error) {
	h.try(func() { h.inner.DestroyFailed(key, err) })
}
func (h *Hooks) EvictionArmed(key any)     { h.try(func() { h.inner.EvictionArmed(key) }) }
func (h *Hooks) EvictionCancelled(key any) { h.try(func() { h.inner.EvictionCancelled(key) }) }
func (h *Hooks) AliasConflict(key, alias any) {
	h.try(func() { h.inner.AliasConflict(key, alias) })
}
