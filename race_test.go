package clustercache

import (
	"context"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// A mixed workload of concurrent Acquire/Release on a small keyspace with a
// tiny keep-alive, so eviction timers constantly race reacquisition.
// Should pass under `-race` without detector reports.
func TestRace_AcquireReleaseChurn(t *testing.T) {
	ctx := context.Background()
	f := &countingFactory{}
	c := newTestCache(t, f, time.Millisecond, nil)

	workers := 4 * runtime.GOMAXPROCS(0)
	keyspace := 8
	deadline := time.Now().Add(1 * time.Second)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(keyspace))
				if _, err := c.Acquire(ctx, k); err != nil {
					t.Errorf("Acquire %s: %v", k, err)
					return
				}
				if r.Intn(4) == 0 {
					time.Sleep(time.Duration(r.Intn(3)) * time.Millisecond)
				}
				if err := c.Release(k); err != nil {
					t.Errorf("Release %s: %v", k, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if err := c.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Close drains reaper-initiated teardowns, so the counts are final here.
	creates, destroys := f.counts()
	// Every created resource is eventually destroyed exactly once: by the
	// reaper, or by the shutdown sweep.
	if creates != destroys {
		t.Fatalf("creates=%d destroys=%d, want equal after Close", creates, destroys)
	}
}

// One hundred goroutines race the same cold key. The factory must run once
// and the reference count must equal the number of unreleased holders.
func TestRace_ColdKeyCoalesce(t *testing.T) {
	ctx := context.Background()
	var calls int64
	f := FactoryFuncs[string, *fakeRes]{
		CreateFunc: func(context.Context, string) (*fakeRes, error) {
			atomic.AddInt64(&calls, 1)
			time.Sleep(2 * time.Millisecond) // simulate dial + negotiation
			return &fakeRes{}, nil
		},
	}
	c, err := New[string, *fakeRes](Options[string, *fakeRes]{Factory: f, KeepAlive: time.Hour})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close(ctx)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := c.Acquire(ctx, "cold"); err != nil {
				t.Errorf("Acquire: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("factory calls = %d, want 1", got)
	}
	// n outstanding references: n-1 releases leave the entry held...
	for i := 0; i < n-1; i++ {
		if err := c.Release("cold"); err != nil {
			t.Fatalf("Release %d: %v", i, err)
		}
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1 while one ref remains", c.Len())
	}
	// ...and the nth release makes it evictable.
	if err := c.Release("cold"); err != nil {
		t.Fatalf("final Release: %v", err)
	}
	if err := c.EvictAll(ctx); err != nil {
		t.Fatalf("EvictAll: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("Len = %d, want 0 after EvictAll", c.Len())
	}
}
