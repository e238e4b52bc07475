package cluster

import (
	"context"
	"testing"
	"time"
)

func TestSharedInitOnFirstUse(t *testing.T) {
	ctx := context.Background()
	prev := SetShared(nil)
	t.Cleanup(func() { _ = ShutdownShared(ctx); SetShared(prev) })

	cfg := Config{Factory: &fakeFactory{topology: []Endpoint{ep1}}, KeepAlive: time.Hour}
	c1, err := Shared(cfg)
	if err != nil {
		t.Fatalf("Shared: %v", err)
	}
	c2, err := Shared(Config{}) // cfg ignored once initialized
	if err != nil {
		t.Fatalf("Shared (second): %v", err)
	}
	if c1 != c2 {
		t.Fatalf("Shared returned different instances")
	}
}

func TestShutdownSharedIdempotent(t *testing.T) {
	ctx := context.Background()
	prev := SetShared(nil)
	t.Cleanup(func() { _ = ShutdownShared(ctx); SetShared(prev) })

	f := &fakeFactory{topology: []Endpoint{ep1}}
	c, err := Shared(Config{Factory: f, KeepAlive: time.Hour})
	if err != nil {
		t.Fatalf("Shared: %v", err)
	}
	if _, err := c.Acquire(ctx, NewKey("", ep1)); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if err := ShutdownShared(ctx); err != nil {
		t.Fatalf("ShutdownShared: %v", err)
	}
	if err := ShutdownShared(ctx); err != nil {
		t.Fatalf("second ShutdownShared: %v", err)
	}
	if _, destroys := f.counts(); destroys != 1 {
		t.Fatalf("destroys = %d, want 1 (no duplicate teardown)", destroys)
	}

	// The slot is clear: a later Shared starts a fresh cache.
	c2, err := Shared(Config{Factory: &fakeFactory{}, KeepAlive: time.Hour})
	if err != nil {
		t.Fatalf("Shared after shutdown: %v", err)
	}
	if c2 == c {
		t.Fatalf("expected a fresh shared instance after shutdown")
	}
}
