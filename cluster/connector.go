package cluster

import (
	"context"
	"errors"
	"sync"

	cc "github.com/unkn0wn-root/clustercache"
)

// ErrNoLiveEndpoints is returned when a handle knows no live endpoint, or
// ranking yields none.
var ErrNoLiveEndpoints = errors.New("cluster: no live endpoints known")

// Connector is the user-facing entry point: it acquires shared handles from
// a cache, wraps them in close-once sessions, and after the first successful
// open narrows its follow-up key to the locality-ranked endpoints (the
// narrowed key is an alias of the original entry, see Resolver).
//
// A Connector is safe for concurrent use.
type Connector struct {
	cache cc.Cache[Key, Conn]
	rank  Ranker

	mu  sync.Mutex
	key Key
}

// NewConnector builds a Connector over cache for the given initial key.
// rank nil selects RankLocal. The cache should have been built with
// Resolver(rank) (NewCache does this) so narrowed keys stay aliased.
func NewConnector(cache cc.Cache[Key, Conn], key Key, rank Ranker) *Connector {
	if rank == nil {
		rank = RankLocal
	}
	return &Connector{cache: cache, rank: rank, key: key}
}

// Key returns the connector's current key, narrowed after the first open.
func (c *Connector) Key() Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}

// OpenSession acquires the shared handle and returns a close-once Session.
// Errors after a successful acquire issue a compensating release before
// propagating, so partial failures never leak a reference.
func (c *Connector) OpenSession(ctx context.Context) (*Session, error) {
	key := c.Key()
	conn, err := c.cache.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := c.narrow(key, conn); err != nil {
		_ = c.cache.Release(key)
		return nil, err
	}
	return &Session{
		conn:    conn,
		release: func() error { return c.cache.Release(key) },
	}, nil
}

// WithSession runs fn with a scoped session. The reference is released on
// every exit path, including panics. fn sees only the Session proxy; the
// Conn contract exposes no native close.
func (c *Connector) WithSession(ctx context.Context, fn func(*Session) error) error {
	s, err := c.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// ClosestLiveEndpoint ranks the handle's live topology against the
// connector's configured endpoints and returns the top choice.
func (c *Connector) ClosestLiveEndpoint(ctx context.Context) (Endpoint, error) {
	key := c.Key()
	conn, err := c.cache.Acquire(ctx, key)
	if err != nil {
		return Endpoint{}, err
	}
	defer func() { _ = c.cache.Release(key) }()

	ranked := c.rank(key.EndpointList(), conn.Endpoints())
	if len(ranked) == 0 {
		return Endpoint{}, ErrNoLiveEndpoints
	}
	return ranked[0], nil
}

// narrow derives the follow-up key from the live topology. A fresh handle
// reporting no endpoints at all is unusable.
func (c *Connector) narrow(key Key, conn Conn) error {
	live := conn.Endpoints()
	if len(live) == 0 {
		return ErrNoLiveEndpoints
	}
	ranked := c.rank(key.EndpointList(), live)
	if len(ranked) == 0 {
		return nil
	}
	narrowed := NewKey(key.Auth, ranked...)
	c.mu.Lock()
	if c.key == key { // don't clobber a concurrent narrowing
		c.key = narrowed
	}
	c.mu.Unlock()
	return nil
}
