package cluster

import (
	"time"

	cc "github.com/unkn0wn-root/clustercache"
)

// Conn is a live cluster handle. It deliberately exposes no close method:
// teardown belongs to the Factory, invoked by the cache when the handle is
// truly idle. Implementations must be safe for concurrent use, since one
// handle is shared by every holder of its key.
type Conn interface {
	// Endpoints reports the currently known live topology of the cluster,
	// discovered during or after connection.
	Endpoints() []Endpoint
}

// Factory opens and tears down cluster handles.
type Factory = cc.Factory[Key, Conn]

// Ranker orders live endpoints for a caller, best first. preferred carries
// the caller's configured endpoints (locality hints); live is the discovered
// topology. Used both to narrow follow-up configuration and to answer
// closest-endpoint queries.
type Ranker func(preferred, live []Endpoint) []Endpoint

// RankLocal is the default Ranker: live endpoints that appear in preferred
// come first, in preferred order, followed by the remaining live endpoints.
func RankLocal(preferred, live []Endpoint) []Endpoint {
	liveSet := make(map[Endpoint]struct{}, len(live))
	for _, e := range live {
		liveSet[e] = struct{}{}
	}
	out := make([]Endpoint, 0, len(live))
	taken := make(map[Endpoint]struct{}, len(live))
	for _, e := range preferred {
		if _, ok := liveSet[e]; !ok {
			continue
		}
		if _, ok := taken[e]; ok {
			continue
		}
		taken[e] = struct{}{}
		out = append(out, e)
	}
	for _, e := range live {
		if _, ok := taken[e]; ok {
			continue
		}
		taken[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Resolver builds the alias derivation for this domain. After a handle is
// created, the following keys all resolve to the same physical resource:
//
//   - the full discovered topology,
//   - the union of configured and discovered endpoints,
//   - the locality-narrowed subset produced by rank (so a Connector that
//     narrows its follow-up key keeps hitting the same entry).
//
// Alias sets are derived once per creation and are not refreshed on later
// topology changes.
func Resolver(rank Ranker) cc.AliasFunc[Key, Conn] {
	if rank == nil {
		rank = RankLocal
	}
	return func(key Key, conn Conn) []Key {
		discovered := conn.Endpoints()
		if len(discovered) == 0 {
			return nil
		}
		configured := key.EndpointList()

		union := make([]Endpoint, 0, len(configured)+len(discovered))
		union = append(union, configured...)
		union = append(union, discovered...)

		aliases := []Key{
			NewKey(key.Auth, discovered...),
			NewKey(key.Auth, union...),
		}
		if local := rank(configured, discovered); len(local) > 0 {
			aliases = append(aliases, NewKey(key.Auth, local...))
		}
		return aliases
	}
}

// Config assembles a domain cache.
type Config struct {
	// Required.
	Factory Factory

	// Ranker used for alias derivation; nil => RankLocal.
	Ranker Ranker

	// KeepAlive idle grace before destruction; 0 => env / 250ms default.
	KeepAlive time.Duration

	Logger cc.Logger
	Hooks  cc.Hooks
}

// NewCache builds a clustercache wired with the domain alias resolver.
func NewCache(cfg Config) (cc.Cache[Key, Conn], error) {
	return cc.New[Key, Conn](cc.Options[Key, Conn]{
		Factory:   cfg.Factory,
		Aliases:   Resolver(cfg.Ranker),
		KeepAlive: cfg.KeepAlive,
		Logger:    cfg.Logger,
		Hooks:     cfg.Hooks,
	})
}
