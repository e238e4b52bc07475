// Package cluster is the connector facade over the clustercache core for
// database-cluster handles: canonical configuration keys, endpoint ranking,
// alias derivation from discovered topology, close-once sessions, and the
// process-wide shared cache.
package cluster

import (
	"net"
	"sort"
	"strconv"
	"strings"
)

// Endpoint is one candidate node of a cluster.
type Endpoint struct {
	Host string `json:"host" msgpack:"host"`
	Port int    `json:"port" msgpack:"port"`
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// ParseEndpoint parses "host:port" (IPv6 in brackets).
func ParseEndpoint(s string) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return Endpoint{}, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Endpoint{}, err
	}
	return Endpoint{Host: host, Port: port}, nil
}

// Key identifies a desired cluster connection. It is a plain, comparable
// value type with no live state, so it can be hashed, used as a map key,
// and serialized across process boundaries (see the codec package);
// reconnecting after deserialization is simply a fresh Acquire.
//
// Endpoints holds the candidate endpoints in canonical form: sorted,
// deduplicated, comma-joined host:port. Two keys built from the same
// endpoint set in any order compare equal.
type Key struct {
	Endpoints string `json:"endpoints" msgpack:"endpoints"`
	Auth      string `json:"auth,omitempty" msgpack:"auth,omitempty"`
}

// NewKey canonicalizes endpoints into a Key. Auth is an opaque principal
// identifier; credentials themselves belong to the Factory.
func NewKey(auth string, endpoints ...Endpoint) Key {
	parts := make([]string, 0, len(endpoints))
	seen := make(map[string]struct{}, len(endpoints))
	for _, e := range endpoints {
		s := e.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		parts = append(parts, s)
	}
	sort.Strings(parts)
	return Key{Endpoints: strings.Join(parts, ","), Auth: auth}
}

// EndpointList parses the canonical endpoint string back into endpoints.
// Malformed members (possible only on hand-built keys) are skipped.
func (k Key) EndpointList() []Endpoint {
	if k.Endpoints == "" {
		return nil
	}
	parts := strings.Split(k.Endpoints, ",")
	out := make([]Endpoint, 0, len(parts))
	for _, p := range parts {
		e, err := ParseEndpoint(p)
		if err != nil {
			continue
		}
		out = append(out, e)
	}
	return out
}
