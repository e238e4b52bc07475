package clustercache

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a cache that has been shut down.
var ErrClosed = errors.New("clustercache: cache closed")

// CreateError wraps a Factory.Create failure. Nothing is registered for the
// key; every acquirer coalesced onto the failed creation receives the same
// CreateError.
type CreateError struct {
	Key any
	Err error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("clustercache: create resource for key %v: %v", e.Key, e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// AliasConflictError reports an alias key that is already bound to a
// different live entry. The cache never merges or overwrites such bindings;
// the freshly created resource is destroyed and the acquire fails.
type AliasConflictError struct {
	Key   any // primary key whose creation produced the alias
	Alias any // conflicting alias key
}

func (e *AliasConflictError) Error() string {
	return fmt.Sprintf("clustercache: alias %v for key %v already bound to a different live resource", e.Alias, e.Key)
}

// InvariantError indicates a caller bug observed by the cache, e.g. a
// Release for a key that is unmapped or whose reference count is already
// zero (typically a double release of a raw handle).
type InvariantError struct {
	Op     string
	Key    any
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("clustercache: invariant violation in %s for key %v: %s", e.Op, e.Key, e.Reason)
}
