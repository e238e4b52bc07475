package clustercache

import (
	"os"
	"strconv"
	"time"
)

// DefaultKeepAlive is the idle grace period before a zero-reference entry is
// destroyed, used when Options.KeepAlive is zero and the environment does
// not override it.
const DefaultKeepAlive = 250 * time.Millisecond

// KeepAliveEnv overrides the default keep-alive delay, in milliseconds.
const KeepAliveEnv = "CLUSTERCACHE_KEEPALIVE_MS"

func keepAliveFromEnv() time.Duration {
	v := os.Getenv(KeepAliveEnv)
	if v == "" {
		return DefaultKeepAlive
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil || ms < 0 {
		return DefaultKeepAlive
	}
	return time.Duration(ms) * time.Millisecond
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
