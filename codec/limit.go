package codec

import "fmt"

// Limit wraps another codec to cap the accepted payload size at Decode time.
// Encode is forwarded unchanged. Keys are tiny; an oversized payload from an
// untrusted transport is rejected before the inner codec ever sees it.
// MaxDecode <= 0 disables the check.
type Limit[K any] struct {
	Inner     Codec[K]
	MaxDecode int
}

func (c Limit[K]) Encode(k K) ([]byte, error) { return c.Inner.Encode(k) }
func (c Limit[K]) Decode(b []byte) (K, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero K
		return zero, fmt.Errorf("codec: payload too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
