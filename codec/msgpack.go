package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack is a Codec backed by vmihailenco/msgpack/v5. Compact and fast;
// mind the `msgpack:"..."` struct tags when field names matter on the wire.
// The zero value is ready to use.
type Msgpack[K any] struct{}

func (Msgpack[K]) Encode(k K) ([]byte, error) { return msgpack.Marshal(k) }
func (Msgpack[K]) Decode(b []byte) (K, error) {
	var k K
	err := msgpack.Unmarshal(b, &k)
	return k, err
}
