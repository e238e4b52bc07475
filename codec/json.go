package codec

import "encoding/json"

// JSON is a Codec backed by encoding/json. The zero value is ready to use.
type JSON[K any] struct{}

func (JSON[K]) Encode(k K) ([]byte, error) { return json.Marshal(k) }
func (JSON[K]) Decode(b []byte) (K, error) {
	var k K
	err := json.Unmarshal(b, &k)
	return k, err
}
