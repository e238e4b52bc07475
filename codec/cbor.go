package codec

import "github.com/fxamacker/cbor/v2"

// CBOR is a Codec that serializes keys with fxamacker/cbor using RFC 8949
// Core Deterministic encoding. Determinism matters for keys: two equal keys
// encode to identical bytes, so encoded keys can themselves be hashed or
// compared. The zero value is NOT ready to use; construct with NewCBOR or
// MustCBOR.
type CBOR[K any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[struct{}] = CBOR[struct{}]{}

func NewCBOR[K any]() (CBOR[K], error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return CBOR[K]{}, err
	}
	dm, err := (cbor.DecOptions{}).DecMode()
	if err != nil {
		return CBOR[K]{}, err
	}
	return CBOR[K]{enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error. Handy for package-level
// variables in tests/examples.
func MustCBOR[K any]() CBOR[K] {
	c, err := NewCBOR[K]()
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR[K]) Encode(k K) ([]byte, error) { return c.enc.Marshal(k) }
func (c CBOR[K]) Decode(b []byte) (K, error) {
	var k K
	err := c.dec.Unmarshal(b, &k)
	return k, err
}
