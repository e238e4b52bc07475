// Package codec serializes configuration keys for transport across process
// boundaries (job payloads, RPC, persisted watchlists). Keys carry no live
// state, so the receiving process reconnects by a plain Acquire with the
// decoded key.
package codec

// Codec encodes/decodes keys K to []byte for transport.
type Codec[K any] interface {
	Encode(K) ([]byte, error)
	Decode([]byte) (K, error)
}
