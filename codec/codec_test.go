package codec

import (
	"bytes"
	"testing"

	"github.com/unkn0wn-root/clustercache/cluster"
)

var testKey = cluster.NewKey("app",
	cluster.Endpoint{Host: "10.0.0.1", Port: 9042},
	cluster.Endpoint{Host: "10.0.0.2", Port: 9042},
)

// A decoded key must compare equal to the original, so the receiving process
// lands on the same cache entry with a plain Acquire.
func TestKeyTransportRoundTrip(t *testing.T) {
	codecs := map[string]Codec[cluster.Key]{
		"json":    JSON[cluster.Key]{},
		"cbor":    MustCBOR[cluster.Key](),
		"msgpack": Msgpack[cluster.Key]{},
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			b, err := c.Encode(testKey)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := c.Decode(b)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != testKey {
				t.Fatalf("round trip changed the key: %v -> %v", testKey, got)
			}
		})
	}
}

func TestCBORDeterministic(t *testing.T) {
	c := MustCBOR[cluster.Key]()
	// Same endpoint set in a different construction order: canonical keys
	// are equal, so encodings must be byte-identical.
	other := cluster.NewKey("app",
		cluster.Endpoint{Host: "10.0.0.2", Port: 9042},
		cluster.Endpoint{Host: "10.0.0.1", Port: 9042},
	)
	b1, err := c.Encode(testKey)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b2, err := c.Encode(other)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(b1, b2) {
		t.Fatalf("equal keys produced different encodings")
	}
}

func TestLimitRejectsOversizedPayload(t *testing.T) {
	c := Limit[cluster.Key]{Inner: JSON[cluster.Key]{}, MaxDecode: 4}
	b, err := JSON[cluster.Key]{}.Encode(testKey)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := c.Decode(b); err == nil {
		t.Fatalf("expected oversized payload to be rejected")
	}
}
