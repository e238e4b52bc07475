package codec

import "google.golang.org/protobuf/proto"

// Protobuf is a Codec for generated proto key messages. ctor builds an
// empty concrete message for Decode, e.g.
// NewProtobuf(func() *pb.ClusterKey { return &pb.ClusterKey{} }).
type Protobuf[K proto.Message] struct {
	ctor func() K
}

func NewProtobuf[K proto.Message](ctor func() K) Protobuf[K] {
	return Protobuf[K]{ctor: ctor}
}

func (c Protobuf[K]) Encode(k K) ([]byte, error) { return proto.Marshal(k) }
func (c Protobuf[K]) Decode(b []byte) (K, error) {
	m := c.ctor()
	err := proto.Unmarshal(b, m)
	return m, err
}
