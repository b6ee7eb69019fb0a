package compress

// NoOpCodec passes data through unchanged. It backs
// format.CompressionNone, the default when a bag carries no
// compression_format.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec returns a codec that performs no compression.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Compress returns data unchanged, without copying.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged, without copying.
func (c NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
