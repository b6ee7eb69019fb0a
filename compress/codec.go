package compress

import (
	"fmt"

	"github.com/rosbaglib/bagcore/format"
)

// Compressor compresses a single byte payload — a message body for
// message-mode compression, or an entire storage file's bytes for
// file-mode compression.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// The returned slice is newly allocated; the input is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
type Decompressor interface {
	// Decompress restores data produced by the matching Compressor.
	//
	// Returns an error if data is corrupted or was not produced by this
	// codec.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec returns the Codec for compressionType. target names the
// caller for error messages (e.g. "message", "file").
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCodec(), nil
	case format.CompressionZstd:
		return NewZstdCodec(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionZstd: NewZstdCodec(),
}

// GetCodec retrieves a shared Codec instance for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// FromManifestFormat maps a manifest's compression_format string to the
// corresponding format.CompressionType. An empty string means no
// compression.
func FromManifestFormat(f format.CompressionFormat) format.CompressionType {
	if f == format.CompressionFormatZstd {
		return format.CompressionZstd
	}

	return format.CompressionNone
}
