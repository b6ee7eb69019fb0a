// Package compress provides the compression codecs the writer uses when a
// bag is written with compression_format: zstd. The reader package does
// not use it and applies no decompression on read.
//
// bagcore supports two compression placements, selected by
// format.CompressionMode:
//   - message: each message payload is compressed independently before
//     being handed to the storage backend
//   - file: the whole storage file is compressed after the writer closes it
//
// Storage-mode compression (the backend compressing its own pages) is
// rejected by writer.WithCompression with
// errs.ErrStorageModeCompressionUnsupported.
//
// format.CompressionFormatZstd is the only non-empty compression format a
// manifest records, and format.CompressionZstd the only codec type
// CreateCodec builds besides the no-op.
package compress
