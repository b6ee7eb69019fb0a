// Package errs defines the sentinel errors and context-carrying error types
// shared across bagcore's packages.
//
// Callers should compare against these sentinels with errors.Is and unwrap
// CodecError / StorageFileError with errors.As when they need the extra
// context those carry.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrBagNotFound is returned when a bag directory does not exist.
	ErrBagNotFound = errors.New("bag: directory not found")
	// ErrManifestNotFound is returned when metadata.yaml is missing from a bag directory.
	ErrManifestNotFound = errors.New("bag: manifest not found")
	// ErrStorageFileNotFound is returned when a manifest-listed file is missing on disk.
	ErrStorageFileNotFound = errors.New("bag: storage file not found")
	// ErrBagAlreadyExists is returned when creating a writer on an existing directory.
	ErrBagAlreadyExists = errors.New("bag: directory already exists")
	// ErrBagNotOpen is returned when an operation requires Open to have been called first.
	ErrBagNotOpen = errors.New("bag: not open")
	// ErrBagAlreadyOpen is returned when Open is called more than once.
	ErrBagAlreadyOpen = errors.New("bag: already open")
	// ErrUnsupportedVersion is returned for manifest versions outside 1..9.
	ErrUnsupportedVersion = errors.New("bag: unsupported manifest version")
	// ErrUnsupportedStorageFormat is returned for an unrecognized storage identifier.
	ErrUnsupportedStorageFormat = errors.New("bag: unsupported storage format")
	// ErrUnsupportedCompressionFormat is returned for a compression format other than "" or "zstd".
	ErrUnsupportedCompressionFormat = errors.New("bag: unsupported compression format")
	// ErrUnsupportedSerializationFormat is returned when a connection's format is not "cdr".
	ErrUnsupportedSerializationFormat = errors.New("bag: unsupported serialization format")
	// ErrInvalidMessageData is returned when a payload cannot be interpreted under its declared codec.
	ErrInvalidMessageData = errors.New("bag: invalid message data")
	// ErrMessageTypeNotFound is returned when a type name has no registered connection.
	ErrMessageTypeNotFound = errors.New("bag: message type not found")
	// ErrConnectionNotFound is returned when a connection id or topic has no registration.
	ErrConnectionNotFound = errors.New("bag: connection not found")
	// ErrConnectionAlreadyExists is returned when (topic, type) is registered twice.
	ErrConnectionAlreadyExists = errors.New("bag: connection already exists")
	// ErrInvalidQoSProfile is returned when a QoS profile fails validation.
	ErrInvalidQoSProfile = errors.New("bag: invalid QoS profile")
	// ErrStorageModeCompressionUnsupported is returned when storage-mode compression
	// is requested against a backend that cannot provide it.
	ErrStorageModeCompressionUnsupported = errors.New("bag: storage-mode compression unsupported by this backend")
	// ErrHandleClosed is returned when a method is called on an already-closed handle.
	ErrHandleClosed = errors.New("bag: handle closed")
)

// CodecError reports a CDR decode/encode failure together with enough
// context to diagnose it without re-reading the input.
type CodecError struct {
	Op     string // operation being attempted, e.g. "read uint32", "read string"
	Offset int    // cursor position at the time of failure
	Len    int    // total buffer length
	Err    error  // underlying cause, if any
}

func (e *CodecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cdr: %s at offset %d/%d: %v", e.Op, e.Offset, e.Len, e.Err)
	}

	return fmt.Sprintf("cdr: %s at offset %d/%d", e.Op, e.Offset, e.Len)
}

func (e *CodecError) Unwrap() error { return e.Err }

// NewCodecError builds a CodecError, optionally wrapping a sentinel cause.
func NewCodecError(op string, offset, length int, cause error) *CodecError {
	return &CodecError{Op: op, Offset: offset, Len: length, Err: cause}
}

// StorageFileError reports a failure tied to a specific storage file path.
type StorageFileError struct {
	Path string
	Err  error
}

func (e *StorageFileError) Error() string {
	return fmt.Sprintf("bag: storage file %q: %v", e.Path, e.Err)
}

func (e *StorageFileError) Unwrap() error { return e.Err }

// NewStorageFileError wraps err with the path that caused it.
func NewStorageFileError(path string, err error) *StorageFileError {
	return &StorageFileError{Path: path, Err: err}
}

// ErrBufferUnderrun is the sentinel cause used by CodecError when the buffer
// ends before enough bytes are available after alignment padding.
var ErrBufferUnderrun = errors.New("buffer underrun")

// ErrInvalidEndianness is the sentinel cause used by CodecError when the
// encapsulation byte is neither 0 nor 1.
var ErrInvalidEndianness = errors.New("invalid endianness flag")

// ErrStringTooLong is the sentinel cause used by CodecError when a decoded
// string length exceeds the remaining buffer.
var ErrStringTooLong = errors.New("string length exceeds remaining buffer")

// ErrInvalidUTF8 is the sentinel cause used by CodecError when a decoded
// string is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid utf-8 in decoded string")
