package writer

import (
	"fmt"

	"github.com/rosbaglib/bagcore/errs"
	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/internal/options"
	"github.com/rosbaglib/bagcore/manifest"
	"github.com/rosbaglib/bagcore/model"
)

// Option configures a Writer at Create time, the same func(*T) error shape
// internal/options defines throughout the teacher's blob package.
type Option = options.Option[*config]

// ConnectionOption configures a single AddConnection call.
type ConnectionOption = options.Option[*model.Connection]

type config struct {
	storageID         format.StorageID
	compressionFormat format.CompressionFormat
	compressionMode   format.CompressionMode
	batchThreshold    int
	bufferSizeLimit   int
	rosDistro         string
	manifestVersion   int
}

func defaultConfig() config {
	return config{
		storageID:         format.StorageSQLite3,
		compressionFormat: format.CompressionFormatNone,
		compressionMode:   format.CompressionModeNone,
		batchThreshold:    100,
		bufferSizeLimit:   10 * 1024 * 1024,
		manifestVersion:   9,
	}
}

// WithStorageID selects the backend a Writer creates; the default is
// format.StorageSQLite3.
func WithStorageID(id format.StorageID) Option {
	return options.NoError(func(c *config) { c.storageID = id })
}

// WithCompression sets where and how payloads are compressed.
// format.CompressionModeStorage is rejected: no backend in this core
// implements backend-internal compression (see compress's package doc).
func WithCompression(mode format.CompressionMode, f format.CompressionFormat) Option {
	return options.New(func(c *config) error {
		if mode == format.CompressionModeStorage {
			return errs.ErrStorageModeCompressionUnsupported
		}

		if mode != format.CompressionModeNone && f == format.CompressionFormatNone {
			return fmt.Errorf("writer: compression mode %q requires a compression format", mode)
		}

		c.compressionMode = mode
		c.compressionFormat = f

		return nil
	})
}

// WithBatchThreshold overrides the default flush trigger of 100 buffered
// messages.
func WithBatchThreshold(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("writer: batch threshold must be positive, got %d", n)
		}

		c.batchThreshold = n

		return nil
	})
}

// WithBufferSizeLimit overrides the default flush trigger of 10 MiB
// buffered payload bytes.
func WithBufferSizeLimit(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("writer: buffer size limit must be positive, got %d", n)
		}

		c.bufferSizeLimit = n

		return nil
	})
}

// WithRosDistro sets the manifest's v8+ ros_distro field.
func WithRosDistro(s string) Option {
	return options.NoError(func(c *config) { c.rosDistro = s })
}

// WithManifestVersion overrides the manifest version a Writer emits on
// Close (default 9, the highest this core accepts).
func WithManifestVersion(v int) Option {
	return options.New(func(c *config) error {
		if v < 1 || v > manifest.MaxVersion {
			return fmt.Errorf("writer: unsupported manifest version %d", v)
		}

		c.manifestVersion = v

		return nil
	})
}

// WithMessageDefinition sets a connection's message definition text and
// encoding.
func WithMessageDefinition(text string, fmtType format.MessageDefinitionFormat) ConnectionOption {
	return options.NoError(func(c *model.Connection) {
		c.MessageDefinition = text
		c.MessageDefinitionFmt = fmtType
	})
}

// WithTypeDescriptionHash sets a connection's type-description hash
// explicitly, overriding the hash the Writer would otherwise compute from
// the message definition text.
func WithTypeDescriptionHash(hash string) ConnectionOption {
	return options.NoError(func(c *model.Connection) { c.TypeDescriptionHash = hash })
}

// WithSerializationFormat overrides a connection's default "cdr" tag.
func WithSerializationFormat(f format.SerializationFormat) ConnectionOption {
	return options.NoError(func(c *model.Connection) { c.SerializationFormat = f })
}

// WithQoS sets a connection's offered QoS profile list.
func WithQoS(q model.QoSProfiles) ConnectionOption {
	return options.NoError(func(c *model.Connection) { c.OfferedQoS = q })
}
