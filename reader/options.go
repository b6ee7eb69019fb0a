package reader

import (
	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/internal/options"
)

// Option configures a Reader before Open resolves storage files, the same
// func(*T) error shape internal/options defines for the writer.
type Option = options.Option[*config]

type config struct {
	storageID format.StorageID // override manifest/extension-based detection
}

// WithStorageID forces backend selection instead of trusting the
// manifest's storage_identifier or the file extension. Mainly useful for
// bags written by tooling that leaves storage_identifier blank but whose
// files don't carry the expected extension.
func WithStorageID(id format.StorageID) Option {
	return options.NoError(func(c *config) {
		c.storageID = id
	})
}
