// Package backendopen is the factory switch over format.StorageID,
// shaped like compress.CreateCodec. It lives outside the storage package
// to avoid storage importing its own sqlitestore/mcapstore subpackages.
package backendopen

import (
	"fmt"

	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/storage"
	"github.com/rosbaglib/bagcore/storage/mcapstore"
	"github.com/rosbaglib/bagcore/storage/sqlitestore"
)

// New returns an unopened Backend for id.
func New(id format.StorageID) (storage.Backend, error) {
	switch id {
	case format.StorageSQLite3:
		return sqlitestore.New(), nil
	case format.StorageMCAP:
		return mcapstore.New(), nil
	default:
		return nil, fmt.Errorf("backendopen: unsupported storage id %s", id)
	}
}
