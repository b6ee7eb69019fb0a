// Package bagcore reads and writes ROS-style recording bags: a directory
// holding a YAML manifest (metadata.yaml) plus one or more storage files
// encoding CDR-serialized messages on named, typed connections.
//
// # Core Features
//
//   - SQLite3 and MCAP-style chunked-binary storage backends, selected by
//     manifest storage_identifier or file extension
//   - CDR encoding/decoding of message payloads (cdr package)
//   - Optional Zstd compression, at file or per-message granularity
//   - Manifest versions 1 through 9, parsed tolerantly
//   - Streaming, timestamp-ordered iteration across multiple storage files
//
// # Basic Usage
//
// Writing a bag:
//
//	import "github.com/rosbaglib/bagcore/writer"
//
//	w, err := bagcore.Create("/data/run1")
//	conn, err := w.AddConnection("/imu", "sensor_msgs/msg/Imu")
//	err = w.Write(conn, uint64(time.Now().UnixNano()), payload)
//	err = w.Close()
//
// Reading a bag back:
//
//	r, err := bagcore.Open("/data/run1")
//	it, err := r.Messages()
//	for it.Next() {
//	    msg := it.Message()
//	    fmt.Println(msg.Topic, msg.TimestampNs)
//	}
//	err = r.Close()
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the reader
// and writer packages, covering the common case of opening or creating a
// single bag. For fine-grained control over storage backend selection,
// compression placement, or manifest version, use the reader and writer
// packages directly.
package bagcore

import (
	"github.com/rosbaglib/bagcore/reader"
	"github.com/rosbaglib/bagcore/writer"
)

// Open opens an existing bag directory for reading.
//
// Parameters:
//   - dir: path to the bag directory, holding metadata.yaml and its
//     storage files
//   - opts: optional configuration, see reader.Option
//
// Returns:
//   - *reader.Reader: ready for Connections/Messages/MessagesFiltered
//   - error: errs.ErrManifestNotFound if metadata.yaml is missing,
//     errs.ErrStorageFileNotFound if a manifest-listed file is absent
func Open(dir string, opts ...reader.Option) (*reader.Reader, error) {
	return reader.Open(dir, opts...)
}

// Create makes a new bag directory and opens its storage backend for
// writing.
//
// Parameters:
//   - dir: path to the bag directory to create; must not already exist
//   - opts: optional configuration, see writer.Option
//
// Returns:
//   - *writer.Writer: ready for AddConnection/Write/Close
//   - error: errs.ErrBagAlreadyExists if dir already exists
func Create(dir string, opts ...writer.Option) (*writer.Writer, error) {
	return writer.Create(dir, opts...)
}
