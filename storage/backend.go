// Package storage defines the capability interface both storage engines
// implement. The factory that selects one by format.StorageID lives in
// internal/backendopen, one level up, to avoid this package importing its
// own sqlitestore/mcapstore subpackages; its dispatch shape mirrors
// compress.CreateCodec.
package storage

import (
	"fmt"

	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/model"
)

// Mode selects whether a backend is opened for writing (exclusive,
// truncate-or-create) or reading (shared, read-only).
type Mode uint8

const (
	ModeRead Mode = iota
	ModeWrite
)

// Filter narrows a Messages call to a topic subset and/or a half-open
// timestamp range. An empty Topics set means no topic filter; Start/Stop
// of nil means that bound is unset.
type Filter struct {
	Topics []string
	Start  *uint64
	Stop   *uint64
}

// Matches reports whether topic/timestamp satisfy f.
func (f Filter) Matches(topic string, timestampNs uint64) bool {
	if len(f.Topics) > 0 {
		found := false

		for _, t := range f.Topics {
			if t == topic {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	if f.Start != nil && timestampNs < *f.Start {
		return false
	}

	if f.Stop != nil && timestampNs >= *f.Stop {
		return false
	}

	return true
}

// MessageIterator yields raw messages in ascending timestamp order.
// Next returns false once exhausted or on error; callers must check Err
// after the last false.
type MessageIterator interface {
	Next() bool
	Message() model.RawMessage
	Err() error
	Close() error
}

// Backend is the capability set a storage engine exposes. Implementations
// hold their OS resources (file handle, mapped region, prepared
// statements) as unexported state released in Close; double-close is a
// no-op.
type Backend interface {
	// Open acquires the backend's file handle(s) at path under mode.
	Open(path string, mode Mode) error

	// Close releases all resources. Safe to call more than once.
	Close() error

	// Topics returns the backend's authoritative connection list. An
	// empty, non-nil slice means the backend genuinely has none (not
	// "ask the manifest instead").
	Topics() ([]model.Connection, error)

	// Messages returns a forward-only iterator over messages matching
	// filter, ascending by timestamp.
	Messages(filter Filter) (MessageIterator, error)

	// WriteConnection registers a connection's type/channel metadata.
	// Writing the same (topic, type) twice is the caller's
	// responsibility to avoid; backends do not deduplicate.
	WriteConnection(conn model.Connection) error

	// WriteBatch appends msgs as one transactional/chunked unit.
	WriteBatch(msgs []model.RawMessage) error

	// Flush durably persists anything buffered since the last Flush or
	// WriteBatch. WriteBatch backends may treat this as a no-op.
	Flush() error
}

// DetectID infers a storage identifier from a file's extension when the
// manifest leaves storage_identifier empty.
func DetectID(path string) (format.StorageID, error) {
	switch ext(path) {
	case "db3":
		return format.StorageSQLite3, nil
	case "mcap":
		return format.StorageMCAP, nil
	default:
		return format.StorageAuto, fmt.Errorf("storage: cannot detect backend from path %q", path)
	}
}

func ext(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i+1:]
		}
	}

	return ""
}
