package model

import (
	"fmt"

	"github.com/rosbaglib/bagcore/errs"
	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/internal/hash"
)

// Connection is a declared (topic, message_type) channel. Connections are
// immutable once registered: the writer creates one on
// writer.Writer.AddConnection, the reader rebuilds the set from the
// manifest and the storage backend on open.
type Connection struct {
	ID                   int // unique within a bag, contiguous from 1 upward in insertion order
	Topic                string
	Type                 string
	SerializationFormat  format.SerializationFormat
	MessageDefinition    string
	MessageDefinitionFmt format.MessageDefinitionFormat
	TypeDescriptionHash  string
	OfferedQoS           QoSProfiles
	MessageCount         uint64
}

// ComputeTypeDescriptionHash derives a stable hash for a message
// definition's text, used to populate Connection.TypeDescriptionHash when
// a writer is not handed one explicitly. bagcore hashes with xxHash64
// rather than the upstream RIHS SHA-256 scheme; the value is only ever
// compared for equality within bags this core writes, never against
// externally-produced hashes.
func ComputeTypeDescriptionHash(messageDefinition string) string {
	if messageDefinition == "" {
		return ""
	}

	return fmt.Sprintf("RIHS01_%016x", hash.ID(messageDefinition))
}

// Validate checks the invariants a Connection must hold before it is
// usable: non-empty topic/type, and a serialization format the core can
// decode.
func (c Connection) Validate() error {
	if c.Topic == "" {
		return fmt.Errorf("%w: empty topic", errs.ErrInvalidMessageData)
	}

	if c.Type == "" {
		return fmt.Errorf("%w: empty message type for topic %q", errs.ErrInvalidMessageData, c.Topic)
	}

	if c.SerializationFormat != "" && c.SerializationFormat != format.CDR {
		return fmt.Errorf("%w: %q", errs.ErrUnsupportedSerializationFormat, c.SerializationFormat)
	}

	return nil
}

// Key returns the (topic, type) pair that must be unique within a bag.
func (c Connection) Key() ConnectionKey {
	return ConnectionKey{Topic: c.Topic, Type: c.Type}
}

// ConnectionKey is the uniqueness key for a Connection: (topic, type).
type ConnectionKey struct {
	Topic string
	Type  string
}
