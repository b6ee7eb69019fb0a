// Package manifest parses, validates, and generates the YAML manifest
// (metadata.yaml) that sits at the root of every bag directory, tolerant
// of the nine versioned schema variants the ecosystem has shipped.
package manifest

import (
	"fmt"

	"github.com/rosbaglib/bagcore/errs"
	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/model"
)

// MaxVersion is the highest manifest version this core accepts.
const MaxVersion = 9

// Duration mirrors the manifest's {nanoseconds: N} / {nanoseconds_since_epoch: N} shape.
type Duration struct {
	Nanoseconds uint64
}

// TopicCount pairs a connection's metadata with its observed message count,
// the manifest's topics_with_message_count entry.
type TopicCount struct {
	MessageCount uint64
	Topic        TopicMetadata
}

// TopicMetadata is the topic_metadata block within a TopicCount entry.
type TopicMetadata struct {
	Name                string
	Type                string
	SerializationFormat format.SerializationFormat
	OfferedQoSProfiles  model.QoSProfiles
	TypeDescriptionHash string // v7+
}

// FileInfo is a per-file record, present from manifest version 5 onward.
type FileInfo struct {
	Path         string
	StartingTime uint64 // nanoseconds since epoch
	Duration     uint64 // nanoseconds
	MessageCount uint64
}

// Manifest is the parsed form of metadata.yaml.
type Manifest struct {
	Version                int
	StorageIdentifier       string // "" means auto-detect from file extension
	RelativeFilePaths       []string
	Duration                uint64 // nanoseconds
	StartingTime            uint64 // nanoseconds since epoch
	MessageCount            uint64
	CompressionFormat       string // "" or "zstd"
	CompressionMode         string // "" | "file" | "message" | "storage"
	TopicsWithMessageCount  []TopicCount
	Files                   []FileInfo        // v5+
	CustomData              map[string]string // v6+
	RosDistro               string            // v8+
}

// Validate checks the structural invariants spec.md §3 requires before a
// manifest is accepted by a reader.
func (m Manifest) Validate() error {
	if m.Version < 1 || m.Version > MaxVersion {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, m.Version)
	}

	for _, tc := range m.TopicsWithMessageCount {
		sf := tc.Topic.SerializationFormat
		if sf != "" && sf != format.CDR {
			return fmt.Errorf("%w: %q", errs.ErrUnsupportedSerializationFormat, sf)
		}
	}

	if m.MessageCount > 0 {
		if m.StartingTime+m.Duration < m.StartingTime {
			return fmt.Errorf("%w: duration overflows starting_time", errs.ErrInvalidMessageData)
		}
	}

	var sum uint64
	for _, tc := range m.TopicsWithMessageCount {
		sum += tc.MessageCount
	}

	if sum != m.MessageCount {
		return fmt.Errorf("%w: topic counts sum to %d, manifest reports %d", errs.ErrInvalidMessageData, sum, m.MessageCount)
	}

	return nil
}

// EndTime returns start_time + duration, or 0 when there are no messages.
func (m Manifest) EndTime() uint64 {
	if m.MessageCount == 0 {
		return 0
	}

	return m.StartingTime + m.Duration
}
