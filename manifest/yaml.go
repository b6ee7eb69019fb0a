package manifest

import (
	"fmt"
	"os"

	"github.com/rosbaglib/bagcore/errs"
	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/model"
	"gopkg.in/yaml.v3"
)

// ManifestFileName is the fixed name of the manifest file at a bag's root.
const ManifestFileName = "metadata.yaml"

// root is the top-level YAML document: a single
// rosbag2_bagfile_information key wrapping everything else.
type root struct {
	Info document `yaml:"rosbag2_bagfile_information"`
}

type document struct {
	Version                int               `yaml:"version"`
	StorageIdentifier      string            `yaml:"storage_identifier"`
	RelativeFilePaths      []string          `yaml:"relative_file_paths"`
	Duration               yamlDuration      `yaml:"duration"`
	StartingTime           yamlStartingTime  `yaml:"starting_time"`
	MessageCount           uint64            `yaml:"message_count"`
	CompressionFormat      string            `yaml:"compression_format"`
	CompressionMode        string            `yaml:"compression_mode"`
	TopicsWithMessageCount []yamlTopicCount  `yaml:"topics_with_message_count"`
	Files                  []yamlFileInfo    `yaml:"files,omitempty"`
	CustomData             map[string]string `yaml:"custom_data,omitempty"`
	RosDistro              string            `yaml:"ros_distro,omitempty"`
}

type yamlDuration struct {
	Nanoseconds uint64 `yaml:"nanoseconds"`
}

type yamlStartingTime struct {
	NanosecondsSinceEpoch uint64 `yaml:"nanoseconds_since_epoch"`
}

type yamlTopicCount struct {
	MessageCount  uint64        `yaml:"message_count"`
	TopicMetadata yamlTopicMeta `yaml:"topic_metadata"`
}

type yamlTopicMeta struct {
	Name                string            `yaml:"name"`
	Type                string            `yaml:"type"`
	SerializationFormat string            `yaml:"serialization_format"`
	OfferedQoSProfiles  model.QoSProfiles `yaml:"offered_qos_profiles"`
	TypeDescriptionHash string            `yaml:"type_description_hash,omitempty"`
}

type yamlFileInfo struct {
	Path         string           `yaml:"path"`
	StartingTime yamlStartingTime `yaml:"starting_time"`
	Duration     yamlDuration     `yaml:"duration"`
	MessageCount uint64           `yaml:"message_count"`
}

// Parse decodes manifest YAML bytes into a Manifest, rejecting structurally
// invalid documents (unknown version, non-CDR serialization format,
// mismatched counts) per spec.md §3/§7.
func Parse(data []byte) (Manifest, error) {
	var r root
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Manifest{}, fmt.Errorf("manifest: parse: %w", err)
	}

	d := r.Info

	m := Manifest{
		Version:           d.Version,
		StorageIdentifier: d.StorageIdentifier,
		RelativeFilePaths: d.RelativeFilePaths,
		Duration:          d.Duration.Nanoseconds,
		StartingTime:      d.StartingTime.NanosecondsSinceEpoch,
		MessageCount:      d.MessageCount,
		CompressionFormat: d.CompressionFormat,
		CompressionMode:   d.CompressionMode,
		CustomData:        d.CustomData,
		RosDistro:         d.RosDistro,
	}

	m.TopicsWithMessageCount = make([]TopicCount, len(d.TopicsWithMessageCount))
	for i, tc := range d.TopicsWithMessageCount {
		m.TopicsWithMessageCount[i] = TopicCount{
			MessageCount: tc.MessageCount,
			Topic: TopicMetadata{
				Name:                tc.TopicMetadata.Name,
				Type:                tc.TopicMetadata.Type,
				SerializationFormat: format.SerializationFormat(tc.TopicMetadata.SerializationFormat),
				OfferedQoSProfiles:  tc.TopicMetadata.OfferedQoSProfiles,
				TypeDescriptionHash: tc.TopicMetadata.TypeDescriptionHash,
			},
		}
	}

	if len(d.Files) > 0 {
		m.Files = make([]FileInfo, len(d.Files))
		for i, f := range d.Files {
			m.Files[i] = FileInfo{
				Path:         f.Path,
				StartingTime: f.StartingTime.NanosecondsSinceEpoch,
				Duration:     f.Duration.Nanoseconds,
				MessageCount: f.MessageCount,
			}
		}
	}

	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}

	return m, nil
}

// Emit serializes m to manifest YAML bytes, wrapped in the
// rosbag2_bagfile_information root key.
func Emit(m Manifest) ([]byte, error) {
	d := document{
		Version:           m.Version,
		StorageIdentifier: m.StorageIdentifier,
		RelativeFilePaths: m.RelativeFilePaths,
		Duration:          yamlDuration{Nanoseconds: m.Duration},
		StartingTime:      yamlStartingTime{NanosecondsSinceEpoch: m.StartingTime},
		MessageCount:      m.MessageCount,
		CompressionFormat: m.CompressionFormat,
		CompressionMode:   m.CompressionMode,
		CustomData:        m.CustomData,
		RosDistro:         m.RosDistro,
	}

	d.TopicsWithMessageCount = make([]yamlTopicCount, len(m.TopicsWithMessageCount))
	for i, tc := range m.TopicsWithMessageCount {
		d.TopicsWithMessageCount[i] = yamlTopicCount{
			MessageCount: tc.MessageCount,
			TopicMetadata: yamlTopicMeta{
				Name:                tc.Topic.Name,
				Type:                tc.Topic.Type,
				SerializationFormat: string(tc.Topic.SerializationFormat),
				OfferedQoSProfiles:  tc.Topic.OfferedQoSProfiles,
				TypeDescriptionHash: tc.Topic.TypeDescriptionHash,
			},
		}
	}

	if len(m.Files) > 0 {
		d.Files = make([]yamlFileInfo, len(m.Files))
		for i, f := range m.Files {
			d.Files[i] = yamlFileInfo{
				Path:         f.Path,
				StartingTime: yamlStartingTime{NanosecondsSinceEpoch: f.StartingTime},
				Duration:     yamlDuration{Nanoseconds: f.Duration},
				MessageCount: f.MessageCount,
			}
		}
	}

	out, err := yaml.Marshal(root{Info: d})
	if err != nil {
		return nil, fmt.Errorf("manifest: emit: %w", err)
	}

	return out, nil
}

// ReadFile loads and parses the manifest at path.
func ReadFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, errs.ErrManifestNotFound
		}

		return Manifest{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}

	return Parse(data)
}

// WriteFile serializes m and writes it to path.
func WriteFile(path string, m Manifest) error {
	out, err := Emit(m)
	if err != nil {
		return err
	}

	return os.WriteFile(path, out, 0o644)
}
