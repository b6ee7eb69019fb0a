package writer

import (
	"path/filepath"
	"testing"

	"github.com/rosbaglib/bagcore/errs"
	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/manifest"
	"github.com/rosbaglib/bagcore/model"
	"github.com/rosbaglib/bagcore/storage"
	"github.com/rosbaglib/bagcore/storage/mcapstore"
)

func TestWriter_SingleTopicSingleMessage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bag")

	w, err := Create(dir)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	conn, err := w.AddConnection("/x", "std_msgs/msg/String")
	if err != nil {
		t.Fatalf("AddConnection: %v", err)
	}

	if err := w.Write(conn, 1_000_000_000, []byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	m, err := manifest.ReadFile(filepath.Join(dir, manifest.ManifestFileName))
	if err != nil {
		t.Fatalf("ReadFile manifest: %v", err)
	}

	if m.MessageCount != 1 {
		t.Fatalf("message count = %d, want 1", m.MessageCount)
	}

	if len(m.TopicsWithMessageCount) != 1 {
		t.Fatalf("topic count = %d, want 1", len(m.TopicsWithMessageCount))
	}

	if m.Duration != 0 {
		t.Fatalf("duration = %d, want 0", m.Duration)
	}

	if m.StartingTime != 1_000_000_000 || m.EndTime() != 1_000_000_000 {
		t.Fatalf("starting/end time = %d/%d, want 1e9/1e9", m.StartingTime, m.EndTime())
	}
}

func TestWriter_BatchFlushThreshold(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bag")

	w, err := Create(dir, WithStorageID(format.StorageSQLite3), WithBatchThreshold(3))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	conn, err := w.AddConnection("/x", "std_msgs/msg/String")
	if err != nil {
		t.Fatalf("AddConnection: %v", err)
	}

	for i := 0; i < 7; i++ {
		if err := w.Write(conn, uint64(i+1), []byte("m")); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}

	if w.buf.len() != 1 {
		t.Fatalf("pending buffer length = %d, want 1 (7 messages, threshold 3 -> 2 full flushes, 1 pending)", w.buf.len())
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	m, err := manifest.ReadFile(filepath.Join(dir, manifest.ManifestFileName))
	if err != nil {
		t.Fatalf("ReadFile manifest: %v", err)
	}

	if m.MessageCount != 7 {
		t.Fatalf("message count = %d, want 7", m.MessageCount)
	}
}

func TestWriter_RawMessageFastPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bag")

	w, err := Create(dir)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	conn, err := w.AddConnection("/x", "std_msgs/msg/String")
	if err != nil {
		t.Fatalf("AddConnection: %v", err)
	}

	if err := w.WriteRawMessage(conn.ID, 5, []byte("raw")); err != nil {
		t.Fatalf("WriteRawMessage: %v", err)
	}

	if err := w.WriteRawMessagesBatch([]model.RawMessage{
		{ConnectionID: conn.ID, TimestampNs: 10, Data: []byte("a")},
		{ConnectionID: conn.ID, TimestampNs: 15, Data: []byte("b")},
	}); err != nil {
		t.Fatalf("WriteRawMessagesBatch: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	m, err := manifest.ReadFile(filepath.Join(dir, manifest.ManifestFileName))
	if err != nil {
		t.Fatalf("ReadFile manifest: %v", err)
	}

	if m.MessageCount != 3 {
		t.Fatalf("message count = %d, want 3", m.MessageCount)
	}
}

func TestWriter_MessageModeCompression(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bag")

	w, err := Create(dir, WithCompression(format.CompressionModeMessage, format.CompressionFormatZstd))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	conn, err := w.AddConnection("/x", "std_msgs/msg/String")
	if err != nil {
		t.Fatalf("AddConnection: %v", err)
	}

	if err := w.Write(conn, 1, []byte("payload data that compresses")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	m, err := manifest.ReadFile(filepath.Join(dir, manifest.ManifestFileName))
	if err != nil {
		t.Fatalf("ReadFile manifest: %v", err)
	}

	if m.CompressionMode != "message" || m.CompressionFormat != "zstd" {
		t.Fatalf("compression mode/format = %q/%q, want message/zstd", m.CompressionMode, m.CompressionFormat)
	}
}

func TestWriter_FileModeCompressionRenamesStorageFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bag")

	w, err := Create(dir, WithCompression(format.CompressionModeFile, format.CompressionFormatZstd))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	conn, err := w.AddConnection("/x", "std_msgs/msg/String")
	if err != nil {
		t.Fatalf("AddConnection: %v", err)
	}

	if err := w.Write(conn, 1, []byte("data")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	m, err := manifest.ReadFile(filepath.Join(dir, manifest.ManifestFileName))
	if err != nil {
		t.Fatalf("ReadFile manifest: %v", err)
	}

	if len(m.RelativeFilePaths) != 1 {
		t.Fatalf("relative file paths = %v", m.RelativeFilePaths)
	}

	if filepath.Ext(m.RelativeFilePaths[0]) != ".zstd" {
		t.Fatalf("storage file %q not renamed with .zstd suffix", m.RelativeFilePaths[0])
	}
}

func TestWriter_StorageModeCompressionRejected(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "bag"), WithCompression(format.CompressionModeStorage, format.CompressionFormatZstd))
	if err != errs.ErrStorageModeCompressionUnsupported {
		t.Fatalf("err = %v, want ErrStorageModeCompressionUnsupported", err)
	}
}

func TestWriter_StateMachineViolations(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bag")

	w, err := Create(dir)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	conn, err := w.AddConnection("/x", "std_msgs/msg/String")
	if err != nil {
		t.Fatalf("AddConnection: %v", err)
	}

	if err := w.Write(conn, 1, []byte("d")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := w.Close(); err != errs.ErrHandleClosed {
		t.Fatalf("second Close err = %v, want ErrHandleClosed", err)
	}

	if _, err := w.AddConnection("/y", "std_msgs/msg/String"); err != errs.ErrBagNotOpen {
		t.Fatalf("AddConnection after close err = %v, want ErrBagNotOpen", err)
	}

	if err := w.Write(conn, 2, []byte("d")); err != errs.ErrBagNotOpen {
		t.Fatalf("Write after close err = %v, want ErrBagNotOpen", err)
	}

	if err := w.Flush(); err != errs.ErrBagNotOpen {
		t.Fatalf("Flush after close err = %v, want ErrBagNotOpen", err)
	}
}

func TestWriter_CreateRejectsExistingDirectory(t *testing.T) {
	dir := t.TempDir()

	if _, err := Create(dir); err != errs.ErrBagAlreadyExists {
		t.Fatalf("err = %v, want ErrBagAlreadyExists", err)
	}
}

func TestWriter_WriteUnknownConnectionRejected(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bag")

	w, err := Create(dir)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	unknown := model.Connection{ID: 99}

	if err := w.Write(unknown, 1, []byte("d")); err != errs.ErrConnectionNotFound {
		t.Fatalf("err = %v, want ErrConnectionNotFound", err)
	}
}

func TestWriter_MCAPBackendRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bag")

	w, err := Create(dir, WithStorageID(format.StorageMCAP))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	conn, err := w.AddConnection("/imu", "sensor_msgs/msg/Imu", WithMessageDefinition("float64 x", format.MsgDefMsg))
	if err != nil {
		t.Fatalf("AddConnection: %v", err)
	}

	for i := uint64(1); i <= 3; i++ {
		if err := w.Write(conn, i*10, []byte("imu-data")); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	m, err := manifest.ReadFile(filepath.Join(dir, manifest.ManifestFileName))
	if err != nil {
		t.Fatalf("ReadFile manifest: %v", err)
	}

	if m.StorageIdentifier != "mcap" {
		t.Fatalf("storage identifier = %q, want mcap", m.StorageIdentifier)
	}

	if filepath.Ext(m.RelativeFilePaths[0]) != ".mcap" {
		t.Fatalf("storage file = %q, want .mcap extension", m.RelativeFilePaths[0])
	}

	if m.MessageCount != 3 {
		t.Fatalf("message count = %d, want 3", m.MessageCount)
	}

	// Sanity-check the backend itself can read back what was written.
	s := mcapstore.New()

	if err := s.Open(filepath.Join(dir, m.RelativeFilePaths[0]), storage.ModeRead); err != nil {
		t.Fatalf("reopen mcap file: %v", err)
	}
	defer s.Close()

	topics, err := s.Topics()
	if err != nil {
		t.Fatalf("Topics: %v", err)
	}

	if len(topics) != 1 || topics[0].MessageCount != 3 {
		t.Fatalf("topics = %+v, want 1 topic with 3 messages", topics)
	}
}
