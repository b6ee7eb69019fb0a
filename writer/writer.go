package writer

import (
	"os"
	"path/filepath"

	"github.com/rosbaglib/bagcore/compress"
	"github.com/rosbaglib/bagcore/errs"
	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/internal/backendopen"
	"github.com/rosbaglib/bagcore/internal/options"
	"github.com/rosbaglib/bagcore/manifest"
	"github.com/rosbaglib/bagcore/model"
	"github.com/rosbaglib/bagcore/storage"
)

type state uint8

const (
	stateCreated state = iota
	stateOpen
	stateFinalized
)

// Writer builds a new bag directory one connection and message at a time.
// States: Created -> Open -> [AddConnection | Write | Flush]* -> Close ->
// Finalized. Calls out of order return errs.ErrBagNotOpen or
// errs.ErrHandleClosed.
type Writer struct {
	dir   string
	cfg   config
	state state

	backend  storage.Backend
	registry *model.Registry
	buf      *messageBuffer

	msgCodec compress.Codec // non-nil only under message-mode compression

	fileName      string // relative to dir
	minTS, maxTS  uint64
	haveTimestamp bool
}

// Create makes dir (which must not already exist) and opens its storage
// backend, returning a Writer ready for AddConnection and Write.
func Create(dir string, opts ...Option) (*Writer, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, errs.ErrBagAlreadyExists
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	backend, err := backendopen.New(cfg.storageID)
	if err != nil {
		return nil, err
	}

	fileName := "bag_0" + extensionFor(cfg.storageID)

	if err := backend.Open(filepath.Join(dir, fileName), storage.ModeWrite); err != nil {
		return nil, err
	}

	var msgCodec compress.Codec

	if cfg.compressionMode == format.CompressionModeMessage {
		msgCodec, err = compress.CreateCodec(compress.FromManifestFormat(cfg.compressionFormat), "message")
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Writer{
		dir:      dir,
		cfg:      cfg,
		state:    stateOpen,
		backend:  backend,
		registry: model.NewRegistry(),
		buf:      newMessageBuffer(),
		msgCodec: msgCodec,
		fileName: fileName,
	}, nil
}

func extensionFor(id format.StorageID) string {
	if id == format.StorageMCAP {
		return ".mcap"
	}

	return ".db3"
}

// AddConnection registers a (topic, type) channel, assigning it the next
// contiguous id. Registering the same (topic, type) pair twice is an
// error.
func (w *Writer) AddConnection(topic, typ string, opts ...ConnectionOption) (model.Connection, error) {
	if w.state != stateOpen {
		return model.Connection{}, errs.ErrBagNotOpen
	}

	conn := model.Connection{Topic: topic, Type: typ, SerializationFormat: format.CDR}

	if err := options.Apply(&conn, opts...); err != nil {
		return model.Connection{}, err
	}

	if conn.TypeDescriptionHash == "" && conn.MessageDefinition != "" {
		conn.TypeDescriptionHash = model.ComputeTypeDescriptionHash(conn.MessageDefinition)
	}

	conn, err := w.registry.Add(conn)
	if err != nil {
		return model.Connection{}, err
	}

	if err := w.backend.WriteConnection(conn); err != nil {
		return model.Connection{}, err
	}

	return conn, nil
}

// Write compresses payload under message-mode compression (if configured),
// stages it, and flushes once the batch threshold or buffer size limit is
// reached.
func (w *Writer) Write(conn model.Connection, timestampNs uint64, payload []byte) error {
	if w.state != stateOpen {
		return errs.ErrBagNotOpen
	}

	if _, ok := w.registry.ByID(conn.ID); !ok {
		return errs.ErrConnectionNotFound
	}

	if w.msgCodec != nil {
		compressed, err := w.msgCodec.Compress(payload)
		if err != nil {
			return err
		}

		payload = compressed
	}

	return w.stage(model.RawMessage{ConnectionID: conn.ID, TimestampNs: timestampNs, Data: payload})
}

// WriteRawMessage stages payload as-is, bypassing compression — the fast
// path for copying an already-encoded message from a reader.
func (w *Writer) WriteRawMessage(connectionID int, timestampNs uint64, payload []byte) error {
	if w.state != stateOpen {
		return errs.ErrBagNotOpen
	}

	if _, ok := w.registry.ByID(connectionID); !ok {
		return errs.ErrConnectionNotFound
	}

	return w.stage(model.RawMessage{ConnectionID: connectionID, TimestampNs: timestampNs, Data: payload})
}

// WriteRawMessagesBatch flushes any pending buffer, then hands msgs
// straight to the backend's bulk-insert entry point, bypassing the
// buffer entirely.
func (w *Writer) WriteRawMessagesBatch(msgs []model.RawMessage) error {
	if w.state != stateOpen {
		return errs.ErrBagNotOpen
	}

	if err := w.Flush(); err != nil {
		return err
	}

	for _, m := range msgs {
		if _, ok := w.registry.ByID(m.ConnectionID); !ok {
			return errs.ErrConnectionNotFound
		}
	}

	if err := w.backend.WriteBatch(msgs); err != nil {
		return err
	}

	for _, m := range msgs {
		w.registry.IncrementCount(m.ConnectionID)
		w.touchTimestamp(m.TimestampNs)
	}

	return nil
}

func (w *Writer) stage(m model.RawMessage) error {
	w.buf.append(m)
	w.registry.IncrementCount(m.ConnectionID)
	w.touchTimestamp(m.TimestampNs)

	if w.buf.len() >= w.cfg.batchThreshold || w.buf.bytes >= w.cfg.bufferSizeLimit {
		return w.Flush()
	}

	return nil
}

func (w *Writer) touchTimestamp(ts uint64) {
	if !w.haveTimestamp || ts < w.minTS {
		w.minTS = ts
	}

	if !w.haveTimestamp || ts > w.maxTS {
		w.maxTS = ts
	}

	w.haveTimestamp = true
}

// Flush hands the staged buffer to the backend as one batch, then clears
// it.
func (w *Writer) Flush() error {
	if w.state != stateOpen {
		return errs.ErrBagNotOpen
	}

	if w.buf.len() == 0 {
		return nil
	}

	if err := w.backend.WriteBatch(w.buf.msgs); err != nil {
		return err
	}

	w.buf.reset()

	return w.backend.Flush()
}

// Close flushes remaining messages, releases the backend, applies
// file-mode compression if configured, and writes the manifest. Close
// after Close returns errs.ErrHandleClosed — unlike the reader, the
// writer's Close is not idempotent, matching spec.md §4.6's state machine.
func (w *Writer) Close() error {
	if w.state == stateFinalized {
		return errs.ErrHandleClosed
	}

	if w.state != stateOpen {
		return errs.ErrBagNotOpen
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if err := w.backend.Close(); err != nil {
		return err
	}

	if w.cfg.compressionMode == format.CompressionModeFile {
		if err := w.compressStorageFile(); err != nil {
			return err
		}
	}

	m := w.buildManifest()
	if err := manifest.WriteFile(filepath.Join(w.dir, manifest.ManifestFileName), m); err != nil {
		return err
	}

	w.state = stateFinalized

	return nil
}

func (w *Writer) compressStorageFile() error {
	src := filepath.Join(w.dir, w.fileName)

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	codec, err := compress.CreateCodec(compress.FromManifestFormat(w.cfg.compressionFormat), "file")
	if err != nil {
		return err
	}

	out, err := codec.Compress(data)
	if err != nil {
		return err
	}

	dstName := w.fileName + ".zstd"
	if err := os.WriteFile(filepath.Join(w.dir, dstName), out, 0o644); err != nil {
		return err
	}

	if err := os.Remove(src); err != nil {
		return err
	}

	w.fileName = dstName

	return nil
}

func (w *Writer) buildManifest() manifest.Manifest {
	conns := w.registry.All()

	var total uint64

	topics := make([]manifest.TopicCount, len(conns))
	for i, c := range conns {
		total += c.MessageCount
		topics[i] = manifest.TopicCount{
			MessageCount: c.MessageCount,
			Topic: manifest.TopicMetadata{
				Name:                c.Topic,
				Type:                c.Type,
				SerializationFormat: c.SerializationFormat,
				OfferedQoSProfiles:  c.OfferedQoS,
				TypeDescriptionHash: c.TypeDescriptionHash,
			},
		}
	}

	var duration uint64
	if total > 0 {
		duration = w.maxTS - w.minTS
	}

	return manifest.Manifest{
		Version:            w.cfg.manifestVersion,
		StorageIdentifier:  w.cfg.storageID.String(),
		RelativeFilePaths:  []string{w.fileName},
		Duration:           duration,
		StartingTime:       w.minTS,
		MessageCount:       total,
		CompressionFormat:  w.cfg.compressionFormat.String(),
		CompressionMode:    w.cfg.compressionMode.String(),
		TopicsWithMessageCount: topics,
		Files: []manifest.FileInfo{{
			Path:         w.fileName,
			StartingTime: w.minTS,
			Duration:     duration,
			MessageCount: total,
		}},
		RosDistro: w.cfg.rosDistro,
	}
}
