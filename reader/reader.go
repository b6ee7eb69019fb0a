package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rosbaglib/bagcore/errs"
	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/internal/backendopen"
	"github.com/rosbaglib/bagcore/internal/options"
	"github.com/rosbaglib/bagcore/manifest"
	"github.com/rosbaglib/bagcore/model"
	"github.com/rosbaglib/bagcore/storage"
)

type fileBackend struct {
	path    string
	backend storage.Backend
	idMap   map[int]int // backend-local connection id -> Reader-facing id
}

// Reader is a bag opened for sequential, ascending-timestamp reading.
// Created -> Open -> Iterate* -> Close; repeated Close is a no-op, and
// Messages/MessagesFiltered after Close return errs.ErrHandleClosed.
type Reader struct {
	dir       string
	manifest  manifest.Manifest
	registry  *model.Registry
	storageID format.StorageID
	files     []fileBackend
	closed    bool
}

// Open loads dir's manifest, resolves its storage files, opens the
// backend(s), and reconciles the connection list per spec.md §4.4.
func Open(dir string, opts ...Option) (*Reader, error) {
	var cfg config
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	m, err := manifest.ReadFile(filepath.Join(dir, manifest.ManifestFileName))
	if err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	manifestConns := connectionsFromManifest(m)

	if len(m.RelativeFilePaths) == 0 {
		return nil, fmt.Errorf("%w: manifest lists no storage files", errs.ErrStorageFileNotFound)
	}

	paths := make([]string, len(m.RelativeFilePaths))
	for i, rel := range m.RelativeFilePaths {
		path := filepath.Join(dir, rel)
		if _, err := os.Stat(path); err != nil {
			return nil, errs.NewStorageFileError(path, errs.ErrStorageFileNotFound)
		}

		paths[i] = path
	}

	storageID, err := resolveStorageID(m.StorageIdentifier, paths[0], cfg.storageID)
	if err != nil {
		return nil, err
	}

	files := make([]fileBackend, len(paths))
	perFileConns := make([][]model.Connection, len(paths))

	for i, path := range paths {
		b, err := backendopen.New(storageID)
		if err != nil {
			return nil, err
		}

		if err := b.Open(path, storage.ModeRead); err != nil {
			closeAll(files[:i])
			return nil, err
		}

		conns, err := b.Topics()
		if err != nil {
			b.Close()
			closeAll(files[:i])

			return nil, err
		}

		files[i] = fileBackend{path: path, backend: b}
		perFileConns[i] = conns
	}

	var final []model.Connection
	var idMaps []map[int]int

	if storageID == format.StorageSQLite3 {
		final, idMaps = mergeRelational(manifestConns, perFileConns)
	} else {
		final, idMaps = mergeChunked(manifestConns, perFileConns)
	}

	final = pullMessageDefinitions(final, perFileConns)

	for i := range files {
		files[i].idMap = idMaps[i]
	}

	registry := model.NewRegistry()
	registry.Replace(final)

	return &Reader{
		dir:       dir,
		manifest:  m,
		registry:  registry,
		storageID: storageID,
		files:     files,
	}, nil
}

func resolveStorageID(manifestID string, firstPath string, override format.StorageID) (format.StorageID, error) {
	if override != format.StorageAuto {
		return override, nil
	}

	id, ok := format.ParseStorageID(manifestID)
	if !ok {
		return format.StorageAuto, fmt.Errorf("%w: %q", errs.ErrUnsupportedStorageFormat, manifestID)
	}

	if id != format.StorageAuto {
		return id, nil
	}

	return storage.DetectID(firstPath)
}

func connectionsFromManifest(m manifest.Manifest) []model.Connection {
	conns := make([]model.Connection, len(m.TopicsWithMessageCount))

	for i, tc := range m.TopicsWithMessageCount {
		conns[i] = model.Connection{
			ID:                  i + 1,
			Topic:               tc.Topic.Name,
			Type:                tc.Topic.Type,
			SerializationFormat: tc.Topic.SerializationFormat,
			TypeDescriptionHash: tc.Topic.TypeDescriptionHash,
			OfferedQoS:          tc.Topic.OfferedQoSProfiles,
			MessageCount:        tc.MessageCount,
		}
	}

	return conns
}

func closeAll(files []fileBackend) {
	for _, f := range files {
		f.backend.Close()
	}
}

// Connections returns the reconciled connection list, in id order.
func (r *Reader) Connections() []model.Connection {
	return r.registry.All()
}

// Messages returns every message in the bag, ascending by timestamp.
func (r *Reader) Messages() (MessageIterator, error) {
	return r.MessagesFiltered(nil, nil, nil)
}

// MessagesFiltered returns messages restricted to the union of conns'
// topics (nil or empty means no topic filter) and to
// [start, stop) on timestamp (either bound nil means unbounded).
func (r *Reader) MessagesFiltered(conns []model.Connection, start, stop *uint64) (MessageIterator, error) {
	if r.closed {
		return nil, errs.ErrHandleClosed
	}

	var topics []string
	for _, c := range conns {
		topics = append(topics, c.Topic)
	}

	filter := storage.Filter{Topics: topics, Start: start, Stop: stop}

	var merged []model.Message

	for _, f := range r.files {
		it, err := f.backend.Messages(filter)
		if err != nil {
			return nil, err
		}

		for it.Next() {
			raw := it.Message()

			finalID, ok := f.idMap[raw.ConnectionID]
			if !ok {
				finalID = raw.ConnectionID
			}

			conn, _ := r.registry.ByID(finalID)

			data := make([]byte, len(raw.Data))
			copy(data, raw.Data)

			merged = append(merged, model.Message{
				Connection:  conn,
				Topic:       conn.Topic,
				TimestampNs: raw.TimestampNs,
				Data:        data,
			})
		}

		err = it.Err()
		it.Close()

		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TimestampNs < merged[j].TimestampNs
	})

	return &sliceIterator{messages: merged}, nil
}

// Close releases every backend handle. Safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}

	r.closed = true

	var first error

	for _, f := range r.files {
		if err := f.backend.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}
