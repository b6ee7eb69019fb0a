package mcapstore

import (
	"bufio"
	"os"
	"sort"

	"github.com/edsrzf/mmap-go"

	"github.com/rosbaglib/bagcore/errs"
	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/model"
	"github.com/rosbaglib/bagcore/storage"
)

type schemaKey struct {
	name     string
	encoding string
}

type channelKey struct {
	topic    string
	schemaID uint16
}

// Store is the chunked-binary storage.Backend. Writes stream records
// sequentially through a buffered file writer; reads memory-map the whole
// file and parse it once on Open, since the format carries no index or
// summary section to consult instead.
type Store struct {
	mode storage.Mode
	path string
	open bool

	// write side
	f            *os.File
	bw           *bufio.Writer
	schemaIDs    map[schemaKey]uint16
	channelIDs   map[channelKey]uint16
	connChannel  map[int]uint16 // bagcore connection id -> channel id
	nextSchema   uint16
	nextChannel  uint16

	// read side, populated by scan() during Open
	rf       *os.File
	mm       mmap.MMap
	schemas  map[uint16]schemaRecord
	channels map[uint16]channelRecord
	counts   map[uint16]uint64
	messages []messageRecord
}

var _ storage.Backend = (*Store)(nil)

// New returns an unopened chunked-binary backend.
func New() *Store {
	return &Store{
		schemaIDs:   make(map[schemaKey]uint16),
		channelIDs:  make(map[channelKey]uint16),
		connChannel: make(map[int]uint16),
	}
}

// Open creates a fresh file for ModeWrite or memory-maps and fully parses
// an existing one for ModeRead.
func (s *Store) Open(path string, mode storage.Mode) error {
	if s.open {
		return errs.ErrBagAlreadyOpen
	}

	if mode == storage.ModeWrite {
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return errs.NewStorageFileError(path, err)
		}

		if _, err := f.Write(magic[:]); err != nil {
			f.Close()
			return errs.NewStorageFileError(path, err)
		}

		s.f = f
		s.bw = bufio.NewWriter(f)

		if _, err := s.bw.Write(encodeHeader(headerRecord{Library: "bagcore"})); err != nil {
			f.Close()
			return errs.NewStorageFileError(path, err)
		}
	} else {
		rf, err := os.Open(path)
		if err != nil {
			return errs.NewStorageFileError(path, err)
		}

		mm, err := mmap.Map(rf, mmap.RDONLY, 0)
		if err != nil {
			rf.Close()
			return errs.NewStorageFileError(path, err)
		}

		s.rf = rf
		s.mm = mm

		if err := s.scan(); err != nil {
			mm.Unmap()
			rf.Close()

			return errs.NewStorageFileError(path, err)
		}
	}

	s.mode = mode
	s.path = path
	s.open = true

	return nil
}

// Close flushes and releases the underlying file handle. Safe to call more
// than once.
func (s *Store) Close() error {
	if !s.open {
		return nil
	}

	s.open = false

	if s.mode == storage.ModeWrite {
		if _, err := s.bw.Write(encodeDataEnd(dataEndRecord{})); err != nil {
			return errs.NewStorageFileError(s.path, err)
		}

		if _, err := s.bw.Write(encodeFooter(footerRecord{})); err != nil {
			return errs.NewStorageFileError(s.path, err)
		}

		if _, err := s.bw.Write(magic[:]); err != nil {
			return errs.NewStorageFileError(s.path, err)
		}

		if err := s.Flush(); err != nil {
			return err
		}

		return s.f.Close()
	}

	if err := s.mm.Unmap(); err != nil {
		s.rf.Close()
		return errs.NewStorageFileError(s.path, err)
	}

	return s.rf.Close()
}

// Flush pushes the buffered writer's contents to disk.
func (s *Store) Flush() error {
	if s.mode != storage.ModeWrite || s.bw == nil {
		return nil
	}

	if err := s.bw.Flush(); err != nil {
		return errs.NewStorageFileError(s.path, err)
	}

	return nil
}

// WriteConnection assigns (or reuses) a schema id for conn's (type,
// definition-encoding) pair and a channel id for the resulting (topic,
// schema id) pair, writing whichever records are new.
func (s *Store) WriteConnection(conn model.Connection) error {
	if s.mode != storage.ModeWrite {
		return errs.ErrBagNotOpen
	}

	sk := schemaKey{name: conn.Type, encoding: conn.MessageDefinitionFmt.String()}

	schemaID, ok := s.schemaIDs[sk]
	if !ok {
		s.nextSchema++
		schemaID = s.nextSchema
		s.schemaIDs[sk] = schemaID

		rec := schemaRecord{ID: schemaID, Name: conn.Type, Encoding: sk.encoding, Data: conn.MessageDefinition}
		if _, err := s.bw.Write(encodeSchema(rec)); err != nil {
			return errs.NewStorageFileError(s.path, err)
		}
	}

	ck := channelKey{topic: conn.Topic, schemaID: schemaID}

	channelID, ok := s.channelIDs[ck]
	if !ok {
		s.nextChannel++
		channelID = s.nextChannel
		s.channelIDs[ck] = channelID

		rec := channelRecord{ID: channelID, SchemaID: schemaID, Topic: conn.Topic, MessageEncoding: string(conn.SerializationFormat)}
		if _, err := s.bw.Write(encodeChannel(rec)); err != nil {
			return errs.NewStorageFileError(s.path, err)
		}
	}

	s.connChannel[conn.ID] = channelID

	return nil
}

// WriteBatch appends msgs as message records on their connections' channels.
func (s *Store) WriteBatch(msgs []model.RawMessage) error {
	if s.mode != storage.ModeWrite {
		return errs.ErrBagNotOpen
	}

	for _, m := range msgs {
		channelID, ok := s.connChannel[m.ConnectionID]
		if !ok {
			return errs.ErrConnectionNotFound
		}

		rec := messageRecord{ChannelID: channelID, TimestampNs: m.TimestampNs, Data: m.Data}
		if _, err := s.bw.Write(encodeMessage(rec)); err != nil {
			return errs.NewStorageFileError(s.path, err)
		}
	}

	return nil
}

// Topics returns one Connection per channel record observed during the
// scan, counting messages by a full pass since there is no summary section
// to read the count from directly.
func (s *Store) Topics() ([]model.Connection, error) {
	ids := make([]uint16, 0, len(s.channels))
	for id := range s.channels {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	conns := make([]model.Connection, 0, len(ids))

	for _, id := range ids {
		ch := s.channels[id]
		sch := s.schemas[ch.SchemaID]

		conns = append(conns, model.Connection{
			ID:                   int(id),
			Topic:                ch.Topic,
			Type:                 sch.Name,
			SerializationFormat:  format.CDR,
			MessageDefinition:    sch.Data,
			MessageDefinitionFmt: messageDefinitionFormatOf(sch.Encoding),
			MessageCount:         s.counts[id],
		})
	}

	return conns, nil
}

// Messages returns an iterator over the scanned, timestamp-sorted message
// index, filtered by filter.
func (s *Store) Messages(filter storage.Filter) (storage.MessageIterator, error) {
	topicByChannel := make(map[uint16]string, len(s.channels))
	for id, ch := range s.channels {
		topicByChannel[id] = ch.Topic
	}

	idx := make([]messageRecord, 0, len(s.messages))

	for _, m := range s.messages {
		if !filter.Matches(topicByChannel[m.ChannelID], m.TimestampNs) {
			continue
		}

		idx = append(idx, m)
	}

	return &messageIterator{records: idx}, nil
}
