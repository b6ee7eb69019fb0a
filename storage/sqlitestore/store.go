package sqlitestore

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rosbaglib/bagcore/errs"
	"github.com/rosbaglib/bagcore/model"
	"github.com/rosbaglib/bagcore/storage"
)

// Store is the relational storage.Backend. Connections are written with
// an explicit id (the bag's contiguous connection id) so that messages
// written in the same run can reference topics.id directly; on read,
// Connection.ID is simply the topics.id value.
type Store struct {
	db            *sqlx.DB
	mode          storage.Mode
	path          string
	schemaVersion int
	typesWritten  map[string]bool // dedupe message_definitions by type name
	open          bool
}

var _ storage.Backend = (*Store)(nil)

// New returns an unopened relational backend.
func New() *Store {
	return &Store{typesWritten: make(map[string]bool)}
}

// Open acquires the sqlite3 file at path. ModeWrite creates the schema on
// a fresh file; ModeRead detects the existing schema version.
func (s *Store) Open(path string, mode storage.Mode) error {
	if s.open {
		return errs.ErrBagAlreadyOpen
	}

	db, err := sqlx.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", path))
	if err != nil {
		return errs.NewStorageFileError(path, err)
	}

	// sqlite does not benefit from concurrent connections; writers in
	// particular need every statement serialized against one handle.
	db.SetMaxOpenConns(1)

	if mode == storage.ModeWrite {
		if err := createSchema(db, ""); err != nil {
			db.Close()
			return errs.NewStorageFileError(path, err)
		}

		s.schemaVersion = CurrentSchemaVersion
	} else {
		version, err := detectSchemaVersion(db)
		if err != nil {
			db.Close()
			return errs.NewStorageFileError(path, err)
		}

		s.schemaVersion = version
	}

	s.db = db
	s.mode = mode
	s.path = path
	s.open = true

	return nil
}

// Close releases the sqlite connection. Safe to call more than once.
func (s *Store) Close() error {
	if !s.open {
		return nil
	}

	s.open = false

	return s.db.Close()
}

// WriteConnection inserts a topics row (and, when present, a
// message_definitions row deduplicated by type name) for conn.
func (s *Store) WriteConnection(conn model.Connection) error {
	if s.mode != storage.ModeWrite {
		return errs.ErrBagNotOpen
	}

	qos, err := marshalQoS(conn.OfferedQoS)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT INTO topics (id, name, type, serialization_format, offered_qos_profiles, type_description_hash) VALUES (?, ?, ?, ?, ?, ?)`,
		conn.ID, conn.Topic, conn.Type, string(conn.SerializationFormat), qos, conn.TypeDescriptionHash,
	)
	if err != nil {
		return errs.NewStorageFileError(s.path, err)
	}

	if conn.MessageDefinition != "" && !s.typesWritten[conn.Type] {
		_, err := s.db.Exec(
			`INSERT INTO message_definitions (topic_type, encoding, encoded_message_definition, type_description_hash) VALUES (?, ?, ?, ?)`,
			conn.Type, conn.MessageDefinitionFmt.String(), conn.MessageDefinition, conn.TypeDescriptionHash,
		)
		if err != nil {
			return errs.NewStorageFileError(s.path, err)
		}

		s.typesWritten[conn.Type] = true
	}

	return nil
}

// WriteBatch inserts msgs inside a single transaction, following the
// teacher's TransactionInit/Add/End shape from cc-backend's
// repository.Transaction.
func (s *Store) WriteBatch(msgs []model.RawMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	if s.mode != storage.ModeWrite {
		return errs.ErrBagNotOpen
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return errs.NewStorageFileError(s.path, err)
	}

	stmt, err := tx.Preparex(`INSERT INTO messages (topic_id, timestamp, data) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return errs.NewStorageFileError(s.path, err)
	}

	for _, m := range msgs {
		if _, err := stmt.Exec(m.ConnectionID, int64(m.TimestampNs), m.Data); err != nil {
			stmt.Close()
			tx.Rollback()

			return errs.NewStorageFileError(s.path, err)
		}
	}

	stmt.Close()

	if err := tx.Commit(); err != nil {
		return errs.NewStorageFileError(s.path, err)
	}

	return nil
}

// Flush is a no-op: WriteBatch already commits its transaction.
func (s *Store) Flush() error {
	return nil
}
