package sqlitestore

import (
	"github.com/jmoiron/sqlx"
)

// CurrentSchemaVersion is the relational schema version writers emit.
const CurrentSchemaVersion = 4

const schemaDDL = `
CREATE TABLE schema (
	schema_version INTEGER PRIMARY KEY,
	ros_distro TEXT NOT NULL
);
CREATE TABLE metadata (
	id INTEGER PRIMARY KEY,
	metadata_version INTEGER,
	metadata TEXT
);
CREATE TABLE topics (
	id INTEGER PRIMARY KEY,
	name TEXT,
	type TEXT,
	serialization_format TEXT,
	offered_qos_profiles TEXT,
	type_description_hash TEXT
);
CREATE TABLE message_definitions (
	id INTEGER PRIMARY KEY,
	topic_type TEXT,
	encoding TEXT,
	encoded_message_definition TEXT,
	type_description_hash TEXT
);
CREATE TABLE messages (
	id INTEGER PRIMARY KEY,
	topic_id INTEGER,
	timestamp INTEGER,
	data BLOB
);
CREATE INDEX timestamp_idx ON messages (timestamp ASC);
`

// createSchema applies the v4 DDL to a freshly opened, empty database.
func createSchema(db *sqlx.DB, rosDistro string) error {
	if _, err := db.Exec(schemaDDL); err != nil {
		return err
	}

	_, err := db.Exec(`INSERT INTO schema (schema_version, ros_distro) VALUES (?, ?)`, CurrentSchemaVersion, rosDistro)

	return err
}

// detectSchemaVersion implements the read-path detection spec.md §4.2
// describes: prefer the schema table's row; fall back to probing the
// topics table's columns to tell v1 from v2. v3/v4 are indistinguishable
// from v2 by column shape alone without a schema table, so a v2-shaped
// topics table with no schema row is read as v2.
func detectSchemaVersion(db *sqlx.DB) (int, error) {
	var hasSchemaTable bool
	if err := db.Get(&hasSchemaTable, `SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type='table' AND name='schema')`); err != nil {
		return 0, err
	}

	if hasSchemaTable {
		var version int
		if err := db.Get(&version, `SELECT schema_version FROM schema LIMIT 1`); err != nil {
			return 0, err
		}

		return version, nil
	}

	cols, err := topicsColumns(db)
	if err != nil {
		return 0, err
	}

	if cols["offered_qos_profiles"] {
		return 2, nil
	}

	return 1, nil
}

func topicsColumns(db *sqlx.DB) (map[string]bool, error) {
	rows, err := db.Queryx(`PRAGMA table_info(topics)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)

	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}

		if name, ok := row["name"].(string); ok {
			cols[name] = true
		}
	}

	return cols, rows.Err()
}
