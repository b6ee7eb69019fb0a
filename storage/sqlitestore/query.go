package sqlitestore

import (
	sq "github.com/Masterminds/squirrel"
	"gopkg.in/yaml.v3"

	"github.com/rosbaglib/bagcore/errs"
	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/model"
	"github.com/rosbaglib/bagcore/storage"
)

func marshalQoS(profiles model.QoSProfiles) (string, error) {
	if profiles.Empty() {
		return "", nil
	}

	out, err := yaml.Marshal(profiles)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

func unmarshalQoS(text string) (model.QoSProfiles, error) {
	var profiles model.QoSProfiles
	if text == "" {
		return profiles, nil
	}

	if err := yaml.Unmarshal([]byte(text), &profiles); err != nil {
		return profiles, err
	}

	return profiles, nil
}

type topicRow struct {
	ID                  int64   `db:"id"`
	Name                string  `db:"name"`
	Type                string  `db:"type"`
	SerializationFormat *string `db:"serialization_format"`
	OfferedQoSProfiles  *string `db:"offered_qos_profiles"`
	TypeDescriptionHash *string `db:"type_description_hash"`
}

type messageDefRow struct {
	TopicType                string `db:"topic_type"`
	EncodedMessageDefinition string `db:"encoded_message_definition"`
	TypeDescriptionHash      string `db:"type_description_hash"`
}

// Topics returns the backend's authoritative connection list, built from
// the topics table (and, when present, joined message-definition text by
// type name), with each connection's MessageCount counted from the
// messages table. Columns absent at the detected schema version are left at
// their zero value rather than erroring.
func (s *Store) Topics() ([]model.Connection, error) {
	var rows []topicRow
	if err := s.db.Select(&rows, `SELECT id, name, type, serialization_format, offered_qos_profiles, type_description_hash FROM topics ORDER BY id`); err != nil {
		return nil, errs.NewStorageFileError(s.path, err)
	}

	defs := make(map[string]messageDefRow)

	if s.schemaVersion >= 4 {
		var defRows []messageDefRow
		if err := s.db.Select(&defRows, `SELECT topic_type, encoded_message_definition, type_description_hash FROM message_definitions`); err != nil {
			return nil, errs.NewStorageFileError(s.path, err)
		}

		for _, d := range defRows {
			defs[d.TopicType] = d
		}
	}

	var countRows []struct {
		TopicID int64  `db:"topic_id"`
		Count   uint64 `db:"count"`
	}
	if err := s.db.Select(&countRows, `SELECT topic_id, COUNT(*) AS count FROM messages GROUP BY topic_id`); err != nil {
		return nil, errs.NewStorageFileError(s.path, err)
	}

	counts := make(map[int64]uint64, len(countRows))
	for _, c := range countRows {
		counts[c.TopicID] = c.Count
	}

	conns := make([]model.Connection, 0, len(rows))

	for _, r := range rows {
		sf := format.CDR
		if r.SerializationFormat != nil && *r.SerializationFormat != "" {
			sf = format.SerializationFormat(*r.SerializationFormat)
		}

		qosText := ""
		if r.OfferedQoSProfiles != nil {
			qosText = *r.OfferedQoSProfiles
		}

		qos, err := unmarshalQoS(qosText)
		if err != nil {
			return nil, errs.NewStorageFileError(s.path, err)
		}

		typeHash := ""
		if r.TypeDescriptionHash != nil {
			typeHash = *r.TypeDescriptionHash
		}

		conn := model.Connection{
			ID:                  int(r.ID),
			Topic:               r.Name,
			Type:                r.Type,
			SerializationFormat: sf,
			OfferedQoS:          qos,
			TypeDescriptionHash: typeHash,
			MessageCount:        counts[r.ID],
		}

		if d, ok := defs[r.Type]; ok {
			conn.MessageDefinition = d.EncodedMessageDefinition
			conn.MessageDefinitionFmt = format.MsgDefMsg

			if conn.TypeDescriptionHash == "" {
				conn.TypeDescriptionHash = d.TypeDescriptionHash
			}
		}

		conns = append(conns, conn)
	}

	return conns, nil
}

// Messages composes one parameterized SELECT joining messages and
// topics, ordered by timestamp, using squirrel the way cc-backend's
// repository.QueryJobs builds its filtered job query.
func (s *Store) Messages(filter storage.Filter) (storage.MessageIterator, error) {
	query := sq.Select("messages.topic_id", "messages.timestamp", "messages.data").
		From("messages").
		Join("topics ON topics.id = messages.topic_id").
		OrderBy("messages.timestamp ASC")

	if len(filter.Topics) > 0 {
		query = query.Where(sq.Eq{"topics.name": filter.Topics})
	}

	if filter.Start != nil {
		query = query.Where(sq.GtOrEq{"messages.timestamp": int64(*filter.Start)})
	}

	if filter.Stop != nil {
		query = query.Where(sq.Lt{"messages.timestamp": int64(*filter.Stop)})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, errs.NewStorageFileError(s.path, err)
	}

	rows, err := s.db.Queryx(sqlStr, args...)
	if err != nil {
		return nil, errs.NewStorageFileError(s.path, err)
	}

	return &messageIterator{rows: rows, path: s.path}, nil
}
