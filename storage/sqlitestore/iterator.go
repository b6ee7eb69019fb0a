package sqlitestore

import (
	"github.com/jmoiron/sqlx"

	"github.com/rosbaglib/bagcore/errs"
	"github.com/rosbaglib/bagcore/model"
)

type messageIterator struct {
	rows *sqlx.Rows
	path string
	cur  model.RawMessage
	err  error
}

func (it *messageIterator) Next() bool {
	if it.err != nil || !it.rows.Next() {
		return false
	}

	var topicID int64
	var timestamp int64
	var data []byte

	if err := it.rows.Scan(&topicID, &timestamp, &data); err != nil {
		it.err = errs.NewStorageFileError(it.path, err)
		return false
	}

	it.cur = model.RawMessage{
		ConnectionID: int(topicID),
		TimestampNs:  uint64(timestamp),
		Data:         data,
	}

	return true
}

func (it *messageIterator) Message() model.RawMessage { return it.cur }

func (it *messageIterator) Err() error { return it.err }

func (it *messageIterator) Close() error {
	return it.rows.Close()
}
