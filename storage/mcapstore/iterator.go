package mcapstore

import "github.com/rosbaglib/bagcore/model"

type messageIterator struct {
	records []messageRecord
	pos     int
	cur     model.RawMessage
}

func (it *messageIterator) Next() bool {
	if it.pos >= len(it.records) {
		return false
	}

	r := it.records[it.pos]
	it.cur = model.RawMessage{ConnectionID: int(r.ChannelID), TimestampNs: r.TimestampNs, Data: r.Data}
	it.pos++

	return true
}

func (it *messageIterator) Message() model.RawMessage { return it.cur }

func (it *messageIterator) Err() error { return nil }

func (it *messageIterator) Close() error { return nil }
