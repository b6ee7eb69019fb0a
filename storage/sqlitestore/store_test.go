package sqlitestore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rosbaglib/bagcore/format"
	"github.com/rosbaglib/bagcore/model"
	"github.com/rosbaglib/bagcore/storage"
)

func u64(v uint64) *uint64 { return &v }

func TestStore_WriteAndReadRoundTrip(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "bag_0.db3")

	w := New()
	require.NoError(w.Open(path, storage.ModeWrite))

	conn := model.Connection{ID: 1, Topic: "/chatter", Type: "std_msgs/msg/String", SerializationFormat: format.CDR}
	require.NoError(w.WriteConnection(conn))

	require.NoError(w.WriteBatch([]model.RawMessage{
		{ConnectionID: 1, TimestampNs: 10, Data: []byte("a")},
		{ConnectionID: 1, TimestampNs: 20, Data: []byte("b")},
	}))
	require.NoError(w.Close())

	r := New()
	require.NoError(r.Open(path, storage.ModeRead))
	defer r.Close()

	topics, err := r.Topics()
	require.NoError(err)
	require.Len(topics, 1)
	require.Equal("/chatter", topics[0].Topic)

	it, err := r.Messages(storage.Filter{})
	require.NoError(err)
	defer it.Close()

	var got []model.RawMessage
	for it.Next() {
		got = append(got, it.Message())
	}
	require.NoError(it.Err())
	require.Len(got, 2)
	require.Equal(uint64(10), got[0].TimestampNs)
	require.Equal(uint64(20), got[1].TimestampNs)
}

func TestStore_TimeFilter(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "bag_0.db3")

	w := New()
	require.NoError(w.Open(path, storage.ModeWrite))
	require.NoError(w.WriteConnection(model.Connection{ID: 1, Topic: "/x", Type: "t"}))

	var msgs []model.RawMessage
	for _, ts := range []uint64{10, 20, 30, 40, 50} {
		msgs = append(msgs, model.RawMessage{ConnectionID: 1, TimestampNs: ts, Data: []byte{byte(ts)}})
	}
	require.NoError(w.WriteBatch(msgs))
	require.NoError(w.Close())

	r := New()
	require.NoError(r.Open(path, storage.ModeRead))
	defer r.Close()

	it, err := r.Messages(storage.Filter{Start: u64(20), Stop: u64(40)})
	require.NoError(err)
	defer it.Close()

	var got []uint64
	for it.Next() {
		got = append(got, it.Message().TimestampNs)
	}
	require.NoError(it.Err())
	require.Equal([]uint64{20, 30}, got)
}

func TestStore_TopicFilter(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "bag_0.db3")

	w := New()
	require.NoError(w.Open(path, storage.ModeWrite))
	require.NoError(w.WriteConnection(model.Connection{ID: 1, Topic: "/a", Type: "t"}))
	require.NoError(w.WriteConnection(model.Connection{ID: 2, Topic: "/b", Type: "t"}))
	require.NoError(w.WriteConnection(model.Connection{ID: 3, Topic: "/c", Type: "t"}))

	require.NoError(w.WriteBatch([]model.RawMessage{
		{ConnectionID: 1, TimestampNs: 1, Data: []byte{1}},
		{ConnectionID: 2, TimestampNs: 2, Data: []byte{2}},
		{ConnectionID: 3, TimestampNs: 3, Data: []byte{3}},
	}))
	require.NoError(w.Close())

	r := New()
	require.NoError(r.Open(path, storage.ModeRead))
	defer r.Close()

	it, err := r.Messages(storage.Filter{Topics: []string{"/a", "/c"}})
	require.NoError(err)
	defer it.Close()

	var count int
	for it.Next() {
		count++
	}
	require.NoError(it.Err())
	require.Equal(2, count)
}

func TestStore_RejectsDoubleOpen(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "bag_0.db3")

	w := New()
	require.NoError(w.Open(path, storage.ModeWrite))
	require.Error(w.Open(path, storage.ModeWrite))
}
