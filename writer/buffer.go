package writer

import "github.com/rosbaglib/bagcore/model"

// messageBuffer stages pending (connection, timestamp, payload) triples
// between flushes. Its growth strategy is adapted from
// internal/pool.ByteBuffer.Grow — grow by a fixed step
// (messageBufferDefaultCap entries) while the buffer is small, then by 25%
// of current capacity — generalized from a slice of bytes to a slice of
// pending messages.
type messageBuffer struct {
	msgs  []model.RawMessage
	bytes int
}

const messageBufferDefaultCap = 128

func newMessageBuffer() *messageBuffer {
	return &messageBuffer{msgs: make([]model.RawMessage, 0, messageBufferDefaultCap)}
}

func (b *messageBuffer) append(m model.RawMessage) {
	b.grow(1)
	b.msgs = append(b.msgs, m)
	b.bytes += len(m.Data)
}

func (b *messageBuffer) grow(n int) {
	available := cap(b.msgs) - len(b.msgs)
	if available >= n {
		return
	}

	growBy := cap(b.msgs) / 4
	if growBy < messageBufferDefaultCap {
		growBy = messageBufferDefaultCap
	}

	grown := make([]model.RawMessage, len(b.msgs), cap(b.msgs)+growBy)
	copy(grown, b.msgs)
	b.msgs = grown
}

func (b *messageBuffer) reset() {
	b.msgs = b.msgs[:0]
	b.bytes = 0
}

func (b *messageBuffer) len() int { return len(b.msgs) }
