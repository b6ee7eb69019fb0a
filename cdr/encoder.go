package cdr

import (
	"github.com/rosbaglib/bagcore/endian"
	"github.com/rosbaglib/bagcore/internal/pool"
)

// EncapsulationKind is the accepted-but-uninterpreted byte 2 of the CDR
// header. The core always writes 0x01 (CDR_LE equivalent / PL_CDR family
// placeholder) but treats any value on decode as opaque.
const EncapsulationKind = 0x01

// Encoder writes CDR-encoded primitives into a growable buffer, starting
// with the 4-byte encapsulation header.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	buf    []byte
	engine endian.Engine
	pooled *pool.ByteBuffer // non-nil only for an Encoder from NewPooledEncoder
}

// NewEncoder creates an Encoder that writes the encapsulation header using
// engine's byte order, then positions the cursor at offset 4 for the first
// field.
func NewEncoder(engine endian.Engine) *Encoder {
	e := &Encoder{engine: engine}
	e.buf = make([]byte, HeaderSize, 64)
	e.buf[0] = 0
	e.buf[1] = endian.Flag(engine)
	e.buf[2] = EncapsulationKind
	e.buf[3] = 0

	return e
}

// NewPooledEncoder behaves like NewEncoder but borrows its backing buffer
// from the shared per-message buffer pool, amortizing allocation on hot
// encode paths. Callers must
// call Release once the encoded bytes have been consumed (copied into a
// RawMessage, for instance); after Release the Encoder must not be used.
func NewPooledEncoder(engine endian.Engine) *Encoder {
	bb := pool.GetMessageBuffer()
	bb.SetLength(HeaderSize)

	buf := bb.Bytes()
	buf[0] = 0
	buf[1] = endian.Flag(engine)
	buf[2] = EncapsulationKind
	buf[3] = 0

	return &Encoder{buf: buf, engine: engine, pooled: bb}
}

// Release returns a pooled Encoder's buffer to the shared pool. It is a
// no-op for an Encoder created with NewEncoder.
func (e *Encoder) Release() {
	if e.pooled == nil {
		return
	}

	e.pooled.B = e.buf
	pool.PutMessageBuffer(e.pooled)
	e.pooled = nil
	e.buf = nil
}

// Bytes returns the encoded buffer, including the header.
func (e *Encoder) Bytes() []byte { return e.buf }

// Offset returns the encoder's current cursor position, including the
// 4-byte header.
func (e *Encoder) Offset() int { return len(e.buf) }

// align pads the buffer with zero bytes until its length is a multiple of
// width.
func (e *Encoder) align(width int) {
	if width <= 1 {
		return
	}

	pad := (width - len(e.buf)%width) % width
	for i := 0; i < pad; i++ {
		e.buf = append(e.buf, 0)
	}
}

// WriteBool writes a 1-byte boolean.
func (e *Encoder) WriteBool(v bool) {
	var b byte
	if v {
		b = 1
	}

	e.buf = append(e.buf, b)
}

// WriteInt8 writes a signed 8-bit integer.
func (e *Encoder) WriteInt8(v int8) { e.WriteUint8(uint8(v)) }

// WriteUint8 writes an unsigned 8-bit integer.
func (e *Encoder) WriteUint8(v uint8) { e.buf = append(e.buf, v) }

// WriteInt16 writes a signed 16-bit integer, aligned to 2 bytes.
func (e *Encoder) WriteInt16(v int16) { e.WriteUint16(uint16(v)) }

// WriteUint16 writes an unsigned 16-bit integer, aligned to 2 bytes.
func (e *Encoder) WriteUint16(v uint16) {
	e.align(2)
	e.buf = e.engine.AppendUint16(e.buf, v)
}

// WriteInt32 writes a signed 32-bit integer, aligned to 4 bytes.
func (e *Encoder) WriteInt32(v int32) { e.WriteUint32(uint32(v)) }

// WriteUint32 writes an unsigned 32-bit integer, aligned to 4 bytes.
func (e *Encoder) WriteUint32(v uint32) {
	e.align(4)
	e.buf = e.engine.AppendUint32(e.buf, v)
}

// WriteInt64 writes a signed 64-bit integer, aligned to 8 bytes.
func (e *Encoder) WriteInt64(v int64) { e.WriteUint64(uint64(v)) }

// WriteUint64 writes an unsigned 64-bit integer, aligned to 8 bytes.
func (e *Encoder) WriteUint64(v uint64) {
	e.align(8)
	e.buf = e.engine.AppendUint64(e.buf, v)
}

// WriteFloat32 writes a 32-bit IEEE-754 float, aligned to 4 bytes.
func (e *Encoder) WriteFloat32(v float32) { e.WriteUint32(float32ToBits(v)) }

// WriteFloat64 writes a 64-bit IEEE-754 float, aligned to 8 bytes.
func (e *Encoder) WriteFloat64(v float64) { e.WriteUint64(float64ToBits(v)) }

// WriteString writes a CDR string: a 4-byte length including the
// terminating NUL, the string bytes, then a trailing NUL.
func (e *Encoder) WriteString(s string) {
	e.WriteUint32(uint32(len(s) + 1))
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, 0)
}

// WriteBytes writes a length-prefixed byte sequence (sequence<uint8>) as a
// direct copy.
func (e *Encoder) WriteBytes(data []byte) {
	e.WriteUint32(uint32(len(data)))
	e.buf = append(e.buf, data...)
}

// WriteFixedBytes writes data verbatim with 1-byte alignment, used for
// fixed arrays of uint8/int8/bool.
func (e *Encoder) WriteFixedBytes(data []byte) {
	e.buf = append(e.buf, data...)
}

// WriteInt32Seq writes a CDR sequence<int32>.
func (e *Encoder) WriteInt32Seq(vals []int32) {
	e.WriteUint32(uint32(len(vals)))
	for _, v := range vals {
		e.WriteInt32(v)
	}
}

// WriteFloat64Seq writes a CDR sequence<double>.
func (e *Encoder) WriteFloat64Seq(vals []float64) {
	e.WriteUint32(uint32(len(vals)))
	for _, v := range vals {
		e.WriteFloat64(v)
	}
}

// WriteStringSeq writes a CDR sequence<string>.
func (e *Encoder) WriteStringSeq(vals []string) {
	e.WriteUint32(uint32(len(vals)))
	for _, v := range vals {
		e.WriteString(v)
	}
}
