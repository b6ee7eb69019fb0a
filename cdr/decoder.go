package cdr

import (
	"unicode/utf8"

	"github.com/rosbaglib/bagcore/endian"
	"github.com/rosbaglib/bagcore/errs"
)

// HeaderSize is the length in bytes of the CDR encapsulation header.
const HeaderSize = 4

// Decoder reads CDR-encoded primitives from a fixed buffer.
//
// A Decoder is not safe for concurrent use; each goroutine decoding a
// message should use its own Decoder.
type Decoder struct {
	buf    []byte
	cursor int
	engine endian.Engine
}

// NewDecoder reads the 4-byte encapsulation header from buf and returns a
// Decoder positioned right after it, ready to read the first field.
func NewDecoder(buf []byte) (*Decoder, error) {
	if len(buf) < HeaderSize {
		return nil, errs.NewCodecError("read encapsulation header", 0, len(buf), errs.ErrBufferUnderrun)
	}

	engine, err := endian.ByFlag(buf[1])
	if err != nil {
		return nil, errs.NewCodecError("read encapsulation header", 1, len(buf), errs.ErrInvalidEndianness)
	}

	return &Decoder{buf: buf, cursor: HeaderSize, engine: engine}, nil
}

// Engine returns the byte order this decoder was constructed with.
func (d *Decoder) Engine() endian.Engine { return d.engine }

// Offset returns the decoder's current cursor position, including the
// 4-byte header.
func (d *Decoder) Offset() int { return d.cursor }

// Remaining returns the number of bytes left after the current cursor.
func (d *Decoder) Remaining() int { return len(d.buf) - d.cursor }

// align advances the cursor to the next multiple of width, then verifies
// n more bytes are available.
func (d *Decoder) align(width, n int, op string) error {
	if width > 1 {
		d.cursor = (d.cursor + width - 1) &^ (width - 1)
	}

	if d.cursor+n > len(d.buf) {
		return errs.NewCodecError(op, d.cursor, len(d.buf), errs.ErrBufferUnderrun)
	}

	return nil
}

// ReadBool reads a 1-byte boolean; any nonzero byte is true.
func (d *Decoder) ReadBool() (bool, error) {
	if err := d.align(1, 1, "read bool"); err != nil {
		return false, err
	}

	v := d.buf[d.cursor] != 0
	d.cursor++

	return v, nil
}

// ReadInt8 reads a signed 8-bit integer.
func (d *Decoder) ReadInt8() (int8, error) {
	v, err := d.ReadUint8()
	return int8(v), err
}

// ReadUint8 reads an unsigned 8-bit integer.
func (d *Decoder) ReadUint8() (uint8, error) {
	if err := d.align(1, 1, "read uint8"); err != nil {
		return 0, err
	}

	v := d.buf[d.cursor]
	d.cursor++

	return v, nil
}

// ReadInt16 reads a signed 16-bit integer, aligned to 2 bytes.
func (d *Decoder) ReadInt16() (int16, error) {
	v, err := d.ReadUint16()
	return int16(v), err
}

// ReadUint16 reads an unsigned 16-bit integer, aligned to 2 bytes.
func (d *Decoder) ReadUint16() (uint16, error) {
	if err := d.align(2, 2, "read uint16"); err != nil {
		return 0, err
	}

	v := d.engine.Uint16(d.buf[d.cursor:])
	d.cursor += 2

	return v, nil
}

// ReadInt32 reads a signed 32-bit integer, aligned to 4 bytes.
func (d *Decoder) ReadInt32() (int32, error) {
	v, err := d.ReadUint32()
	return int32(v), err
}

// ReadUint32 reads an unsigned 32-bit integer, aligned to 4 bytes.
func (d *Decoder) ReadUint32() (uint32, error) {
	if err := d.align(4, 4, "read uint32"); err != nil {
		return 0, err
	}

	v := d.engine.Uint32(d.buf[d.cursor:])
	d.cursor += 4

	return v, nil
}

// ReadInt64 reads a signed 64-bit integer, aligned to 8 bytes.
func (d *Decoder) ReadInt64() (int64, error) {
	v, err := d.ReadUint64()
	return int64(v), err
}

// ReadUint64 reads an unsigned 64-bit integer, aligned to 8 bytes.
func (d *Decoder) ReadUint64() (uint64, error) {
	if err := d.align(8, 8, "read uint64"); err != nil {
		return 0, err
	}

	v := d.engine.Uint64(d.buf[d.cursor:])
	d.cursor += 8

	return v, nil
}

// ReadFloat32 reads a 32-bit IEEE-754 float, aligned to 4 bytes.
func (d *Decoder) ReadFloat32() (float32, error) {
	v, err := d.ReadUint32()
	return float32FromBits(v), err
}

// ReadFloat64 reads a 64-bit IEEE-754 float, aligned to 8 bytes.
func (d *Decoder) ReadFloat64() (float64, error) {
	v, err := d.ReadUint64()
	return float64FromBits(v), err
}

// ReadString reads a CDR string: a 4-byte length (including the
// terminating NUL), then that many bytes whose final byte is expected to
// be NUL. A missing terminator is tolerated; the literal byte count is
// then treated as the string content. The result is validated as UTF-8.
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return "", err
	}

	length := int(n)
	if length == 0 {
		return "", nil
	}

	if d.cursor+length > len(d.buf) {
		return "", errs.NewCodecError("read string", d.cursor, len(d.buf), errs.ErrStringTooLong)
	}

	raw := d.buf[d.cursor : d.cursor+length]
	d.cursor += length

	content := raw
	if raw[len(raw)-1] == 0 {
		content = raw[:len(raw)-1]
	}

	if !utf8.Valid(content) {
		return "", errs.NewCodecError("read string", d.cursor-length, len(d.buf), errs.ErrInvalidUTF8)
	}

	return string(content), nil
}

// ReadBytes reads a length-prefixed byte sequence (equivalent to
// sequence<uint8>) as a direct copy of the underlying buffer region.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}

	length := int(n)
	if d.cursor+length > len(d.buf) {
		return nil, errs.NewCodecError("read bytes", d.cursor, len(d.buf), errs.ErrBufferUnderrun)
	}

	out := make([]byte, length)
	copy(out, d.buf[d.cursor:d.cursor+length])
	d.cursor += length

	return out, nil
}

// ReadFixedBytes reads exactly n bytes with 1-byte alignment, used for
// fixed arrays of uint8/int8/bool.
func (d *Decoder) ReadFixedBytes(n int) ([]byte, error) {
	if err := d.align(1, n, "read fixed bytes"); err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, d.buf[d.cursor:d.cursor+n])
	d.cursor += n

	return out, nil
}

// ReadInt32Seq reads a CDR sequence<int32>: a 4-byte length followed by
// that many aligned int32 elements.
func (d *Decoder) ReadInt32Seq() ([]int32, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}

	out := make([]int32, n)
	for i := range out {
		out[i], err = d.ReadInt32()
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// ReadFloat64Seq reads a CDR sequence<double>.
func (d *Decoder) ReadFloat64Seq() ([]float64, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for i := range out {
		out[i], err = d.ReadFloat64()
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// ReadStringSeq reads a CDR sequence<string>.
func (d *Decoder) ReadStringSeq() ([]string, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}

	out := make([]string, n)
	for i := range out {
		out[i], err = d.ReadString()
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}
