package mcapstore

import (
	"encoding/binary"

	"github.com/rosbaglib/bagcore/errs"
)

// magic is the 8-byte tag the public MCAP specification requires at the
// start (and, again, at the end) of every file: 0x89 "MCAP0" 0x0D 0x0A.
var magic = [8]byte{0x89, 'M', 'C', 'A', 'P', '0', 0x0D, 0x0A}

// opcode values are the real MCAP record type tags, not bagcore-local
// numbering — a record length is always 8 bytes (uint64), not 4, so that
// any standards-compliant MCAP reader can walk this file's records.
type opcode uint8

const (
	opHeader  opcode = 0x01
	opFooter  opcode = 0x02
	opSchema  opcode = 0x03
	opChannel opcode = 0x04
	opMessage opcode = 0x05
	opDataEnd opcode = 0x0F
)

// headerRecord is the mandatory first record of the data section.
type headerRecord struct {
	Profile string
	Library string
}

// footerRecord is the mandatory last record before the trailing magic.
// A minimal writer that produces no summary section (spec.md §4.3) writes
// all three fields as zero, which a compliant reader interprets as "no
// index available, fall back to a full scan" exactly as this package's
// own reader does.
type footerRecord struct {
	SummaryStart       uint64
	SummaryOffsetStart uint64
	SummaryCRC32       uint32
}

// dataEndRecord closes the data section. A zero CRC means "not computed".
type dataEndRecord struct {
	DataSectionCRC32 uint32
}

// schemaRecord describes one registered message type, keyed by the unique
// (name, encoding) pair a connection's type and definition encoding form.
type schemaRecord struct {
	ID       uint16
	Name     string // connection.Type
	Encoding string // connection.MessageDefinitionFmt, e.g. "msg"
	Data     string // connection.MessageDefinition, as raw schema bytes
}

// channelRecord describes one registered topic, keyed by the unique
// (topic, schemaID) pair. MCAP's channel record also carries a metadata
// string-to-string map; this writer always emits it empty.
type channelRecord struct {
	ID              uint16
	SchemaID        uint16
	Topic           string
	MessageEncoding string // always "cdr" for bagcore
}

// messageRecord is one stored payload. MCAP's message record also carries
// a sequence number and separate log/publish timestamps; this writer uses
// sequence 0 throughout and a single timestamp for both.
type messageRecord struct {
	ChannelID   uint16
	TimestampNs uint64
	Data        []byte
}

// appendString writes an MCAP string: a 4-byte length prefix followed by
// the raw (non-NUL-terminated) bytes. MCAP's byte-array fields (schema
// data, message payloads) share this same length-prefix shape.
func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func appendBytes(buf []byte, b []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b)))
	return append(buf, b...)
}

// appendRecord frames payload with MCAP's 1-byte opcode + 8-byte little
// endian length header.
func appendRecord(buf []byte, op opcode, payload []byte) []byte {
	buf = append(buf, byte(op))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(payload)))
	return append(buf, payload...)
}

func encodeHeader(r headerRecord) []byte {
	var payload []byte
	payload = appendString(payload, r.Profile)
	payload = appendString(payload, r.Library)

	return appendRecord(nil, opHeader, payload)
}

func encodeFooter(r footerRecord) []byte {
	var payload []byte
	payload = binary.LittleEndian.AppendUint64(payload, r.SummaryStart)
	payload = binary.LittleEndian.AppendUint64(payload, r.SummaryOffsetStart)
	payload = binary.LittleEndian.AppendUint32(payload, r.SummaryCRC32)

	return appendRecord(nil, opFooter, payload)
}

func encodeDataEnd(r dataEndRecord) []byte {
	payload := binary.LittleEndian.AppendUint32(nil, r.DataSectionCRC32)

	return appendRecord(nil, opDataEnd, payload)
}

func encodeSchema(r schemaRecord) []byte {
	var payload []byte
	payload = binary.LittleEndian.AppendUint16(payload, r.ID)
	payload = appendString(payload, r.Name)
	payload = appendString(payload, r.Encoding)
	payload = appendBytes(payload, []byte(r.Data))

	return appendRecord(nil, opSchema, payload)
}

func encodeChannel(r channelRecord) []byte {
	var payload []byte
	payload = binary.LittleEndian.AppendUint16(payload, r.ID)
	payload = binary.LittleEndian.AppendUint16(payload, r.SchemaID)
	payload = appendString(payload, r.Topic)
	payload = appendString(payload, r.MessageEncoding)
	payload = binary.LittleEndian.AppendUint32(payload, 0) // empty metadata map

	return appendRecord(nil, opChannel, payload)
}

func encodeMessage(r messageRecord) []byte {
	var payload []byte
	payload = binary.LittleEndian.AppendUint16(payload, r.ChannelID)
	payload = binary.LittleEndian.AppendUint32(payload, 0) // sequence, unused
	payload = binary.LittleEndian.AppendUint64(payload, r.TimestampNs) // log_time
	payload = binary.LittleEndian.AppendUint64(payload, r.TimestampNs) // publish_time
	payload = append(payload, r.Data...)

	return appendRecord(nil, opMessage, payload)
}

// cursor walks a byte slice with bounds-checked reads, the shape used
// throughout the pack's binary-format readers (field-by-field decode,
// sentinel error on underrun rather than a panic-recover).
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int { return len(c.buf) - c.off }

func (c *cursor) readByte() (byte, error) {
	if c.remaining() < 1 {
		return 0, errs.NewCodecError("read byte", c.off, len(c.buf), errs.ErrBufferUnderrun)
	}

	b := c.buf[c.off]
	c.off++

	return b, nil
}

func (c *cursor) readUint16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, errs.NewCodecError("read uint16", c.off, len(c.buf), errs.ErrBufferUnderrun)
	}

	v := binary.LittleEndian.Uint16(c.buf[c.off:])
	c.off += 2

	return v, nil
}

func (c *cursor) readUint32() (uint32, error) {
	if c.remaining() < 4 {
		return 0, errs.NewCodecError("read uint32", c.off, len(c.buf), errs.ErrBufferUnderrun)
	}

	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4

	return v, nil
}

func (c *cursor) readUint64() (uint64, error) {
	if c.remaining() < 8 {
		return 0, errs.NewCodecError("read uint64", c.off, len(c.buf), errs.ErrBufferUnderrun)
	}

	v := binary.LittleEndian.Uint64(c.buf[c.off:])
	c.off += 8

	return v, nil
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, errs.NewCodecError("read bytes", c.off, len(c.buf), errs.ErrBufferUnderrun)
	}

	b := c.buf[c.off : c.off+n]
	c.off += n

	return b, nil
}

func (c *cursor) readString() (string, error) {
	n, err := c.readUint32()
	if err != nil {
		return "", err
	}

	b, err := c.readBytes(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func decodeSchema(c *cursor) (schemaRecord, error) {
	var r schemaRecord

	id, err := c.readUint16()
	if err != nil {
		return r, err
	}

	name, err := c.readString()
	if err != nil {
		return r, err
	}

	encoding, err := c.readString()
	if err != nil {
		return r, err
	}

	data, err := c.readString()
	if err != nil {
		return r, err
	}

	r = schemaRecord{ID: id, Name: name, Encoding: encoding, Data: data}

	return r, nil
}

func decodeChannel(c *cursor) (channelRecord, error) {
	var r channelRecord

	id, err := c.readUint16()
	if err != nil {
		return r, err
	}

	schemaID, err := c.readUint16()
	if err != nil {
		return r, err
	}

	topic, err := c.readString()
	if err != nil {
		return r, err
	}

	enc, err := c.readString()
	if err != nil {
		return r, err
	}

	metaLen, err := c.readUint32()
	if err != nil {
		return r, err
	}

	if _, err := c.readBytes(int(metaLen)); err != nil {
		return r, err
	}

	r = channelRecord{ID: id, SchemaID: schemaID, Topic: topic, MessageEncoding: enc}

	return r, nil
}

// decodeMessage reads a message record given the full payload slice for
// that record: the data field is not itself length-prefixed, it simply
// runs to the end of the record, so the caller hands in the record's
// declared payload length via buf's length.
func decodeMessage(buf []byte) (messageRecord, error) {
	c := &cursor{buf: buf}

	channelID, err := c.readUint16()
	if err != nil {
		return messageRecord{}, err
	}

	if _, err := c.readUint32(); err != nil { // sequence, unused
		return messageRecord{}, err
	}

	logTime, err := c.readUint64()
	if err != nil {
		return messageRecord{}, err
	}

	if _, err := c.readUint64(); err != nil { // publish_time, unused
		return messageRecord{}, err
	}

	data, err := c.readBytes(c.remaining())
	if err != nil {
		return messageRecord{}, err
	}

	return messageRecord{ChannelID: channelID, TimestampNs: logTime, Data: data}, nil
}
