package mcapstore

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/rosbaglib/bagcore/format"
)

func messageDefinitionFormatOf(encoding string) format.MessageDefinitionFormat {
	switch encoding {
	case "msg":
		return format.MsgDefMsg
	case "idl":
		return format.MsgDefIDL
	default:
		return format.MsgDefNone
	}
}

// scan walks the whole memory-mapped file once, populating schemas,
// channels, counts and a timestamp-sorted message index. A minimal writer
// (spec.md §4.3) produces no summary section, so a full linear pass of
// the data section is the only way to answer Topics()'s message counts
// and to serve messages in timestamp order.
//
// Records this reader doesn't need — Header, DataEnd, and anything a
// fuller writer placed in the summary section (Statistics, SummaryOffset)
// — are skipped by their declared length rather than rejected, so a file
// produced by another standards-compliant MCAP writer scans cleanly too.
// Schema and Channel records repeated in a summary section are decoded
// again and overwrite the entries with the same id. Message data stored inside a compressed Chunk
// record is not unwrapped; this reader only understands messages written
// directly to the data section, which is all this package's own Store
// ever produces.
func (s *Store) scan() error {
	if len(s.mm) < len(magic) || !bytes.Equal(s.mm[:len(magic)], magic[:]) {
		return fmt.Errorf("mcapstore: bad leading magic")
	}

	if len(s.mm) < 2*len(magic) || !bytes.Equal(s.mm[len(s.mm)-len(magic):], magic[:]) {
		return fmt.Errorf("mcapstore: bad or missing trailing magic")
	}

	s.schemas = make(map[uint16]schemaRecord)
	s.channels = make(map[uint16]channelRecord)
	s.counts = make(map[uint16]uint64)

	c := &cursor{buf: s.mm[:len(s.mm)-len(magic)], off: len(magic)}

	for c.remaining() > 0 {
		op, err := c.readByte()
		if err != nil {
			return err
		}

		length, err := c.readUint64()
		if err != nil {
			return err
		}

		payload, err := c.readBytes(int(length))
		if err != nil {
			return err
		}

		switch opcode(op) {
		case opSchema:
			rec, err := decodeSchema(&cursor{buf: payload})
			if err != nil {
				return err
			}

			s.schemas[rec.ID] = rec
		case opChannel:
			rec, err := decodeChannel(&cursor{buf: payload})
			if err != nil {
				return err
			}

			s.channels[rec.ID] = rec
		case opMessage:
			rec, err := decodeMessage(payload)
			if err != nil {
				return err
			}

			s.messages = append(s.messages, rec)
			s.counts[rec.ChannelID]++
		case opHeader, opDataEnd, opFooter:
			// no fields this reader needs
		default:
			// summary-section or chunk/index records from a fuller writer;
			// already consumed by length above, nothing more to do
		}
	}

	sort.SliceStable(s.messages, func(i, j int) bool {
		return s.messages[i].TimestampNs < s.messages[j].TimestampNs
	})

	return nil
}
