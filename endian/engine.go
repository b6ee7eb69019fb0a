// Package endian provides byte order utilities for the CDR codec.
//
// It extends the standard encoding/binary package by combining ByteOrder
// and AppendByteOrder into a unified Engine interface, and by exposing a
// selector keyed on the CDR encapsulation header's endianness byte
// (0 = big, 1 = little) so the decoder and encoder can switch byte order
// per message rather than once per process.
//
// # Basic usage
//
//	engine, err := endian.ByFlag(1) // little-endian, per the CDR header
//	if err != nil {
//	    return err
//	}
//	v := engine.Uint32(buf)
//
// # Thread safety
//
// All functions in this package are safe for concurrent use. The returned
// Engine instances are immutable and stateless.
package endian

import (
	"encoding/binary"

	"github.com/rosbaglib/bagcore/errs"
)

// Engine combines ByteOrder and AppendByteOrder from encoding/binary into a
// single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian
// from the standard library.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// LittleEndian is the CDR little-endian byte order engine.
func LittleEndian() Engine { return binary.LittleEndian }

// BigEndian is the CDR big-endian byte order engine.
func BigEndian() Engine { return binary.BigEndian }

// ByFlag resolves the CDR encapsulation header's endianness byte (offset 1
// of the 4-byte header) to an Engine. Only 0 (big-endian) and 1
// (little-endian) are valid per the CDR encapsulation scheme; any other
// value is a codec error.
func ByFlag(flag byte) (Engine, error) {
	switch flag {
	case 0:
		return BigEndian(), nil
	case 1:
		return LittleEndian(), nil
	default:
		return nil, errs.NewCodecError("decode encapsulation header", 1, 4, errs.ErrInvalidEndianness)
	}
}

// Flag returns the CDR encapsulation endianness byte for engine.
func Flag(engine Engine) byte {
	if engine == LittleEndian() {
		return 1
	}

	return 0
}
