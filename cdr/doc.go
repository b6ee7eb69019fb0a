// Package cdr implements the OMG Common Data Representation wire format
// used to serialize every message payload in a bag.
//
// Every encoded buffer starts with a 4-byte encapsulation header:
//
//	byte 0: reserved, must be 0
//	byte 1: endianness flag, 0 = big-endian, 1 = little-endian
//	byte 2: encapsulation kind, accepted but not otherwise interpreted
//	byte 3: reserved, must be 0
//
// After the header, every primitive is written at an offset that is a
// multiple of its own width, computed relative to the start of the
// payload including the 4-byte header — the first post-header byte is
// offset 4, not 0. Decoder and Encoder keep a cursor and a sticky
// [endian.Engine] and align before every read or write:
//
//	cursor = (cursor + align - 1) &^ (align - 1)
//
// A Decoder and Encoder pair are mirror images of each other: whatever
// sequence of primitive calls one makes while encoding, the same sequence
// of calls on the corresponding Decoder methods reproduces the values.
package cdr
