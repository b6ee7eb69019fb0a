package cdr

import (
	"testing"

	"github.com/rosbaglib/bagcore/endian"
	"github.com/stretchr/testify/require"
)

func TestEncoder_Header(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder(endian.LittleEndian())
	buf := enc.Bytes()

	require.Len(buf, 4)
	require.Equal(byte(0), buf[0])
	require.Equal(byte(1), buf[1])
	require.Equal(byte(0), buf[3])
}

func TestEncoder_HeaderBigEndian(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder(endian.BigEndian())
	require.Equal(byte(0), enc.Bytes()[1])
}

func TestPooledEncoder_RoundTripAndRelease(t *testing.T) {
	require := require.New(t)

	enc := NewPooledEncoder(endian.LittleEndian())
	enc.WriteUint32(42)
	enc.WriteString("topic")

	dec, err := NewDecoder(enc.Bytes())
	require.NoError(err)

	v, err := dec.ReadUint32()
	require.NoError(err)
	require.Equal(uint32(42), v)

	s, err := dec.ReadString()
	require.NoError(err)
	require.Equal("topic", s)

	enc.Release()
	require.Nil(enc.buf)

	// Release on a non-pooled Encoder is a no-op.
	plain := NewEncoder(endian.LittleEndian())
	plain.Release()
	require.NotNil(plain.buf)
}

func TestRoundTrip_Primitives(t *testing.T) {
	require := require.New(t)

	for _, engine := range []endian.Engine{endian.LittleEndian(), endian.BigEndian()} {
		enc := NewEncoder(engine)
		enc.WriteBool(true)
		enc.WriteInt8(-5)
		enc.WriteUint8(250)
		enc.WriteInt16(-1234)
		enc.WriteUint16(54321)
		enc.WriteInt32(-123456789)
		enc.WriteUint32(3000000000)
		enc.WriteInt64(-123456789012345)
		enc.WriteUint64(18000000000000000000)
		enc.WriteFloat32(3.14)
		enc.WriteFloat64(2.71828182845)
		enc.WriteString("Hello")

		d, err := NewDecoder(enc.Bytes())
		require.NoError(err)

		b, err := d.ReadBool()
		require.NoError(err)
		require.True(b)

		i8, err := d.ReadInt8()
		require.NoError(err)
		require.Equal(int8(-5), i8)

		u8, err := d.ReadUint8()
		require.NoError(err)
		require.Equal(uint8(250), u8)

		i16, err := d.ReadInt16()
		require.NoError(err)
		require.Equal(int16(-1234), i16)

		u16, err := d.ReadUint16()
		require.NoError(err)
		require.Equal(uint16(54321), u16)

		i32, err := d.ReadInt32()
		require.NoError(err)
		require.Equal(int32(-123456789), i32)

		u32, err := d.ReadUint32()
		require.NoError(err)
		require.Equal(uint32(3000000000), u32)

		i64, err := d.ReadInt64()
		require.NoError(err)
		require.Equal(int64(-123456789012345), i64)

		u64, err := d.ReadUint64()
		require.NoError(err)
		require.Equal(uint64(18000000000000000000), u64)

		f32, err := d.ReadFloat32()
		require.NoError(err)
		require.InDelta(float32(3.14), f32, 0.0001)

		f64, err := d.ReadFloat64()
		require.NoError(err)
		require.InDelta(2.71828182845, f64, 0.0000000001)

		s, err := d.ReadString()
		require.NoError(err)
		require.Equal("Hello", s)
	}
}

func TestRoundTrip_Int32ThenInt64_16Bytes(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder(endian.LittleEndian())
	enc.WriteInt32(1)
	enc.WriteInt64(2)

	// header(4) + int32(4) = 8, already 8-aligned, so int64 needs no padding.
	require.Len(enc.Bytes(), 16)
}

func TestRoundTrip_FixedArray(t *testing.T) {
	require := require.New(t)

	enc := NewEncoder(endian.LittleEndian())
	enc.WriteFixedBytes([]byte{1, 2, 3, 4, 5})

	d, err := NewDecoder(enc.Bytes())
	require.NoError(err)

	b, err := d.ReadFixedBytes(5)
	require.NoError(err)
	require.Equal([]byte{1, 2, 3, 4, 5}, b)
}
