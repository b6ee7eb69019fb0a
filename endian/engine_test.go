package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByFlag(t *testing.T) {
	require := require.New(t)

	le, err := ByFlag(1)
	require.NoError(err)
	require.Equal(binary.LittleEndian, le)

	be, err := ByFlag(0)
	require.NoError(err)
	require.Equal(binary.BigEndian, be)

	_, err = ByFlag(2)
	require.Error(err)
}

func TestFlag(t *testing.T) {
	require := require.New(t)

	require.Equal(byte(1), Flag(LittleEndian()))
	require.Equal(byte(0), Flag(BigEndian()))
}

func TestEngineRoundTrip(t *testing.T) {
	require := require.New(t)

	for _, engine := range []Engine{LittleEndian(), BigEndian()} {
		buf := make([]byte, 8)
		engine.PutUint64(buf, 0x0102030405060708)
		require.Equal(uint64(0x0102030405060708), engine.Uint64(buf))
	}
}
