package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	capacity := 1024
	bb := NewByteBuffer(capacity)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "new buffer should have zero length")
	assert.Equal(t, capacity, cap(bb.B), "new buffer should have specified capacity")
}

func TestByteBuffer_Bytes(t *testing.T) {
	bb := NewByteBuffer(MessageBufferDefaultSize)
	bb.B = append(bb.B, []byte("hello")...)

	got := bb.Bytes()

	assert.Equal(t, []byte("hello"), got)
	assert.True(t, &bb.B[0] == &got[0], "Bytes() should return the same underlying slice")
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(MessageBufferDefaultSize)
	bb.B = append(bb.B, []byte("some data")...)
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, len(bb.B), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, cap(bb.B), "Reset should preserve capacity")
}

func TestByteBuffer_Len(t *testing.T) {
	bb := NewByteBuffer(MessageBufferDefaultSize)

	assert.Equal(t, 0, bb.Len(), "empty buffer should have zero length")

	bb.B = append(bb.B, []byte("test")...)
	assert.Equal(t, 4, bb.Len(), "buffer length should match data")
}

func TestByteBuffer_MustWrite(t *testing.T) {
	bb := NewByteBuffer(MessageBufferDefaultSize)

	bb.MustWrite([]byte("hello"))
	assert.Equal(t, []byte("hello"), bb.B)

	bb.MustWrite([]byte(" world"))
	assert.Equal(t, []byte("hello world"), bb.B)
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(MessageBufferDefaultSize)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("hello"), bb.B)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(MessageBufferDefaultSize)
	bb.B = append(bb.B, []byte("test data")...)

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "test data", buf.String())
}

func TestByteBuffer_WriteTo_ErrorPropagation(t *testing.T) {
	bb := NewByteBuffer(MessageBufferDefaultSize)
	bb.B = append(bb.B, []byte("test")...)

	errorWriter := &errorWriter{err: io.ErrShortWrite}
	n, err := bb.WriteTo(errorWriter)

	assert.Error(t, err)
	assert.Equal(t, io.ErrShortWrite, err)
	assert.Equal(t, int64(0), n)
}

func TestByteBuffer_Grow_SufficientCapacity(t *testing.T) {
	bb := NewByteBuffer(MessageBufferDefaultSize)
	originalCap := cap(bb.B)

	bb.Grow(100)

	assert.Equal(t, originalCap, cap(bb.B), "should not reallocate when capacity is sufficient")
}

func TestByteBuffer_Grow_SmallBuffer(t *testing.T) {
	bb := NewByteBuffer(MessageBufferDefaultSize)
	bb.B = append(bb.B, make([]byte, MessageBufferDefaultSize)...)

	bb.Grow(1024)

	assert.GreaterOrEqual(t, cap(bb.B), MessageBufferDefaultSize+1024, "should have at least requested capacity")
	assert.Equal(t, MessageBufferDefaultSize, len(bb.B), "length should not change")
}

func TestByteBuffer_Grow_LargeBuffer(t *testing.T) {
	bb := NewByteBuffer(MessageBufferDefaultSize)
	largeSize := 4*MessageBufferDefaultSize + 1024
	bb.B = make([]byte, largeSize)

	bb.Grow(2048)

	assert.GreaterOrEqual(t, cap(bb.B), largeSize+2048, "should have at least requested capacity")
}

func TestByteBuffer_Grow_PreservesData(t *testing.T) {
	bb := NewByteBuffer(MessageBufferDefaultSize)
	testData := []byte("important data that must be preserved")
	bb.B = append(bb.B, testData...)

	bb.Grow(MessageBufferDefaultSize * 2)

	assert.Equal(t, testData, bb.B, "data should be preserved after growth")
}

func TestGetMessageBuffer(t *testing.T) {
	bb := GetMessageBuffer()

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "pooled buffer should be empty")
	assert.GreaterOrEqual(t, cap(bb.B), MessageBufferDefaultSize, "pooled buffer should have at least default capacity")
}

func TestPutMessageBuffer_NilBuffer(t *testing.T) {
	assert.NotPanics(t, func() {
		PutMessageBuffer(nil)
	})
}

func TestPool_ResetsClearsData(t *testing.T) {
	bb := GetMessageBuffer()
	bb.B = append(bb.B, []byte("sensitive data")...)

	PutMessageBuffer(bb)

	assert.Equal(t, 0, len(bb.B), "PutMessageBuffer should reset the buffer")
}

func TestPool_ConcurrentAccess(t *testing.T) {
	const numGoroutines = 50
	const numIterations = 200

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				bb := GetMessageBuffer()
				bb.MustWrite([]byte("data"))
				assert.Equal(t, 4, bb.Len())
				PutMessageBuffer(bb)
			}
		}()
	}

	wg.Wait()
}

func TestNewByteBufferPool(t *testing.T) {
	pool := NewByteBufferPool(8192, 65536)

	require.NotNil(t, pool)

	bb := pool.Get()
	require.NotNil(t, bb)
	assert.GreaterOrEqual(t, cap(bb.B), 8192, "buffer should have at least default size")

	pool.Put(bb)
}

func TestByteBufferPool_MaxThreshold_Discard(t *testing.T) {
	pool := NewByteBufferPool(1024, 4096)

	bb := pool.Get()
	bb.Grow(10000)

	assert.Greater(t, cap(bb.B), 4096, "buffer should have grown beyond threshold")

	pool.Put(bb)

	bb2 := pool.Get()
	assert.LessOrEqual(t, cap(bb2.B), 4096*2, "should not reuse buffer larger than threshold")
}

func TestGetFileBuffer(t *testing.T) {
	bb := GetFileBuffer()

	require.NotNil(t, bb)
	assert.Equal(t, 0, len(bb.B), "file buffer should be empty")
	assert.GreaterOrEqual(t, cap(bb.B), FileBufferDefaultSize, "file buffer should have at least default size")

	PutFileBuffer(bb)
}

func TestDefaultPools_Independence(t *testing.T) {
	msgBuf := GetMessageBuffer()
	msgCap := cap(msgBuf.B)

	fileBuf := GetFileBuffer()
	fileCap := cap(fileBuf.B)

	assert.NotEqual(t, msgCap, fileCap, "message and file buffers should have different default sizes")

	PutMessageBuffer(msgBuf)
	PutFileBuffer(fileBuf)
}

// errorWriter is a writer that always returns an error.
type errorWriter struct {
	err error
}

func (ew *errorWriter) Write(p []byte) (n int, err error) {
	return 0, ew.err
}
