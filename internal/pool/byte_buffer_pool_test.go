package pool

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ByteBuffer Tests
// =============================================================================

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(128)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 128, bb.Cap())
}

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(8)

	n, err := bb.Write([]byte("_UJO"))
	require.NoError(t, err)
	require.Equal(t, 4, n)
	_, err = bb.Write([]byte{0x01})
	require.NoError(t, err)
	require.Equal(t, []byte("_UJO\x01"), bb.Bytes())

	capBefore := bb.Cap()
	bb.Reset()
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, capBefore, bb.Cap(), "Reset should keep capacity")
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(16)
		bb.Grow(16)
		assert.Equal(t, 16, bb.Cap())
	})

	t.Run("small buffer doubles", func(t *testing.T) {
		bb := NewByteBuffer(16)
		_, _ = bb.Write(make([]byte, 16))
		bb.Grow(1)
		assert.Equal(t, 32, bb.Cap())
	})

	t.Run("large request wins", func(t *testing.T) {
		bb := NewByteBuffer(4)
		bb.Grow(100)
		assert.GreaterOrEqual(t, bb.Cap(), 100)
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		bb := NewByteBuffer(128 * 1024)
		_, _ = bb.Write(make([]byte, 128*1024))
		bb.Grow(1)
		assert.Equal(t, 160*1024, bb.Cap())
	})

	t.Run("zero capacity", func(t *testing.T) {
		bb := NewByteBuffer(0)
		_, _ = bb.Write([]byte{1, 2, 3})
		assert.Equal(t, []byte{1, 2, 3}, bb.Bytes())
	})

	t.Run("preserves data", func(t *testing.T) {
		bb := NewByteBuffer(4)
		_, _ = bb.Write([]byte("abcd"))
		bb.Grow(1024)
		assert.Equal(t, []byte("abcd"), bb.Bytes())
	})
}

type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWrite
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("payload"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
	require.Equal(t, "payload", out.String())

	_, err = bb.WriteTo(failingWriter{})
	require.ErrorIs(t, err, errWrite)
}

// =============================================================================
// ByteBufferPool Tests
// =============================================================================

func TestByteBufferPool_GetPut(t *testing.T) {
	p := NewByteBufferPool(32, 0)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())

	_, _ = bb.Write([]byte("data"))
	p.Put(bb)

	again := p.Get()
	require.Equal(t, 0, again.Len(), "pooled buffers come back empty")

	p.Put(nil)
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(8, 16)

	bb := p.Get()
	bb.Grow(64)
	require.Greater(t, bb.Cap(), 16)

	// The oversized buffer is dropped; Get still works.
	p.Put(bb)
	next := p.Get()
	require.NotNil(t, next)
	require.Equal(t, 0, next.Len())
}

func TestDefaultPools(t *testing.T) {
	sink := GetSinkBuffer()
	require.NotNil(t, sink)
	require.Equal(t, 0, sink.Len())
	PutSinkBuffer(sink)

	payload := GetPayloadBuffer()
	require.NotNil(t, payload)
	require.Equal(t, 0, payload.Len())
	PutPayloadBuffer(payload)
}

func TestPool_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range 100 {
				bb := GetPayloadBuffer()
				_, _ = bb.Write([]byte{byte(id)})
				if bb.Len() != 1 || bb.Bytes()[0] != byte(id) {
					t.Errorf("buffer shared between goroutines")
				}
				PutPayloadBuffer(bb)
			}
		}(i)
	}

	wg.Wait()
}

func BenchmarkPayloadBuffer_GetWritePut(b *testing.B) {
	data := []byte("a short UTF-8 string payload")

	b.ReportAllocs()
	for b.Loop() {
		bb := GetPayloadBuffer()
		_, _ = bb.Write(data)
		PutPayloadBuffer(bb)
	}
}
