package pool

import (
	"io"
	"sync"
)

const (
	// SinkBufferDefaultSize is the initial capacity of a memory sink.
	SinkBufferDefaultSize = 4096
	// SinkBufferMaxThreshold caps the buffers a memory sink returns to the pool.
	SinkBufferMaxThreshold = 1024 * 1024

	// PayloadBufferDefaultSize is the initial capacity of an element payload.
	PayloadBufferDefaultSize = 64
	// PayloadBufferMaxThreshold caps the payload buffers kept for reuse.
	PayloadBufferMaxThreshold = 64 * 1024
)

// ByteBuffer is a growable append-only byte slice. Growing preserves the
// bytes already written.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer returns an empty buffer with capacity size.
func NewByteBuffer(size int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, size)}
}

// Bytes returns the written bytes. The slice aliases the buffer.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer and keeps its storage.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow makes room for n more bytes without further reallocation.
//
// Small buffers double; buffers above 64KiB grow by a quarter of their
// capacity, and never by less than n.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	growBy := cap(bb.B)
	if growBy > 64*1024 {
		growBy /= 4
	}
	if growBy < n {
		growBy = n
	}

	buf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(buf, bb.B)
	bb.B = buf
}

// Write appends data. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// WriteTo writes the buffer contents to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool recycles ByteBuffers through a sync.Pool. Buffers that
// grew past maxThreshold are dropped instead of being retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool returns a pool of buffers with the given initial capacity.
// A maxThreshold of zero keeps every buffer.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get returns an empty buffer.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns bb to the pool. bb must not be used afterwards.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	sinkPool    = NewByteBufferPool(SinkBufferDefaultSize, SinkBufferMaxThreshold)
	payloadPool = NewByteBufferPool(PayloadBufferDefaultSize, PayloadBufferMaxThreshold)
)

// GetSinkBuffer returns a buffer from the memory sink pool.
func GetSinkBuffer() *ByteBuffer {
	return sinkPool.Get()
}

// PutSinkBuffer returns a memory sink buffer to its pool.
func PutSinkBuffer(bb *ByteBuffer) {
	sinkPool.Put(bb)
}

// GetPayloadBuffer returns a buffer from the element payload pool.
func GetPayloadBuffer() *ByteBuffer {
	return payloadPool.Get()
}

// PutPayloadBuffer returns an element payload buffer to its pool.
func PutPayloadBuffer(bb *ByteBuffer) {
	payloadPool.Put(bb)
}
