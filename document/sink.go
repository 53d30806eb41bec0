package document

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/ujo/errs"
	"github.com/arloliu/ujo/internal/pool"
)

// Sink receives encoded bytes from a Writer. Each Append carries one
// complete value, container open or terminator. Sinks are append-only.
type Sink interface {
	Append(p []byte) error
}

// MemorySink collects a document in a growable buffer.
type MemorySink struct {
	buf    *pool.ByteBuffer
	pooled bool
}

// NewMemorySink returns an empty sink with at least size bytes of capacity.
// Sinks of the default size draw their buffer from a shared pool.
func NewMemorySink(size int) *MemorySink {
	if size <= pool.SinkBufferDefaultSize {
		return &MemorySink{buf: pool.GetSinkBuffer(), pooled: true}
	}

	return &MemorySink{buf: pool.NewByteBuffer(size)}
}

// Append copies p to the end of the buffer.
func (s *MemorySink) Append(p []byte) error {
	if s.buf == nil {
		return fmt.Errorf("%w: memory sink released", errs.ErrInvalidObject)
	}

	_, err := s.buf.Write(p)

	return err
}

// Bytes returns the collected bytes. The slice is valid until the next
// Append, Reset or Release.
func (s *MemorySink) Bytes() []byte {
	if s.buf == nil {
		return nil
	}

	return s.buf.Bytes()
}

func (s *MemorySink) Len() int {
	if s.buf == nil {
		return 0
	}

	return s.buf.Len()
}

// Reset empties the sink and keeps its storage.
func (s *MemorySink) Reset() {
	if s.buf != nil {
		s.buf.Reset()
	}
}

// Release returns the buffer to the pool. The sink must not be used afterwards.
// WriteTo copies the collected bytes to dst.
func (s *MemorySink) WriteTo(dst io.Writer) (int64, error) {
	if s.buf == nil {
		return 0, fmt.Errorf("%w: memory sink released", errs.ErrInvalidObject)
	}

	n, err := s.buf.WriteTo(dst)
	if err != nil {
		return n, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	return n, nil
}

func (s *MemorySink) Release() {
	if s.buf != nil && s.pooled {
		pool.PutSinkBuffer(s.buf)
	}
	s.buf = nil
}

// StreamSink writes a document sequentially to an io.Writer through a buffer.
type StreamSink struct {
	w      *bufio.Writer
	closer io.Closer
	n      int64
}

// NewStreamSink returns a sink writing to w with a buffer of size bytes.
func NewStreamSink(w io.Writer, size int) *StreamSink {
	if size <= 0 {
		size = DefaultBufferSize
	}

	return &StreamSink{w: bufio.NewWriterSize(w, size)}
}

// CreateFileSink creates or truncates the file at path and returns a sink
// writing to it. Close flushes and closes the file.
func CreateFileSink(path string, size int) (*StreamSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	s := NewStreamSink(f, size)
	s.closer = f

	return s, nil
}

// Append buffers p.
func (s *StreamSink) Append(p []byte) error {
	n, err := s.w.Write(p)
	s.n += int64(n)

	return err
}

// Len returns the number of bytes accepted so far.
func (s *StreamSink) Len() int64 {
	return s.n
}

// Flush writes buffered bytes to the underlying writer.
func (s *StreamSink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer and closes the file when the sink owns one.
func (s *StreamSink) Close() error {
	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
		s.closer = nil
	}

	return err
}
