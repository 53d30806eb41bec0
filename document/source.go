package document

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/ujo/errs"
)

// Source supplies document bytes to a Reader, front to back.
type Source interface {
	// Next returns the next n bytes. The slice is only valid until the
	// following call. A short source returns errs.ErrTruncated.
	Next(n int) ([]byte, error)
	// ReadPayload copies the next n bytes to w.
	ReadPayload(w io.Writer, n int64) error
	// Offset returns the number of bytes consumed so far.
	Offset() int64
}

// MemorySource reads from a byte slice it does not own.
type MemorySource struct {
	data []byte
	off  int
}

// NewMemorySource returns a source over data. data must not change while
// the source is in use.
func NewMemorySource(data []byte) *MemorySource {
	return &MemorySource{data: data}
}

// Next returns a view of the next n bytes.
func (s *MemorySource) Next(n int) ([]byte, error) {
	if n < 0 || n > len(s.data)-s.off {
		return nil, s.truncated(int64(n))
	}

	p := s.data[s.off : s.off+n]
	s.off += n

	return p, nil
}

// ReadPayload writes the next n bytes to w.
func (s *MemorySource) ReadPayload(w io.Writer, n int64) error {
	if n < 0 || n > int64(len(s.data)-s.off) {
		return s.truncated(n)
	}

	end := s.off + int(n)
	if _, err := w.Write(s.data[s.off:end]); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrIO, err)
	}
	s.off = end

	return nil
}

func (s *MemorySource) Offset() int64 {
	return int64(s.off)
}

// Reset switches the source to data and rewinds it.
func (s *MemorySource) Reset(data []byte) {
	s.data = data
	s.off = 0
}

// Rewind moves back to the start of the data.
func (s *MemorySource) Rewind() {
	s.off = 0
}

func (s *MemorySource) truncated(n int64) error {
	return fmt.Errorf("%w: need %d bytes at offset %d, have %d",
		errs.ErrTruncated, n, s.off, len(s.data)-s.off)
}

// StreamSource reads a document sequentially from an io.Reader through a buffer.
type StreamSource struct {
	r       *bufio.Reader
	closer  io.Closer
	scratch []byte
	off     int64
}

// NewStreamSource returns a source reading from r with a buffer of size bytes.
func NewStreamSource(r io.Reader, size int) *StreamSource {
	if size <= 0 {
		size = DefaultBufferSize
	}

	return &StreamSource{r: bufio.NewReaderSize(r, size)}
}

// OpenFileSource opens the file at path for reading. Close closes the file.
func OpenFileSource(path string, size int) (*StreamSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	s := NewStreamSource(f, size)
	s.closer = f

	return s, nil
}

// Next returns the next n bytes, peeked from the buffer when they fit.
func (s *StreamSource) Next(n int) ([]byte, error) {
	if n <= s.r.Size() {
		p, err := s.r.Peek(n)
		if err != nil {
			return nil, s.wrap(err, int64(n))
		}
		_, _ = s.r.Discard(n)
		s.off += int64(n)

		return p, nil
	}

	if cap(s.scratch) < n {
		s.scratch = make([]byte, n)
	}
	p := s.scratch[:n]

	read, err := io.ReadFull(s.r, p)
	s.off += int64(read)
	if err != nil {
		return nil, s.wrap(err, int64(n))
	}

	return p, nil
}

// ReadPayload copies the next n bytes to w without holding them all in the
// read buffer.
func (s *StreamSource) ReadPayload(w io.Writer, n int64) error {
	copied, err := io.CopyN(w, s.r, n)
	s.off += copied
	if err != nil {
		return s.wrap(err, n)
	}

	return nil
}

func (s *StreamSource) Offset() int64 {
	return s.off
}

// Close closes the file when the source owns one.
func (s *StreamSource) Close() error {
	if s.closer == nil {
		return nil
	}

	err := s.closer.Close()
	s.closer = nil

	return err
}

func (s *StreamSource) wrap(err error, n int64) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: need %d bytes at offset %d", errs.ErrTruncated, n, s.off)
	}

	return fmt.Errorf("%w: %w", errs.ErrIO, err)
}
