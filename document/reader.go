package document

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/arloliu/ujo/errs"
	"github.com/arloliu/ujo/format"
	"github.com/arloliu/ujo/internal/grammar"
	"github.com/arloliu/ujo/internal/pool"
	"github.com/arloliu/ujo/internal/wire"
	"github.com/arloliu/ujo/section"
)

// OnElementFunc receives each element during Parse. The element is
// released when the function returns; a non-nil error stops parsing.
type OnElementFunc func(e *Element) error

// Reader decodes a UJO document from a Source.
//
// The reader enforces the same grammar as the Writer. Any malformed input
// fails with errs.ErrInvalidData, and after the first failure the reader
// refuses to continue.
//
// Note: The Reader is NOT thread-safe.
type Reader struct {
	cfg       *Config
	logger    zerolog.Logger
	src       Source
	mem       *MemorySource
	machine   *grammar.Machine
	header    section.Header
	onElement OnElementFunc
	started   bool
	err       error
}

// NewReader returns a reader over src. Decoding starts with First.
func NewReader(src Source, opts ...Option) (*Reader, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return newReader(cfg, src), nil
}

// NewMemoryReader returns a reader over data, which it borrows. First may
// be called again to restart from the beginning.
func NewMemoryReader(data []byte, opts ...Option) (*Reader, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	mem := NewMemorySource(data)
	r := newReader(cfg, mem)
	r.mem = mem

	return r, nil
}

// OpenFileReader returns a reader over the file at path. Close closes the file.
func OpenFileReader(path string, opts ...Option) (*Reader, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	src, err := OpenFileSource(path, cfg.bufferSize)
	if err != nil {
		return nil, err
	}

	return newReader(cfg, src), nil
}

func newReader(cfg *Config, src Source) *Reader {
	return &Reader{
		cfg:     cfg,
		logger:  cfg.logger,
		src:     src,
		machine: grammar.NewMachine(cfg.stackCapacity),
	}
}

// SetOnElement registers the callback Parse uses when called with nil.
func (r *Reader) SetOnElement(fn OnElementFunc) {
	r.onElement = fn
}

// First validates the document header and returns the first element.
//
// A wrong magic or version fails with errs.ErrInvalidData and a nonzero
// compression byte with errs.ErrNotImplemented. On a memory reader First
// restarts from the beginning; other sources can only be started once.
//
// Returns:
//   - *Element: the first element, nil at end of document
//   - bool: true at end of document
//   - error: decode or grammar failure
func (r *Reader) First() (*Element, bool, error) {
	if r.started {
		if r.mem == nil {
			return nil, false, fmt.Errorf("%w: stream reader already started", errs.ErrInvalidObject)
		}
		r.mem.Rewind()
	}

	r.machine.Reset()
	r.err = nil
	r.started = true

	p, err := r.src.Next(format.HeaderSize)
	if err != nil {
		return nil, false, r.fail(err)
	}

	if err := r.header.Parse(p); err != nil {
		return nil, false, r.fail(err)
	}

	return r.Next()
}

// Next returns the following element. Once the top-level container has
// closed it returns a nil element and true without reading further.
func (r *Reader) Next() (*Element, bool, error) {
	if r.err != nil {
		return nil, false, fmt.Errorf("%w: %w", errs.ErrReaderFailed, r.err)
	}

	if !r.started {
		return nil, false, fmt.Errorf("%w: First must be called before Next", errs.ErrInvalidObject)
	}

	if r.machine.State() == grammar.Closed {
		return nil, true, nil
	}

	p, err := r.src.Next(1)
	if err != nil {
		return nil, false, r.fail(err)
	}

	e, err := r.decode(format.TypeTag(p[0]))
	if err != nil {
		return nil, false, r.fail(err)
	}

	return e, false, nil
}

func (r *Reader) decode(tag format.TypeTag) (*Element, error) {
	switch {
	case tag == format.TypeTerminator:
		b, err := r.machine.Terminator()
		if err != nil {
			return nil, err
		}

		return &Element{tag: tag, boundary: b}, nil

	case tag.IsContainer():
		if err := r.machine.Open(tag); err != nil {
			return nil, err
		}

		return &Element{tag: tag}, nil

	case tag.IsNull():
		if !tag.Base().IsAtomic() {
			return nil, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownTag, uint8(tag))
		}

		if err := r.machine.Value(tag); err != nil {
			return nil, err
		}

		return &Element{tag: tag.Base(), null: true}, nil

	case tag.IsAtomic():
		if err := r.machine.Check(tag); err != nil {
			return nil, err
		}

		e := &Element{tag: tag}
		if err := r.decodePayload(e); err != nil {
			_ = e.Release()
			return nil, err
		}
		r.machine.Accept(tag)

		return e, nil

	default:
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownTag, uint8(tag))
	}
}

func (r *Reader) decodePayload(e *Element) error {
	switch e.tag {
	case format.TypeString:
		return r.decodeString(e)
	case format.TypeBinary:
		return r.decodeBinary(e)
	}

	n := e.tag.PayloadSize()
	if n == 0 {
		return nil
	}

	p, err := r.src.Next(n)
	if err != nil {
		return err
	}
	copy(e.fixed[:], p)

	return nil
}

func (r *Reader) decodeString(e *Element) error {
	p, err := r.src.Next(wire.LenPrefixSize)
	if err != nil {
		return err
	}

	sub, count, err := wire.ParseStringPrefix(p)
	if err != nil {
		return err
	}
	e.sub, e.count = uint8(sub), count

	if err := r.readPayload(e, int64(count)*int64(sub.UnitSize())); err != nil {
		return err
	}

	if sub == format.StringC {
		return wire.CheckCString(e.payload.Bytes())
	}

	return nil
}

func (r *Reader) decodeBinary(e *Element) error {
	p, err := r.src.Next(wire.LenPrefixSize)
	if err != nil {
		return err
	}

	sub, count, err := wire.ParseBinaryPrefix(p)
	if err != nil {
		return err
	}
	e.sub, e.count = uint8(sub), count

	return r.readPayload(e, int64(count))
}

func (r *Reader) readPayload(e *Element, size int64) error {
	e.payload = pool.GetPayloadBuffer()
	return r.src.ReadPayload(e.payload, size)
}

// fail records err, which poisons the reader, and returns it as invalid
// data unless it is already classified as I/O or unsupported.
func (r *Reader) fail(err error) error {
	switch {
	case errors.Is(err, errs.ErrInvalidData),
		errors.Is(err, errs.ErrIO),
		errors.Is(err, errs.ErrNotImplemented):
	default:
		err = fmt.Errorf("%w: %w", errs.ErrInvalidData, err)
	}

	r.err = err
	r.logger.Debug().
		Err(err).
		Int64("offset", r.src.Offset()).
		Stringer("state", r.machine.State()).
		Int("depth", r.machine.Depth()).
		Msg("ujo reader failed")

	return err
}

// Err returns the error that stopped the reader, if any.
func (r *Reader) Err() error {
	return r.err
}

// Header returns the header read by First.
func (r *Reader) Header() section.Header {
	return r.header
}

// State returns the grammar state of the next element.
func (r *Reader) State() grammar.State {
	return r.machine.State()
}

// Depth returns the number of open containers.
func (r *Reader) Depth() int {
	return r.machine.Depth()
}

// Offset returns the number of bytes consumed.
func (r *Reader) Offset() int64 {
	return r.src.Offset()
}

// Reset points a memory reader at data and clears any earlier failure.
// The next call must be First.
func (r *Reader) Reset(data []byte) error {
	if r.mem == nil {
		return fmt.Errorf("%w: only a memory reader can be reset", errs.ErrInvalidObject)
	}

	r.mem.Reset(data)
	r.machine.Reset()
	r.header = section.Header{}
	r.started = false
	r.err = nil

	return nil
}

// Close closes the source when it supports that.
func (r *Reader) Close() error {
	if c, ok := r.src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrIO, err)
		}
	}

	return nil
}
