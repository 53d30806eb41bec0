package document

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/arloliu/ujo/errs"
	"github.com/arloliu/ujo/format"
	"github.com/arloliu/ujo/internal/grammar"
	"github.com/arloliu/ujo/internal/wire"
	"github.com/arloliu/ujo/section"
)

// Writer encodes one UJO document into a Sink.
//
// Every add and open first checks the grammar. A misplaced value fails with
// errs.ErrTypeMisplaced, a value that cannot be encoded fails with
// errs.ErrInvalidData, and a close in the wrong state fails with
// errs.ErrInvalidObject. None of these emit a byte or change the state.
//
// A sink failure is reported as errs.ErrIO after the grammar has already
// recorded the value, so the document cannot be completed afterwards.
//
// Note: The Writer is NOT thread-safe.
type Writer struct {
	cfg     *Config
	logger  zerolog.Logger
	sink    Sink
	mem     *MemorySink
	machine *grammar.Machine
	scratch []byte
	written int64
}

// NewWriter starts a document on sink and writes its header.
//
// Parameters:
//   - sink: destination of the encoded bytes
//   - opts: logger, buffer size and stack capacity
//
// Returns:
//   - *Writer: writer positioned before the top-level container
//   - error: an option error, or errs.ErrIO if the header cannot be written
func NewWriter(sink Sink, opts ...Option) (*Writer, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return newWriter(cfg, sink)
}

// NewMemoryWriter starts a document in a pooled memory buffer. Bytes
// returns the encoded document.
func NewMemoryWriter(opts ...Option) (*Writer, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	mem := NewMemorySink(cfg.bufferSize)
	w, err := newWriter(cfg, mem)
	if err != nil {
		mem.Release()
		return nil, err
	}
	w.mem = mem

	return w, nil
}

// CreateFileWriter starts a document in a new file at path. Close must be
// called to flush the file.
func CreateFileWriter(path string, opts ...Option) (*Writer, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	sink, err := CreateFileSink(path, cfg.bufferSize)
	if err != nil {
		return nil, err
	}

	w, err := newWriter(cfg, sink)
	if err != nil {
		_ = sink.Close()
		return nil, err
	}

	return w, nil
}

func newWriter(cfg *Config, sink Sink) (*Writer, error) {
	w := &Writer{
		cfg:     cfg,
		logger:  cfg.logger,
		sink:    sink,
		machine: grammar.NewMachine(cfg.stackCapacity),
		scratch: make([]byte, 0, 64),
	}

	if err := w.writeHeader(); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *Writer) writeHeader() error {
	w.scratch = section.NewHeader().AppendTo(w.scratch[:0])
	return w.flush()
}

// =============================================================================
// Containers
// =============================================================================

// ListOpen starts a list.
func (w *Writer) ListOpen() error {
	return w.open(format.TypeList)
}

// ListClose ends the innermost list.
func (w *Writer) ListClose() error {
	return w.close(format.TypeList)
}

// MapOpen starts a map. Keys and values then alternate, starting with a key.
func (w *Writer) MapOpen() error {
	return w.open(format.TypeMap)
}

// MapClose ends the innermost map. It fails when a key has no value.
func (w *Writer) MapClose() error {
	return w.close(format.TypeMap)
}

// TableOpen starts a table. Column names follow as strings, then
// TableEndColumns, then the cells row by row.
func (w *Writer) TableOpen() error {
	return w.open(format.TypeTable)
}

// TableEndColumns ends the column names of the current table. At least one
// column must have been written.
func (w *Writer) TableEndColumns() error {
	if err := w.machine.EndColumns(); err != nil {
		return w.reject(format.TypeTerminator, err)
	}

	w.scratch = wire.AppendTag(w.scratch[:0], format.TypeTerminator)

	return w.flush()
}

// TableClose ends the current table. It fails in the middle of a row.
func (w *Writer) TableClose() error {
	return w.close(format.TypeTable)
}

func (w *Writer) open(kind format.TypeTag) error {
	if err := w.machine.Open(kind); err != nil {
		return w.reject(kind, err)
	}

	w.scratch = wire.AppendTag(w.scratch[:0], kind)

	return w.flush()
}

func (w *Writer) close(kind format.TypeTag) error {
	if err := w.machine.Close(kind); err != nil {
		return w.reject(kind, err)
	}

	w.scratch = wire.AppendTag(w.scratch[:0], format.TypeTerminator)

	return w.flush()
}

// =============================================================================
// Atomics
// =============================================================================

func (w *Writer) AddInt8(v int8) error {
	if err := w.begin(format.TypeInt8); err != nil {
		return err
	}
	w.scratch = wire.AppendInt8(w.scratch[:0], v)

	return w.commit(format.TypeInt8)
}

func (w *Writer) AddInt16(v int16) error {
	if err := w.begin(format.TypeInt16); err != nil {
		return err
	}
	w.scratch = wire.AppendInt16(w.scratch[:0], v)

	return w.commit(format.TypeInt16)
}

func (w *Writer) AddInt32(v int32) error {
	if err := w.begin(format.TypeInt32); err != nil {
		return err
	}
	w.scratch = wire.AppendInt32(w.scratch[:0], v)

	return w.commit(format.TypeInt32)
}

func (w *Writer) AddInt64(v int64) error {
	if err := w.begin(format.TypeInt64); err != nil {
		return err
	}
	w.scratch = wire.AppendInt64(w.scratch[:0], v)

	return w.commit(format.TypeInt64)
}

func (w *Writer) AddUint8(v uint8) error {
	if err := w.begin(format.TypeUint8); err != nil {
		return err
	}
	w.scratch = wire.AppendUint8(w.scratch[:0], v)

	return w.commit(format.TypeUint8)
}

func (w *Writer) AddUint16(v uint16) error {
	if err := w.begin(format.TypeUint16); err != nil {
		return err
	}
	w.scratch = wire.AppendUint16(w.scratch[:0], v)

	return w.commit(format.TypeUint16)
}

func (w *Writer) AddUint32(v uint32) error {
	if err := w.begin(format.TypeUint32); err != nil {
		return err
	}
	w.scratch = wire.AppendUint32(w.scratch[:0], v)

	return w.commit(format.TypeUint32)
}

func (w *Writer) AddUint64(v uint64) error {
	if err := w.begin(format.TypeUint64); err != nil {
		return err
	}
	w.scratch = wire.AppendUint64(w.scratch[:0], v)

	return w.commit(format.TypeUint64)
}

// AddFloat16 packs v to half precision. A value that would become infinite
// or NaN as a half is rejected with errs.ErrInvalidData.
func (w *Writer) AddFloat16(v float32) error {
	if err := w.begin(format.TypeFloat16); err != nil {
		return err
	}

	buf, err := wire.AppendFloat16(w.scratch[:0], v)
	if err != nil {
		return w.reject(format.TypeFloat16, err)
	}
	w.scratch = buf

	return w.commit(format.TypeFloat16)
}

// AddFloat32 accepts any IEEE value, including NaN and infinities.
func (w *Writer) AddFloat32(v float32) error {
	if err := w.begin(format.TypeFloat32); err != nil {
		return err
	}
	w.scratch = wire.AppendFloat32(w.scratch[:0], v)

	return w.commit(format.TypeFloat32)
}

// AddFloat64 accepts any IEEE value, including NaN and infinities.
func (w *Writer) AddFloat64(v float64) error {
	if err := w.begin(format.TypeFloat64); err != nil {
		return err
	}
	w.scratch = wire.AppendFloat64(w.scratch[:0], v)

	return w.commit(format.TypeFloat64)
}

func (w *Writer) AddBool(v bool) error {
	if err := w.begin(format.TypeBool); err != nil {
		return err
	}
	w.scratch = wire.AppendBool(w.scratch[:0], v)

	return w.commit(format.TypeBool)
}

// AddNone writes the payload-less none value.
func (w *Writer) AddNone() error {
	if err := w.begin(format.TypeNone); err != nil {
		return err
	}
	w.scratch = wire.AppendNone(w.scratch[:0])

	return w.commit(format.TypeNone)
}

// AddNull writes an empty value of the atomic type tag. The grammar treats
// it like a value of that type, so a null string may name a table column.
func (w *Writer) AddNull(tag format.TypeTag) error {
	tag = tag.Base()
	if !tag.IsAtomic() {
		// Containers and the terminator have no null form; report that
		// rather than a grammar error.
		_, err := wire.AppendNull(nil, tag)
		return w.reject(tag, err)
	}

	if err := w.begin(tag); err != nil {
		return err
	}

	buf, err := wire.AppendNull(w.scratch[:0], tag)
	if err != nil {
		return w.reject(tag, err)
	}
	w.scratch = buf

	return w.commit(tag)
}

// AddUnixTime writes seconds since the Unix epoch.
func (w *Writer) AddUnixTime(sec int64) error {
	if err := w.begin(format.TypeUnixTime); err != nil {
		return err
	}
	w.scratch = wire.AppendUnixTime(w.scratch[:0], sec)

	return w.commit(format.TypeUnixTime)
}

// AddDate writes the year, month and day of dt.
func (w *Writer) AddDate(dt DateTime) error {
	if err := w.begin(format.TypeDate); err != nil {
		return err
	}
	w.scratch = wire.AppendDate(w.scratch[:0], dt)

	return w.commit(format.TypeDate)
}

// AddTime writes the hour, minute and second of dt.
func (w *Writer) AddTime(dt DateTime) error {
	if err := w.begin(format.TypeTime); err != nil {
		return err
	}
	w.scratch = wire.AppendTime(w.scratch[:0], dt)

	return w.commit(format.TypeTime)
}

// AddTimestamp writes every field of dt, down to the millisecond.
func (w *Writer) AddTimestamp(dt DateTime) error {
	if err := w.begin(format.TypeTimestamp); err != nil {
		return err
	}
	w.scratch = wire.AppendTimestamp(w.scratch[:0], dt)

	return w.commit(format.TypeTimestamp)
}

// =============================================================================
// Strings and binaries
// =============================================================================

// AddStringC writes s as a zero terminated string. s must not contain a
// zero byte.
func (w *Writer) AddStringC(s string) error {
	return w.addEncoded(format.TypeString, func(buf []byte) ([]byte, error) {
		return wire.AppendStringC(buf, s)
	})
}

// AddStringUTF8 writes s as UTF-8.
func (w *Writer) AddStringUTF8(s string) error {
	return w.addEncoded(format.TypeString, func(buf []byte) ([]byte, error) {
		return wire.AppendStringUTF8(buf, s)
	})
}

// AddStringUTF16 writes UTF-16 code units.
func (w *Writer) AddStringUTF16(units []uint16) error {
	return w.addEncoded(format.TypeString, func(buf []byte) ([]byte, error) {
		return wire.AppendStringUTF16(buf, units)
	})
}

// AddStringUTF32 writes UTF-32 code units.
func (w *Writer) AddStringUTF32(units []rune) error {
	return w.addEncoded(format.TypeString, func(buf []byte) ([]byte, error) {
		return wire.AppendStringUTF32(buf, units)
	})
}

// AddBinary writes data with the given subtype.
func (w *Writer) AddBinary(sub format.BinaryType, data []byte) error {
	return w.addEncoded(format.TypeBinary, func(buf []byte) ([]byte, error) {
		return wire.AppendBinary(buf, sub, data)
	})
}

func (w *Writer) addEncoded(tag format.TypeTag, encode func([]byte) ([]byte, error)) error {
	if err := w.begin(tag); err != nil {
		return err
	}

	buf, err := encode(w.scratch[:0])
	if err != nil {
		return w.reject(tag, err)
	}
	w.scratch = buf

	return w.commit(tag)
}

// =============================================================================
// Emission
// =============================================================================

func (w *Writer) begin(tag format.TypeTag) error {
	if err := w.machine.Check(tag); err != nil {
		return w.reject(tag, err)
	}

	return nil
}

func (w *Writer) commit(tag format.TypeTag) error {
	w.machine.Accept(tag)
	return w.flush()
}

func (w *Writer) flush() error {
	if err := w.sink.Append(w.scratch); err != nil {
		err = fmt.Errorf("%w: %w", errs.ErrIO, err)
		w.logger.Debug().Err(err).Int64("offset", w.written).Msg("ujo writer sink failed")

		return err
	}
	w.written += int64(len(w.scratch))

	return nil
}

func (w *Writer) reject(tag format.TypeTag, err error) error {
	w.logger.Debug().
		Err(err).
		Stringer("tag", tag).
		Stringer("state", w.machine.State()).
		Int("depth", w.machine.Depth()).
		Msg("ujo writer rejected value")

	return err
}

// =============================================================================
// Introspection and lifecycle
// =============================================================================

// State returns the grammar state of the next value.
func (w *Writer) State() grammar.State {
	return w.machine.State()
}

// Depth returns the number of open containers.
func (w *Writer) Depth() int {
	return w.machine.Depth()
}

// Done reports whether the top-level container has been closed.
func (w *Writer) Done() bool {
	return w.machine.State() == grammar.Closed
}

// Len returns the number of bytes handed to the sink, header included.
func (w *Writer) Len() int64 {
	return w.written
}

// Bytes returns the document of a memory writer, or nil for other sinks.
// The slice is valid until the next write, Reset or Close.
func (w *Writer) Bytes() []byte {
	if w.mem == nil {
		return nil
	}

	return w.mem.Bytes()
}

// WriteTo copies the document built so far to dst. Only memory writers
// support it; other writers already hand every byte to their sink.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	if w.mem == nil {
		return 0, fmt.Errorf("%w: writer has no memory buffer", errs.ErrInvalidObject)
	}

	return w.mem.WriteTo(dst)
}

// Reset discards the document of a memory writer and starts a new one.
func (w *Writer) Reset() error {
	if w.mem == nil {
		return fmt.Errorf("%w: only a memory writer can be reset", errs.ErrInvalidObject)
	}

	w.mem.Reset()
	w.machine.Reset()
	w.written = 0

	return w.writeHeader()
}

// Close flushes and closes the sink when it supports that and releases the
// buffer of a memory writer. It does not check that the document is
// complete; use Done for that.
func (w *Writer) Close() error {
	if w.mem != nil {
		w.mem.Release()
		w.mem = nil
		w.sink = releasedSink{}

		return nil
	}

	if c, ok := w.sink.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrIO, err)
		}
	}

	return nil
}

type releasedSink struct{}

func (releasedSink) Append([]byte) error {
	return fmt.Errorf("%w: writer closed", errs.ErrInvalidObject)
}
