package document

import (
	"fmt"
	"unicode/utf16"

	"github.com/arloliu/ujo/errs"
	"github.com/arloliu/ujo/format"
	"github.com/arloliu/ujo/internal/grammar"
	"github.com/arloliu/ujo/internal/pool"
	"github.com/arloliu/ujo/internal/wire"
)

// Element is one decoded item of a document: an atomic value, a container
// open, or a terminator.
//
// The caller owns an element until it calls Release. String and binary
// accessors return views into the element's payload, which stay valid
// until then. Any use after Release fails with errs.ErrInvalidObject.
type Element struct {
	tag      format.TypeTag
	null     bool
	boundary grammar.Boundary
	fixed    [9]byte
	sub      uint8
	count    uint32
	payload  *pool.ByteBuffer
	released bool
}

// Release returns the element's payload storage for reuse. A second
// Release fails with errs.ErrInvalidObject.
func (e *Element) Release() error {
	if e.released {
		return errs.ErrElementReleased
	}

	e.released = true
	if e.payload != nil {
		pool.PutPayloadBuffer(e.payload)
		e.payload = nil
	}

	return nil
}

// Released reports whether Release has been called.
func (e *Element) Released() bool {
	return e.released
}

// Type returns the element's tag. Typed nulls report their base type.
func (e *Element) Type() format.TypeTag {
	return e.tag
}

// IsNull reports whether the element is a typed empty value.
func (e *Element) IsNull() bool {
	return e.null
}

// IsContainer reports whether the element opens a list, map or table.
func (e *Element) IsContainer() bool {
	return e.tag.IsContainer()
}

// IsTerminator reports whether the element is a terminator.
func (e *Element) IsTerminator() bool {
	return e.tag == format.TypeTerminator
}

// Closes returns the container kind a terminator closed, or TypeTerminator
// when it ended a table's column names. Other elements return TypeTerminator.
func (e *Element) Closes() format.TypeTag {
	return e.boundary.Container()
}

// EndsColumns reports whether the element is the terminator after a
// table's column names.
func (e *Element) EndsColumns() bool {
	return e.boundary == grammar.BoundaryColumns
}

// StringType returns the subtype of a string element.
func (e *Element) StringType() (format.StringType, error) {
	if err := e.check(format.TypeString); err != nil {
		return 0, err
	}

	return format.StringType(e.sub), nil
}

// BinaryType returns the subtype of a binary element.
func (e *Element) BinaryType() (format.BinaryType, error) {
	if err := e.check(format.TypeBinary); err != nil {
		return 0, err
	}

	return format.BinaryType(e.sub), nil
}

// Count returns the unit count of a string or the byte count of a binary.
// C string counts include the terminating zero.
func (e *Element) Count() uint32 {
	return e.count
}

// =============================================================================
// Fixed-width accessors
// =============================================================================

func (e *Element) Int8() (int8, error) {
	if err := e.check(format.TypeInt8); err != nil {
		return 0, err
	}

	return wire.Int8(e.fixed[:]), nil
}

func (e *Element) Int16() (int16, error) {
	if err := e.check(format.TypeInt16); err != nil {
		return 0, err
	}

	return wire.Int16(e.fixed[:]), nil
}

func (e *Element) Int32() (int32, error) {
	if err := e.check(format.TypeInt32); err != nil {
		return 0, err
	}

	return wire.Int32(e.fixed[:]), nil
}

func (e *Element) Int64() (int64, error) {
	if err := e.check(format.TypeInt64); err != nil {
		return 0, err
	}

	return wire.Int64(e.fixed[:]), nil
}

func (e *Element) Uint8() (uint8, error) {
	if err := e.check(format.TypeUint8); err != nil {
		return 0, err
	}

	return wire.Uint8(e.fixed[:]), nil
}

func (e *Element) Uint16() (uint16, error) {
	if err := e.check(format.TypeUint16); err != nil {
		return 0, err
	}

	return wire.Uint16(e.fixed[:]), nil
}

func (e *Element) Uint32() (uint32, error) {
	if err := e.check(format.TypeUint32); err != nil {
		return 0, err
	}

	return wire.Uint32(e.fixed[:]), nil
}

func (e *Element) Uint64() (uint64, error) {
	if err := e.check(format.TypeUint64); err != nil {
		return 0, err
	}

	return wire.Uint64(e.fixed[:]), nil
}

// Float16 returns the half-precision value widened to float32.
func (e *Element) Float16() (float32, error) {
	bits, err := e.Float16Bits()
	if err != nil {
		return 0, err
	}

	return wire.Float16Value(bits), nil
}

// Float16Bits returns the raw IEEE-754 binary16 bits.
func (e *Element) Float16Bits() (uint16, error) {
	if err := e.check(format.TypeFloat16); err != nil {
		return 0, err
	}

	return wire.Uint16(e.fixed[:]), nil
}

func (e *Element) Float32() (float32, error) {
	if err := e.check(format.TypeFloat32); err != nil {
		return 0, err
	}

	return wire.Float32(e.fixed[:]), nil
}

func (e *Element) Float64() (float64, error) {
	if err := e.check(format.TypeFloat64); err != nil {
		return 0, err
	}

	return wire.Float64(e.fixed[:]), nil
}

func (e *Element) Bool() (bool, error) {
	if err := e.check(format.TypeBool); err != nil {
		return false, err
	}

	return wire.Bool(e.fixed[:]), nil
}

// UnixTime returns seconds since the Unix epoch.
func (e *Element) UnixTime() (int64, error) {
	if err := e.check(format.TypeUnixTime); err != nil {
		return 0, err
	}

	return wire.Int64(e.fixed[:]), nil
}

// Date returns the date fields; the time fields are zero.
func (e *Element) Date() (DateTime, error) {
	if err := e.check(format.TypeDate); err != nil {
		return DateTime{}, err
	}

	return wire.Date(e.fixed[:]), nil
}

// Time returns the time-of-day fields; the date fields are zero.
func (e *Element) Time() (DateTime, error) {
	if err := e.check(format.TypeTime); err != nil {
		return DateTime{}, err
	}

	return wire.Time(e.fixed[:]), nil
}

func (e *Element) Timestamp() (DateTime, error) {
	if err := e.check(format.TypeTimestamp); err != nil {
		return DateTime{}, err
	}

	return wire.Timestamp(e.fixed[:]), nil
}

// =============================================================================
// String and binary accessors
// =============================================================================

// StringC returns the bytes of a C string without its terminating zero.
func (e *Element) StringC() ([]byte, error) {
	units, err := e.stringUnits(format.StringC)
	if err != nil {
		return nil, err
	}

	return units[:len(units)-1], nil
}

// StringUTF8 returns the bytes of a UTF-8 string.
func (e *Element) StringUTF8() ([]byte, error) {
	return e.stringUnits(format.StringUTF8)
}

// StringUTF16 returns a copy of the code units of a UTF-16 string.
func (e *Element) StringUTF16() ([]uint16, error) {
	raw, err := e.stringUnits(format.StringUTF16)
	if err != nil {
		return nil, err
	}

	units := make([]uint16, e.count)
	wire.UTF16Units(raw, units)

	return units, nil
}

// StringUTF32 returns a copy of the code units of a UTF-32 string.
func (e *Element) StringUTF32() ([]rune, error) {
	raw, err := e.stringUnits(format.StringUTF32)
	if err != nil {
		return nil, err
	}

	units := make([]rune, e.count)
	wire.UTF32Units(raw, units)

	return units, nil
}

// RawString returns the subtype and the undecoded units of a string of
// any subtype. Wide units are little-endian.
func (e *Element) RawString() (format.StringType, []byte, error) {
	if err := e.check(format.TypeString); err != nil {
		return 0, nil, err
	}

	return format.StringType(e.sub), e.payload.Bytes(), nil
}

// Text decodes a string of any subtype into a Go string. Invalid UTF-16
// or UTF-32 units become U+FFFD.
func (e *Element) Text() (string, error) {
	sub, raw, err := e.RawString()
	if err != nil {
		return "", err
	}

	switch sub {
	case format.StringC:
		return string(raw[:len(raw)-1]), nil
	case format.StringUTF16:
		units, cleanup := pool.GetUint16Slice(int(e.count))
		defer cleanup()
		wire.UTF16Units(raw, units)

		return string(utf16.Decode(units)), nil
	case format.StringUTF32:
		runes, cleanup := pool.GetRuneSlice(int(e.count))
		defer cleanup()
		wire.UTF32Units(raw, runes)

		return string(runes), nil
	default:
		return string(raw), nil
	}
}

// Binary returns the subtype and bytes of a binary element.
func (e *Element) Binary() (format.BinaryType, []byte, error) {
	if err := e.check(format.TypeBinary); err != nil {
		return 0, nil, err
	}

	return format.BinaryType(e.sub), e.payload.Bytes(), nil
}

// Value returns the element as a Go value that owns its data:
//
//	integers, bools    int8 ... uint64, bool
//	float16            Float16
//	float32, float64   float32, float64
//	strings            string (any subtype)
//	binary             Binary
//	none               nil
//	unixtime           UnixTime
//	date, time         Date, TimeOfDay
//	timestamp          Timestamp
//	typed null         Null
//
// Containers and terminators return their tag.
func (e *Element) Value() (any, error) {
	if e.released {
		return nil, errs.ErrElementReleased
	}

	if e.null {
		return Null{Type: e.tag}, nil
	}

	switch e.tag {
	case format.TypeInt8:
		return e.Int8()
	case format.TypeInt16:
		return e.Int16()
	case format.TypeInt32:
		return e.Int32()
	case format.TypeInt64:
		return e.Int64()
	case format.TypeUint8:
		return e.Uint8()
	case format.TypeUint16:
		return e.Uint16()
	case format.TypeUint32:
		return e.Uint32()
	case format.TypeUint64:
		return e.Uint64()
	case format.TypeFloat16:
		f, err := e.Float16()
		return Float16(f), err
	case format.TypeFloat32:
		return e.Float32()
	case format.TypeFloat64:
		return e.Float64()
	case format.TypeBool:
		return e.Bool()
	case format.TypeNone:
		return nil, nil
	case format.TypeUnixTime:
		sec, err := e.UnixTime()
		return UnixTime(sec), err
	case format.TypeDate:
		dt, err := e.Date()
		return Date(dt), err
	case format.TypeTime:
		dt, err := e.Time()
		return TimeOfDay(dt), err
	case format.TypeTimestamp:
		dt, err := e.Timestamp()
		return Timestamp(dt), err
	case format.TypeString:
		return e.Text()
	case format.TypeBinary:
		sub, data, err := e.Binary()
		if err != nil {
			return nil, err
		}

		return Binary{Type: sub, Data: append([]byte(nil), data...)}, nil
	default:
		return e.tag, nil
	}
}

func (e *Element) String() string {
	switch {
	case e.released:
		return "<released>"
	case e.null:
		return "null(" + e.tag.String() + ")"
	case e.tag == format.TypeTerminator:
		return "end(" + e.boundary.String() + ")"
	case e.tag.IsContainer():
		return e.tag.String()
	}

	v, err := e.Value()
	if err != nil {
		return fmt.Sprintf("%s(<%v>)", e.tag, err)
	}

	return fmt.Sprintf("%s(%v)", e.tag, v)
}

func (e *Element) stringUnits(sub format.StringType) ([]byte, error) {
	if err := e.check(format.TypeString); err != nil {
		return nil, err
	}

	if format.StringType(e.sub) != sub {
		return nil, fmt.Errorf("%w: string is %s, not %s", errs.ErrTypeMismatch, format.StringType(e.sub), sub)
	}

	return e.payload.Bytes(), nil
}

func (e *Element) check(tag format.TypeTag) error {
	if e.released {
		return errs.ErrElementReleased
	}

	if e.tag != tag {
		return fmt.Errorf("%w: element is %s, not %s", errs.ErrTypeMismatch, e.tag, tag)
	}

	if e.null {
		return fmt.Errorf("%w: %s", errs.ErrNullValue, tag)
	}

	return nil
}
