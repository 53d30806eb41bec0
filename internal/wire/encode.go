// Package wire encodes and decodes the UJO value encodings.
//
// Encoders append a complete value (tag plus payload) to a byte slice and
// never touch the slice when they fail, so callers can validate a value
// before any byte reaches a sink. Decoders read payloads whose length the
// caller has already established.
package wire

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/ujo/endian"
	"github.com/arloliu/ujo/errs"
	"github.com/arloliu/ujo/format"
)

// MaxPayloadLen is the largest unit or byte count a length prefix holds.
const MaxPayloadLen = math.MaxUint32

var engine = endian.GetWireEngine()

// AppendTag appends a bare tag: a container open or a terminator.
func AppendTag(buf []byte, tag format.TypeTag) []byte {
	return append(buf, byte(tag))
}

func AppendInt8(buf []byte, v int8) []byte {
	return append(buf, byte(format.TypeInt8), byte(v))
}

func AppendInt16(buf []byte, v int16) []byte {
	return engine.AppendUint16(append(buf, byte(format.TypeInt16)), uint16(v)) //nolint:gosec
}

func AppendInt32(buf []byte, v int32) []byte {
	return engine.AppendUint32(append(buf, byte(format.TypeInt32)), uint32(v)) //nolint:gosec
}

func AppendInt64(buf []byte, v int64) []byte {
	return engine.AppendUint64(append(buf, byte(format.TypeInt64)), uint64(v)) //nolint:gosec
}

func AppendUint8(buf []byte, v uint8) []byte {
	return append(buf, byte(format.TypeUint8), v)
}

func AppendUint16(buf []byte, v uint16) []byte {
	return engine.AppendUint16(append(buf, byte(format.TypeUint16)), v)
}

func AppendUint32(buf []byte, v uint32) []byte {
	return engine.AppendUint32(append(buf, byte(format.TypeUint32)), v)
}

func AppendUint64(buf []byte, v uint64) []byte {
	return engine.AppendUint64(append(buf, byte(format.TypeUint64)), v)
}

// AppendFloat16 appends f packed to half precision. It fails with invalid
// data when the half would be infinite or NaN.
func AppendFloat16(buf []byte, f float32) ([]byte, error) {
	bits, err := Float16Bits(f)
	if err != nil {
		return buf, err
	}

	return engine.AppendUint16(append(buf, byte(format.TypeFloat16)), bits), nil
}

func AppendFloat32(buf []byte, f float32) []byte {
	return engine.AppendUint32(append(buf, byte(format.TypeFloat32)), math.Float32bits(f))
}

func AppendFloat64(buf []byte, f float64) []byte {
	return engine.AppendUint64(append(buf, byte(format.TypeFloat64)), math.Float64bits(f))
}

func AppendBool(buf []byte, v bool) []byte {
	var b byte
	if v {
		b = 1
	}

	return append(buf, byte(format.TypeBool), b)
}

func AppendNone(buf []byte) []byte {
	return append(buf, byte(format.TypeNone))
}

// AppendNull appends tag with the null flag and no payload. Only atomic
// tags have a null form.
func AppendNull(buf []byte, tag format.TypeTag) ([]byte, error) {
	if !tag.Base().IsAtomic() {
		return buf, fmt.Errorf("%w: %s has no null form", errs.ErrInvalidData, tag)
	}

	return append(buf, byte(tag|format.NullFlag)), nil
}

// AppendUnixTime appends seconds since the epoch.
func AppendUnixTime(buf []byte, sec int64) []byte {
	return engine.AppendUint64(append(buf, byte(format.TypeUnixTime)), uint64(sec)) //nolint:gosec
}

func AppendDate(buf []byte, dt format.DateTime) []byte {
	return appendDateFields(append(buf, byte(format.TypeDate)), dt)
}

func AppendTime(buf []byte, dt format.DateTime) []byte {
	return appendClockFields(append(buf, byte(format.TypeTime)), dt)
}

func AppendTimestamp(buf []byte, dt format.DateTime) []byte {
	buf = appendDateFields(append(buf, byte(format.TypeTimestamp)), dt)
	buf = appendClockFields(buf, dt)

	return engine.AppendUint16(buf, dt.Millisecond)
}

func appendDateFields(buf []byte, dt format.DateTime) []byte {
	buf = engine.AppendUint16(buf, uint16(dt.Year)) //nolint:gosec
	return append(buf, dt.Month, dt.Day)
}

func appendClockFields(buf []byte, dt format.DateTime) []byte {
	return append(buf, dt.Hour, dt.Minute, dt.Second)
}

// AppendStringC appends s as a zero terminated string. The unit count
// includes the terminator, and s itself must not contain a zero byte.
func AppendStringC(buf []byte, s string) ([]byte, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return buf, fmt.Errorf("%w: C string has a zero byte at offset %d", errs.ErrInvalidData, i)
	}

	if err := checkLen(len(s) + 1); err != nil {
		return buf, err
	}

	buf = appendStringHeader(buf, format.StringC, len(s)+1)
	buf = append(buf, s...)

	return append(buf, 0), nil
}

// AppendStringUTF8 appends s as UTF-8 bytes. The bytes are not validated.
func AppendStringUTF8(buf []byte, s string) ([]byte, error) {
	if err := checkLen(len(s)); err != nil {
		return buf, err
	}

	buf = appendStringHeader(buf, format.StringUTF8, len(s))

	return append(buf, s...), nil
}

// AppendStringUTF16 appends UTF-16 code units, each little-endian.
func AppendStringUTF16(buf []byte, units []uint16) ([]byte, error) {
	if err := checkLen(len(units)); err != nil {
		return buf, err
	}

	buf = appendStringHeader(buf, format.StringUTF16, len(units))
	for _, u := range units {
		buf = engine.AppendUint16(buf, u)
	}

	return buf, nil
}

// AppendStringUTF32 appends UTF-32 code units, each little-endian.
func AppendStringUTF32(buf []byte, units []rune) ([]byte, error) {
	if err := checkLen(len(units)); err != nil {
		return buf, err
	}

	buf = appendStringHeader(buf, format.StringUTF32, len(units))
	for _, u := range units {
		buf = engine.AppendUint32(buf, uint32(u)) //nolint:gosec
	}

	return buf, nil
}

// AppendBinary appends a blob with its subtype.
func AppendBinary(buf []byte, sub format.BinaryType, data []byte) ([]byte, error) {
	if err := checkLen(len(data)); err != nil {
		return buf, err
	}

	buf = append(buf, byte(format.TypeBinary), byte(sub))
	buf = engine.AppendUint32(buf, uint32(len(data))) //nolint:gosec

	return append(buf, data...), nil
}

func appendStringHeader(buf []byte, sub format.StringType, count int) []byte {
	buf = append(buf, byte(format.TypeString), byte(sub))
	return engine.AppendUint32(buf, uint32(count)) //nolint:gosec
}

func checkLen(n int) error {
	if uint64(n) > MaxPayloadLen {
		return fmt.Errorf("%w: payload of %d units exceeds the length prefix", errs.ErrInvalidData, n)
	}

	return nil
}
