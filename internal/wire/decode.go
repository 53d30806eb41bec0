package wire

import (
	"fmt"
	"math"

	"github.com/arloliu/ujo/errs"
	"github.com/arloliu/ujo/format"
)

// LenPrefixSize is the size of the subtype byte plus the u32 count that
// precede string and binary payloads.
const LenPrefixSize = 5

// The fixed-width decoders below expect p to hold at least the payload
// width of their tag, which the caller establishes with
// format.TypeTag.PayloadSize.

func Int8(p []byte) int8   { return int8(p[0]) } //nolint:gosec
func Int16(p []byte) int16 { return int16(engine.Uint16(p)) } //nolint:gosec
func Int32(p []byte) int32 { return int32(engine.Uint32(p)) } //nolint:gosec
func Int64(p []byte) int64 { return int64(engine.Uint64(p)) } //nolint:gosec

func Uint8(p []byte) uint8   { return p[0] }
func Uint16(p []byte) uint16 { return engine.Uint16(p) }
func Uint32(p []byte) uint32 { return engine.Uint32(p) }
func Uint64(p []byte) uint64 { return engine.Uint64(p) }

func Float32(p []byte) float32 { return math.Float32frombits(engine.Uint32(p)) }
func Float64(p []byte) float64 { return math.Float64frombits(engine.Uint64(p)) }

// Bool treats any nonzero byte as true.
func Bool(p []byte) bool { return p[0] != 0 }

func Date(p []byte) format.DateTime {
	return format.DateTime{
		Year:  int16(engine.Uint16(p[0:2])), //nolint:gosec
		Month: p[2],
		Day:   p[3],
	}
}

func Time(p []byte) format.DateTime {
	return format.DateTime{Hour: p[0], Minute: p[1], Second: p[2]}
}

func Timestamp(p []byte) format.DateTime {
	dt := Date(p[0:4])
	dt.Hour, dt.Minute, dt.Second = p[4], p[5], p[6]
	dt.Millisecond = engine.Uint16(p[7:9])

	return dt
}

// ParseStringPrefix decodes the subtype and unit count of a string.
func ParseStringPrefix(p []byte) (format.StringType, uint32, error) {
	sub := format.StringType(p[0])
	if sub.UnitSize() == 0 {
		return 0, 0, fmt.Errorf("%w: string subtype 0x%02x", errs.ErrUnknownSubtype, p[0])
	}

	return sub, engine.Uint32(p[1:5]), nil
}

// ParseBinaryPrefix decodes the subtype and byte count of a binary.
func ParseBinaryPrefix(p []byte) (format.BinaryType, uint32, error) {
	sub := format.BinaryType(p[0])
	if sub != format.BinaryGeneric && sub != format.BinaryUJO && !sub.IsApplication() {
		return 0, 0, fmt.Errorf("%w: binary subtype 0x%02x", errs.ErrUnknownSubtype, p[0])
	}

	return sub, engine.Uint32(p[1:5]), nil
}

// CheckCString verifies that a C string payload ends with its zero unit.
func CheckCString(units []byte) error {
	if len(units) == 0 || units[len(units)-1] != 0 {
		return fmt.Errorf("%w: C string without terminating zero", errs.ErrInvalidData)
	}

	return nil
}

// UTF16Units decodes little-endian units from p into dst, which must hold
// len(p)/2 units.
func UTF16Units(p []byte, dst []uint16) {
	for i := range dst {
		dst[i] = engine.Uint16(p[2*i:])
	}
}

// UTF32Units decodes little-endian units from p into dst, which must hold
// len(p)/4 units.
func UTF32Units(p []byte, dst []rune) {
	for i := range dst {
		dst[i] = rune(engine.Uint32(p[4*i:])) //nolint:gosec
	}
}
