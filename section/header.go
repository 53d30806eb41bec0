package section

import (
	"fmt"

	"github.com/arloliu/ujo/endian"
	"github.com/arloliu/ujo/errs"
	"github.com/arloliu/ujo/format"
)

// Header is the fixed 7-byte prefix of every UJO document.
//
// Layout:
//
//	Bytes | Field       | Type   | Value
//	------|-------------|--------|---------
//	0-3   | Magic       | [4]u8  | "_UJO"
//	4-5   | Version     | uint16 | 0x0001
//	6     | Compression | uint8  | 0x00
type Header struct {
	Magic       [4]byte
	Version     uint16
	Compression format.CompressionType
}

// NewHeader returns the header written by every current encoder.
func NewHeader() Header {
	h := Header{
		Version:     format.DataVersion,
		Compression: format.CompressionNone,
	}
	copy(h.Magic[:], format.Magic)

	return h
}

// Parse decodes and validates the header from the first HeaderSize bytes
// of data. Extra trailing bytes are ignored.
//
// Returns:
//   - errs.ErrInvalidHeaderSize if data is shorter than the header
//   - errs.ErrInvalidMagicNumber or errs.ErrUnsupportedVersion (both invalid data)
//   - errs.ErrUnsupportedCompression (not implemented) for a nonzero compression byte
func (h *Header) Parse(data []byte) error {
	if len(data) < format.HeaderSize {
		return fmt.Errorf("%w: got %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	engine := endian.GetWireEngine()

	copy(h.Magic[:], data[0:4])
	h.Version = engine.Uint16(data[4:6])
	h.Compression = format.CompressionType(data[6])

	return h.Validate()
}

// Validate checks the magic, version and compression fields.
func (h *Header) Validate() error {
	if string(h.Magic[:]) != format.Magic {
		return fmt.Errorf("%w: %q", errs.ErrInvalidMagicNumber, h.Magic[:])
	}

	if h.Version != format.DataVersion {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, h.Version)
	}

	if h.Compression != format.CompressionNone {
		return fmt.Errorf("%w: 0x%02x", errs.ErrUnsupportedCompression, uint8(h.Compression))
	}

	return nil
}

// AppendTo appends the encoded header to buf.
func (h Header) AppendTo(buf []byte) []byte {
	buf = append(buf, h.Magic[:]...)
	buf = endian.GetWireEngine().AppendUint16(buf, h.Version)

	return append(buf, byte(h.Compression))
}

// Bytes returns the encoded header.
func (h Header) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, format.HeaderSize))
}
