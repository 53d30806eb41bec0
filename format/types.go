package format

import "fmt"

type (
	// TypeTag is the single byte that prefixes every value on the wire.
	TypeTag uint8
	// StringType selects the unit width of a string payload.
	StringType uint8
	// BinaryType classifies the content of a binary payload.
	BinaryType uint8
	// CompressionType is the compression byte of the document header.
	CompressionType uint8
)

const (
	TypeTerminator TypeTag = 0x00 // TypeTerminator closes a container or ends a table's column set.

	TypeFloat64   TypeTag = 0x01 // TypeFloat64 is an IEEE-754 double.
	TypeFloat32   TypeTag = 0x02 // TypeFloat32 is an IEEE-754 single.
	TypeFloat16   TypeTag = 0x03 // TypeFloat16 is an IEEE-754 half.
	TypeString    TypeTag = 0x04 // TypeString is a string with a StringType subtype.
	TypeInt64     TypeTag = 0x05
	TypeInt32     TypeTag = 0x06
	TypeInt16     TypeTag = 0x07
	TypeInt8      TypeTag = 0x08
	TypeUint64    TypeTag = 0x09
	TypeUint32    TypeTag = 0x0A
	TypeUint16    TypeTag = 0x0B
	TypeUint8     TypeTag = 0x0C
	TypeBool      TypeTag = 0x0D
	TypeBinary    TypeTag = 0x0E // TypeBinary is a byte blob with a BinaryType subtype.
	TypeNone      TypeTag = 0x0F // TypeNone carries no payload.
	TypeUnixTime  TypeTag = 0x10 // TypeUnixTime is seconds since the epoch as int64.
	TypeDate      TypeTag = 0x11
	TypeTime      TypeTag = 0x12
	TypeTimestamp TypeTag = 0x13

	TypeList  TypeTag = 0x30
	TypeMap   TypeTag = 0x31
	TypeTable TypeTag = 0x32

	// NullFlag is OR-ed onto an atomic tag to mark a typed empty value.
	NullFlag TypeTag = 0x80
)

const (
	StringC     StringType = 0x00 // StringC is a zero terminated 8-bit string.
	StringUTF8  StringType = 0x01
	StringUTF16 StringType = 0x02
	StringUTF32 StringType = 0x03
)

const (
	BinaryGeneric BinaryType = 0x00 // BinaryGeneric is opaque application data.
	BinaryUJO     BinaryType = 0x01 // BinaryUJO is an embedded UJO document.

	// BinaryApplication is the first subtype of the range reserved for applications.
	BinaryApplication BinaryType = 0x80
)

const (
	CompressionNone CompressionType = 0x00 // CompressionNone is the only supported compression.
)

// Document header constants.
const (
	Magic       = "_UJO"
	DataVersion = uint16(0x0001)
	HeaderSize  = 7 // magic[4] + version:u16 + compression:u8
)

// Library and API version numbers.
const (
	LibraryVersion = 901 // 0.9.1
	APIVersion     = 101 // 1.1
)

// IsAtomic reports whether t is a scalar value tag.
func (t TypeTag) IsAtomic() bool {
	return t >= TypeFloat64 && t <= TypeTimestamp
}

// IsContainer reports whether t opens a list, map or table.
func (t TypeTag) IsContainer() bool {
	return t == TypeList || t == TypeMap || t == TypeTable
}

// IsNull reports whether t carries the typed-empty flag.
func (t TypeTag) IsNull() bool {
	return t&NullFlag != 0
}

// Base clears the typed-empty flag.
func (t TypeTag) Base() TypeTag {
	return t &^ NullFlag
}

// PayloadSize returns the fixed payload width of t, or -1 when the payload
// is length prefixed (strings and binaries) or t is not an atomic tag.
func (t TypeTag) PayloadSize() int {
	switch t {
	case TypeNone:
		return 0
	case TypeInt8, TypeUint8, TypeBool:
		return 1
	case TypeInt16, TypeUint16, TypeFloat16:
		return 2
	case TypeTime:
		return 3
	case TypeInt32, TypeUint32, TypeFloat32, TypeDate:
		return 4
	case TypeInt64, TypeUint64, TypeFloat64, TypeUnixTime:
		return 8
	case TypeTimestamp:
		return 9
	default:
		return -1
	}
}

func (t TypeTag) String() string {
	if t.IsNull() && t.Base().IsAtomic() {
		return "Null(" + t.Base().String() + ")"
	}

	switch t {
	case TypeTerminator:
		return "Terminator"
	case TypeFloat64:
		return "Float64"
	case TypeFloat32:
		return "Float32"
	case TypeFloat16:
		return "Float16"
	case TypeString:
		return "String"
	case TypeInt64:
		return "Int64"
	case TypeInt32:
		return "Int32"
	case TypeInt16:
		return "Int16"
	case TypeInt8:
		return "Int8"
	case TypeUint64:
		return "Uint64"
	case TypeUint32:
		return "Uint32"
	case TypeUint16:
		return "Uint16"
	case TypeUint8:
		return "Uint8"
	case TypeBool:
		return "Bool"
	case TypeBinary:
		return "Binary"
	case TypeNone:
		return "None"
	case TypeUnixTime:
		return "UnixTime"
	case TypeDate:
		return "Date"
	case TypeTime:
		return "Time"
	case TypeTimestamp:
		return "Timestamp"
	case TypeList:
		return "List"
	case TypeMap:
		return "Map"
	case TypeTable:
		return "Table"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", uint8(t))
	}
}

// UnitSize returns the width in bytes of one string unit, or 0 for an unknown subtype.
func (s StringType) UnitSize() int {
	switch s {
	case StringC, StringUTF8:
		return 1
	case StringUTF16:
		return 2
	case StringUTF32:
		return 4
	default:
		return 0
	}
}

func (s StringType) String() string {
	switch s {
	case StringC:
		return "C"
	case StringUTF8:
		return "UTF8"
	case StringUTF16:
		return "UTF16"
	case StringUTF32:
		return "UTF32"
	default:
		return "Unknown"
	}
}

// IsApplication reports whether b lies in the application-reserved range.
func (b BinaryType) IsApplication() bool {
	return b >= BinaryApplication
}

func (b BinaryType) String() string {
	switch {
	case b == BinaryGeneric:
		return "Generic"
	case b == BinaryUJO:
		return "UJO"
	case b.IsApplication():
		return fmt.Sprintf("Application(0x%02x)", uint8(b))
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	default:
		return "Unknown"
	}
}
