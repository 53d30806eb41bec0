// Package endian provides the byte order used on the UJO wire and host
// byte-order probing.
//
// Every multi-byte integer, float and wide string unit in a UJO document is
// little-endian regardless of the machine that produced it. Encoders and
// decoders obtain the byte order through GetWireEngine so that this rule
// lives in one place:
//
//	engine := endian.GetWireEngine()
//	buf = engine.AppendUint32(buf, n)
//	n = engine.Uint32(buf[off:])
//
// All functions in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so one
// value can both decode in place and append encoded integers.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// HostOrder returns the byte order of the running machine.
func HostOrder() EndianEngine {
	var probe uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&probe))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// GetWireEngine returns the engine for UJO documents. It is always little-endian.
func GetWireEngine() EndianEngine {
	return binary.LittleEndian
}

// Name returns "little-endian" or "big-endian" for e.
func Name(e EndianEngine) string {
	if e == binary.BigEndian {
		return "big-endian"
	}

	return "little-endian"
}
