package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestHostOrder(t *testing.T) {
	var probe uint16 = 0x0102
	b := (*[2]byte)(unsafe.Pointer(&probe))

	switch b[0] {
	case 0x01:
		require.Equal(t, binary.BigEndian, HostOrder())
	case 0x02:
		require.Equal(t, binary.LittleEndian, HostOrder())
	default:
		require.Failf(t, "unexpected probe byte", "got: %v", b[0])
	}
}

func TestWireEngineIsLittleEndian(t *testing.T) {
	engine := GetWireEngine()

	buf := engine.AppendUint16(nil, 0x0001)
	require.Equal(t, []byte{0x01, 0x00}, buf)

	buf = engine.AppendUint32(buf[:0], 12345678)
	require.Equal(t, []byte{0x4e, 0x61, 0xbc, 0x00}, buf)
	require.Equal(t, uint32(12345678), engine.Uint32(buf))
}

func TestName(t *testing.T) {
	require.Equal(t, "little-endian", Name(binary.LittleEndian))
	require.Equal(t, "big-endian", Name(binary.BigEndian))
	require.Equal(t, "little-endian", Name(GetWireEngine()))
}
