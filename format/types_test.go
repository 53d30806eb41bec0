package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeTagClassification(t *testing.T) {
	atomics := []TypeTag{
		TypeFloat64, TypeFloat32, TypeFloat16, TypeString,
		TypeInt64, TypeInt32, TypeInt16, TypeInt8,
		TypeUint64, TypeUint32, TypeUint16, TypeUint8,
		TypeBool, TypeBinary, TypeNone,
		TypeUnixTime, TypeDate, TypeTime, TypeTimestamp,
	}
	for _, tag := range atomics {
		require.True(t, tag.IsAtomic(), tag.String())
		require.False(t, tag.IsContainer(), tag.String())
	}

	for _, tag := range []TypeTag{TypeList, TypeMap, TypeTable} {
		require.True(t, tag.IsContainer(), tag.String())
		require.False(t, tag.IsAtomic(), tag.String())
	}

	require.False(t, TypeTerminator.IsAtomic())
	require.False(t, TypeTerminator.IsContainer())
	require.False(t, TypeTag(0x14).IsAtomic())
}

func TestTypeTagNull(t *testing.T) {
	tag := TypeInt32 | NullFlag

	require.True(t, tag.IsNull())
	require.Equal(t, TypeInt32, tag.Base())
	require.Equal(t, "Null(Int32)", tag.String())
	require.False(t, TypeInt32.IsNull())
	require.Equal(t, TypeInt32, TypeInt32.Base())
}

func TestTypeTagPayloadSize(t *testing.T) {
	tests := []struct {
		tag  TypeTag
		size int
	}{
		{TypeNone, 0},
		{TypeInt8, 1},
		{TypeUint8, 1},
		{TypeBool, 1},
		{TypeInt16, 2},
		{TypeFloat16, 2},
		{TypeTime, 3},
		{TypeInt32, 4},
		{TypeFloat32, 4},
		{TypeDate, 4},
		{TypeInt64, 8},
		{TypeUint64, 8},
		{TypeFloat64, 8},
		{TypeUnixTime, 8},
		{TypeTimestamp, 9},
		{TypeString, -1},
		{TypeBinary, -1},
		{TypeList, -1},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			require.Equal(t, tt.size, tt.tag.PayloadSize())
		})
	}
}

func TestTypeTagString(t *testing.T) {
	require.Equal(t, "Terminator", TypeTerminator.String())
	require.Equal(t, "Timestamp", TypeTimestamp.String())
	require.Equal(t, "Table", TypeTable.String())
	require.Equal(t, "Unknown(0x7f)", TypeTag(0x7f).String())
}

func TestStringType(t *testing.T) {
	require.Equal(t, 1, StringC.UnitSize())
	require.Equal(t, 1, StringUTF8.UnitSize())
	require.Equal(t, 2, StringUTF16.UnitSize())
	require.Equal(t, 4, StringUTF32.UnitSize())
	require.Equal(t, 0, StringType(9).UnitSize())

	require.Equal(t, "UTF16", StringUTF16.String())
	require.Equal(t, "Unknown", StringType(9).String())
}

func TestBinaryType(t *testing.T) {
	require.Equal(t, "Generic", BinaryGeneric.String())
	require.Equal(t, "UJO", BinaryUJO.String())
	require.Equal(t, "Application(0x81)", BinaryType(0x81).String())
	require.Equal(t, "Unknown", BinaryType(0x02).String())
	require.True(t, BinaryType(0xFF).IsApplication())
	require.False(t, BinaryUJO.IsApplication())
}

func TestCompressionType(t *testing.T) {
	require.Equal(t, "None", CompressionNone.String())
	require.Equal(t, "Unknown", CompressionType(3).String())
}
