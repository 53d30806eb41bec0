package grammar

import (
	"testing"

	"github.com/arloliu/ujo/errs"
	"github.com/arloliu/ujo/format"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Predicates
// =============================================================================

func TestPredicates(t *testing.T) {
	tests := []struct {
		state     State
		atomic    bool
		container bool
		str       bool
	}{
		{Root, false, true, false},
		{List, true, true, true},
		{DictKey, true, false, true},
		{DictValue, true, true, true},
		{TableColumns, false, false, true},
		{TableValues, true, true, true},
		{Closed, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			require.Equal(t, tt.atomic, AllowAtomic(tt.state))
			require.Equal(t, tt.container, AllowContainer(tt.state))
			require.Equal(t, tt.str, AllowString(tt.state))
		})
	}
}

func TestFrameAdvance(t *testing.T) {
	t.Run("dict alternates", func(t *testing.T) {
		f := Frame{State: DictKey}
		f = f.advance(StringFound)
		require.Equal(t, DictValue, f.State)
		f = f.advance(AtomicFound)
		require.Equal(t, DictKey, f.State)
		f = f.advance(AtomicFound)
		require.Equal(t, DictValue, f.State)
		f = f.advance(ContainerClosed)
		require.Equal(t, DictKey, f.State)
	})

	t.Run("columns counted by strings only", func(t *testing.T) {
		f := Frame{State: TableColumns}
		f = f.advance(StringFound)
		f = f.advance(StringFound)
		f = f.advance(AtomicFound)
		require.Equal(t, uint32(2), f.Columns)
	})

	t.Run("cells wrap at column count", func(t *testing.T) {
		f := Frame{State: TableValues, Columns: 3}
		for _, want := range []uint32{1, 2, 0, 1} {
			f = f.advance(AtomicFound)
			require.Equal(t, want, f.Column)
		}
		f = f.advance(ContainerClosed)
		require.Equal(t, uint32(2), f.Column)
	})

	t.Run("list unchanged", func(t *testing.T) {
		f := Frame{State: List}
		require.Equal(t, f, f.advance(AtomicFound))
		require.Equal(t, f, f.advance(ContainerClosed))
	})
}

// =============================================================================
// Machine
// =============================================================================

func TestMachine_SimpleList(t *testing.T) {
	m := NewMachine(0)
	require.Equal(t, Root, m.State())

	require.ErrorIs(t, m.Value(format.TypeInt32), errs.ErrTypeMisplaced, "no top-level atomic")
	require.Equal(t, Root, m.State())

	require.NoError(t, m.Open(format.TypeList))
	require.Equal(t, List, m.State())
	require.Equal(t, 1, m.Depth())

	require.NoError(t, m.Value(format.TypeFloat32))
	require.NoError(t, m.Value(format.TypeString))
	require.NoError(t, m.Close(format.TypeList))

	require.Equal(t, Closed, m.State())
	require.Equal(t, 0, m.Depth())

	require.ErrorIs(t, m.Open(format.TypeList), errs.ErrDocumentClosed)
	require.ErrorIs(t, m.Value(format.TypeInt8), errs.ErrTypeMisplaced)
}

func TestMachine_Map(t *testing.T) {
	m := NewMachine(4)
	require.NoError(t, m.Open(format.TypeMap))

	require.ErrorIs(t, m.Open(format.TypeList), errs.ErrTypeMisplaced, "container as key")
	require.Equal(t, DictKey, m.State())

	require.NoError(t, m.Value(format.TypeString))
	require.Equal(t, DictValue, m.State())

	require.ErrorIs(t, m.Close(format.TypeMap), errs.ErrInvalidObject, "dangling key")

	require.NoError(t, m.Open(format.TypeList))
	require.Equal(t, 2, m.Depth())
	require.NoError(t, m.Close(format.TypeList))
	require.Equal(t, DictKey, m.State(), "closed value returns to key position")

	require.NoError(t, m.Value(format.TypeInt64))
	require.NoError(t, m.Value(format.TypeBool))
	require.NoError(t, m.Close(format.TypeMap))
	require.Equal(t, Closed, m.State())
}

func TestMachine_Table(t *testing.T) {
	m := NewMachine(0)
	require.NoError(t, m.Open(format.TypeTable))
	require.Equal(t, TableColumns, m.State())

	require.ErrorIs(t, m.Value(format.TypeInt32), errs.ErrTypeMisplaced, "column names are strings")
	require.ErrorIs(t, m.Open(format.TypeList), errs.ErrTypeMisplaced)
	require.ErrorIs(t, m.EndColumns(), errs.ErrInvalidObject, "zero columns")

	require.NoError(t, m.Value(format.TypeString))
	require.NoError(t, m.Value(format.TypeString))
	require.NoError(t, m.EndColumns())
	require.Equal(t, Frame{State: TableValues, Columns: 2}, m.Frame())

	require.NoError(t, m.Value(format.TypeInt32))
	require.ErrorIs(t, m.Close(format.TypeTable), errs.ErrInvalidObject, "partial row")

	require.NoError(t, m.Open(format.TypeMap))
	require.NoError(t, m.Close(format.TypeMap))
	require.Equal(t, uint32(0), m.Frame().Column)

	require.NoError(t, m.Close(format.TypeTable))
	require.Equal(t, Closed, m.State())
}

func TestMachine_WrongClose(t *testing.T) {
	m := NewMachine(0)
	require.ErrorIs(t, m.Close(format.TypeList), errs.ErrInvalidObject)

	require.NoError(t, m.Open(format.TypeList))
	require.ErrorIs(t, m.Close(format.TypeMap), errs.ErrInvalidObject)
	require.ErrorIs(t, m.Close(format.TypeTable), errs.ErrInvalidObject)
	require.ErrorIs(t, m.Close(format.TypeInt8), errs.ErrInvalidObject)
	require.ErrorIs(t, m.EndColumns(), errs.ErrInvalidObject)
	require.Equal(t, List, m.State())
}

func TestMachine_NullTags(t *testing.T) {
	m := NewMachine(0)
	require.NoError(t, m.Open(format.TypeTable))
	require.NoError(t, m.Value(format.TypeString|format.NullFlag), "null string names a column")
	require.NoError(t, m.EndColumns())
	require.NoError(t, m.Value(format.TypeDate|format.NullFlag))
	require.ErrorIs(t, m.Check(format.TypeList|format.NullFlag), errs.ErrUnknownTag)
}

func TestMachine_Terminator(t *testing.T) {
	t.Run("resolves each boundary", func(t *testing.T) {
		m := NewMachine(0)
		require.NoError(t, m.Open(format.TypeList))
		require.NoError(t, m.Open(format.TypeTable))
		require.NoError(t, m.Value(format.TypeString))

		b, err := m.Terminator()
		require.NoError(t, err)
		require.Equal(t, BoundaryColumns, b)
		require.Equal(t, format.TypeTerminator, b.Container())

		require.NoError(t, m.Value(format.TypeUint8))
		require.NoError(t, m.Open(format.TypeMap))
		require.NoError(t, m.Value(format.TypeString))
		require.NoError(t, m.Value(format.TypeNone))

		b, err = m.Terminator()
		require.NoError(t, err)
		require.Equal(t, BoundaryMap, b)

		b, err = m.Terminator()
		require.NoError(t, err)
		require.Equal(t, BoundaryTable, b)

		b, err = m.Terminator()
		require.NoError(t, err)
		require.Equal(t, BoundaryList, b)
		require.Equal(t, format.TypeList, b.Container())
		require.Equal(t, Closed, m.State())
	})

	t.Run("premature at root", func(t *testing.T) {
		m := NewMachine(0)
		_, err := m.Terminator()
		require.ErrorIs(t, err, errs.ErrTypeMisplaced)
		require.Equal(t, Root, m.State())
	})

	t.Run("in dict value", func(t *testing.T) {
		m := NewMachine(0)
		require.NoError(t, m.Open(format.TypeMap))
		require.NoError(t, m.Value(format.TypeString))
		_, err := m.Terminator()
		require.ErrorIs(t, err, errs.ErrInvalidObject)
		require.Equal(t, DictValue, m.State())
	})

	t.Run("empty column set", func(t *testing.T) {
		m := NewMachine(0)
		require.NoError(t, m.Open(format.TypeTable))
		_, err := m.Terminator()
		require.ErrorIs(t, err, errs.ErrInvalidObject)
	})

	t.Run("partial row", func(t *testing.T) {
		m := NewMachine(0)
		require.NoError(t, m.Open(format.TypeTable))
		require.NoError(t, m.Value(format.TypeString))
		require.NoError(t, m.Value(format.TypeString))
		_, err := m.Terminator()
		require.NoError(t, err)
		require.NoError(t, m.Value(format.TypeInt8))
		_, err = m.Terminator()
		require.ErrorIs(t, err, errs.ErrInvalidObject)
	})

	t.Run("after close", func(t *testing.T) {
		m := NewMachine(0)
		require.NoError(t, m.Open(format.TypeList))
		_, err := m.Terminator()
		require.NoError(t, err)
		_, err = m.Terminator()
		require.ErrorIs(t, err, errs.ErrDocumentClosed)
	})
}

func TestMachine_DepthTracksNesting(t *testing.T) {
	m := NewMachine(2)
	require.NoError(t, m.Open(format.TypeList))

	for i := 1; i <= 40; i++ {
		require.NoError(t, m.Open(format.TypeMap))
		require.Equal(t, i+1, m.Depth())
		require.NoError(t, m.Value(format.TypeString))
	}

	// Only the innermost map is waiting for a value; every close then
	// completes the enclosing key/value pair.
	require.NoError(t, m.Value(format.TypeInt8))
	for i := 40; i >= 1; i-- {
		require.NoError(t, m.Close(format.TypeMap))
		require.Equal(t, i, m.Depth())
	}

	require.NoError(t, m.Close(format.TypeList))
	require.Equal(t, 0, m.Depth())

	m.Reset()
	require.Equal(t, Root, m.State())
	require.NoError(t, m.Open(format.TypeList))
}
