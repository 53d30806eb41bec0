package document

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/arloliu/ujo/errs"
	"github.com/arloliu/ujo/format"
	"github.com/stretchr/testify/require"
)

func writeSample(t *testing.T, w *Writer) {
	t.Helper()

	require.NoError(t, w.MapOpen())
	require.NoError(t, w.AddStringUTF8("name"))
	require.NoError(t, w.AddStringUTF8("ujo"))
	require.NoError(t, w.AddStringUTF8("rows"))
	require.NoError(t, w.TableOpen())
	require.NoError(t, w.AddStringUTF8("a"))
	require.NoError(t, w.AddStringUTF8("b"))
	require.NoError(t, w.TableEndColumns())
	require.NoError(t, w.AddInt32(1))
	require.NoError(t, w.AddFloat64(1.5))
	require.NoError(t, w.AddInt32(2))
	require.NoError(t, w.AddFloat64(2.5))
	require.NoError(t, w.TableClose())
	require.NoError(t, w.MapClose())
}

var sampleElements = []string{
	"Map",
	"String(name)", "String(ujo)",
	"String(rows)",
	"Table", "String(a)", "String(b)", "end(Columns)",
	"Int32(1)", "Float64(1.5)", "Int32(2)", "Float64(2.5)",
	"end(Table)",
	"end(Map)",
}

func TestParse_ReleasesEachElement(t *testing.T) {
	w := newTestWriter(t)
	writeSample(t, w)

	r, err := NewMemoryReader(w.Bytes())
	require.NoError(t, err)

	var seen []*Element
	var names []string
	require.NoError(t, r.Parse(func(e *Element) error {
		require.False(t, e.Released())
		seen = append(seen, e)
		names = append(names, e.String())

		return nil
	}))

	require.Equal(t, sampleElements, names)
	for _, e := range seen {
		require.True(t, e.Released())
	}
}

func TestParse_SetOnElement(t *testing.T) {
	w := newTestWriter(t)
	writeSample(t, w)

	r, err := NewMemoryReader(w.Bytes())
	require.NoError(t, err)

	require.ErrorIs(t, r.Parse(nil), errs.ErrInvalidObject)

	count := 0
	r.SetOnElement(func(*Element) error {
		count++
		return nil
	})
	require.NoError(t, r.Parse(nil))
	require.Equal(t, len(sampleElements), count)

	// A memory reader parses again from the start.
	require.NoError(t, r.Parse(nil))
	require.Equal(t, 2*len(sampleElements), count)
}

func TestParse_CallbackErrorStops(t *testing.T) {
	w := newTestWriter(t)
	writeSample(t, w)

	r, err := NewMemoryReader(w.Bytes())
	require.NoError(t, err)

	stop := errors.New("stop")
	calls := 0
	err = r.Parse(func(e *Element) error {
		calls++
		if e.Type() == format.TypeTable {
			return stop
		}

		return nil
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 5, calls)
}

func TestParse_DecodeErrorStops(t *testing.T) {
	data := decodeHex(t, headerHex+"30"+"0f"+"77")

	r, err := NewMemoryReader(data)
	require.NoError(t, err)

	calls := 0
	err = r.Parse(func(*Element) error {
		calls++
		return nil
	})
	require.ErrorIs(t, err, errs.ErrUnknownTag)
	require.Equal(t, 2, calls)
}

func TestAll_BreakReleases(t *testing.T) {
	w := newTestWriter(t)
	writeSample(t, w)

	r, err := NewMemoryReader(w.Bytes())
	require.NoError(t, err)

	var last *Element
	for e, err := range r.All() {
		require.NoError(t, err)
		last = e
		if e.Type() == format.TypeTable {
			break
		}
	}
	require.True(t, last.Released())

	// Iteration resumes where it stopped.
	var rest []string
	for e, err := range r.All() {
		require.NoError(t, err)
		rest = append(rest, e.String())
	}
	require.Equal(t, sampleElements[5:], rest)
}

func TestAll_YieldsError(t *testing.T) {
	r, err := NewMemoryReader(decodeHex(t, headerHex+"08"))
	require.NoError(t, err)

	var errsSeen []error
	for e, err := range r.All() {
		require.Nil(t, e)
		errsSeen = append(errsSeen, err)
	}
	require.Len(t, errsSeen, 1)
	require.ErrorIs(t, errsSeen[0], errs.ErrTypeMisplaced)
}

// =============================================================================
// Files
// =============================================================================

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.ujo")

	fw, err := CreateFileWriter(path, WithBufferSize(32))
	require.NoError(t, err)
	writeSample(t, fw)
	require.Nil(t, fw.Bytes())
	require.NoError(t, fw.Close())

	mw := newTestWriter(t)
	writeSample(t, mw)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, mw.Bytes(), onDisk)
	require.Equal(t, fw.Len(), int64(len(onDisk)))

	fr, err := OpenFileReader(path, WithBufferSize(16))
	require.NoError(t, err)
	defer func() { require.NoError(t, fr.Close()) }()

	var names []string
	require.NoError(t, fr.Parse(func(e *Element) error {
		names = append(names, e.String())
		return nil
	}))
	require.Equal(t, sampleElements, names)
}

func TestFileErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing", "doc.ujo")

	_, err := CreateFileWriter(missing)
	require.ErrorIs(t, err, errs.ErrIO)

	_, err = OpenFileReader(missing)
	require.ErrorIs(t, err, errs.ErrIO)
	require.Equal(t, errs.CodeIO, errs.Code(err))
}

// =============================================================================
// Logging
// =============================================================================

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	w := newTestWriter(t, WithLogger(logger))
	require.Error(t, w.AddInt8(1))
	require.Contains(t, buf.String(), `"message":"ujo writer rejected value"`)
	require.Contains(t, buf.String(), `"state":"Root"`)
	require.Contains(t, buf.String(), `"tag":"Int8"`)

	buf.Reset()
	r, err := NewMemoryReader(decodeHex(t, headerHex+"00"), WithLogger(logger))
	require.NoError(t, err)
	_, _, err = r.First()
	require.Error(t, err)
	require.Contains(t, buf.String(), `"message":"ujo reader failed"`)
	require.Contains(t, buf.String(), `"offset":8`)
}
