// Package ujo reads and writes UJO, a compact self-describing binary
// object notation.
//
// A UJO document is a short header followed by exactly one list, map or
// table. Values are typed: integers of every width, three float widths
// (including half precision), strings in C, UTF-8, UTF-16 and UTF-32 form,
// binaries with a subtype, dates, times, timestamps and typed nulls.
//
// # Basic Usage
//
// Encoding Go values:
//
//	data, err := ujo.Marshal(map[string]any{
//	    "name":  "sensor-1",
//	    "temps": []float64{21.5, 21.7},
//	})
//
// Decoding into Go values:
//
//	v, err := ujo.Unmarshal(data)
//	m := v.(map[any]any)
//
// Streaming with full control over the wire types:
//
//	w, _ := ujo.NewWriter()
//	defer w.Close()
//	_ = w.ListOpen()
//	_ = w.AddFloat16(4.13)
//	_ = w.AddStringC("c-string")
//	_ = w.ListClose()
//
//	r, _ := ujo.NewReader(w.Bytes())
//	_ = r.Parse(func(e *document.Element) error {
//	    fmt.Println(e)
//	    return nil
//	})
//
// # Package Structure
//
// This package wraps the document package for the common cases. Use
// document directly for file or custom sinks and sources, and format and
// errs for the wire constants and error kinds.
package ujo

import (
	"strconv"

	"github.com/arloliu/ujo/document"
	"github.com/arloliu/ujo/format"
	"github.com/arloliu/ujo/internal/hash"
)

// Version returns the library version (901 for 0.9.1) and the API
// version (101 for 1.1).
func Version() (library int, api int) {
	return format.LibraryVersion, format.APIVersion
}

// VersionString returns the library version as "major.minor.patch".
func VersionString() string {
	v := format.LibraryVersion

	return strconv.Itoa(v/1000) + "." + strconv.Itoa(v/100%10) + "." + strconv.Itoa(v%100)
}

// NewWriter returns a writer that builds a document in memory.
//
// Parameters:
//   - opts: logger, buffer size and stack capacity options from package document
//
// Returns:
//   - *document.Writer: writer with the header already written
//   - error: an invalid option
func NewWriter(opts ...document.Option) (*document.Writer, error) {
	return document.NewMemoryWriter(opts...)
}

// NewFileWriter returns a writer that creates the file at path. The
// document is complete on disk only after Close.
func NewFileWriter(path string, opts ...document.Option) (*document.Writer, error) {
	return document.CreateFileWriter(path, opts...)
}

// NewReader returns a reader over data. data must not change while the
// reader or any of its elements are in use.
func NewReader(data []byte, opts ...document.Option) (*document.Reader, error) {
	return document.NewMemoryReader(data, opts...)
}

// OpenReader returns a reader over the file at path.
func OpenReader(path string, opts ...document.Option) (*document.Reader, error) {
	return document.OpenFileReader(path, opts...)
}

// Fingerprint returns the xxHash64 of an encoded document. Equal
// documents have equal fingerprints, which makes it a cheap cache key.
func Fingerprint(data []byte) uint64 {
	return hash.Sum(data)
}
