package ujo

import (
	"bytes"
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/arloliu/ujo/document"
	"github.com/arloliu/ujo/errs"
	"github.com/arloliu/ujo/format"
)

// Aliases for the value types Marshal accepts and Unmarshal produces.
type (
	Element   = document.Element
	DateTime  = document.DateTime
	Float16   = document.Float16
	UnixTime  = document.UnixTime
	Date      = document.Date
	TimeOfDay = document.TimeOfDay
	Timestamp = document.Timestamp
	Binary    = document.Binary
	Null      = document.Null
)

// Table is a UJO table as Go values. Every row holds one cell per column.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Marshal encodes v as a complete document. v must be a slice, an array,
// a map or a Table; a document always has a container at its root.
//
// Go values map onto tags as follows:
//
//	nil                          none
//	bool                         bool
//	int8 ... int64, int          the integer of the same width (int is int64)
//	uint8 ... uint64, uint       the unsigned integer of the same width
//	float32, float64             float32, float64
//	Float16                      float16
//	string                       UTF-8 string
//	[]byte                       generic binary
//	Binary                       binary with its subtype
//	UnixTime, Date, TimeOfDay    unixtime, date, time
//	Timestamp, time.Time         timestamp (time.Time is converted to UTC)
//	Null                         null of its type
//	slices and arrays            list
//	maps                         map, keys in sorted order
//	Table                        table
//
// Parameters:
//   - v: root container
//
// Returns:
//   - []byte: encoded document, owned by the caller
//   - error: an unsupported Go type or a value the grammar rejects
func Marshal(v any, opts ...document.Option) ([]byte, error) {
	if !isContainer(v) {
		return nil, fmt.Errorf("%w: document root must be a list, map or table, got %T", errs.ErrTypeMisplaced, v)
	}

	w, err := document.NewMemoryWriter(opts...)
	if err != nil {
		return nil, err
	}
	defer w.Close()

	if err := Encode(w, v); err != nil {
		return nil, err
	}

	return bytes.Clone(w.Bytes()), nil
}

// maxEncodeDepth bounds how deeply Encode follows containers and pointers.
// Cyclic values hit it instead of overflowing the stack.
const maxEncodeDepth = 1000

// Encode adds v to w at w's current position, following the mapping
// documented on Marshal. Values nested deeper than 1000 levels, which
// includes every cyclic value, fail with errs.ErrInvalidData.
func Encode(w *document.Writer, v any) error {
	return encodeValue(w, v, 0)
}

func encodeValue(w *document.Writer, v any, depth int) error {
	if depth > maxEncodeDepth {
		return fmt.Errorf("%w: value nests deeper than %d levels, it may be cyclic", errs.ErrInvalidData, maxEncodeDepth)
	}

	switch x := v.(type) {
	case nil:
		return w.AddNone()
	case bool:
		return w.AddBool(x)
	case int8:
		return w.AddInt8(x)
	case int16:
		return w.AddInt16(x)
	case int32:
		return w.AddInt32(x)
	case int64:
		return w.AddInt64(x)
	case int:
		return w.AddInt64(int64(x))
	case uint8:
		return w.AddUint8(x)
	case uint16:
		return w.AddUint16(x)
	case uint32:
		return w.AddUint32(x)
	case uint64:
		return w.AddUint64(x)
	case uint:
		return w.AddUint64(uint64(x))
	case float32:
		return w.AddFloat32(x)
	case float64:
		return w.AddFloat64(x)
	case Float16:
		return w.AddFloat16(float32(x))
	case string:
		return w.AddStringUTF8(x)
	case []byte:
		return w.AddBinary(format.BinaryGeneric, x)
	case Binary:
		return w.AddBinary(x.Type, x.Data)
	case UnixTime:
		return w.AddUnixTime(int64(x))
	case Date:
		return w.AddDate(DateTime(x))
	case TimeOfDay:
		return w.AddTime(DateTime(x))
	case Timestamp:
		return w.AddTimestamp(DateTime(x))
	case time.Time:
		return w.AddTimestamp(format.DateTimeOf(x.UTC()))
	case Null:
		return w.AddNull(x.Type)
	case Table:
		return encodeTable(w, x, depth)
	case *Table:
		if x == nil {
			return w.AddNone()
		}

		return encodeTable(w, *x, depth)
	case []any:
		return encodeList(w, len(x), func(i int) any { return x[i] }, depth)
	case map[string]any:
		return encodeMap(w, reflect.ValueOf(x), depth)
	case map[any]any:
		return encodeMap(w, reflect.ValueOf(x), depth)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return encodeList(w, rv.Len(), func(i int) any { return rv.Index(i).Interface() }, depth)
	case reflect.Map:
		return encodeMap(w, rv, depth)
	case reflect.Pointer:
		if rv.IsNil() {
			return w.AddNone()
		}

		return encodeValue(w, rv.Elem().Interface(), depth+1)
	case reflect.Bool:
		return w.AddBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return w.AddInt64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return w.AddUint64(rv.Uint())
	case reflect.Float32:
		return w.AddFloat32(float32(rv.Float()))
	case reflect.Float64:
		return w.AddFloat64(rv.Float())
	case reflect.String:
		return w.AddStringUTF8(rv.String())
	default:
		return fmt.Errorf("%w: cannot encode Go type %T", errs.ErrInvalidData, v)
	}
}

func isContainer(v any) bool {
	switch v.(type) {
	case Table, *Table:
		return true
	case []byte:
		return false
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

func encodeList(w *document.Writer, n int, at func(int) any, depth int) error {
	if err := w.ListOpen(); err != nil {
		return err
	}

	for i := range n {
		if err := encodeValue(w, at(i), depth+1); err != nil {
			return err
		}
	}

	return w.ListClose()
}

func encodeMap(w *document.Writer, m reflect.Value, depth int) error {
	if err := w.MapOpen(); err != nil {
		return err
	}

	keys := m.MapKeys()
	slices.SortFunc(keys, compareKeys)

	for _, k := range keys {
		if err := encodeValue(w, k.Interface(), depth+1); err != nil {
			return err
		}

		if err := encodeValue(w, m.MapIndex(k).Interface(), depth+1); err != nil {
			return err
		}
	}

	return w.MapClose()
}

// compareKeys orders map keys so the same map always encodes to the same
// bytes. Keys of one kind sort by value, mixed kinds by type name and
// then by their printed form.
func compareKeys(a, b reflect.Value) int {
	if a.Kind() == reflect.Interface {
		a = a.Elem()
	}

	if b.Kind() == reflect.Interface {
		b = b.Elem()
	}

	if !a.IsValid() || !b.IsValid() {
		switch {
		case a.IsValid():
			return 1
		case b.IsValid():
			return -1
		default:
			return 0
		}
	}

	if a.Type() == b.Type() {
		switch a.Kind() {
		case reflect.String:
			return cmp.Compare(a.String(), b.String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return cmp.Compare(a.Int(), b.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return cmp.Compare(a.Uint(), b.Uint())
		case reflect.Float32, reflect.Float64:
			return cmp.Compare(a.Float(), b.Float())
		}
	}

	if c := cmp.Compare(a.Type().String(), b.Type().String()); c != 0 {
		return c
	}

	return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
}

func encodeTable(w *document.Writer, t Table, depth int) error {
	if err := w.TableOpen(); err != nil {
		return err
	}

	for _, col := range t.Columns {
		if err := w.AddStringUTF8(col); err != nil {
			return err
		}
	}

	if err := w.TableEndColumns(); err != nil {
		return err
	}

	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%w: table row %d has %d cells, want %d", errs.ErrInvalidData, i, len(row), len(t.Columns))
		}

		for _, cell := range row {
			if err := encodeValue(w, cell, depth+1); err != nil {
				return err
			}
		}
	}

	return w.TableClose()
}

// Unmarshal decodes a complete document into Go values: lists become
// []any, maps become map[any]any and tables become Table. Atomic values
// follow Element.Value, so strings of every subtype become string.
//
// Binary map keys are rejected since []byte cannot be a Go map key.
func Unmarshal(data []byte, opts ...document.Option) (any, error) {
	r, err := document.NewMemoryReader(data, opts...)
	if err != nil {
		return nil, err
	}

	var b treeBuilder
	if err := r.Parse(b.add); err != nil {
		return nil, err
	}

	return b.root, nil
}

// node is a container under construction.
type node struct {
	kind      format.TypeTag
	list      []any
	dict      map[any]any
	key       any
	hasKey    bool
	table     *Table
	inColumns bool
	row       []any
}

type treeBuilder struct {
	stack []*node
	root  any
}

func (b *treeBuilder) add(e *document.Element) error {
	switch {
	case e.IsContainer():
		n := &node{kind: e.Type()}
		switch n.kind {
		case format.TypeMap:
			n.dict = make(map[any]any)
		case format.TypeTable:
			n.table = &Table{}
			n.inColumns = true
		default:
			n.list = []any{}
		}
		b.stack = append(b.stack, n)

		return nil
	case e.EndsColumns():
		b.top().inColumns = false
		return nil
	case e.IsTerminator():
		n := b.top()
		b.stack = b.stack[:len(b.stack)-1]

		return b.put(n.value())
	}

	v, err := e.Value()
	if err != nil {
		return err
	}

	top := b.top()
	if top.kind == format.TypeTable && top.inColumns {
		name, _ := v.(string)
		top.table.Columns = append(top.table.Columns, name)

		return nil
	}

	return b.put(v)
}

func (b *treeBuilder) top() *node {
	return b.stack[len(b.stack)-1]
}

func (b *treeBuilder) put(v any) error {
	if len(b.stack) == 0 {
		b.root = v
		return nil
	}

	n := b.top()
	switch n.kind {
	case format.TypeMap:
		if !n.hasKey {
			if v != nil && !reflect.TypeOf(v).Comparable() {
				return fmt.Errorf("%w: map key of Go type %T is not comparable", errs.ErrInvalidData, v)
			}
			n.key, n.hasKey = v, true

			return nil
		}
		n.dict[n.key] = v
		n.key, n.hasKey = nil, false
	case format.TypeTable:
		n.row = append(n.row, v)
		if len(n.row) == len(n.table.Columns) {
			n.table.Rows = append(n.table.Rows, n.row)
			n.row = nil
		}
	default:
		n.list = append(n.list, v)
	}

	return nil
}

func (n *node) value() any {
	switch n.kind {
	case format.TypeMap:
		return n.dict
	case format.TypeTable:
		return *n.table
	default:
		return n.list
	}
}
