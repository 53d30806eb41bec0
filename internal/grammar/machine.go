package grammar

import (
	"fmt"

	"github.com/arloliu/ujo/errs"
	"github.com/arloliu/ujo/format"
)

// DefaultStackCapacity is the nesting depth a Machine holds before its
// frame stack reallocates.
const DefaultStackCapacity = 16

// Boundary tells what a terminator ended.
type Boundary uint8

const (
	BoundaryNone    Boundary = iota
	BoundaryColumns          // the column set of a table
	BoundaryList
	BoundaryMap
	BoundaryTable
)

// Container returns the tag of the container a boundary closed, or
// TypeTerminator for a column-set end.
func (b Boundary) Container() format.TypeTag {
	switch b {
	case BoundaryList:
		return format.TypeList
	case BoundaryMap:
		return format.TypeMap
	case BoundaryTable:
		return format.TypeTable
	default:
		return format.TypeTerminator
	}
}

func (b Boundary) String() string {
	switch b {
	case BoundaryColumns:
		return "Columns"
	case BoundaryList:
		return "List"
	case BoundaryMap:
		return "Map"
	case BoundaryTable:
		return "Table"
	default:
		return "None"
	}
}

// Machine tracks the grammar of one document. It is not safe for
// concurrent use.
//
// Every method that returns an error leaves the machine unchanged when it
// fails.
type Machine struct {
	cur   Frame
	stack []Frame
}

// NewMachine returns a machine in the Root state whose stack can hold
// capacity enclosing frames without reallocating.
func NewMachine(capacity int) *Machine {
	if capacity <= 0 {
		capacity = DefaultStackCapacity
	}

	return &Machine{stack: make([]Frame, 0, capacity)}
}

// Reset returns the machine to Root and keeps the stack storage.
func (m *Machine) Reset() {
	m.cur = Frame{State: Root}
	m.stack = m.stack[:0]
}

// State returns the state of the current frame.
func (m *Machine) State() State {
	return m.cur.State
}

// Frame returns a copy of the current frame.
func (m *Machine) Frame() Frame {
	return m.cur
}

// Depth returns the number of open containers.
func (m *Machine) Depth() int {
	return len(m.stack)
}

// Check reports whether a value or container tagged tag may appear next.
// The null flag is ignored.
//
// Returns:
//   - errs.ErrDocumentClosed once the top-level container has closed
//   - errs.ErrTypeMisplaced when the grammar forbids tag here
//   - errs.ErrUnknownTag for a tag that is neither atomic nor a container
func (m *Machine) Check(tag format.TypeTag) error {
	if m.cur.State == Closed {
		return fmt.Errorf("%w: %s after end of document", errs.ErrDocumentClosed, tag)
	}

	base := tag.Base()

	var ok bool
	switch {
	case base == format.TypeString:
		ok = AllowString(m.cur.State)
	case base.IsAtomic():
		ok = AllowAtomic(m.cur.State)
	case base.IsContainer() && !tag.IsNull():
		ok = AllowContainer(m.cur.State)
	default:
		return fmt.Errorf("%w: 0x%02x", errs.ErrUnknownTag, uint8(tag))
	}

	if !ok {
		return fmt.Errorf("%w: %s in state %s", errs.ErrTypeMisplaced, tag, m.cur.State)
	}

	return nil
}

// Accept records an atomic or string value that already passed Check.
func (m *Machine) Accept(tag format.TypeTag) {
	if tag.Base() == format.TypeString {
		m.Advance(StringFound)
		return
	}

	m.Advance(AtomicFound)
}

// Value checks and records an atomic or string value in one step.
func (m *Machine) Value(tag format.TypeTag) error {
	if tag.Base().IsContainer() {
		return fmt.Errorf("%w: %s is not a value", errs.ErrTypeMisplaced, tag)
	}

	if err := m.Check(tag); err != nil {
		return err
	}
	m.Accept(tag)

	return nil
}

// Advance applies ev to the current frame.
func (m *Machine) Advance(ev Event) {
	m.cur = m.cur.advance(ev)
}

// Open pushes the current frame and enters the container kind.
func (m *Machine) Open(kind format.TypeTag) error {
	var next State
	switch kind {
	case format.TypeList:
		next = List
	case format.TypeMap:
		next = DictKey
	case format.TypeTable:
		next = TableColumns
	default:
		return fmt.Errorf("%w: %s is not a container", errs.ErrTypeMisplaced, kind)
	}

	if err := m.Check(kind); err != nil {
		return err
	}

	m.stack = append(m.stack, m.cur)
	m.cur = Frame{State: next}

	return nil
}

// Close ends the innermost container, which must be of kind.
//
// A list closes from List, a map from DictKey (no dangling key) and a table
// from TableValues at the start of a row. Anything else is
// errs.ErrInvalidObject.
func (m *Machine) Close(kind format.TypeTag) error {
	var want State
	switch kind {
	case format.TypeList:
		want = List
	case format.TypeMap:
		want = DictKey
	case format.TypeTable:
		want = TableValues
	default:
		return fmt.Errorf("%w: %s is not a container", errs.ErrInvalidObject, kind)
	}

	if m.cur.State != want {
		return fmt.Errorf("%w: cannot close %s in state %s", errs.ErrInvalidObject, kind, m.cur.State)
	}

	if kind == format.TypeTable && m.cur.Column != 0 {
		return fmt.Errorf("%w: table row incomplete at column %d of %d",
			errs.ErrInvalidObject, m.cur.Column, m.cur.Columns)
	}

	m.pop()

	return nil
}

// EndColumns ends the column set of the current table. At least one column
// must have been declared.
func (m *Machine) EndColumns() error {
	if m.cur.State != TableColumns {
		return fmt.Errorf("%w: no column set to end in state %s", errs.ErrInvalidObject, m.cur.State)
	}

	if m.cur.Columns == 0 {
		return fmt.Errorf("%w: table declares no columns", errs.ErrInvalidObject)
	}

	m.cur.State = TableValues

	return nil
}

// Terminator applies a terminator read from a document. It ends the column
// set inside TableColumns and closes the innermost container everywhere
// else, and reports which of those happened.
func (m *Machine) Terminator() (Boundary, error) {
	switch m.cur.State {
	case TableColumns:
		if err := m.EndColumns(); err != nil {
			return BoundaryNone, err
		}

		return BoundaryColumns, nil
	case List:
		return BoundaryList, m.Close(format.TypeList)
	case DictKey:
		return BoundaryMap, m.Close(format.TypeMap)
	case TableValues:
		if err := m.Close(format.TypeTable); err != nil {
			return BoundaryNone, err
		}

		return BoundaryTable, nil
	case DictValue:
		return BoundaryNone, fmt.Errorf("%w: map key without value", errs.ErrInvalidObject)
	case Closed:
		return BoundaryNone, fmt.Errorf("%w: terminator after end of document", errs.ErrDocumentClosed)
	default:
		return BoundaryNone, fmt.Errorf("%w: terminator before top-level container", errs.ErrTypeMisplaced)
	}
}

func (m *Machine) pop() {
	n := len(m.stack) - 1
	m.cur = m.stack[n]
	m.stack = m.stack[:n]

	if m.cur.State == Root {
		m.cur.State = Closed
	}

	m.Advance(ContainerClosed)
}
