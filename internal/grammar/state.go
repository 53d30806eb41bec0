// Package grammar enforces the structure of a UJO document.
//
// The same Machine runs inside the writer and the reader. It tracks the
// innermost open container in a Frame and keeps the enclosing frames on a
// stack, so stack depth always equals nesting depth. Map key/value
// alternation toggles the current frame between DictKey and DictValue.
package grammar

import "fmt"

// State is the position of the next value within the document.
type State uint8

const (
	Root         State = iota // Root expects the single top-level container.
	List                      // List accepts values until its terminator.
	DictKey                   // DictKey expects a key or the map terminator.
	DictValue                 // DictValue expects the value for the last key.
	TableColumns              // TableColumns accepts column names until the column terminator.
	TableValues               // TableValues accepts cells, row by row.
	Closed                    // Closed follows the top-level terminator; nothing more is legal.
)

func (s State) String() string {
	switch s {
	case Root:
		return "Root"
	case List:
		return "List"
	case DictKey:
		return "DictKey"
	case DictValue:
		return "DictValue"
	case TableColumns:
		return "TableColumns"
	case TableValues:
		return "TableValues"
	case Closed:
		return "Closed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// AllowAtomic reports whether a non-string atomic may appear in s.
func AllowAtomic(s State) bool {
	switch s {
	case DictKey, DictValue, List, TableValues:
		return true
	default:
		return false
	}
}

// AllowContainer reports whether a list, map or table may open in s.
// Map keys are never containers.
func AllowContainer(s State) bool {
	switch s {
	case Root, DictValue, List, TableValues:
		return true
	default:
		return false
	}
}

// AllowString reports whether a string may appear in s. Strings are the
// only legal table column names.
func AllowString(s State) bool {
	return AllowAtomic(s) || s == TableColumns
}

// Event is a grammar transition trigger.
type Event uint8

const (
	AtomicFound Event = iota
	StringFound
	ContainerClosed
)

func (e Event) String() string {
	switch e {
	case AtomicFound:
		return "AtomicFound"
	case StringFound:
		return "StringFound"
	case ContainerClosed:
		return "ContainerClosed"
	default:
		return fmt.Sprintf("Event(%d)", uint8(e))
	}
}

// Frame is the state of one open container. Columns and Column are only
// meaningful in the table states.
type Frame struct {
	State   State
	Columns uint32 // number of declared columns
	Column  uint32 // cursor of the next cell within the current row
}

// advance applies ev to f and returns the resulting frame.
func (f Frame) advance(ev Event) Frame {
	switch f.State {
	case DictKey:
		if ev != ContainerClosed {
			f.State = DictValue
		}
	case DictValue:
		f.State = DictKey
	case TableColumns:
		if ev == StringFound {
			f.Columns++
		}
	case TableValues:
		if f.Columns > 0 {
			f.Column = (f.Column + 1) % f.Columns
		}
	}

	return f
}
