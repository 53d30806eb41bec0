package document

import (
	"time"

	"github.com/arloliu/ujo/format"
)

// DateTime holds the fields of the date, time and timestamp tags.
type DateTime = format.DateTime

// The types below give Go values a one-to-one mapping onto the UJO tags
// that plain Go types cannot express. Element.Value produces them and the
// root package's Marshal consumes them.
type (
	// Float16 is a value carried by the half-precision tag.
	Float16 float32
	// UnixTime is seconds since the Unix epoch.
	UnixTime int64
	// Date is a calendar date.
	Date DateTime
	// TimeOfDay is a wall clock time without a date.
	TimeOfDay DateTime
	// Timestamp is a date and time with millisecond precision.
	Timestamp DateTime
)

// Binary is a blob together with its subtype.
type Binary struct {
	Type format.BinaryType
	Data []byte
}

// Null is a typed empty value.
type Null struct {
	Type format.TypeTag
}

// Time converts u to a UTC time.
func (u UnixTime) Time() time.Time {
	return time.Unix(int64(u), 0).UTC()
}

// Time converts d to midnight UTC of that day.
func (d Date) Time() time.Time {
	return DateTime(d).Time(time.UTC)
}

// Time converts ts to a UTC time.
func (ts Timestamp) Time() time.Time {
	return DateTime(ts).Time(time.UTC)
}
