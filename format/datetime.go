package format

import "time"

// DateTime holds the fields of the date, time and timestamp tags. A date
// uses the first three fields, a time the next three, and a timestamp all
// of them.
type DateTime struct {
	Year        int16
	Month       uint8
	Day         uint8
	Hour        uint8
	Minute      uint8
	Second      uint8
	Millisecond uint16
}

// DateTimeOf splits t into calendar fields in t's location. Years outside
// the int16 range are truncated.
func DateTimeOf(t time.Time) DateTime {
	return DateTime{
		Year:        int16(t.Year()), //nolint:gosec
		Month:       uint8(t.Month()),
		Day:         uint8(t.Day()),
		Hour:        uint8(t.Hour()),
		Minute:      uint8(t.Minute()),
		Second:      uint8(t.Second()),
		Millisecond: uint16(t.Nanosecond() / int(time.Millisecond)), //nolint:gosec
	}
}

// Time returns dt as a time in loc. Out-of-range fields normalize the way
// time.Date does.
func (dt DateTime) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	return time.Date(int(dt.Year), time.Month(dt.Month), int(dt.Day),
		int(dt.Hour), int(dt.Minute), int(dt.Second),
		int(dt.Millisecond)*int(time.Millisecond), loc)
}

// Date returns only the date fields of dt.
func (dt DateTime) Date() DateTime {
	return DateTime{Year: dt.Year, Month: dt.Month, Day: dt.Day}
}

// Clock returns only the time-of-day fields of dt, without milliseconds.
func (dt DateTime) Clock() DateTime {
	return DateTime{Hour: dt.Hour, Minute: dt.Minute, Second: dt.Second}
}
