package movement

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord is the kind of every record-level validation failure.
var ErrMalformedRecord = errors.New("malformed movement record")

// NodeID names a premise. Equality is by value.
type NodeID string

func (n NodeID) String() string { return string(n) }

// Movement is a dated transfer of animals from one premise to another.
type Movement struct {
	Source      NodeID `json:"source"`
	Destination NodeID `json:"destination"`
	Day         int    `json:"day"`
}

func (m Movement) String() string {
	return fmt.Sprintf("%s->%s@%d", m.Source, m.Destination, m.Day)
}

// RecordError reports a single rejected record. Line is 0 when the record did
// not come from a file.
type RecordError struct {
	Line int
	Msg  string
}

func (e *RecordError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", ErrMalformedRecord, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedRecord, e.Msg)
}

func (e *RecordError) Unwrap() error { return ErrMalformedRecord }

func malformedf(line int, format string, args ...any) error {
	return &RecordError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Validate rejects self-movements, empty identifiers and negative days.
func Validate(m Movement) error {
	switch {
	case m.Source == "":
		return malformedf(0, "%v: empty source", m)
	case m.Destination == "":
		return malformedf(0, "%v: empty destination", m)
	case m.Source == m.Destination:
		return malformedf(0, "%v: source equals destination", m)
	case m.Day < 0:
		return malformedf(0, "%v: negative day", m)
	}
	return nil
}

// TimeSpan is the inclusive range of days covered by a set of movements.
// It is only ever obtained together with an ok flag; an empty set has none.
type TimeSpan struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Days returns the number of distinct days in the span.
func (s TimeSpan) Days() int { return s.Max - s.Min + 1 }
