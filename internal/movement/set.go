package movement

import (
	"fmt"
	"sort"
)

// Set is an immutable, validated collection of movements. Every record in a
// Set satisfies Validate.
type Set struct {
	movements []Movement
}

// NewSet validates ms and returns a Set over a private copy. The first
// malformed record aborts construction.
func NewSet(ms []Movement) (*Set, error) {
	out := make([]Movement, len(ms))
	for i, m := range ms {
		if err := Validate(m); err != nil {
			return nil, fmt.Errorf("movement %d: %w", i, err)
		}
		out[i] = m
	}
	return &Set{movements: out}, nil
}

// Movements returns a copy of the records in input order.
func (s *Set) Movements() []Movement {
	out := make([]Movement, len(s.movements))
	copy(out, s.movements)
	return out
}

// Len returns the number of movements.
func (s *Set) Len() int { return len(s.movements) }

// Nodes returns every premise that sends or receives a movement, sorted.
func (s *Set) Nodes() []NodeID {
	seen := make(map[NodeID]struct{})
	for _, m := range s.movements {
		seen[m.Source] = struct{}{}
		seen[m.Destination] = struct{}{}
	}
	out := make([]NodeID, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Span returns the min and max day. ok is false for an empty set.
func (s *Set) Span() (span TimeSpan, ok bool) {
	return SpanOf(s.movements)
}

// SpanOf returns the min and max day of ms. ok is false when ms is empty.
func SpanOf(ms []Movement) (span TimeSpan, ok bool) {
	for i, m := range ms {
		if i == 0 {
			span = TimeSpan{Min: m.Day, Max: m.Day}
			continue
		}
		if m.Day < span.Min {
			span.Min = m.Day
		}
		if m.Day > span.Max {
			span.Max = m.Day
		}
	}
	return span, len(ms) > 0
}

// ByDay groups movements by day, keeping input order within a day.
func (s *Set) ByDay() map[int][]Movement {
	out := make(map[int][]Movement)
	for _, m := range s.movements {
		out[m.Day] = append(out[m.Day], m)
	}
	return out
}

// Window returns the movements with from <= Day < to.
func (s *Set) Window(from, to int) *Set {
	return s.Filter(func(m Movement) bool { return m.Day >= from && m.Day < to })
}

// Filter returns the movements for which keep returns true.
func (s *Set) Filter(keep func(Movement) bool) *Set {
	var out []Movement
	for _, m := range s.movements {
		if keep(m) {
			out = append(out, m)
		}
	}
	return &Set{movements: out}
}
