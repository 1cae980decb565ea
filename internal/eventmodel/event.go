// Package eventmodel defines the raw input and the derived data structures that
// flow between the coverage, window, likelihood, and fitting stages of the
// analysis pipeline.
package eventmodel

import "math"

// Event is a single timestamped occurrence of a named life-event type.
type Event struct {
	TypeName string
	TimeMs   int64
}

// Valid reports whether e has a finite timestamp and a non-empty type name.
func (e Event) Valid() bool {
	return e.TypeName != "" && !math.IsNaN(float64(e.TimeMs)) && !math.IsInf(float64(e.TimeMs), 0)
}

// EventStream is a sorted, typed view over a set of events restricted to the
// observation windows that produced it. Times and TypeIdx are parallel arrays,
// non-decreasing in Times.
type EventStream struct {
	Times    []float64 // milliseconds, UTC, non-decreasing
	TypeIdx  []int
	TypeName []string       // dense index -> name
	nameIdx  map[string]int // name -> dense index
}

// NewEventStream builds an empty stream with an interned type-name table.
func NewEventStream() *EventStream {
	return &EventStream{nameIdx: make(map[string]int)}
}

// Intern returns the dense index for name, allocating a new slot if needed.
func (s *EventStream) Intern(name string) int {
	if idx, ok := s.nameIdx[name]; ok {
		return idx
	}
	idx := len(s.TypeName)
	s.TypeName = append(s.TypeName, name)
	s.nameIdx[name] = idx
	return idx
}

// IndexOf returns the dense index of name and whether it is known to the stream.
func (s *EventStream) IndexOf(name string) (int, bool) {
	idx, ok := s.nameIdx[name]
	return idx, ok
}

// NumTypes reports how many distinct type names are interned.
func (s *EventStream) NumTypes() int {
	return len(s.TypeName)
}

// NumEvents reports how many events are in the stream.
func (s *EventStream) NumEvents() int {
	return len(s.Times)
}

// CountByType returns the number of events of each interned type, indexed the
// same way as TypeName.
func (s *EventStream) CountByType() []int {
	counts := make([]int, len(s.TypeName))
	for _, idx := range s.TypeIdx {
		counts[idx]++
	}
	return counts
}
