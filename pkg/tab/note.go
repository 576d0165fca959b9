package tab

import (
	"fmt"
)

// String numbering: 1 is the lowest (E) string, 4 the highest (G).
const (
	LowestString  = 1
	HighestString = 4
	NumStrings    = 4
	restValue     = -1
)

// ValidationError reports an invalid argument to a constructor
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Note is a fretted note or a rest with a duration. The zero value is not a
// valid note; use NewNote or Rest.
type Note struct {
	str      int
	fret     int
	duration Duration
}

// NewNote creates a note. A rest is string -1 with fret -1; anything else
// needs a string in [1,4] and a fret >= 0. The duration must be canonical.
func NewNote(stringIndex, fret int, d Duration) (Note, error) {
	if err := validatePlacement(stringIndex, fret); err != nil {
		return Note{}, err
	}
	if !d.IsCanonical() {
		return Note{}, &ValidationError{
			Field:  "duration",
			Value:  float64(d),
			Reason: "must be one of 1, 0.5, 0.25, 0.125, 0.0625",
		}
	}
	return Note{str: stringIndex, fret: fret, duration: d}, nil
}

// Rest creates a rest of the given canonical duration
func Rest(d Duration) (Note, error) {
	return NewNote(restValue, restValue, d)
}

// NewFragment creates a note occupying an arbitrary number of slots, as
// produced when allocation splits a note across a barline.
func NewFragment(stringIndex, fret, slots int) (Note, error) {
	if err := validatePlacement(stringIndex, fret); err != nil {
		return Note{}, err
	}
	if slots < 1 || slots > SlotsPerMeasure {
		return Note{}, &ValidationError{
			Field:  "duration",
			Value:  slots,
			Reason: fmt.Sprintf("fragment must span 1 to %d slots", SlotsPerMeasure),
		}
	}
	return Note{str: stringIndex, fret: fret, duration: FromSlots(slots)}, nil
}

func validatePlacement(stringIndex, fret int) error {
	if stringIndex == restValue {
		if fret != restValue {
			return &ValidationError{Field: "fret", Value: fret, Reason: "a rest must have fret -1"}
		}
		return nil
	}
	if stringIndex < LowestString || stringIndex > HighestString {
		return &ValidationError{Field: "string", Value: stringIndex, Reason: "must be between 1 and 4, or -1 for a rest"}
	}
	if fret < 0 {
		return &ValidationError{Field: "fret", Value: fret, Reason: "must be 0 or greater"}
	}
	return nil
}

func (n Note) String() string {
	if n.IsRest() {
		return fmt.Sprintf("Rest, Duration: %s", n.duration)
	}
	return fmt.Sprintf("String: %d, Fret: %d, Duration: %s", n.str, n.fret, n.duration)
}

// StringIndex returns the string (1-4), or -1 for a rest.
func (n Note) StringIndex() int { return n.str }

// Fret returns the fret, or -1 for a rest.
func (n Note) Fret() int { return n.fret }

// Duration returns the note length as a fraction of a measure.
func (n Note) Duration() Duration { return n.duration }

// Slots returns the number of slots the note occupies.
func (n Note) Slots() int { return n.duration.Slots() }

// IsRest reports whether the note is a rest
func (n Note) IsRest() bool {
	return n.str == restValue && n.fret == restValue
}

// withSlots derives a note with the same placement and a new width.
func (n Note) withSlots(slots int) Note {
	return Note{str: n.str, fret: n.fret, duration: FromSlots(slots)}
}
