// Package tab provides the bass tablature data model: notes, measures and the
// allocation of notes into fixed-capacity measures.
package tab

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SlotsPerMeasure is the fixed capacity of every measure, one slot per
// sixteenth of a whole note.
const SlotsPerMeasure = 16

// Duration is a note length as a fraction of a measure.
type Duration float64

// Canonical durations accepted by NewNote
const (
	Whole     Duration = 1
	Half      Duration = 0.5
	Quarter   Duration = 0.25
	Eighth    Duration = 0.125
	Sixteenth Duration = 0.0625
)

// Durations lists the canonical durations from longest to shortest
var Durations = []Duration{Whole, Half, Quarter, Eighth, Sixteenth}

var durationNames = map[Duration]string{
	Whole:     "whole",
	Half:      "half",
	Quarter:   "quarter",
	Eighth:    "eighth",
	Sixteenth: "sixteenth",
}

var durationAliases = map[string]Duration{
	"whole": Whole, "w": Whole,
	"half": Half, "h": Half,
	"quarter": Quarter, "q": Quarter,
	"eighth": Eighth, "e": Eighth,
	"sixteenth": Sixteenth, "s": Sixteenth,
}

// Slots returns the slot width of the duration, round(16 × d).
func (d Duration) Slots() int {
	return int(math.Round(SlotsPerMeasure * float64(d)))
}

// IsCanonical reports whether d is one of the five canonical durations
func (d Duration) IsCanonical() bool {
	_, ok := durationNames[d]
	return ok
}

// String returns the duration name, or n/16 for derived durations.
func (d Duration) String() string {
	if name, ok := durationNames[d]; ok {
		return name
	}
	return fmt.Sprintf("%d/%d", d.Slots(), SlotsPerMeasure)
}

// FromSlots converts a slot count into a duration.
func FromSlots(slots int) Duration {
	return Duration(float64(slots) / SlotsPerMeasure)
}

// IsWholeSlots reports whether d spans an exact number of slots
func (d Duration) IsWholeSlots() bool {
	return FromSlots(d.Slots()) == d
}

// ParseDuration parses a duration name ("quarter"), shorthand ("q"),
// fraction ("1/4", "3/16") or decimal ("0.25"). The result is not required
// to be canonical.
func ParseDuration(s string) (Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if d, ok := durationAliases[s]; ok {
		return d, nil
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.Atoi(num)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		m, err := strconv.Atoi(den)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		if n <= 0 || m <= 0 {
			return 0, fmt.Errorf("invalid duration %q: must be positive", s)
		}
		return Duration(float64(n) / float64(m)), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid duration %q: must be finite", s)
	}
	if f <= 0 {
		return 0, fmt.Errorf("invalid duration %q: must be positive", s)
	}
	return Duration(f), nil
}
