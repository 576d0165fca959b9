package tab

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeSignature is descriptive metadata; it does not change measure capacity.
// The zero value stands for CommonTime.
type TimeSignature struct {
	beats     int
	beatValue int
}

// CommonTime is 4/4, the default for new tablatures
var CommonTime = TimeSignature{beats: 4, beatValue: 4}

// NewTimeSignature validates and creates a time signature
func NewTimeSignature(beats, beatValue int) (TimeSignature, error) {
	if beats <= 0 {
		return TimeSignature{}, &ValidationError{Field: "beats", Value: beats, Reason: "must be positive"}
	}
	if beatValue <= 0 {
		return TimeSignature{}, &ValidationError{Field: "beatValue", Value: beatValue, Reason: "must be positive"}
	}
	if beatValue&(beatValue-1) != 0 {
		return TimeSignature{}, &ValidationError{Field: "beatValue", Value: beatValue, Reason: "must be a power of 2"}
	}
	return TimeSignature{beats: beats, beatValue: beatValue}, nil
}

// ParseTimeSignature parses "beats/beatValue", e.g. "3/4".
func ParseTimeSignature(s string) (TimeSignature, error) {
	beats, value, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return TimeSignature{}, fmt.Errorf("invalid time signature %q: expected beats/value", s)
	}
	b, err := strconv.Atoi(strings.TrimSpace(beats))
	if err != nil {
		return TimeSignature{}, fmt.Errorf("invalid time signature %q: %w", s, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return TimeSignature{}, fmt.Errorf("invalid time signature %q: %w", s, err)
	}
	return NewTimeSignature(b, v)
}

// Beats is the number of beats per measure
func (ts TimeSignature) Beats() int { return ts.orDefault().beats }

// BeatValue is the note value of one beat
func (ts TimeSignature) BeatValue() int { return ts.orDefault().beatValue }

// IsZero reports whether ts is the zero value
func (ts TimeSignature) IsZero() bool { return ts == TimeSignature{} }

func (ts TimeSignature) orDefault() TimeSignature {
	if ts.IsZero() {
		return CommonTime
	}
	return ts
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Beats(), ts.BeatValue())
}
