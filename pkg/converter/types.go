// Package converter converts between sheets, MIDI files and rendered tablature
package converter

import (
	"fmt"
	"strings"
)

// Tuning maps each bass string to the MIDI pitch of its open note
type Tuning struct {
	Name string
	Open [4]uint8 // indexed by string - 1, lowest first
}

// Bass tunings
var (
	Standard     = Tuning{Name: "standard", Open: [4]uint8{28, 33, 38, 43}}       // E1 A1 D2 G2
	DropD        = Tuning{Name: "drop-d", Open: [4]uint8{26, 33, 38, 43}}         // D1 A1 D2 G2
	HalfStepDown = Tuning{Name: "half-step-down", Open: [4]uint8{27, 32, 37, 42}} // Eb1 Ab1 Db2 Gb2
)

// Tunings lists the supported tunings
var Tunings = []Tuning{Standard, DropD, HalfStepDown}

// MaxFret is the highest fret considered when mapping pitches to strings
const MaxFret = 24

// LookupTuning finds a tuning by name
func LookupTuning(name string) (Tuning, error) {
	for _, t := range Tunings {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return Tuning{}, fmt.Errorf("unknown tuning %q", name)
}

// Pitch returns the MIDI pitch of a fret on a string (1-4). ok is false
// when the string is out of range or the pitch is above 127.
func (t Tuning) Pitch(stringIndex, fret int) (pitch uint8, ok bool) {
	if stringIndex < 1 || stringIndex > len(t.Open) || fret < 0 {
		return 0, false
	}
	p := int(t.Open[stringIndex-1]) + fret
	if p > 127 {
		return 0, false
	}
	return uint8(p), true
}

// Place finds the string and fret for a pitch, preferring the lowest fret.
// ok is false when no string can play it.
func (t Tuning) Place(pitch uint8) (stringIndex, fret int, ok bool) {
	for s := len(t.Open); s >= 1; s-- {
		f := int(pitch) - int(t.Open[s-1])
		if f >= 0 && f <= MaxFret {
			return s, f, true
		}
	}
	return 0, 0, false
}

// Converter handles format conversions
type Converter struct {
	tuning Tuning
	midi   *MIDIConverter
}

// New creates a new Converter for the given tuning
func New(tuning Tuning) *Converter {
	return &Converter{tuning: tuning, midi: NewMIDIConverter(tuning)}
}

// GetTuning returns the current tuning
func (c *Converter) GetTuning() Tuning {
	return c.tuning
}

// SetTuning sets the tuning used for MIDI pitches
func (c *Converter) SetTuning(tuning Tuning) {
	c.tuning = tuning
	c.midi.tuning = tuning
}

// MIDI returns the converter's MIDI codec
func (c *Converter) MIDI() *MIDIConverter {
	return c.midi
}
