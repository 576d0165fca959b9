// Package sheet reads and writes tablatures as YAML documents
package sheet

import (
	"fmt"
	"os"

	"github.com/james-see/basstab/pkg/tab"
	"gopkg.in/yaml.v3"
)

// Entry is one note or rest in a sheet
type Entry struct {
	String   int    `yaml:"string,omitempty" json:"string,omitempty"`
	Fret     int    `yaml:"fret,omitempty" json:"fret,omitempty"`
	Duration string `yaml:"duration" json:"duration"`
	Rest     bool   `yaml:"rest,omitempty" json:"rest,omitempty"`
}

// Sheet is the serialisable form of a tablature
type Sheet struct {
	Title         string  `yaml:"title,omitempty" json:"title,omitempty"`
	Artist        string  `yaml:"artist,omitempty" json:"artist,omitempty"`
	TimeSignature string  `yaml:"time_signature,omitempty" json:"time_signature,omitempty"`
	Notes         []Entry `yaml:"notes" json:"notes"`
}

// Parse decodes a YAML sheet
func Parse(data []byte) (*Sheet, error) {
	var s Sheet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse sheet: %w", err)
	}
	return &s, nil
}

// Load reads a YAML sheet from disk
func Load(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the sheet as YAML
func (s *Sheet) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Save writes the sheet to path as YAML
func (s *Sheet) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode sheet: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sheet: %w", err)
	}
	return nil
}

// Note converts the entry into a tab note. Canonical durations go through
// tab.NewNote; any other whole number of slots is restored as a fragment.
func (e Entry) Note() (tab.Note, error) {
	d, err := tab.ParseDuration(e.Duration)
	if err != nil {
		return tab.Note{}, &tab.ValidationError{Field: "duration", Value: e.Duration, Reason: err.Error()}
	}

	str, fret := e.String, e.Fret
	if e.Rest {
		str, fret = -1, -1
	}
	if d.IsCanonical() {
		return tab.NewNote(str, fret, d)
	}
	if !d.IsWholeSlots() {
		return tab.Note{}, &tab.ValidationError{Field: "duration", Value: e.Duration, Reason: "must be a whole number of sixteenths"}
	}
	return tab.NewFragment(str, fret, d.Slots())
}

// EntryFrom converts a tab note into a sheet entry
func EntryFrom(n tab.Note) Entry {
	if n.IsRest() {
		return Entry{Rest: true, Duration: n.Duration().String()}
	}
	return Entry{String: n.StringIndex(), Fret: n.Fret(), Duration: n.Duration().String()}
}

// TimeSig returns the sheet's time signature, 4/4 when unset
func (s *Sheet) TimeSig() (tab.TimeSignature, error) {
	if s.TimeSignature == "" {
		return tab.CommonTime, nil
	}
	return tab.ParseTimeSignature(s.TimeSignature)
}

// Build replays the sheet's entries into a new tablature. The first invalid
// entry aborts the build.
func (s *Sheet) Build() (*tab.Tablature, error) {
	ts, err := s.TimeSig()
	if err != nil {
		return nil, err
	}

	t := tab.NewWithTimeSignature(ts)
	for i, e := range s.Notes {
		n, err := e.Note()
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i+1, err)
		}
		t.AddNote(n)
	}
	return t, nil
}

// FromTablature captures t as a sheet. Split notes are stored as their
// fragments so Build reproduces the same measures.
func FromTablature(title, artist string, t *tab.Tablature) *Sheet {
	s := &Sheet{
		Title:         title,
		Artist:        artist,
		TimeSignature: t.DefaultTimeSignature().String(),
		Notes:         []Entry{},
	}
	for _, n := range t.Notes() {
		s.Notes = append(s.Notes, EntryFrom(n))
	}
	return s
}
