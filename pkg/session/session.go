// Package session manages live tablature editing sessions
package session

import (
	"sync"
	"time"

	"github.com/james-see/basstab/pkg/render"
	"github.com/james-see/basstab/pkg/sheet"
	"github.com/james-see/basstab/pkg/tab"
)

// Session owns one tablature being edited. Its methods serialise access, so
// a session can be shared between HTTP handlers.
type Session struct {
	ID      string
	Created time.Time

	mu      sync.Mutex
	title   string
	artist  string
	tab     *tab.Tablature
	updated time.Time
}

// Info is a point-in-time summary of a session
type Info struct {
	ID            string    `json:"id"`
	Title         string    `json:"title,omitempty"`
	Artist        string    `json:"artist,omitempty"`
	TimeSignature string    `json:"time_signature"`
	Measures      int       `json:"measures"`
	Notes         int       `json:"notes"`
	Created       time.Time `json:"created"`
	Updated       time.Time `json:"updated"`
}

func newSession(id string, t *tab.Tablature) *Session {
	now := time.Now()
	return &Session{ID: id, Created: now, tab: t, updated: now}
}

// New creates a standalone session around t, for single-user front ends.
func New(title, artist string, t *tab.Tablature) *Session {
	s := newSession("", t)
	s.title, s.artist = title, artist
	return s
}

func (s *Session) touch() { s.updated = time.Now() }

// AddNote allocates a note into the tablature
func (s *Session) AddNote(n tab.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab.AddNote(n)
	s.touch()
}

// Add validates and adds a note; stringIndex and fret are ignored for rests.
func (s *Session) Add(stringIndex, fret int, d tab.Duration, rest bool) (tab.Note, error) {
	var (
		n   tab.Note
		err error
	)
	if rest {
		n, err = tab.Rest(d)
	} else {
		n, err = tab.NewNote(stringIndex, fret, d)
	}
	if err != nil {
		return tab.Note{}, err
	}
	s.AddNote(n)
	return n, nil
}

// AddRest adds a rest of duration d
func (s *Session) AddRest(d tab.Duration) error {
	_, err := s.Add(0, 0, d, true)
	return err
}

// UndoNote removes the last note fragment
func (s *Session) UndoNote() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.tab.UndoLastNote()
	if ok {
		s.touch()
	}
	return ok
}

// UndoMeasure removes the last measure
func (s *Session) UndoMeasure() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.tab.UndoLastMeasure()
	if ok {
		s.touch()
	}
	return ok
}

// Reset clears the tablature back to one empty measure
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab.Reset()
	s.touch()
}

// SetTimeSignature changes the signature of measures created from now on
func (s *Session) SetTimeSignature(ts tab.TimeSignature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab.SetDefaultTimeSignature(ts)
	s.touch()
}

// SetMetadata updates the title and artist
func (s *Session) SetMetadata(title, artist string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title, s.artist = title, artist
	s.touch()
}

// Metadata returns the title and artist
func (s *Session) Metadata() (title, artist string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title, s.artist
}

// Render returns the bare tablature grid
func (s *Session) Render() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return render.Render(s.tab)
}

// Preview returns the grid with the title and artist header
func (s *Session) Preview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return render.Preview(s.title, s.artist, s.tab)
}

// Markdown returns the grid as a fenced tab block
func (s *Session) Markdown() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return render.Markdown(s.title, s.artist, s.tab)
}

// Sheet captures the session as a sheet
func (s *Session) Sheet() *sheet.Sheet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sheet.FromTablature(s.title, s.artist, s.tab)
}

// Do runs fn with exclusive access to the tablature. fn must not keep t.
func (s *Session) Do(fn func(t *tab.Tablature)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.tab)
}

// Info summarises the session
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:            s.ID,
		Title:         s.title,
		Artist:        s.artist,
		TimeSignature: s.tab.DefaultTimeSignature().String(),
		Measures:      s.tab.MeasureCount(),
		Notes:         len(s.tab.Notes()),
		Created:       s.Created,
		Updated:       s.updated,
	}
}
