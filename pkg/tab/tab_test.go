package tab

import (
	"errors"
	"testing"
)

func mustNote(t *testing.T, str, fret int, d Duration) Note {
	t.Helper()
	n, err := NewNote(str, fret, d)
	if err != nil {
		t.Fatalf("NewNote(%d, %d, %v) error = %v", str, fret, d, err)
	}
	return n
}

func TestDurationSlots(t *testing.T) {
	tests := []struct {
		d    Duration
		want int
	}{
		{Whole, 16},
		{Half, 8},
		{Quarter, 4},
		{Eighth, 2},
		{Sixteenth, 1},
		{FromSlots(3), 3},
	}

	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			if got := tt.d.Slots(); got != tt.want {
				t.Errorf("Slots() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    Duration
		wantErr bool
	}{
		{"quarter", Quarter, false},
		{"Q", Quarter, false},
		{"whole", Whole, false},
		{"s", Sixteenth, false},
		{"1/8", Eighth, false},
		{"3/16", FromSlots(3), false},
		{"0.5", Half, false},
		{"", 0, true},
		{"0", 0, true},
		{"-1/4", 0, true},
		{"long", 0, true},
		{"nan", 0, true},
		{"inf", 0, true},
		{"-Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDurationString(t *testing.T) {
	if Eighth.String() != "eighth" {
		t.Errorf("Eighth.String() = %q", Eighth.String())
	}
	if got := FromSlots(12).String(); got != "12/16" {
		t.Errorf("FromSlots(12).String() = %q, want %q", got, "12/16")
	}
}

func TestDurationIsWholeSlots(t *testing.T) {
	for _, d := range []Duration{Whole, Sixteenth, FromSlots(3), FromSlots(15)} {
		if !d.IsWholeSlots() {
			t.Errorf("%v.IsWholeSlots() = false", d)
		}
	}
	for _, d := range []Duration{Duration(1.0 / 3), Duration(0.3), Duration(0.03)} {
		if d.IsWholeSlots() {
			t.Errorf("%v.IsWholeSlots() = true", float64(d))
		}
	}
}

func TestNewNoteValidation(t *testing.T) {
	tests := []struct {
		name      string
		str, fret int
		d         Duration
		wantField string
	}{
		{"valid note", 1, 0, Quarter, ""},
		{"valid high fret", 4, 24, Whole, ""},
		{"valid rest", -1, -1, Half, ""},
		{"string too low", 0, 3, Quarter, "string"},
		{"string too high", 5, 3, Quarter, "string"},
		{"negative fret", 2, -1, Quarter, "fret"},
		{"rest with fret", -1, 3, Quarter, "fret"},
		{"bad duration", 1, 0, 0.3, "duration"},
		{"derived duration rejected", 1, 0, FromSlots(3), "duration"},
		{"placement checked first", 9, 0, 0.3, "string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNote(tt.str, tt.fret, tt.d)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("NewNote() error = %v", err)
				}
				if n.StringIndex() != tt.str || n.Fret() != tt.fret || n.Duration() != tt.d {
					t.Errorf("NewNote() = %v, fields not preserved", n)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("NewNote() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestIsRest(t *testing.T) {
	r, err := Rest(Quarter)
	if err != nil {
		t.Fatalf("Rest() error = %v", err)
	}
	if !r.IsRest() {
		t.Error("Rest() should be a rest")
	}
	if mustNote(t, 1, 0, Quarter).IsRest() {
		t.Error("fretted note should not be a rest")
	}
}

func TestNewFragment(t *testing.T) {
	f, err := NewFragment(2, 5, 3)
	if err != nil {
		t.Fatalf("NewFragment() error = %v", err)
	}
	if f.Slots() != 3 {
		t.Errorf("Slots() = %d, want 3", f.Slots())
	}
	if _, err := NewFragment(2, 5, 17); err == nil {
		t.Error("NewFragment() should reject 17 slots")
	}
	if _, err := NewFragment(2, 5, 0); err == nil {
		t.Error("NewFragment() should reject 0 slots")
	}
}

func TestNewTimeSignature(t *testing.T) {
	tests := []struct {
		beats, value int
		wantErr      bool
	}{
		{4, 4, false},
		{3, 4, false},
		{6, 8, false},
		{7, 16, false},
		{0, 4, true},
		{4, 0, true},
		{4, 3, true},
		{-2, 4, true},
	}

	for _, tt := range tests {
		ts, err := NewTimeSignature(tt.beats, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewTimeSignature(%d, %d) error = %v, wantErr %v", tt.beats, tt.value, err, tt.wantErr)
			continue
		}
		if err == nil && (ts.Beats() != tt.beats || ts.BeatValue() != tt.value) {
			t.Errorf("NewTimeSignature(%d, %d) = %v", tt.beats, tt.value, ts)
		}
	}
}

func TestZeroTimeSignature(t *testing.T) {
	var zero TimeSignature
	if !zero.IsZero() || zero.String() != "4/4" {
		t.Errorf("zero value = %v, want 4/4", zero)
	}

	tb := NewWithTimeSignature(zero)
	if got := tb.DefaultTimeSignature(); got != CommonTime {
		t.Errorf("DefaultTimeSignature() = %v, want 4/4", got)
	}
	if got := tb.Measures()[0].TimeSignature(); got != CommonTime {
		t.Errorf("first measure = %v, want 4/4", got)
	}

	waltz, _ := NewTimeSignature(3, 4)
	tb.SetDefaultTimeSignature(waltz)
	tb.SetDefaultTimeSignature(TimeSignature{})
	if got := tb.DefaultTimeSignature(); got != CommonTime {
		t.Errorf("SetDefaultTimeSignature(zero) = %v, want 4/4", got)
	}
}

func TestParseTimeSignature(t *testing.T) {
	ts, err := ParseTimeSignature("3/4")
	if err != nil {
		t.Fatalf("ParseTimeSignature() error = %v", err)
	}
	if ts.String() != "3/4" {
		t.Errorf("String() = %q, want %q", ts.String(), "3/4")
	}
	for _, bad := range []string{"", "4", "a/4", "4/b", "4/6"} {
		if _, err := ParseTimeSignature(bad); err == nil {
			t.Errorf("ParseTimeSignature(%q) should fail", bad)
		}
	}
}

func TestNewTablatureSeeded(t *testing.T) {
	tb := New()
	if tb.MeasureCount() != 1 {
		t.Fatalf("MeasureCount() = %d, want 1", tb.MeasureCount())
	}
	if !tb.Measures()[0].IsEmpty() {
		t.Error("seeded measure should be empty")
	}
	if tb.DefaultTimeSignature() != CommonTime {
		t.Errorf("DefaultTimeSignature() = %v, want 4/4", tb.DefaultTimeSignature())
	}
}

func TestAddNoteFillsMeasure(t *testing.T) {
	tb := New()
	for i := 0; i < 4; i++ {
		tb.AddNote(mustNote(t, 1, 0, Quarter))
	}

	if tb.MeasureCount() != 1 {
		t.Fatalf("MeasureCount() = %d, want 1", tb.MeasureCount())
	}
	m := tb.Measures()[0]
	if m.Len() != 4 {
		t.Errorf("Len() = %d, want 4", m.Len())
	}
	if !m.IsFull() || m.RemainingSlots() != 0 {
		t.Errorf("measure should be exactly full, remaining = %d", m.RemainingSlots())
	}

	tb.AddNote(mustNote(t, 2, 3, Eighth))
	if tb.MeasureCount() != 2 {
		t.Errorf("MeasureCount() = %d, want 2 after overflow", tb.MeasureCount())
	}
}

func TestAddNoteSplitsAcrossBarline(t *testing.T) {
	tb := New()
	for i := 0; i < 3; i++ {
		tb.AddNote(mustNote(t, 1, 0, Quarter))
	}
	tb.AddNote(mustNote(t, 3, 7, Whole))

	if tb.MeasureCount() != 2 {
		t.Fatalf("MeasureCount() = %d, want 2", tb.MeasureCount())
	}

	ms := tb.Measures()
	head := ms[0].Notes()[3]
	tail := ms[1].Notes()[0]
	if head.Slots() != 4 {
		t.Errorf("head fragment slots = %d, want 4", head.Slots())
	}
	if tail.Slots() != 12 {
		t.Errorf("tail fragment slots = %d, want 12", tail.Slots())
	}
	for _, f := range []Note{head, tail} {
		if f.StringIndex() != 3 || f.Fret() != 7 {
			t.Errorf("fragment %v lost its placement", f)
		}
	}
}

func TestAddNoteExactFillDoesNotOpenMeasure(t *testing.T) {
	tb := New()
	tb.AddNote(mustNote(t, 1, 0, Half))
	tb.AddNote(mustNote(t, 1, 0, Half))
	if tb.MeasureCount() != 1 {
		t.Errorf("MeasureCount() = %d, want 1", tb.MeasureCount())
	}
}

func TestAddNoteNonCanonicalFragment(t *testing.T) {
	tb := New()
	tb.AddNote(mustNote(t, 1, 0, Sixteenth))
	tb.AddNote(mustNote(t, 1, 0, Whole))

	first := tb.Measures()[0].Notes()[1]
	if first.Slots() != 15 {
		t.Fatalf("fragment slots = %d, want 15", first.Slots())
	}
	if first.Duration().IsCanonical() {
		t.Error("15/16 fragment should not be canonical")
	}
}

func TestAddMeasure(t *testing.T) {
	tb := New()
	tb.AddMeasure()
	if tb.MeasureCount() != 2 {
		t.Errorf("MeasureCount() = %d, want 2", tb.MeasureCount())
	}
}

func TestUndoLastNoteOnFreshTablature(t *testing.T) {
	tb := New()
	if tb.UndoLastNote() {
		t.Error("UndoLastNote() = true on empty tablature")
	}
	if tb.MeasureCount() != 1 {
		t.Errorf("MeasureCount() = %d, want 1", tb.MeasureCount())
	}
}

func TestUndoLastNoteRemovesFragment(t *testing.T) {
	tb := New()
	for i := 0; i < 3; i++ {
		tb.AddNote(mustNote(t, 1, 0, Quarter))
	}
	tb.AddNote(mustNote(t, 2, 5, Half))

	if !tb.UndoLastNote() {
		t.Fatal("UndoLastNote() = false")
	}
	// the continuation measure emptied and was dropped
	if tb.MeasureCount() != 1 {
		t.Fatalf("MeasureCount() = %d, want 1", tb.MeasureCount())
	}
	// the head fragment is still there
	if got := tb.Measures()[0].FilledSlots(); got != 16 {
		t.Errorf("FilledSlots() = %d, want 16", got)
	}

	if !tb.UndoLastNote() {
		t.Fatal("second UndoLastNote() = false")
	}
	if got := tb.Measures()[0].FilledSlots(); got != 12 {
		t.Errorf("FilledSlots() = %d, want 12", got)
	}
}

func TestUndoLastNoteKeepsFirstMeasure(t *testing.T) {
	tb := New()
	tb.AddNote(mustNote(t, 1, 0, Quarter))
	if !tb.UndoLastNote() {
		t.Fatal("UndoLastNote() = false")
	}
	if tb.MeasureCount() != 1 {
		t.Errorf("MeasureCount() = %d, want 1", tb.MeasureCount())
	}
	if len(tb.Notes()) != 0 {
		t.Errorf("Notes() = %v, want none", tb.Notes())
	}
}

func TestUndoAfterExactFill(t *testing.T) {
	tb := New()
	tb.AddNote(mustNote(t, 1, 0, Whole))
	tb.AddNote(mustNote(t, 1, 0, Whole))
	if tb.MeasureCount() != 2 {
		t.Fatalf("MeasureCount() = %d, want 2", tb.MeasureCount())
	}

	tb.UndoLastNote()
	if tb.MeasureCount() != 1 {
		t.Errorf("MeasureCount() = %d, want 1", tb.MeasureCount())
	}
}

func TestUndoLastMeasure(t *testing.T) {
	tb := New()
	tb.AddNote(mustNote(t, 1, 0, Whole))
	tb.AddNote(mustNote(t, 1, 2, Quarter))

	if !tb.UndoLastMeasure() {
		t.Fatal("UndoLastMeasure() = false")
	}
	if tb.MeasureCount() != 1 {
		t.Fatalf("MeasureCount() = %d, want 1", tb.MeasureCount())
	}
	if len(tb.Notes()) != 1 {
		t.Errorf("len(Notes()) = %d, want 1", len(tb.Notes()))
	}

	if !tb.UndoLastMeasure() {
		t.Fatal("UndoLastMeasure() on last measure = false")
	}
	if tb.MeasureCount() != 1 || !tb.Measures()[0].IsEmpty() {
		t.Error("removing the only measure should leave one empty measure")
	}
}

func TestNotesOrder(t *testing.T) {
	tb := New()
	tb.AddNote(mustNote(t, 1, 1, Half))
	tb.AddNote(mustNote(t, 2, 2, Whole))
	tb.AddNote(mustNote(t, 3, 3, Quarter))

	notes := tb.Notes()
	wantFrets := []int{1, 2, 2, 3}
	if len(notes) != len(wantFrets) {
		t.Fatalf("len(Notes()) = %d, want %d", len(notes), len(wantFrets))
	}
	for i, f := range wantFrets {
		if notes[i].Fret() != f {
			t.Errorf("notes[%d].Fret() = %d, want %d", i, notes[i].Fret(), f)
		}
	}
}

func TestResetAndTimeSignature(t *testing.T) {
	tb := New()
	tb.AddNote(mustNote(t, 1, 0, Whole))
	tb.AddNote(mustNote(t, 1, 0, Whole))

	waltz, _ := NewTimeSignature(3, 4)
	tb.SetDefaultTimeSignature(waltz)
	tb.Reset()

	if tb.MeasureCount() != 1 {
		t.Fatalf("MeasureCount() = %d, want 1", tb.MeasureCount())
	}
	if got := tb.Measures()[0].TimeSignature(); got != waltz {
		t.Errorf("TimeSignature() = %v, want 3/4", got)
	}
	// capacity stays at 16 slots regardless of the signature
	if got := tb.Measures()[0].RemainingSlots(); got != SlotsPerMeasure {
		t.Errorf("RemainingSlots() = %d, want %d", got, SlotsPerMeasure)
	}
}
