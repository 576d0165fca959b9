package tab

import (
	"testing"

	"pgregory.net/rapid"
)

func noteGenerator() *rapid.Generator[Note] {
	return rapid.Custom(func(t *rapid.T) Note {
		d := rapid.SampledFrom(Durations).Draw(t, "duration")
		if rapid.Bool().Draw(t, "rest") {
			n, err := Rest(d)
			if err != nil {
				t.Fatalf("Rest() error = %v", err)
			}
			return n
		}
		n, err := NewNote(
			rapid.IntRange(LowestString, HighestString).Draw(t, "string"),
			rapid.IntRange(0, 24).Draw(t, "fret"),
			d,
		)
		if err != nil {
			t.Fatalf("NewNote() error = %v", err)
		}
		return n
	})
}

func testAllocation_Capacity_Properties(t *rapid.T) {
	tb := New()
	notes := rapid.SliceOf(noteGenerator()).Draw(t, "notes")

	total := 0
	for _, n := range notes {
		tb.AddNote(n)
		total += n.Slots()
	}

	ms := tb.Measures()
	if len(ms) == 0 {
		t.Fatal("tablature lost all measures")
	}
	sum := 0
	for i, m := range ms {
		filled := m.FilledSlots()
		if filled > SlotsPerMeasure {
			t.Fatalf("measure %d overfilled: %d slots", i, filled)
		}
		if i < len(ms)-1 && filled != SlotsPerMeasure {
			t.Fatalf("measure %d of %d not full: %d slots", i, len(ms), filled)
		}
		sum += filled
	}
	if sum != total {
		t.Fatalf("allocated %d slots, added %d", sum, total)
	}
}

func TestAllocation_Capacity_Properties(t *testing.T) {
	rapid.Check(t, testAllocation_Capacity_Properties)
}

func testAllocation_PreservesPlacement_Properties(t *rapid.T) {
	tb := New()
	prefix := rapid.SliceOf(noteGenerator()).Draw(t, "prefix")
	for _, n := range prefix {
		tb.AddNote(n)
	}
	before := len(tb.Notes())

	n := noteGenerator().Draw(t, "note")
	tb.AddNote(n)

	added := tb.Notes()[before:]
	slots := 0
	for _, f := range added {
		if f.StringIndex() != n.StringIndex() || f.Fret() != n.Fret() {
			t.Fatalf("fragment %v does not match %v", f, n)
		}
		slots += f.Slots()
	}
	if slots != n.Slots() {
		t.Fatalf("fragments span %d slots, note spans %d", slots, n.Slots())
	}
}

func TestAllocation_PreservesPlacement_Properties(t *testing.T) {
	rapid.Check(t, testAllocation_PreservesPlacement_Properties)
}

func testUndo_DrainsToSeed_Properties(t *rapid.T) {
	tb := New()
	notes := rapid.SliceOf(noteGenerator()).Draw(t, "notes")
	for _, n := range notes {
		tb.AddNote(n)
	}

	fragments := len(tb.Notes())
	for i := 0; i < fragments; i++ {
		if !tb.UndoLastNote() {
			t.Fatalf("UndoLastNote() = false with %d fragments left", fragments-i)
		}
	}
	if tb.UndoLastNote() {
		t.Fatal("UndoLastNote() = true on drained tablature")
	}
	if tb.MeasureCount() != 1 {
		t.Fatalf("MeasureCount() = %d after draining, want 1", tb.MeasureCount())
	}
}

func TestUndo_DrainsToSeed_Properties(t *testing.T) {
	rapid.Check(t, testUndo_DrainsToSeed_Properties)
}
