package tab

// Tablature is an ordered sequence of measures. It always holds at least one
// measure and is not safe for concurrent use.
type Tablature struct {
	measures             []*Measure
	defaultTimeSignature TimeSignature
}

// New creates a tablature in 4/4 seeded with one empty measure
func New() *Tablature {
	return NewWithTimeSignature(CommonTime)
}

// NewWithTimeSignature creates a tablature whose new measures use ts
func NewWithTimeSignature(ts TimeSignature) *Tablature {
	t := &Tablature{defaultTimeSignature: ts.orDefault()}
	t.AddMeasure()
	return t
}

// AddMeasure appends an empty measure with the default time signature
func (t *Tablature) AddMeasure() {
	t.measures = append(t.measures, newMeasure(t.defaultTimeSignature))
}

// currentMeasure returns the last measure, appending a fresh one first when
// the last is full or there is none.
func (t *Tablature) currentMeasure() *Measure {
	if len(t.measures) == 0 || t.measures[len(t.measures)-1].IsFull() {
		t.AddMeasure()
	}
	return t.measures[len(t.measures)-1]
}

// AddNote allocates n into the tablature. A note longer than the space left
// in the current measure is split: the first fragment fills the measure and
// the rest continues in new measures. Every fragment keeps the note's string
// and fret.
func (t *Tablature) AddNote(n Note) {
	remaining := n.Slots()
	for remaining > 0 {
		m := t.currentMeasure()
		take := min(remaining, m.RemainingSlots())
		m.append(n.withSlots(take))
		remaining -= take

		if remaining > 0 {
			t.AddMeasure()
		}
	}
}

// UndoLastNote removes the last note fragment. A measure emptied by the undo
// is dropped unless it is the first. Returns false if there was nothing to
// undo.
//
// A note split across measures by AddNote takes one call per fragment.
func (t *Tablature) UndoLastNote() bool {
	for i := len(t.measures) - 1; i >= 0; i-- {
		m := t.measures[i]
		if m.IsEmpty() {
			continue
		}
		m.pop()
		if m.IsEmpty() && i != 0 {
			t.measures = t.measures[:len(t.measures)-1]
		}
		return true
	}
	return false
}

// UndoLastMeasure removes the last measure along with its notes. Removing
// the only measure leaves a fresh empty one in its place.
func (t *Tablature) UndoLastMeasure() bool {
	if len(t.measures) == 0 {
		return false
	}
	t.measures = t.measures[:len(t.measures)-1]
	if len(t.measures) == 0 {
		t.AddMeasure()
	}
	return true
}

// Reset discards every measure and starts over with one empty measure
func (t *Tablature) Reset() {
	t.measures = nil
	t.AddMeasure()
}

// Measures returns the measures in order. The slice is a copy; the measures
// themselves are shared and read-only to callers.
func (t *Tablature) Measures() []*Measure {
	out := make([]*Measure, len(t.measures))
	copy(out, t.measures)
	return out
}

// MeasureCount returns the number of measures
func (t *Tablature) MeasureCount() int { return len(t.measures) }

// Notes returns every note fragment in measure order.
func (t *Tablature) Notes() []Note {
	var out []Note
	for _, m := range t.measures {
		out = append(out, m.notes...)
	}
	return out
}

// DefaultTimeSignature returns the time signature given to new measures
func (t *Tablature) DefaultTimeSignature() TimeSignature {
	return t.defaultTimeSignature
}

// SetDefaultTimeSignature changes the time signature of measures created
// from now on. Existing measures keep theirs.
func (t *Tablature) SetDefaultTimeSignature(ts TimeSignature) {
	t.defaultTimeSignature = ts.orDefault()
}
