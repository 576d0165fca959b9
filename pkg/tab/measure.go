package tab

// Measure is an ordered group of notes holding at most SlotsPerMeasure slots.
// Only the owning Tablature mutates it.
type Measure struct {
	notes         []Note
	timeSignature TimeSignature
}

func newMeasure(ts TimeSignature) *Measure {
	return &Measure{timeSignature: ts}
}

// Notes returns a copy of the measure's notes in order
func (m *Measure) Notes() []Note {
	out := make([]Note, len(m.notes))
	copy(out, m.notes)
	return out
}

// Len returns the number of notes in the measure
func (m *Measure) Len() int { return len(m.notes) }

// TimeSignature returns the measure's time signature
func (m *Measure) TimeSignature() TimeSignature { return m.timeSignature }

// FilledSlots sums the slot widths of the measure's notes.
func (m *Measure) FilledSlots() int {
	total := 0
	for _, n := range m.notes {
		total += n.Slots()
	}
	return total
}

// RemainingSlots returns the free capacity of the measure
func (m *Measure) RemainingSlots() int {
	return SlotsPerMeasure - m.FilledSlots()
}

// IsFull reports whether no slots remain
func (m *Measure) IsFull() bool {
	return m.FilledSlots() >= SlotsPerMeasure
}

// IsEmpty reports whether the measure holds no notes
func (m *Measure) IsEmpty() bool {
	return len(m.notes) == 0
}

func (m *Measure) append(n Note) {
	m.notes = append(m.notes, n)
}

func (m *Measure) pop() {
	m.notes = m.notes[:len(m.notes)-1]
}
