package converter

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"os"
	"sort"

	"github.com/james-see/basstab/pkg/tab"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDIConverter handles MIDI file parsing and generation
type MIDIConverter struct {
	ticksPerQuarter uint16
	tempo           float64
	velocity        uint8
	tuning          Tuning
}

// ImportResult is a tablature recovered from a MIDI file
type ImportResult struct {
	Name      string
	Tablature *tab.Tablature
	Tempo     float64
	// Skipped counts notes no string could play; they became rests.
	Skipped int
}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter(tuning Tuning) *MIDIConverter {
	return &MIDIConverter{
		ticksPerQuarter: 480,
		tempo:           120.0,
		velocity:        100,
		tuning:          tuning,
	}
}

// SetTempo sets the tempo written by GenerateMIDI
func (m *MIDIConverter) SetTempo(bpm float64) {
	if bpm > 0 {
		m.tempo = bpm
	}
}

// ticksPerSlot is the length of a sixteenth note; one slot is a sixteenth
// of a whole note whatever the time signature.
func (m *MIDIConverter) ticksPerSlot() uint32 {
	return uint32(m.ticksPerQuarter) / 4
}

// GenerateMIDI creates a single-track MIDI file from a tablature
func (m *MIDIConverter) GenerateMIDI(t *tab.Tablature) ([]byte, error) {
	if t == nil {
		return nil, errors.New("nil tablature")
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	var track smf.Track

	// Tempo meta event (FF 51 03 tttttt)
	microsecondsPerBeat := uint32(60000000.0 / m.tempo)
	track.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))

	// Time signature meta event (FF 58 04 nn dd cc bb)
	ts := t.DefaultTimeSignature()
	if ts.Beats() > 255 {
		return nil, fmt.Errorf("time signature %s does not fit a MIDI meter event", ts)
	}
	track.Add(0, smf.Message([]byte{
		0xFF, 0x58, 0x04,
		byte(ts.Beats()),
		byte(bits.TrailingZeros(uint(ts.BeatValue()))),
		0x18, 0x08,
	}))

	ticksPerSlot := m.ticksPerSlot()
	channel := uint8(0)
	var pending uint32

	for _, measure := range t.Measures() {
		for _, n := range measure.Notes() {
			length := uint32(n.Slots()) * ticksPerSlot
			if n.IsRest() {
				pending += length
				continue
			}

			pitch, ok := m.tuning.Pitch(n.StringIndex(), n.Fret())
			if !ok {
				return nil, fmt.Errorf("fret %d on string %d is out of MIDI range", n.Fret(), n.StringIndex())
			}
			track.Add(pending, midi.NoteOn(channel, pitch, m.velocity))
			track.Add(length, midi.NoteOff(channel, pitch))
			pending = 0
		}
		pending += uint32(measure.RemainingSlots()) * ticksPerSlot
	}

	// Pad to the end of the last measure
	if pending > 0 {
		track.Add(pending, smf.Message([]byte{0xFF, 0x06, 0x00}))
	}

	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteMIDIFile writes a tablature to a MIDI file
func (m *MIDIConverter) WriteMIDIFile(t *tab.Tablature, filename string) error {
	data, err := m.GenerateMIDI(t)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

type noteEvent struct {
	tick  int64
	pitch uint8
	on    bool
}

// ParseMIDI reads a MIDI file as a monophonic bass line. Onsets are
// quantised to sixteenths, gaps become rests, and a note starting while
// another still sounds is dropped.
func (m *MIDIConverter) ParseMIDI(data []byte) (*ImportResult, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	resolution := m.ticksPerQuarter
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		resolution = mt.Resolution()
	}
	ticksPerSlot := float64(resolution) / 4

	result := &ImportResult{Tempo: m.tempo}
	ts := tab.CommonTime
	var events []noteEvent

	for _, track := range s.Tracks {
		var tick int64
		for _, ev := range track {
			tick += int64(ev.Delta)
			msg := ev.Message

			if len(msg) >= 3 && msg[0] == 0xFF {
				switch {
				case msg[1] == 0x51 && len(msg) >= 6:
					usec := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
					if usec > 0 {
						result.Tempo = 60000000.0 / float64(usec)
					}
				case msg[1] == 0x58 && len(msg) >= 5:
					if sig, err := tab.NewTimeSignature(int(msg[3]), 1<<msg[4]); err == nil {
						ts = sig
					}
				case msg[1] == 0x03 && msg[2] < 0x80 && result.Name == "":
					result.Name = string(msg[3:])
				}
				continue
			}

			if len(msg) < 3 {
				continue
			}
			status, key, velocity := msg[0]&0xF0, msg[1], msg[2]
			switch {
			case status == 0x90 && velocity > 0:
				events = append(events, noteEvent{tick: tick, pitch: key, on: true})
			case status == 0x80 || (status == 0x90 && velocity == 0):
				events = append(events, noteEvent{tick: tick, pitch: key})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].pitch < events[j].pitch
	})

	t := tab.NewWithTimeSignature(ts)
	quantize := func(tick int64) int {
		return int(math.Round(float64(tick) / ticksPerSlot))
	}

	cursor := 0
	for i, ev := range events {
		if !ev.on {
			continue
		}
		start := quantize(ev.tick)
		if start < cursor {
			continue
		}

		end := noteEnd(events, i, int64(resolution))
		endSlot := max(quantize(end), start+1)

		if err := addRun(t, -1, -1, start-cursor); err != nil {
			return nil, err
		}

		str, fret, ok := m.tuning.Place(ev.pitch)
		if !ok {
			str, fret = -1, -1
			result.Skipped++
		}
		if err := addRun(t, str, fret, endSlot-start); err != nil {
			return nil, err
		}
		cursor = endSlot
	}

	result.Tablature = t
	return result, nil
}

// noteEnd finds when the onset at events[i] stops sounding: its note-off or
// the next onset, whichever is first. Without either it lasts a quarter.
func noteEnd(events []noteEvent, i int, quarter int64) int64 {
	on := events[i]
	for _, ev := range events[i+1:] {
		if ev.tick <= on.tick {
			continue
		}
		if ev.on || ev.pitch == on.pitch {
			return ev.tick
		}
	}
	return on.tick + quarter
}

// addRun adds slots worth of one pitch (or rest) as canonical durations,
// longest first.
func addRun(t *tab.Tablature, str, fret, slots int) error {
	for slots > 0 {
		for _, d := range tab.Durations {
			if d.Slots() > slots {
				continue
			}
			n, err := tab.NewNote(str, fret, d)
			if err != nil {
				return err
			}
			t.AddNote(n)
			slots -= d.Slots()
			break
		}
	}
	return nil
}
