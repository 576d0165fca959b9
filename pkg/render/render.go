// Package render lays a tablature out as a fixed-width ASCII grid
package render

import (
	"strconv"
	"strings"

	"github.com/james-see/basstab/pkg/tab"
)

// MeasuresPerRow is the number of measures printed side by side
const MeasuresPerRow = 4

// StringLabels are the line labels from top (highest string) to bottom.
var StringLabels = []string{"G", "D", "A", "E"}

const (
	filler    = "-"
	separator = "|"
)

// Render returns the tablature as text. Each row holds up to MeasuresPerRow
// measures across four string lines, followed by a dash rule and a blank
// line. The output depends only on the tablature's state.
func Render(t *tab.Tablature) string {
	var out strings.Builder
	measures := t.Measures()

	for start := 0; start < len(measures); start += MeasuresPerRow {
		end := min(start+MeasuresPerRow, len(measures))
		row := measures[start:end]

		fields := make([][tab.NumStrings]string, len(row))
		for i, m := range row {
			fields[i] = renderMeasure(m)
		}

		for line, label := range StringLabels {
			// display line 0 is string 4
			idx := tab.NumStrings - 1 - line
			out.WriteString(label)
			out.WriteString(separator)
			for _, f := range fields {
				out.WriteString(f[idx])
				out.WriteString(separator)
			}
			out.WriteString("\n")
		}

		out.WriteString(strings.Repeat(filler, (tab.SlotsPerMeasure+1)*len(row)+1))
		out.WriteString("\n\n")
	}

	return out.String()
}

// renderMeasure returns one field per string, indexed by string - 1.
func renderMeasure(m *tab.Measure) [tab.NumStrings]string {
	var lines [tab.NumStrings]strings.Builder
	used := 0

	for _, n := range m.Notes() {
		width := n.Slots()
		for i := range lines {
			if !n.IsRest() && i == n.StringIndex()-1 {
				lines[i].WriteString(padRight(strconv.Itoa(n.Fret()), width))
			} else {
				lines[i].WriteString(strings.Repeat(filler, width))
			}
		}
		used += width
	}

	if used < tab.SlotsPerMeasure {
		pad := strings.Repeat(filler, tab.SlotsPerMeasure-used)
		for i := range lines {
			lines[i].WriteString(pad)
		}
	}

	var fields [tab.NumStrings]string
	for i := range lines {
		fields[i] = lines[i].String()
	}
	return fields
}

// padRight fills s with dashes up to width. Text wider than width is kept
// whole.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(filler, width-len(s))
}
