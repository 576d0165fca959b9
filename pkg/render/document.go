package render

import (
	"strings"

	"github.com/james-see/basstab/pkg/tab"
)

// Preview returns the grid under an optional title and artist header, as
// shown while editing.
func Preview(title, artist string, t *tab.Tablature) string {
	var s strings.Builder
	if title != "" {
		s.WriteString("Title: " + title + "\n")
	}
	if artist != "" {
		s.WriteString("Artist: " + artist + "\n\n")
	}
	s.WriteString(Render(t))
	return s.String()
}

// Markdown returns the grid inside a ```tab fence for pasting into a note.
func Markdown(title, artist string, t *tab.Tablature) string {
	var s strings.Builder
	if title != "" {
		s.WriteString("Title: " + title + "\n")
	}
	if artist != "" {
		s.WriteString("Artist: " + artist + "\n")
	}
	s.WriteString("\n```tab\n")
	s.WriteString(Render(t))
	s.WriteString("\n```\n")
	return s.String()
}
