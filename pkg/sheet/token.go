package sheet

import (
	"fmt"
	"strconv"
	"strings"
)

var stringLetters = map[string]int{"e": 1, "a": 2, "d": 3, "g": 4}

// ParseToken parses the compact note notation used on the command line:
// "<string>:<fret>:<duration>" or "r:<duration>". The string is a letter
// (E, A, D, G) or its number (1-4); the duration accepts anything
// tab.ParseDuration does, e.g. "E:3:q", "2:5:eighth", "r:h".
func ParseToken(tok string) (Entry, error) {
	parts := strings.Split(strings.TrimSpace(tok), ":")
	switch {
	case len(parts) == 2 && strings.EqualFold(parts[0], "r"):
		return Entry{Rest: true, Duration: parts[1]}, nil
	case len(parts) == 3:
		str, ok := stringLetters[strings.ToLower(parts[0])]
		if !ok {
			n, err := strconv.Atoi(parts[0])
			if err != nil {
				return Entry{}, fmt.Errorf("invalid string %q in %q", parts[0], tok)
			}
			str = n
		}
		fret, err := strconv.Atoi(parts[1])
		if err != nil {
			return Entry{}, fmt.Errorf("invalid fret %q in %q", parts[1], tok)
		}
		return Entry{String: str, Fret: fret, Duration: parts[2]}, nil
	default:
		return Entry{}, fmt.Errorf("invalid note %q: want string:fret:duration or r:duration", tok)
	}
}

// ParseTokens parses whitespace separated tokens into entries
func ParseTokens(s string) ([]Entry, error) {
	var entries []Entry
	for _, tok := range strings.Fields(s) {
		e, err := ParseToken(tok)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
