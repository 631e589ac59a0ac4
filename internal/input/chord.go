package input

import (
	"fmt"
	"strings"
)

// ParseChord parses a chord string such as "Alt+Left" or "super".
// Names are case-insensitive and keys keep the order they are written in.
func ParseChord(s string) (Chord, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyChord
	}

	parts := strings.Split(strings.ToUpper(s), "+")
	chord := make(Chord, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		key, ok := keyAliases[p]
		if !ok {
			return nil, fmt.Errorf("%w: %q in %q", ErrUnknownKey, p, s)
		}
		chord = append(chord, key)
	}
	return chord, nil
}

// MustParseChord is like ParseChord but panics on error
func MustParseChord(s string) Chord {
	c, err := ParseChord(s)
	if err != nil {
		panic(err)
	}
	return c
}
