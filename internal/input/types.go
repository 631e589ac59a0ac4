// Package input synthesizes keyboard chords on an injection target.
package input

import "strings"

// Key is an abstract key identifier, independent of any backend's codes
type Key int

const (
	KeyUnknown Key = iota
	KeyAlt
	KeyCtrl
	KeyShift
	KeySuper
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyTab
	KeyEscape
	KeyEnter
	KeySpace
	KeyBack    // browser "back" media key
	KeyForward // browser "forward" media key
)

var keyNames = map[Key]string{
	KeyAlt:      "Alt",
	KeyCtrl:     "Ctrl",
	KeyShift:    "Shift",
	KeySuper:    "Super",
	KeyLeft:     "Left",
	KeyRight:    "Right",
	KeyUp:       "Up",
	KeyDown:     "Down",
	KeyPageUp:   "PageUp",
	KeyPageDown: "PageDown",
	KeyHome:     "Home",
	KeyEnd:      "End",
	KeyTab:      "Tab",
	KeyEscape:   "Esc",
	KeyEnter:    "Enter",
	KeySpace:    "Space",
	KeyBack:     "Back",
	KeyForward:  "Forward",
}

// keyAliases maps upper-cased names accepted by ParseChord
var keyAliases = map[string]Key{
	"ALT":      KeyAlt,
	"OPTION":   KeyAlt,
	"CTRL":     KeyCtrl,
	"CONTROL":  KeyCtrl,
	"SHIFT":    KeyShift,
	"SUPER":    KeySuper,
	"WIN":      KeySuper,
	"META":     KeySuper,
	"CMD":      KeySuper,
	"LEFT":     KeyLeft,
	"RIGHT":    KeyRight,
	"UP":       KeyUp,
	"DOWN":     KeyDown,
	"PAGEUP":   KeyPageUp,
	"PGUP":     KeyPageUp,
	"PAGEDOWN": KeyPageDown,
	"PGDN":     KeyPageDown,
	"HOME":     KeyHome,
	"END":      KeyEnd,
	"TAB":      KeyTab,
	"ESC":      KeyEscape,
	"ESCAPE":   KeyEscape,
	"ENTER":    KeyEnter,
	"RETURN":   KeyEnter,
	"SPACE":    KeySpace,
	"BACK":     KeyBack,
	"FORWARD":  KeyForward,
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Chord is an ordered list of keys pressed together, e.g. Alt then Left
type Chord []Key

func (c Chord) String() string {
	parts := make([]string, len(c))
	for i, k := range c {
		parts[i] = k.String()
	}
	return strings.Join(parts, "+")
}

// Default chords for the three actions the monitor can trigger
var (
	ChordBack    = MustParseChord("Alt+Left")
	ChordForward = MustParseChord("Alt+Right")
	ChordSwipe   = MustParseChord("Super")
)

// Keyboard is a synthetic keyboard on some injection target.
// Implementations deliver each Send to the target before returning.
type Keyboard interface {
	// Grab takes exclusive control of the target for one chord
	Grab() error
	// Ungrab releases the control taken by Grab
	Ungrab() error
	// Keycode resolves k to a target code. ok is false when the target
	// has no code for k.
	Keycode(k Key) (code uint32, ok bool)
	// Send presses or releases code and flushes it to the target
	Send(code uint32, pressed bool) error
	Close() error
}
