package input

import (
	"fmt"
	"log/slog"
)

// Injector presses chords on a Keyboard
type Injector struct {
	kb Keyboard
}

// NewInjector creates an injector driving kb
func NewInjector(kb Keyboard) *Injector {
	return &Injector{kb: kb}
}

type pressedKey struct {
	key  Key
	code uint32
}

// Inject presses the keys of chord in order, then releases them in reverse
// order, all inside one Grab/Ungrab window. Keys the target cannot resolve
// are skipped. Keys that were pressed are released even if a later press
// fails.
func (i *Injector) Inject(chord Chord) (err error) {
	if len(chord) == 0 {
		return ErrEmptyChord
	}

	if err := i.kb.Grab(); err != nil {
		return fmt.Errorf("grab keyboard: %w", err)
	}
	defer func() {
		if uerr := i.kb.Ungrab(); uerr != nil && err == nil {
			err = fmt.Errorf("ungrab keyboard: %w", uerr)
		}
	}()

	pressed := make([]pressedKey, 0, len(chord))
	for _, k := range chord {
		code, ok := i.kb.Keycode(k)
		if !ok {
			slog.Warn("No keycode for key, skipping", "key", k, "chord", chord)
			continue
		}
		if err = i.kb.Send(code, true); err != nil {
			err = fmt.Errorf("press %s: %w", k, err)
			break
		}
		pressed = append(pressed, pressedKey{key: k, code: code})
	}

	for j := len(pressed) - 1; j >= 0; j-- {
		if rerr := i.kb.Send(pressed[j].code, false); rerr != nil && err == nil {
			err = fmt.Errorf("release %s: %w", pressed[j].key, rerr)
		}
	}
	return err
}

// Close releases the underlying keyboard
func (i *Injector) Close() error {
	return i.kb.Close()
}
