// Package config holds the runtime settings of the gesture monitor.
package config

import (
	"errors"
	"fmt"
	"time"

	"gesturenav/internal/gesture"
	"gesturenav/internal/input"
)

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.New("invalid config")

// DefaultSeat is the libinput seat monitored unless configured otherwise
const DefaultSeat = "seat0"

// Event source backends
const (
	SourceLibinput = "libinput"
	SourceEvdev    = "evdev"
)

// Keyboard injection backends
const (
	InjectorX11    = "x11"
	InjectorUinput = "uinput"
	InjectorLog    = "log"
)

// Config represents the application configuration
type Config struct {
	// ScrollThreshold is the horizontal delta a finger scroll must exceed
	// to navigate
	ScrollThreshold float64

	// Debounce is the cooldown before a navigation may repeat in the
	// same direction
	Debounce time.Duration

	// Source selects the event source backend ("libinput" or "evdev")
	Source string

	// Seat is the libinput seat to monitor
	Seat string

	// Device is the /dev/input/eventN node read by the evdev source
	Device string

	// Injector selects the keyboard backend ("x11", "uinput" or "log")
	Injector string

	// Display is the X display to inject into; empty means $DISPLAY
	Display string

	// UinputName is the name of the virtual keyboard created by the
	// uinput backend
	UinputName string

	// BackChord, ForwardChord and SwipeChord are pressed for the
	// corresponding gestures
	BackChord    input.Chord
	ForwardChord input.Chord
	SwipeChord   input.Chord
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ScrollThreshold: gesture.DefaultThreshold,
		Debounce:        gesture.DefaultDebounce,
		Source:          SourceLibinput,
		Seat:            DefaultSeat,
		Injector:        InjectorX11,
		UinputName:      "gesturenav virtual keyboard",
		BackChord:       input.ChordBack,
		ForwardChord:    input.ChordForward,
		SwipeChord:      input.ChordSwipe,
	}
}

// Validate checks that the configuration can be run
func (c *Config) Validate() error {
	if c.ScrollThreshold < 0 {
		return fmt.Errorf("%w: scroll threshold must not be negative, got %v", ErrInvalid, c.ScrollThreshold)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("%w: debounce must not be negative, got %v", ErrInvalid, c.Debounce)
	}

	switch c.Source {
	case SourceLibinput:
		if c.Seat == "" {
			return fmt.Errorf("%w: libinput source needs a seat", ErrInvalid)
		}
	case SourceEvdev:
		if c.Device == "" {
			return fmt.Errorf("%w: evdev source needs a device path", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalid, c.Source)
	}

	switch c.Injector {
	case InjectorX11, InjectorLog:
	case InjectorUinput:
		if c.UinputName == "" {
			return fmt.Errorf("%w: uinput injector needs a device name", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown injector %q", ErrInvalid, c.Injector)
	}

	for name, chord := range map[string]input.Chord{
		"back":    c.BackChord,
		"forward": c.ForwardChord,
		"swipe":   c.SwipeChord,
	} {
		if len(chord) == 0 {
			return fmt.Errorf("%w: %s chord is empty", ErrInvalid, name)
		}
	}
	return nil
}
