package input

import "errors"

var (
	// ErrUnsupported is returned when a keyboard backend is not available
	// on this platform or build
	ErrUnsupported = errors.New("keyboard backend not supported on this platform")

	// ErrEmptyChord is returned when a chord has no keys
	ErrEmptyChord = errors.New("empty chord")

	// ErrUnknownKey is returned when a chord string names a key we do not know
	ErrUnknownKey = errors.New("unknown key")
)
