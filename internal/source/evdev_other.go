//go:build !linux

package source

import "gesturenav/internal/gesture"

// Evdev represents a stub evdev source
type Evdev struct{}

// OpenEvdev always fails (stub)
func OpenEvdev(path string) (*Evdev, error) {
	return nil, ErrUnsupported
}

func (s *Evdev) Wait() error { return ErrUnsupported }

func (s *Evdev) Dispatch() ([]gesture.RawEvent, error) {
	return nil, ErrUnsupported
}

func (s *Evdev) Interrupt() {}

func (s *Evdev) Close() error { return nil }
