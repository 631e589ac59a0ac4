//go:build !linux || !cgo

package source

import "gesturenav/internal/gesture"

// Libinput represents a stub libinput source
type Libinput struct{}

// OpenLibinput always fails (stub)
func OpenLibinput(seat string) (*Libinput, error) {
	return nil, ErrUnsupported
}

func (s *Libinput) Wait() error { return ErrUnsupported }

func (s *Libinput) Dispatch() ([]gesture.RawEvent, error) {
	return nil, ErrUnsupported
}

func (s *Libinput) Interrupt() {}

func (s *Libinput) Close() error { return nil }
