// Package source reads raw gesture and scroll events from the Linux input
// stack and decodes them into gesture.RawEvent values.
package source

import "gesturenav/internal/gesture"

// Source is a restartable, blocking stream of raw events
type Source interface {
	// Wait blocks until events are ready. It returns ErrClosed after
	// Interrupt, and any other error when the device link is gone.
	Wait() error
	// Dispatch drains the events that are ready without blocking, in
	// arrival order. The batch may be empty.
	Dispatch() ([]gesture.RawEvent, error)
}
