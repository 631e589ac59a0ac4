package source

import "errors"

var (
	// ErrClosed is returned by Wait once the source has been interrupted
	ErrClosed = errors.New("event source closed")

	// ErrUnsupported is returned when a source backend is not available
	// on this platform or build
	ErrUnsupported = errors.New("event source not supported on this platform")
)
