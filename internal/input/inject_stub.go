//go:build !linux || !cgo

package input

// Stub implementation for builds without X11

// X11Keyboard represents a stub X11 keyboard
type X11Keyboard struct{}

// OpenX11 always fails (stub)
func OpenX11(name string) (*X11Keyboard, error) {
	return nil, ErrUnsupported
}

func (k *X11Keyboard) Grab() error { return ErrUnsupported }
func (k *X11Keyboard) Ungrab() error { return ErrUnsupported }
func (k *X11Keyboard) Keycode(key Key) (uint32, bool) { return 0, false }
func (k *X11Keyboard) Send(code uint32, pressed bool) error {
	return ErrUnsupported
}
func (k *X11Keyboard) Close() error { return nil }
