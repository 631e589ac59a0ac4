//go:build !linux

package input

// UinputKeyboard represents a stub uinput keyboard
type UinputKeyboard struct{}

// OpenUinput always fails (stub)
func OpenUinput(name string) (*UinputKeyboard, error) {
	return nil, ErrUnsupported
}

func (k *UinputKeyboard) Grab() error { return ErrUnsupported }
func (k *UinputKeyboard) Ungrab() error { return ErrUnsupported }
func (k *UinputKeyboard) Keycode(key Key) (uint32, bool) { return 0, false }
func (k *UinputKeyboard) Send(code uint32, pressed bool) error {
	return ErrUnsupported
}
func (k *UinputKeyboard) Close() error { return nil }
