package input

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// types needed from uinput.h
const (
	uinputPath        = "/dev/uinput"
	uinputMaxNameSize = 80
	uiDevCreate       = 0x5501
	uiDevDestroy      = 0x5502
	uiSetEvBit        = 0x40045564
	uiSetKeyBit       = 0x40045565
	busVirtual        = 0x06
	absSize           = 64
)

// input event codes from input-event-codes.h
const (
	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0
)

// Linux key codes for each abstract key
var linuxKeycodes = map[Key]uint16{
	KeyAlt:      56,  // KEY_LEFTALT
	KeyCtrl:     29,  // KEY_LEFTCTRL
	KeyShift:    42,  // KEY_LEFTSHIFT
	KeySuper:    125, // KEY_LEFTMETA
	KeyLeft:     105,
	KeyRight:    106,
	KeyUp:       103,
	KeyDown:     108,
	KeyPageUp:   104,
	KeyPageDown: 109,
	KeyHome:     102,
	KeyEnd:      107,
	KeyTab:      15,
	KeyEscape:   1,
	KeyEnter:    28,
	KeySpace:    57,
	KeyBack:     158,
	KeyForward:  159,
}

// uinputSettleDelay gives consumers time to pick up a new device before
// the first event is written to it
const uinputSettleDelay = 200 * time.Millisecond

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// translated to go from uinput.h
type uinputUserDev struct {
	Name       [uinputMaxNameSize]byte
	ID         inputID
	EffectsMax uint32
	Absmax     [absSize]int32
	Absmin     [absSize]int32
	Absfuzz    [absSize]int32
	Absflat    [absSize]int32
}

// translated to go from input.h
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// UinputKeyboard is a virtual keyboard created through /dev/uinput. It
// works under Wayland compositors as well as X.
type UinputKeyboard struct {
	mu sync.Mutex
	fd int
}

// OpenUinput creates a virtual keyboard named name that can emit every key
// this package knows about
func OpenUinput(name string) (*UinputKeyboard, error) {
	fd, err := unix.Open(uinputPath, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uinputPath, err)
	}

	if err := setupUinput(fd, name); err != nil {
		unix.Close(fd)
		return nil, err
	}

	time.Sleep(uinputSettleDelay)
	slog.Debug("uinput keyboard ready", "name", name)
	return &UinputKeyboard{fd: fd}, nil
}

func setupUinput(fd int, name string) error {
	for _, ev := range []int{evSyn, evKey} {
		if err := unix.IoctlSetInt(fd, uiSetEvBit, ev); err != nil {
			return fmt.Errorf("UI_SET_EVBIT %d: %w", ev, err)
		}
	}
	for key, code := range linuxKeycodes {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(code)); err != nil {
			return fmt.Errorf("UI_SET_KEYBIT %s: %w", key, err)
		}
	}

	dev := uinputUserDev{ID: inputID{Bustype: busVirtual, Vendor: 0x1, Product: 0x1, Version: 1}}
	copy(dev.Name[:uinputMaxNameSize-1], name)

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &dev); err != nil {
		return err
	}
	if _, err := unix.Write(fd, buf.Bytes()); err != nil {
		return fmt.Errorf("write uinput device: %w", err)
	}

	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return fmt.Errorf("UI_DEV_CREATE: %w", err)
	}
	return nil
}

// Grab serializes chords across callers
func (k *UinputKeyboard) Grab() error {
	k.mu.Lock()
	return nil
}

// Ungrab ends the current chord
func (k *UinputKeyboard) Ungrab() error {
	k.mu.Unlock()
	return nil
}

// Keycode returns the Linux key code for key
func (k *UinputKeyboard) Keycode(key Key) (uint32, bool) {
	code, ok := linuxKeycodes[key]
	return uint32(code), ok
}

// Send writes one key event followed by a SYN_REPORT
func (k *UinputKeyboard) Send(code uint32, pressed bool) error {
	var value int32
	if pressed {
		value = 1
	}
	if err := k.emit(evKey, uint16(code), value); err != nil {
		return err
	}
	return k.emit(evSyn, synReport, 0)
}

func (k *UinputKeyboard) emit(typ, code uint16, value int32) error {
	ev := inputEvent{Time: unix.NsecToTimeval(time.Now().UnixNano()), Type: typ, Code: code, Value: value}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &ev); err != nil {
		return err
	}
	if _, err := unix.Write(k.fd, buf.Bytes()); err != nil {
		return fmt.Errorf("write uinput event: %w", err)
	}
	return nil
}

// Close destroys the virtual device
func (k *UinputKeyboard) Close() error {
	if k.fd < 0 {
		return nil
	}
	if err := unix.IoctlSetInt(k.fd, uiDevDestroy, 0); err != nil {
		slog.Warn("UI_DEV_DESTROY failed", "error", err)
	}
	err := unix.Close(k.fd)
	k.fd = -1
	return err
}
