//go:build linux && cgo

package input

/*
#cgo pkg-config: x11 xtst
#include <stdlib.h>
#include <X11/Xlib.h>
#include <X11/keysym.h>
#include <X11/extensions/XTest.h>

static Display *openDisplay(const char *name) {
    return XOpenDisplay(name);
}

static int hasXTest(Display *d) {
    int evBase, errBase, major, minor;
    return XTestQueryExtension(d, &evBase, &errBase, &major, &minor);
}

static int fakeKey(Display *d, unsigned int keycode, int pressed) {
    int ok = XTestFakeKeyEvent(d, keycode, pressed ? True : False, CurrentTime);
    XFlush(d);
    return ok;
}
*/
import "C"
import (
	"fmt"
	"log/slog"
	"unsafe"
)

// X11 keysyms for each abstract key
// Reference: X11/keysymdef.h and X11/XF86keysym.h
var x11Keysyms = map[Key]C.KeySym{
	KeyAlt:      0xFFE9, // XK_Alt_L
	KeyCtrl:     0xFFE3, // XK_Control_L
	KeyShift:    0xFFE1, // XK_Shift_L
	KeySuper:    0xFFEB, // XK_Super_L
	KeyLeft:     0xFF51,
	KeyUp:       0xFF52,
	KeyRight:    0xFF53,
	KeyDown:     0xFF54,
	KeyPageUp:   0xFF55,
	KeyPageDown: 0xFF56,
	KeyHome:     0xFF50,
	KeyEnd:      0xFF57,
	KeyTab:      0xFF09,
	KeyEscape:   0xFF1B,
	KeyEnter:    0xFF0D,
	KeySpace:    0x0020,
	KeyBack:     0x1008FF26, // XF86XK_Back
	KeyForward:  0x1008FF27, // XF86XK_Forward
}

// X11Keyboard injects keys into an X server through the XTest extension
type X11Keyboard struct {
	display *C.Display
}

// OpenX11 connects to the named X display, or to $DISPLAY when name is empty
func OpenX11(name string) (*X11Keyboard, error) {
	var cName *C.char
	if name != "" {
		cName = C.CString(name)
		defer C.free(unsafe.Pointer(cName))
	}

	d := C.openDisplay(cName)
	if d == nil {
		return nil, fmt.Errorf("failed to open X display %q", name)
	}
	if C.hasXTest(d) == 0 {
		C.XCloseDisplay(d)
		return nil, fmt.Errorf("X display %q has no XTest extension", name)
	}

	slog.Debug("X11 keyboard ready", "display", C.GoString(C.XDisplayString(d)))
	return &X11Keyboard{display: d}, nil
}

// Grab takes control of the server so no other client interleaves events
func (k *X11Keyboard) Grab() error {
	C.XTestGrabControl(k.display, C.True)
	return nil
}

// Ungrab gives control of the server back
func (k *X11Keyboard) Ungrab() error {
	C.XTestGrabControl(k.display, C.False)
	C.XFlush(k.display)
	return nil
}

// Keycode resolves key through the server's current keymap
func (k *X11Keyboard) Keycode(key Key) (uint32, bool) {
	sym, ok := x11Keysyms[key]
	if !ok {
		return 0, false
	}
	code := C.XKeysymToKeycode(k.display, sym)
	if code == 0 {
		return 0, false
	}
	return uint32(code), true
}

// Send fakes one key event and flushes the display
func (k *X11Keyboard) Send(code uint32, pressed bool) error {
	var p C.int
	if pressed {
		p = 1
	}
	if C.fakeKey(k.display, C.uint(code), p) == 0 {
		return fmt.Errorf("XTestFakeKeyEvent failed for keycode %d", code)
	}
	return nil
}

// Close closes the display connection
func (k *X11Keyboard) Close() error {
	if k.display != nil {
		C.XCloseDisplay(k.display)
		k.display = nil
	}
	return nil
}
