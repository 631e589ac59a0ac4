//go:build linux && cgo

package source

/*
#cgo pkg-config: libinput libudev
#include <errno.h>
#include <fcntl.h>
#include <stdlib.h>
#include <unistd.h>
#include <libinput.h>
#include <libudev.h>

static int open_restricted(const char *path, int flags, void *user_data) {
    int fd = open(path, flags);
    return fd < 0 ? -errno : fd;
}

static void close_restricted(int fd, void *user_data) {
    close(fd);
}

static const struct libinput_interface restricted_interface = {
    .open_restricted = open_restricted,
    .close_restricted = close_restricted,
};

static struct libinput *create_context(struct udev *udev) {
    return libinput_udev_create_context(&restricted_interface, NULL, udev);
}

static double scroll_value(struct libinput_event *ev, enum libinput_pointer_axis axis) {
    struct libinput_event_pointer *p = libinput_event_get_pointer_event(ev);
    if (!libinput_event_pointer_has_axis(p, axis))
        return 0.0;
    return libinput_event_pointer_get_scroll_value(p, axis);
}

static int swipe_fingers(struct libinput_event *ev) {
    return libinput_event_gesture_get_finger_count(libinput_event_get_gesture_event(ev));
}

static int swipe_cancelled(struct libinput_event *ev) {
    return libinput_event_gesture_get_cancelled(libinput_event_get_gesture_event(ev));
}
*/
import "C"
import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"gesturenav/internal/gesture"
)

// Libinput reads gestures and finger scrolls from every device on one
// seat through a libinput udev context
type Libinput struct {
	udev *C.struct_udev
	li   *C.struct_libinput
	fd   int

	poller *wakePoller

	closeOnce sync.Once
}

// OpenLibinput creates a libinput context assigned to seat
func OpenLibinput(seat string) (*Libinput, error) {
	udev := C.udev_new()
	if udev == nil {
		return nil, errors.New("failed to initialize udev")
	}

	li := C.create_context(udev)
	if li == nil {
		C.udev_unref(udev)
		return nil, errors.New("failed to create libinput context")
	}

	cSeat := C.CString(seat)
	defer C.free(unsafe.Pointer(cSeat))
	if C.libinput_udev_assign_seat(li, cSeat) != 0 {
		C.libinput_unref(li)
		C.udev_unref(udev)
		return nil, fmt.Errorf("failed to assign seat %q", seat)
	}

	poller, err := newWakePoller()
	if err != nil {
		C.libinput_unref(li)
		C.udev_unref(udev)
		return nil, err
	}

	s := &Libinput{
		udev:   udev,
		li:     li,
		fd:     int(C.libinput_get_fd(li)),
		poller: poller,
	}
	slog.Debug("libinput context ready", "seat", seat, "fd", s.fd)
	return s, nil
}

// Wait blocks on the libinput fd with no timeout
func (s *Libinput) Wait() error {
	return s.poller.wait(s.fd)
}

// Dispatch lets libinput process its fd, then drains and decodes the
// queued events. Events we have no use for are destroyed and dropped.
func (s *Libinput) Dispatch() ([]gesture.RawEvent, error) {
	if rc := C.libinput_dispatch(s.li); rc != 0 {
		return nil, fmt.Errorf("libinput dispatch: %w", unix.Errno(-rc))
	}

	var batch []gesture.RawEvent
	for {
		ev := C.libinput_get_event(s.li)
		if ev == nil {
			break
		}
		if raw, ok := decodeLibinput(ev); ok {
			batch = append(batch, raw)
		}
		C.libinput_event_destroy(ev)
	}
	return batch, nil
}

func decodeLibinput(ev *C.struct_libinput_event) (gesture.RawEvent, bool) {
	switch C.libinput_event_get_type(ev) {
	case C.LIBINPUT_EVENT_GESTURE_SWIPE_BEGIN:
		return gesture.SwipeBegin(int(C.swipe_fingers(ev))), true
	case C.LIBINPUT_EVENT_GESTURE_SWIPE_END:
		return gesture.SwipeEnd(int(C.swipe_fingers(ev)), C.swipe_cancelled(ev) != 0), true
	case C.LIBINPUT_EVENT_POINTER_SCROLL_FINGER:
		dx := float64(C.scroll_value(ev, C.LIBINPUT_POINTER_AXIS_SCROLL_HORIZONTAL))
		dy := float64(C.scroll_value(ev, C.LIBINPUT_POINTER_AXIS_SCROLL_VERTICAL))
		return gesture.Scroll(dx, dy), true
	default:
		return gesture.RawEvent{}, false
	}
}

// Interrupt wakes a blocked Wait, which then returns ErrClosed. It is safe
// to call from another goroutine.
func (s *Libinput) Interrupt() {
	s.poller.wake()
}

// Close releases the libinput context and udev handle. Call it from the
// goroutine that runs Wait, after Wait has returned.
func (s *Libinput) Close() error {
	s.closeOnce.Do(func() {
		C.libinput_unref(s.li)
		C.udev_unref(s.udev)
		s.poller.close()
	})
	return nil
}
