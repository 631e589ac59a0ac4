package source

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"unsafe"

	evdev "github.com/gvalkov/golang-evdev"
	"golang.org/x/sys/unix"

	"gesturenav/internal/gesture"
)

// Hi-res wheel codes (kernel 5.0+), in 1/120 of a detent
const (
	relWheelHiRes  = 0x0b
	relHWheelHiRes = 0x0c
)

// degreesPerDetent matches the unit libinput reports wheel scrolls in
const degreesPerDetent = 15.0

// normalizedPerMM is the unit libinput reports finger scrolls in: device
// motion normalized to 1000 dpi
const normalizedPerMM = 1000 / 25.4

// Evdev reads one /dev/input/eventN node directly. Two-finger motion on a
// multitouch touchpad and wheel motion on a mouse become Scroll events;
// three or more fingers become swipe begin/end.
type Evdev struct {
	dev     *evdev.InputDevice
	fd      int
	poller  *wakePoller
	pending []evdev.InputEvent
	decoder evdevDecoder

	closeOnce sync.Once
}

// OpenEvdev opens the device node at path
func OpenEvdev(path string) (*Evdev, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s, err := newEvdev(dev)
	if err != nil {
		dev.File.Close()
		return nil, err
	}
	s.decoder.resolution = absResolution(s.fd, evdev.ABS_MT_POSITION_X)
	slog.Debug("evdev device ready", "path", path, "name", dev.Name, "resolution", s.decoder.resolution)
	return s, nil
}

func newEvdev(dev *evdev.InputDevice) (*Evdev, error) {
	poller, err := newWakePoller()
	if err != nil {
		return nil, err
	}
	return &Evdev{dev: dev, fd: int(dev.File.Fd()), poller: poller}, nil
}

// absResolution returns the resolution of an absolute axis in units per
// mm, or 0 when the device does not report one
func absResolution(fd int, code int) int32 {
	var info struct {
		Value, Minimum, Maximum, Fuzz, Flat, Resolution int32
	}
	// EVIOCGABS(abs) = _IOR('E', 0x40 + abs, struct input_absinfo)
	req := uintptr(2<<30 | uintptr(unsafe.Sizeof(info))<<16 | 'E'<<8 | uintptr(0x40+code))
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&info))); errno != 0 {
		return 0
	}
	return info.Resolution
}

// Wait blocks until the device delivers at least one event
func (s *Evdev) Wait() error {
	if err := s.poller.wait(s.fd); err != nil {
		return err
	}
	events, err := s.dev.Read()
	if err != nil {
		return fmt.Errorf("read %s: %w", s.dev.Fn, err)
	}
	s.pending = append(s.pending, events...)
	return nil
}

// Dispatch decodes the events read by the last Wait
func (s *Evdev) Dispatch() ([]gesture.RawEvent, error) {
	var batch []gesture.RawEvent
	for _, ev := range s.pending {
		batch = s.decoder.feed(ev, batch)
	}
	s.pending = s.pending[:0]
	return batch, nil
}

// Interrupt wakes a blocked Wait, which then returns ErrClosed. It is safe
// to call from another goroutine.
func (s *Evdev) Interrupt() {
	s.poller.wake()
}

// Close releases the device. Call it after Wait has returned.
func (s *Evdev) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.poller.close()
		err = s.dev.File.Close()
	})
	return err
}

// touch is one multitouch slot
type touch struct {
	x, y         int32
	prevX, prevY int32
	hasPrev      bool
}

// evdevDecoder turns the events of each SYN_REPORT frame into raw events
type evdevDecoder struct {
	// units per mm of ABS_MT_POSITION_X; 0 keeps raw device units
	resolution int32

	// mouse wheel motion in the current frame
	wheelX, wheelY float64
	hiResX, hiResY float64
	hasHiResX      bool
	hasHiResY      bool

	slots map[int32]*touch
	slot  int32

	// fingers reported by the BTN_TOOL_* keys, 0 when lifted
	tool int
	// fingers of the swipe in progress, 0 when none
	swipe int
}

func (d *evdevDecoder) feed(ev evdev.InputEvent, out []gesture.RawEvent) []gesture.RawEvent {
	switch ev.Type {
	case evdev.EV_KEY:
		d.feedKey(ev)
	case evdev.EV_ABS:
		d.feedAbs(ev)
	case evdev.EV_REL:
		// libinput reports vertical scroll positive-down, the wheel reports
		// positive-up
		switch ev.Code {
		case evdev.REL_HWHEEL:
			d.wheelX += float64(ev.Value) * degreesPerDetent
		case evdev.REL_WHEEL:
			d.wheelY -= float64(ev.Value) * degreesPerDetent
		case relHWheelHiRes:
			d.hiResX += float64(ev.Value) * degreesPerDetent / 120
			d.hasHiResX = true
		case relWheelHiRes:
			d.hiResY -= float64(ev.Value) * degreesPerDetent / 120
			d.hasHiResY = true
		}
	case evdev.EV_SYN:
		if ev.Code == evdev.SYN_REPORT {
			return d.flush(out)
		}
	}
	return out
}

var toolFingers = map[uint16]int{
	evdev.BTN_TOOL_FINGER:    1,
	evdev.BTN_TOOL_DOUBLETAP: 2,
	evdev.BTN_TOOL_TRIPLETAP: 3,
	evdev.BTN_TOOL_QUADTAP:   4,
	evdev.BTN_TOOL_QUINTTAP:  5,
}

func (d *evdevDecoder) feedKey(ev evdev.InputEvent) {
	n, ok := toolFingers[ev.Code]
	if !ok {
		return
	}
	switch ev.Value {
	case 1:
		d.tool = n
	case 0:
		// the kernel may report the new count before releasing the old one
		if d.tool == n {
			d.tool = 0
		}
	}
}

func (d *evdevDecoder) feedAbs(ev evdev.InputEvent) {
	switch ev.Code {
	case evdev.ABS_MT_SLOT:
		d.slot = ev.Value
	case evdev.ABS_MT_TRACKING_ID:
		if ev.Value < 0 {
			delete(d.slots, d.slot)
			return
		}
		d.touchAt(d.slot).hasPrev = false
	case evdev.ABS_MT_POSITION_X:
		d.touchAt(d.slot).x = ev.Value
	case evdev.ABS_MT_POSITION_Y:
		d.touchAt(d.slot).y = ev.Value
	}
}

func (d *evdevDecoder) touchAt(slot int32) *touch {
	if d.slots == nil {
		d.slots = make(map[int32]*touch)
	}
	t, ok := d.slots[slot]
	if !ok {
		t = &touch{}
		d.slots[slot] = t
	}
	return t
}

func (d *evdevDecoder) flush(out []gesture.RawEvent) []gesture.RawEvent {
	// a change of finger count during one swipe continues it
	switch {
	case d.tool >= 3 && d.swipe == 0:
		d.swipe = d.tool
		out = append(out, gesture.SwipeBegin(d.tool))
	case d.tool < 3 && d.swipe != 0:
		out = append(out, gesture.SwipeEnd(d.swipe, false))
		d.swipe = 0
	}

	if ev, ok := d.wheelScroll(); ok {
		out = append(out, ev)
	} else if d.tool == 2 && d.swipe == 0 {
		if ev, ok := d.fingerScroll(); ok {
			out = append(out, ev)
		}
	}

	for _, t := range d.slots {
		t.prevX, t.prevY = t.x, t.y
		t.hasPrev = true
	}
	return out
}

func (d *evdevDecoder) wheelScroll() (gesture.RawEvent, bool) {
	dx, dy := d.wheelX, d.wheelY
	if d.hasHiResX {
		dx = d.hiResX
	}
	if d.hasHiResY {
		dy = d.hiResY
	}
	d.wheelX, d.wheelY = 0, 0
	d.hiResX, d.hiResY = 0, 0
	d.hasHiResX, d.hasHiResY = false, false

	if dx == 0 && dy == 0 {
		return gesture.RawEvent{}, false
	}
	return gesture.Scroll(dx, dy), true
}

// fingerScroll averages the motion of the touches present in both this
// frame and the last one, and locks it to the dominant axis
func (d *evdevDecoder) fingerScroll() (gesture.RawEvent, bool) {
	var sumX, sumY float64
	var n int
	for _, t := range d.slots {
		if !t.hasPrev {
			continue
		}
		sumX += float64(t.x - t.prevX)
		sumY += float64(t.y - t.prevY)
		n++
	}
	if n == 0 {
		return gesture.RawEvent{}, false
	}

	dx, dy := d.normalize(sumX/float64(n)), d.normalize(sumY/float64(n))
	switch {
	case dx == 0 && dy == 0:
		return gesture.RawEvent{}, false
	case math.Abs(dx) > math.Abs(dy):
		return gesture.Scroll(dx, 0), true
	default:
		return gesture.Scroll(0, dy), true
	}
}

func (d *evdevDecoder) normalize(v float64) float64 {
	if d.resolution <= 0 {
		return v
	}
	return v * normalizedPerMM / float64(d.resolution)
}
