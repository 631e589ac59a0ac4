package source

import (
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"
)

// poll is swapped out by tests
var poll = unix.Poll

// wakePoller blocks until a device fd is readable or until wake is called.
// A wake is sticky: every later wait returns ErrClosed as well.
type wakePoller struct {
	r, w int
}

func newWakePoller() (*wakePoller, error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return nil, fmt.Errorf("create wake pipe: %w", err)
	}
	return &wakePoller{r: p[0], w: p[1]}, nil
}

// wait blocks on fd with no timeout. EINTR is retried.
func (p *wakePoller) wait(fd int) error {
	fds := []unix.PollFd{
		{Fd: int32(fd), Events: unix.POLLIN},
		{Fd: int32(p.r), Events: unix.POLLIN},
	}
	for {
		_, err := poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}
		if fds[1].Revents != 0 {
			return ErrClosed
		}
		if fds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
			return fmt.Errorf("poll: fd %d reported revents 0x%x", fd, fds[0].Revents)
		}
		if fds[0].Revents&unix.POLLIN != 0 {
			return nil
		}
	}
}

// wake unblocks a pending wait. It is safe to call from another goroutine.
func (p *wakePoller) wake() {
	if _, err := unix.Write(p.w, []byte{0}); err != nil && err != unix.EAGAIN {
		slog.Warn("Failed to wake poller", "error", err)
	}
}

func (p *wakePoller) close() {
	unix.Close(p.r)
	unix.Close(p.w)
}
