package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// devicePipe stands in for a device fd: the read end is polled, the write
// end makes it readable or hangs it up
func devicePipe(t *testing.T) (r, w int) {
	t.Helper()
	var p [2]int
	require.NoError(t, unix.Pipe2(p[:], unix.O_CLOEXEC|unix.O_NONBLOCK))
	t.Cleanup(func() {
		unix.Close(p[0])
		unix.Close(p[1])
	})
	return p[0], p[1]
}

func newTestPoller(t *testing.T) *wakePoller {
	t.Helper()
	p, err := newWakePoller()
	require.NoError(t, err)
	t.Cleanup(p.close)
	return p
}

func TestWakePoller_DeviceReadable(t *testing.T) {
	p := newTestPoller(t)
	r, w := devicePipe(t)

	_, err := unix.Write(w, []byte{1})
	require.NoError(t, err)
	assert.NoError(t, p.wait(r))
}

func TestWakePoller_WakeUnblocksWait(t *testing.T) {
	p := newTestPoller(t)
	r, _ := devicePipe(t)

	done := make(chan error, 1)
	go func() { done <- p.wait(r) }()

	time.Sleep(20 * time.Millisecond)
	p.wake()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not return after wake")
	}

	// the wake stays pending
	assert.ErrorIs(t, p.wait(r), ErrClosed)
}

func TestWakePoller_WakeWinsOverData(t *testing.T) {
	p := newTestPoller(t)
	r, w := devicePipe(t)

	_, err := unix.Write(w, []byte{1})
	require.NoError(t, err)
	p.wake()
	assert.ErrorIs(t, p.wait(r), ErrClosed)
}

func TestWakePoller_HangupIsFatal(t *testing.T) {
	p := newTestPoller(t)
	r, w := devicePipe(t)
	require.NoError(t, unix.Close(w))

	err := p.wait(r)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrClosed)
	assert.Contains(t, err.Error(), "revents")
}

func TestWakePoller_RetriesEINTR(t *testing.T) {
	p := newTestPoller(t)
	r, w := devicePipe(t)
	_, err := unix.Write(w, []byte{1})
	require.NoError(t, err)

	calls := 0
	poll = func(fds []unix.PollFd, timeout int) (int, error) {
		calls++
		if calls < 3 {
			return -1, unix.EINTR
		}
		return unix.Poll(fds, timeout)
	}
	t.Cleanup(func() { poll = unix.Poll })

	assert.NoError(t, p.wait(r))
	assert.Equal(t, 3, calls)
}

func TestWakePoller_PollErrorIsFatal(t *testing.T) {
	p := newTestPoller(t)
	r, _ := devicePipe(t)

	poll = func([]unix.PollFd, int) (int, error) { return -1, unix.EBADF }
	t.Cleanup(func() { poll = unix.Poll })

	err := p.wait(r)
	assert.ErrorIs(t, err, unix.EBADF)
}
