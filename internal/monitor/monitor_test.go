package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gesturenav/internal/config"
	"gesturenav/internal/gesture"
	"gesturenav/internal/input"
	"gesturenav/internal/source"
)

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

type batch struct {
	at     time.Duration
	events []gesture.RawEvent
}

// fakeSource delivers scripted batches, moving the clock to each batch's
// time, then fails with end
type fakeSource struct {
	clock   *fakeClock
	batches []batch
	next    int
	end     error
	waits   int
}

func (s *fakeSource) Wait() error {
	s.waits++
	if s.next >= len(s.batches) {
		return s.end
	}
	return nil
}

func (s *fakeSource) Dispatch() ([]gesture.RawEvent, error) {
	b := s.batches[s.next]
	s.next++
	s.clock.t = base.Add(b.at)
	return b.events, nil
}

type recordingInjector struct {
	chords []input.Chord
	err    error
}

func (r *recordingInjector) Inject(chord input.Chord) error {
	r.chords = append(r.chords, chord)
	return r.err
}

func newTestMonitor(batches ...batch) (*Monitor, *fakeSource, *recordingInjector) {
	clock := &fakeClock{t: base}
	src := &fakeSource{clock: clock, batches: batches, end: source.ErrClosed}
	inj := &recordingInjector{}
	m := New(src, inj, config.DefaultConfig(), WithClock(clock.Now))
	return m, src, inj
}

func TestRun_ForwardFromFreshState(t *testing.T) {
	m, _, inj := newTestMonitor(batch{0, []gesture.RawEvent{gesture.Scroll(-30, 0)}})

	require.NoError(t, m.Run())
	assert.Equal(t, []input.Chord{{input.KeyAlt, input.KeyRight}}, inj.chords)
	assert.Equal(t, gesture.Right, m.State().LastDirection)
	assert.Equal(t, base, m.State().LastActionTime)
}

func TestRun_SameDirectionSuppressed(t *testing.T) {
	m, _, inj := newTestMonitor(
		batch{0, []gesture.RawEvent{gesture.Scroll(-30, 0)}},
		batch{100 * time.Millisecond, []gesture.RawEvent{gesture.Scroll(-30, 0)}},
	)

	require.NoError(t, m.Run())
	assert.Equal(t, []input.Chord{input.ChordForward}, inj.chords)
	assert.Equal(t, 1, m.Stats().Suppressed)
	assert.Equal(t, base, m.State().LastActionTime, "suppressed events must not touch the state")
}

func TestRun_SameDirectionAfterCooldown(t *testing.T) {
	m, _, inj := newTestMonitor(
		batch{0, []gesture.RawEvent{gesture.Scroll(-30, 0)}},
		batch{351 * time.Millisecond, []gesture.RawEvent{gesture.Scroll(-30, 0)}},
	)

	require.NoError(t, m.Run())
	assert.Equal(t, []input.Chord{input.ChordForward, input.ChordForward}, inj.chords)
	assert.Equal(t, base.Add(351*time.Millisecond), m.State().LastActionTime)
}

func TestRun_ReversalBypassesCooldown(t *testing.T) {
	m, _, inj := newTestMonitor(
		batch{0, []gesture.RawEvent{gesture.Scroll(-30, 0)}},
		batch{10 * time.Millisecond, []gesture.RawEvent{gesture.Scroll(30, 0)}},
	)

	require.NoError(t, m.Run())
	assert.Equal(t, []input.Chord{
		{input.KeyAlt, input.KeyRight},
		{input.KeyAlt, input.KeyLeft},
	}, inj.chords)
	assert.Equal(t, gesture.Left, m.State().LastDirection)
	assert.Equal(t, base.Add(10*time.Millisecond), m.State().LastActionTime)
}

func TestRun_BackRepeatIsDebounced(t *testing.T) {
	// Fresh state already points Left, so an immediate back is a repeat.
	m, _, inj := newTestMonitor(
		batch{50 * time.Millisecond, []gesture.RawEvent{gesture.Scroll(30, 0)}},
		batch{400 * time.Millisecond, []gesture.RawEvent{gesture.Scroll(30, 0)}},
		batch{500 * time.Millisecond, []gesture.RawEvent{gesture.Scroll(30, 0)}},
	)

	require.NoError(t, m.Run())
	assert.Equal(t, []input.Chord{input.ChordBack}, inj.chords)
	assert.Equal(t, 2, m.Stats().Suppressed)
}

func TestRun_SwipeIgnoresDebounce(t *testing.T) {
	m, _, inj := newTestMonitor(
		batch{0, []gesture.RawEvent{gesture.Scroll(-30, 0), gesture.SwipeBegin(3)}},
		batch{time.Millisecond, []gesture.RawEvent{gesture.SwipeBegin(3), gesture.SwipeEnd(3, false)}},
	)

	require.NoError(t, m.Run())
	assert.Equal(t, []input.Chord{input.ChordForward, {input.KeySuper}, {input.KeySuper}}, inj.chords)
	assert.Equal(t, gesture.Right, m.State().LastDirection)
	assert.Equal(t, base, m.State().LastActionTime, "swipes must not touch the state")
	assert.Equal(t, 2, m.Stats().Swipes)
}

func TestRun_BatchOrderPreserved(t *testing.T) {
	m, _, inj := newTestMonitor(batch{0, []gesture.RawEvent{
		gesture.SwipeBegin(3),
		gesture.Scroll(-25, 0),
		gesture.Scroll(25, 0),
		gesture.Scroll(-25, 0),
		gesture.SwipeEnd(3, false),
	}})

	require.NoError(t, m.Run())
	assert.Equal(t, []input.Chord{
		input.ChordSwipe,
		input.ChordForward,
		input.ChordBack,
		input.ChordForward,
	}, inj.chords)
}

func TestRun_IgnoredEvents(t *testing.T) {
	m, _, inj := newTestMonitor(batch{0, []gesture.RawEvent{
		gesture.Scroll(-300, 2),
		gesture.Scroll(20, 0),
		gesture.Scroll(0, -15),
		{},
	}})

	require.NoError(t, m.Run())
	assert.Empty(t, inj.chords)
	assert.Equal(t, Stats{Events: 4, Ignored: 4}, m.Stats())
}

func TestRun_EmptyBatches(t *testing.T) {
	m, src, inj := newTestMonitor(batch{0, nil}, batch{time.Second, nil})

	require.NoError(t, m.Run())
	assert.Empty(t, inj.chords)
	assert.Equal(t, 3, src.waits)
}

func TestRun_WaitErrorIsFatal(t *testing.T) {
	m, src, _ := newTestMonitor(batch{0, []gesture.RawEvent{gesture.Scroll(-30, 0)}})
	linkGone := errors.New("device link gone")
	src.end = linkGone

	err := m.Run()
	require.ErrorIs(t, err, linkGone)
	assert.Equal(t, 1, m.Stats().Committed)
}

func TestRun_InjectFailureIsNotFatal(t *testing.T) {
	m, _, inj := newTestMonitor(
		batch{0, []gesture.RawEvent{gesture.Scroll(-30, 0)}},
		batch{10 * time.Millisecond, []gesture.RawEvent{gesture.Scroll(30, 0)}},
	)
	inj.err = errors.New("display gone")

	require.NoError(t, m.Run())
	assert.Len(t, inj.chords, 2)
	assert.Equal(t, 2, m.Stats().InjectFailures)
	assert.Equal(t, 2, m.Stats().Committed)
}

func TestRun_CustomConfig(t *testing.T) {
	clock := &fakeClock{t: base}
	src := &fakeSource{clock: clock, end: source.ErrClosed, batches: []batch{
		{0, []gesture.RawEvent{gesture.Scroll(-8, 0)}},
		{60 * time.Millisecond, []gesture.RawEvent{gesture.Scroll(-8, 0)}},
	}}
	inj := &recordingInjector{}

	cfg := config.DefaultConfig()
	cfg.ScrollThreshold = 5
	cfg.Debounce = 50 * time.Millisecond
	cfg.ForwardChord = input.Chord{input.KeyForward}

	m := New(src, inj, cfg, WithClock(clock.Now))
	require.NoError(t, m.Run())
	assert.Equal(t, []input.Chord{{input.KeyForward}, {input.KeyForward}}, inj.chords)
}

func TestHandle_ChordPressOrder(t *testing.T) {
	// Wire the monitor to the real chord sequencer to check the exact key
	// sequence reaching the keyboard.
	kb := &sequenceKeyboard{}
	clock := &fakeClock{t: base}
	m := New(&fakeSource{clock: clock, end: source.ErrClosed}, input.NewInjector(kb), config.DefaultConfig(), WithClock(clock.Now))

	m.Handle(gesture.Scroll(-30, 0))
	m.Handle(gesture.SwipeBegin(4))

	assert.Equal(t, []string{
		"+Alt", "+Right", "-Right", "-Alt",
		"+Super", "-Super",
	}, kb.events)
}

type sequenceKeyboard struct {
	events []string
}

func (k *sequenceKeyboard) Grab() error { return nil }
func (k *sequenceKeyboard) Ungrab() error { return nil }

func (k *sequenceKeyboard) Keycode(key input.Key) (uint32, bool) {
	return uint32(key), true
}

func (k *sequenceKeyboard) Send(code uint32, pressed bool) error {
	sign := "-"
	if pressed {
		sign = "+"
	}
	k.events = append(k.events, sign+input.Key(code).String())
	return nil
}

func (k *sequenceKeyboard) Close() error { return nil }
