// Package monitor runs the loop that turns touchpad gestures into
// navigation key chords.
package monitor

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gesturenav/internal/config"
	"gesturenav/internal/gesture"
	"gesturenav/internal/input"
	"gesturenav/internal/source"
)

// Injector presses a chord on the injection target and returns once the
// target has observed the whole press/release sequence
type Injector interface {
	Inject(chord input.Chord) error
}

// Stats counts what the loop did with the events it saw
type Stats struct {
	Events         int
	Swipes         int
	Committed      int
	Suppressed     int
	Ignored        int
	InjectFailures int
}

// Monitor dispatches events from a source to an injector. It owns the
// debounce state; nothing else reads or writes it.
type Monitor struct {
	src        source.Source
	inj        Injector
	classifier gesture.Classifier
	debounce   time.Duration

	back, forward, swipe input.Chord

	state gesture.DebounceState
	stats Stats
	now   func() time.Time
}

// Option configures a Monitor
type Option func(*Monitor)

// WithClock replaces time.Now as the source of event timestamps
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// New creates a monitor reading from src and injecting through inj
func New(src source.Source, inj Injector, cfg *config.Config, opts ...Option) *Monitor {
	m := &Monitor{
		src:        src,
		inj:        inj,
		classifier: gesture.NewClassifier(cfg.ScrollThreshold),
		debounce:   cfg.Debounce,
		back:       cfg.BackChord,
		forward:    cfg.ForwardChord,
		swipe:      cfg.SwipeChord,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.state = gesture.NewDebounceState(m.now())
	return m
}

// Run blocks on the source and handles every batch it delivers, in order.
// It returns nil once the source is interrupted and an error when waiting
// on or draining the source fails.
func (m *Monitor) Run() error {
	slog.Info("Monitoring gestures",
		"threshold", m.classifier.Threshold,
		"debounce", m.debounce,
		"back", m.back, "forward", m.forward, "swipe", m.swipe)

	defer func() {
		s := m.stats
		slog.Info("Monitor stopped",
			"events", s.Events, "swipes", s.Swipes, "committed", s.Committed,
			"suppressed", s.Suppressed, "ignored", s.Ignored, "inject_failures", s.InjectFailures)
	}()

	for {
		if err := m.src.Wait(); err != nil {
			if errors.Is(err, source.ErrClosed) {
				return nil
			}
			return fmt.Errorf("wait for events: %w", err)
		}

		batch, err := m.src.Dispatch()
		if err != nil {
			return fmt.Errorf("dispatch events: %w", err)
		}
		for _, ev := range batch {
			m.Handle(ev)
		}
	}
}

// Handle classifies one event and injects the chord it commits, if any
func (m *Monitor) Handle(ev gesture.RawEvent) {
	m.stats.Events++

	intent := m.classifier.Classify(ev)
	switch intent {
	case gesture.IntentSwipeStart:
		m.stats.Swipes++
		slog.Info("Gesture swipe begin detected", "fingers", ev.Fingers)
		m.inject(intent, m.swipe)

	case gesture.IntentSwipeEnd:
		slog.Info("Gesture swipe end detected", "fingers", ev.Fingers, "cancelled", ev.Cancelled)

	case gesture.IntentNavigateBack, gesture.IntentNavigateForward:
		dir, _ := intent.Direction()
		now := m.now()
		if !gesture.ShouldCommit(dir, &m.state, now, m.debounce) {
			m.stats.Suppressed++
			slog.Debug("Navigation debounced", "intent", intent, "since_last", now.Sub(m.state.LastActionTime))
			return
		}
		gesture.Commit(dir, &m.state, now)
		m.stats.Committed++

		chord := m.back
		if dir == gesture.Right {
			chord = m.forward
		}
		slog.Debug("Navigation committed", "intent", intent, "dx", ev.Dx)
		m.inject(intent, chord)

	default:
		m.stats.Ignored++
	}
}

func (m *Monitor) inject(intent gesture.Intent, chord input.Chord) {
	if err := m.inj.Inject(chord); err != nil {
		m.stats.InjectFailures++
		slog.Error("Failed to inject chord", "intent", intent, "chord", chord, "error", err)
	}
}

// State returns a copy of the debounce state
func (m *Monitor) State() gesture.DebounceState {
	return m.state
}

// Stats returns a copy of the loop counters
func (m *Monitor) Stats() Stats {
	return m.stats
}
