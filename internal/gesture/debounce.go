package gesture

import "time"

// DefaultDebounce is the cooldown applied to repeats in one direction
const DefaultDebounce = 350 * time.Millisecond

// DebounceState records the last committed navigation
type DebounceState struct {
	LastDirection  Direction
	LastActionTime time.Time
}

// NewDebounceState returns the start-of-process state: direction Left,
// committed at now.
func NewDebounceState(now time.Time) DebounceState {
	return DebounceState{LastDirection: Left, LastActionTime: now}
}

// ShouldCommit reports whether a navigation towards candidate may fire at
// now. Repeats in the last committed direction wait out threshold; a
// reversal always fires. Elapsed time is compared in whole milliseconds.
func ShouldCommit(candidate Direction, state *DebounceState, now time.Time, threshold time.Duration) bool {
	if candidate != state.LastDirection {
		return true
	}
	return now.Sub(state.LastActionTime).Milliseconds() > threshold.Milliseconds()
}

// Commit records candidate as the last navigation, fired at now. Call it
// only right before the matching chord is injected.
func Commit(candidate Direction, state *DebounceState, now time.Time) {
	state.LastDirection = candidate
	state.LastActionTime = now
}
