// Package gesture classifies raw touchpad events into navigation intents
// and decides, through a debounce policy, which of them may fire.
package gesture

import "fmt"

// Kind identifies the variant of a RawEvent
type Kind int

const (
	KindUnknown Kind = iota
	KindSwipeBegin
	KindSwipeEnd
	KindScroll
)

func (k Kind) String() string {
	switch k {
	case KindSwipeBegin:
		return "swipe_begin"
	case KindSwipeEnd:
		return "swipe_end"
	case KindScroll:
		return "scroll"
	default:
		return "unknown"
	}
}

// RawEvent is one decoded unit of input from an event source.
// Dx and Dy are only meaningful for KindScroll; Fingers and Cancelled
// are only meaningful for swipes.
type RawEvent struct {
	Kind      Kind
	Dx        float64
	Dy        float64
	Fingers   int
	Cancelled bool
}

// SwipeBegin returns a swipe-begin event
func SwipeBegin(fingers int) RawEvent {
	return RawEvent{Kind: KindSwipeBegin, Fingers: fingers}
}

// SwipeEnd returns a swipe-end event
func SwipeEnd(fingers int, cancelled bool) RawEvent {
	return RawEvent{Kind: KindSwipeEnd, Fingers: fingers, Cancelled: cancelled}
}

// Scroll returns a scroll event carrying deltas on both axes
func Scroll(dx, dy float64) RawEvent {
	return RawEvent{Kind: KindScroll, Dx: dx, Dy: dy}
}

func (e RawEvent) String() string {
	switch e.Kind {
	case KindScroll:
		return fmt.Sprintf("scroll(dx=%.2f, dy=%.2f)", e.Dx, e.Dy)
	case KindSwipeBegin, KindSwipeEnd:
		return fmt.Sprintf("%s(fingers=%d)", e.Kind, e.Fingers)
	default:
		return e.Kind.String()
	}
}

// Intent is the semantic meaning of a RawEvent
type Intent int

const (
	IntentNone Intent = iota
	IntentSwipeStart
	IntentSwipeEnd
	IntentNavigateBack
	IntentNavigateForward
)

func (i Intent) String() string {
	switch i {
	case IntentSwipeStart:
		return "swipe_start"
	case IntentSwipeEnd:
		return "swipe_end"
	case IntentNavigateBack:
		return "navigate_back"
	case IntentNavigateForward:
		return "navigate_forward"
	default:
		return "none"
	}
}

// Direction returns the navigation direction of i. ok is false for
// intents that do not navigate.
func (i Intent) Direction() (d Direction, ok bool) {
	switch i {
	case IntentNavigateBack:
		return Left, true
	case IntentNavigateForward:
		return Right, true
	default:
		return Left, false
	}
}

// Direction is the horizontal direction of a committed navigation
type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Right {
		return "right"
	}
	return "left"
}
