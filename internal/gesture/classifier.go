package gesture

// DefaultThreshold is the minimum horizontal scroll magnitude, in source
// units, that counts as a navigation gesture.
const DefaultThreshold = 20.0

// Classifier maps raw events to intents. It holds no state.
type Classifier struct {
	// Threshold is compared against the absolute horizontal delta;
	// deltas equal to it do not navigate.
	Threshold float64
}

// NewClassifier creates a classifier with the given threshold
func NewClassifier(threshold float64) Classifier {
	return Classifier{Threshold: threshold}
}

// Classify returns the intent carried by ev.
//
// Any vertical motion disqualifies a scroll, whatever its magnitude. A
// leftward finger scroll (negative dx) reads as "forward", a rightward one
// as "back".
func (c Classifier) Classify(ev RawEvent) Intent {
	switch ev.Kind {
	case KindSwipeBegin:
		return IntentSwipeStart
	case KindSwipeEnd:
		return IntentSwipeEnd
	case KindScroll:
		if ev.Dy != 0.0 {
			return IntentNone
		}
		switch {
		case ev.Dx < -c.Threshold:
			return IntentNavigateForward
		case ev.Dx > c.Threshold:
			return IntentNavigateBack
		}
		return IntentNone
	default:
		return IntentNone
	}
}
