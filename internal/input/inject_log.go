package input

import "log/slog"

// LogKeyboard is a dry-run keyboard: every key resolves and every event is
// logged instead of delivered
type LogKeyboard struct {
	logger *slog.Logger
}

// NewLogKeyboard creates a dry-run keyboard logging to logger, or to the
// default logger when logger is nil
func NewLogKeyboard(logger *slog.Logger) *LogKeyboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogKeyboard{logger: logger}
}

func (k *LogKeyboard) Grab() error { return nil }
func (k *LogKeyboard) Ungrab() error { return nil }

// Keycode uses the abstract key value as the code
func (k *LogKeyboard) Keycode(key Key) (uint32, bool) {
	if key == KeyUnknown {
		return 0, false
	}
	return uint32(key), true
}

func (k *LogKeyboard) Send(code uint32, pressed bool) error {
	k.logger.Info("Key event", "key", Key(code), "pressed", pressed)
	return nil
}

func (k *LogKeyboard) Close() error { return nil }
