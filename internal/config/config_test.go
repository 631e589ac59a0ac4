package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gesturenav/internal/input"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 20.0, cfg.ScrollThreshold)
	assert.Equal(t, 350*time.Millisecond, cfg.Debounce)
	assert.Equal(t, SourceLibinput, cfg.Source)
	assert.Equal(t, "seat0", cfg.Seat)
	assert.Equal(t, InjectorX11, cfg.Injector)
	assert.Equal(t, input.Chord{input.KeyAlt, input.KeyLeft}, cfg.BackChord)
	assert.Equal(t, input.Chord{input.KeyAlt, input.KeyRight}, cfg.ForwardChord)
	assert.Equal(t, input.Chord{input.KeySuper}, cfg.SwipeChord)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"negative threshold", func(c *Config) { c.ScrollThreshold = -1 }, true},
		{"zero threshold", func(c *Config) { c.ScrollThreshold = 0 }, false},
		{"negative debounce", func(c *Config) { c.Debounce = -time.Millisecond }, true},
		{"unknown source", func(c *Config) { c.Source = "hid" }, true},
		{"libinput without seat", func(c *Config) { c.Seat = "" }, true},
		{"evdev without device", func(c *Config) { c.Source = SourceEvdev }, true},
		{"evdev with device", func(c *Config) {
			c.Source = SourceEvdev
			c.Device = "/dev/input/event5"
		}, false},
		{"unknown injector", func(c *Config) { c.Injector = "wayland" }, true},
		{"uinput without name", func(c *Config) {
			c.Injector = InjectorUinput
			c.UinputName = ""
		}, true},
		{"log injector", func(c *Config) { c.Injector = InjectorLog }, false},
		{"empty back chord", func(c *Config) { c.BackChord = nil }, true},
		{"empty swipe chord", func(c *Config) { c.SwipeChord = input.Chord{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
