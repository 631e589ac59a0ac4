// gesturenav - touchpad gestures to navigation key presses
// Horizontal finger scrolls become Alt+Left / Alt+Right, swipes press Super.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/urfave/cli"

	"gesturenav/internal/config"
	"gesturenav/internal/input"
	"gesturenav/internal/monitor"
	"gesturenav/internal/source"
)

var version = "0.1.0"

// eventSource is a source the command can also stop and release
type eventSource interface {
	source.Source
	Interrupt()
	Close() error
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("gesturenav failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	defaults := config.DefaultConfig()

	app := cli.NewApp()
	app.Name = "gesturenav"
	app.Usage = "turn touchpad gestures into navigation key presses"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.Float64Flag{
			Name:   "threshold",
			Usage:  "Horizontal scroll delta a gesture must exceed to navigate",
			Value:  defaults.ScrollThreshold,
			EnvVar: "GESTURENAV_THRESHOLD",
		},
		cli.DurationFlag{
			Name:   "debounce",
			Usage:  "Cooldown before navigating again in the same direction",
			Value:  defaults.Debounce,
			EnvVar: "GESTURENAV_DEBOUNCE",
		},
		cli.StringFlag{
			Name:   "source",
			Usage:  "Event source: libinput or evdev",
			Value:  defaults.Source,
			EnvVar: "GESTURENAV_SOURCE",
		},
		cli.StringFlag{
			Name:   "seat",
			Usage:  "libinput seat to monitor",
			Value:  defaults.Seat,
			EnvVar: "GESTURENAV_SEAT",
		},
		cli.StringFlag{
			Name:   "device",
			Usage:  "Device node read by the evdev source (e.g. /dev/input/event5)",
			EnvVar: "GESTURENAV_DEVICE",
		},
		cli.StringFlag{
			Name:   "injector",
			Usage:  "Key injector: x11, uinput or log",
			Value:  defaults.Injector,
			EnvVar: "GESTURENAV_INJECTOR",
		},
		cli.StringFlag{
			Name:   "display",
			Usage:  "X display to inject into (default: $DISPLAY)",
			EnvVar: "GESTURENAV_DISPLAY",
		},
		cli.StringFlag{
			Name:   "back",
			Usage:  "Chord pressed for a back gesture",
			Value:  defaults.BackChord.String(),
			EnvVar: "GESTURENAV_BACK",
		},
		cli.StringFlag{
			Name:   "forward",
			Usage:  "Chord pressed for a forward gesture",
			Value:  defaults.ForwardChord.String(),
			EnvVar: "GESTURENAV_FORWARD",
		},
		cli.StringFlag{
			Name:   "swipe",
			Usage:  "Chord pressed when a swipe begins",
			Value:  defaults.SwipeChord.String(),
			EnvVar: "GESTURENAV_SWIPE",
		},
		cli.BoolFlag{
			Name:   "verbose",
			Usage:  "Enable debug logging",
			EnvVar: "GESTURENAV_VERBOSE",
		},
	}
	app.Before = setupLogging
	app.Action = runService
	app.Commands = []cli.Command{
		{
			Name:      "chord",
			Usage:     "Inject one chord and exit (tests the injector)",
			ArgsUsage: "<chord, e.g. Alt+Left>",
			Action:    runChord,
		},
	}
	return app
}

func setupLogging(c *cli.Context) error {
	level := slog.LevelInfo
	if c.GlobalBool("verbose") {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.ScrollThreshold = c.GlobalFloat64("threshold")
	cfg.Debounce = c.GlobalDuration("debounce")
	cfg.Source = c.GlobalString("source")
	cfg.Seat = c.GlobalString("seat")
	cfg.Device = c.GlobalString("device")
	cfg.Injector = c.GlobalString("injector")
	cfg.Display = c.GlobalString("display")

	chords := []struct {
		flag string
		dst  *input.Chord
	}{
		{"back", &cfg.BackChord},
		{"forward", &cfg.ForwardChord},
		{"swipe", &cfg.SwipeChord},
	}
	for _, ch := range chords {
		parsed, err := input.ParseChord(c.GlobalString(ch.flag))
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", ch.flag, err)
		}
		*ch.dst = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openSource(cfg *config.Config) (eventSource, error) {
	switch cfg.Source {
	case config.SourceEvdev:
		s, err := source.OpenEvdev(cfg.Device)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := source.OpenLibinput(cfg.Seat)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func openInjector(cfg *config.Config) (*input.Injector, error) {
	var kb input.Keyboard
	switch cfg.Injector {
	case config.InjectorUinput:
		u, err := input.OpenUinput(cfg.UinputName)
		if err != nil {
			return nil, err
		}
		kb = u
	case config.InjectorLog:
		kb = input.NewLogKeyboard(nil)
	default:
		x, err := input.OpenX11(cfg.Display)
		if err != nil {
			return nil, err
		}
		kb = x
	}
	return input.NewInjector(kb), nil
}

func runService(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	src, err := openSource(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s source: %w", cfg.Source, err)
	}
	defer src.Close()

	inj, err := openInjector(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s injector: %w", cfg.Injector, err)
	}
	defer inj.Close()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	var wg sync.WaitGroup
	defer wg.Wait()
	done := make(chan struct{})
	defer close(done)
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case sig := <-sigCh:
			slog.Info("Shutting down...", "signal", sig)
			src.Interrupt()
		case <-done:
		}
	}()

	slog.Info("gesturenav running. Press Ctrl+C to stop.", "version", version, "source", cfg.Source, "injector", cfg.Injector)
	return monitor.New(src, inj, cfg).Run()
}

func runChord(c *cli.Context) error {
	if c.NArg() != 1 {
		cli.ShowCommandHelp(c, "chord")
		return errors.New("expected exactly one chord")
	}
	chord, err := input.ParseChord(c.Args().First())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	inj, err := openInjector(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s injector: %w", cfg.Injector, err)
	}
	defer inj.Close()

	if err := inj.Inject(chord); err != nil {
		return err
	}
	slog.Info("Injected chord", "chord", chord)
	return nil
}
