package livecanvas

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/term"
)

// loopInterval paces displays without vsync to roughly 60 frames a second.
const loopInterval = 16 * time.Millisecond

// Run starts a live-coding session as described by cfg and blocks until the
// user quits, ctx is cancelled or a frame limit is reached. Only startup
// failures are returned; script errors are reported and survived.
func Run(ctx context.Context, cfg RunConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := CheckScript(cfg.Script); err != nil {
		return err
	}
	canvas, err := NewCanvas(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	console := NewConsole()

	switch cfg.Display {
	case DisplayWindow:
		return runWindow(cfg, canvas, console)
	case DisplayTerminal:
		return runTerminal(ctx, cfg, canvas, console)
	default:
		return runHeadless(ctx, cfg, canvas, console)
	}
}

// newDriver wires a controller for cfg.Script to display.
func newDriver(cfg RunConfig, canvas *Canvas, display Display, console *Console) *Driver {
	ctrl := NewController(cfg.Script, canvas, SessionOptions{
		Saver:       display,
		FrameFile:   cfg.FrameFile,
		DrawTimeout: cfg.DrawTimeout,
	})
	d := NewDriver(canvas, ctrl, display, console)
	d.SetDebugMode(cfg.Debug)
	return d
}

func runWindow(cfg RunConfig, canvas *Canvas, console *Console) error {
	display := NewWindowDisplay(cfg.Scale, cfg.ShowFPS, console)
	driver := newDriver(cfg, canvas, display, console)
	defer driver.Controller().Close()

	ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetVsyncEnabled(true)

	game := &windowGame{driver: driver, display: display, w: cfg.Width, h: cfg.Height}
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

// ErrNoTerminal is returned when the terminal display is asked for but
// stdout is not a terminal.
var ErrNoTerminal = errors.New("livecanvas: terminal display needs a terminal on stdout")

func runTerminal(ctx context.Context, cfg RunConfig, canvas *Canvas, console *Console) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNoTerminal
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	display, err := NewTerminalDisplay(screen, console)
	if err != nil {
		return err
	}
	defer display.Close()

	driver := newDriver(cfg, canvas, display, console)
	defer driver.Controller().Close()

	return ignoreCancel(driver.Run(ctx, LoopOptions{
		MaxFrames: cfg.Frames,
		Interval:  loopInterval,
	}))
}

func runHeadless(ctx context.Context, cfg RunConfig, canvas *Canvas, console *Console) error {
	display := NewHeadlessDisplay(cfg.Scale)
	driver := newDriver(cfg, canvas, display, console)
	defer driver.Controller().Close()

	opts := LoopOptions{MaxFrames: cfg.Frames, Interval: loopInterval}
	if cfg.Steps != "" {
		data, err := os.ReadFile(cfg.Steps)
		if err != nil {
			return fmt.Errorf("read step script: %w", err)
		}
		runner, err := LoadStepScript(data)
		if err != nil {
			return err
		}
		opts.BeforeFrame = func() bool {
			if runner.Done() {
				return false
			}
			runner.step(display)
			return true
		}
	}
	return ignoreCancel(driver.Run(ctx, opts))
}

// ignoreCancel treats an interrupted loop as a normal shutdown.
func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
