package livecanvas

import (
	"context"
	"log/slog"
	"time"
)

// Display shows the canvas and reports input. Present copies the canvas to
// the display surface and presents it; Poll drains pending input; SaveFrame
// queues a readback of the presented surface to a PNG file.
type Display interface {
	FrameSaver
	Present(c *Canvas) error
	Poll() Input
}

// Driver sequences frames: reload check, draw with elapsed time, present,
// poll input. Everything runs on the caller's goroutine.
type Driver struct {
	canvas  *Canvas
	ctrl    *Controller
	display Display
	console *Console
	log     *slog.Logger

	now    func() time.Time
	prev   time.Time
	quit   bool
	frames uint64
	debug  bool
}

// NewDriver wires a driver. The elapsed time of the first frame is measured
// from this call.
func NewDriver(canvas *Canvas, ctrl *Controller, display Display, console *Console) *Driver {
	if console == nil {
		console = NewConsole()
	}
	d := &Driver{
		canvas:  canvas,
		ctrl:    ctrl,
		display: display,
		console: console,
		log:     Logger(),
		now:     time.Now,
	}
	d.prev = d.now()
	return d
}

// SetDebugMode turns per-frame timing logs on or off.
func (d *Driver) SetDebugMode(enabled bool) {
	d.debug = enabled
}

// Frame runs one iteration and reports whether the driver should quit.
func (d *Driver) Frame() bool {
	var stats frameStats
	timer := debugTimer{on: d.debug}
	timer.start()

	d.checkReload()
	stats.reloadTime = timer.lap()

	now := d.now()
	elapsed := float64(now.Sub(d.prev)) / float64(time.Millisecond)
	d.prev = now

	if d.ctrl.Skipping() {
		stats.skipped = true
	} else if err := d.ctrl.Draw(elapsed); err != nil {
		d.console.ShowError(err)
	}
	stats.drawTime = timer.lap()

	if err := d.display.Present(d.canvas); err != nil {
		d.log.Error("present failed", "error", err)
	}
	stats.presentTime = timer.lap()

	in := d.display.Poll()
	if in.Quit {
		d.quit = true
	}
	if in.ToggleConsole {
		d.console.Toggle()
	}
	stats.pollTime = timer.lap()

	d.frames++
	d.debugLog(stats)
	return d.quit
}

func (d *Driver) checkReload() {
	res := d.ctrl.Check()
	switch {
	case res.Err != nil:
		d.console.ShowError(res.Err)
	case res.Reloaded && d.console.Shown():
		d.console.SetText(consoleReloaded)
		d.console.Hide()
	}
}

// LoopOptions control Driver.Run.
type LoopOptions struct {
	// MaxFrames ends the loop after this many frames. Zero means no limit.
	MaxFrames int
	// Interval paces frames to at most one per interval. Zero runs frames
	// back to back.
	Interval time.Duration
	// BeforeFrame runs ahead of every frame; returning false ends the loop.
	BeforeFrame func() bool
}

// Run calls Frame until quit, ctx is cancelled, BeforeFrame declines or the
// frame limit is reached. Displays that own their loop, like the window
// display, call Frame themselves instead.
func (d *Driver) Run(ctx context.Context, opts LoopOptions) error {
	var tick <-chan time.Time
	if opts.Interval > 0 {
		t := time.NewTicker(opts.Interval)
		defer t.Stop()
		tick = t.C
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if opts.BeforeFrame != nil && !opts.BeforeFrame() {
			return nil
		}
		if d.Frame() {
			return nil
		}
		if opts.MaxFrames > 0 && d.frames >= uint64(opts.MaxFrames) {
			return nil
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
	}
}

// Quit asks the driver to stop after the current frame.
func (d *Driver) Quit() { d.quit = true }

// Quitting reports whether a quit was requested.
func (d *Driver) Quitting() bool { return d.quit }

// Frames returns the number of completed frames.
func (d *Driver) Frames() uint64 { return d.frames }

// Console returns the driver's console.
func (d *Driver) Console() *Console { return d.console }

// Controller returns the driver's hot-reload controller.
func (d *Driver) Controller() *Controller { return d.ctrl }
