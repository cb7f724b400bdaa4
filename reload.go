package livecanvas

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// ErrScriptNotFound is returned at startup when the script file is missing.
var ErrScriptNotFound = errors.New("livecanvas: script not found")

// ReloadState is the hot-reload controller's view of its script.
type ReloadState uint8

const (
	StateUnloaded ReloadState = iota // no load attempted yet
	StateLoaded                      // a working session exists
	StateBroken                      // no working session; draw is skipped
)

func (s ReloadState) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateBroken:
		return "broken"
	}
	return fmt.Sprintf("ReloadState(%d)", uint8(s))
}

// ReloadResult reports what a Check or Load did.
type ReloadResult struct {
	// Reloaded is true when a new session replaced the previous one.
	Reloaded bool
	// Err is the load or validation error of a failed attempt.
	Err error
}

// Controller watches one script file and owns the session running it. A
// changed modification time triggers a load into a brand new session; the
// old session is only replaced once the new one loaded and validated.
type Controller struct {
	path   string
	canvas *Canvas
	opts   SessionOptions
	log    *slog.Logger

	session *Session
	state   ReloadState
	lastMod time.Time
	loads   int

	// stat returns the file's modification time, or the zero time when the
	// file cannot be stat'ed.
	stat func(path string) time.Time
}

// NewController creates a controller for path. Nothing is loaded until Load
// or the first Check.
func NewController(path string, canvas *Canvas, opts SessionOptions) *Controller {
	return &Controller{
		path:   path,
		canvas: canvas,
		opts:   opts,
		log:    Logger().With("script", path),
		stat:   modTime,
	}
}

// CheckScript verifies at startup that the script file exists.
func CheckScript(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s (create one to get started)", ErrScriptNotFound, path)
		}
		return fmt.Errorf("stat script: %w", err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrScriptNotFound, path)
	}
	return nil
}

// modTime returns the modification time of path, or the zero time when the
// file is missing or unreadable. The zero time means "unchanged".
func modTime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

// Load performs the initial load regardless of modification time.
func (c *Controller) Load() ReloadResult {
	return c.reload(c.stat(c.path))
}

// Check reloads the script when its modification time differs from the last
// attempt. A file that cannot be stat'ed counts as unchanged.
func (c *Controller) Check() ReloadResult {
	if c.state == StateUnloaded {
		return c.Load()
	}
	mt := c.stat(c.path)
	if mt.IsZero() || mt.Equal(c.lastMod) {
		return ReloadResult{}
	}
	return c.reload(mt)
}

func (c *Controller) reload(mt time.Time) ReloadResult {
	// Record the attempt before loading so a file that fails to parse is not
	// retried every frame.
	c.lastMod = mt
	c.loads++

	next := NewSession(c.path, c.canvas, c.opts)
	if err := next.Load(); err != nil {
		next.Close()
		if c.session == nil {
			c.state = StateBroken
		}
		c.log.Error("script load failed", "error", err, "state", c.state)
		return ReloadResult{Err: err}
	}
	next.modTime = mt

	if c.session != nil {
		c.session.Close()
	}
	c.session = next
	c.state = StateLoaded
	c.log.Info("script loaded", "attempt", c.loads)
	return ReloadResult{Reloaded: true}
}

// Draw calls the current session's draw. With no working session, or a
// stopped one, it does nothing.
func (c *Controller) Draw(elapsed float64) error {
	if c.session == nil {
		return nil
	}
	if err := c.session.Draw(elapsed); err != nil {
		c.log.Error("draw failed, script stopped until next reload", "error", err)
		return err
	}
	return nil
}

// Skipping reports whether draw calls are currently skipped: there is no
// working session or its stop flag is set.
func (c *Controller) Skipping() bool {
	return c.session == nil || c.session.Stopped()
}

// Session returns the working session, or nil.
func (c *Controller) Session() *Session { return c.session }

// State returns the controller state.
func (c *Controller) State() ReloadState { return c.state }

// Attempts returns how many loads have been attempted.
func (c *Controller) Attempts() int { return c.loads }

// Path returns the watched script path.
func (c *Controller) Path() string { return c.path }

// Close releases the current session.
func (c *Controller) Close() {
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
}
