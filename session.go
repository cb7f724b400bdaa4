package livecanvas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// ErrNoDrawFunc is wrapped by validation errors for scripts that do not
// define a callable draw global.
var ErrNoDrawFunc = errors.New("script must define draw(t)")

// ErrorKind classifies a ScriptError by the phase that failed.
type ErrorKind uint8

const (
	ErrorLoad     ErrorKind = iota + 1 // syntax error or unreadable file
	ErrorExec                          // top-level code raised an error
	ErrorValidate                      // draw is missing or not a function
	ErrorDraw                          // draw raised an error or timed out
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorLoad:
		return "lua load error"
	case ErrorExec:
		return "lua runtime error"
	case ErrorValidate:
		return "lua validation error"
	case ErrorDraw:
		return "lua draw error"
	}
	return "lua error"
}

// ScriptError is every error a script can cause. It never aborts the host.
type ScriptError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// FrameSaver receives saveFrame requests from scripts. Displays implement it
// by reading back their presented surface.
type FrameSaver interface {
	SaveFrame(path string)
}

// SessionOptions configure a Session beyond its script and canvas.
type SessionOptions struct {
	// Saver handles saveFrame calls. Nil makes saveFrame log a warning.
	Saver FrameSaver
	// FrameFile is the saveFrame default. Empty means DefaultFrameFile.
	FrameFile string
	// DrawTimeout bounds a single draw call. Zero means no limit.
	DrawTimeout time.Duration
}

// Session is one loaded script: a private Lua interpreter bound to the
// host canvas, plus the drawing state and stop flag the script controls.
// A Session is never reloaded in place; hot reload builds a new one.
type Session struct {
	path   string
	canvas *Canvas
	opts   SessionOptions
	log    *slog.Logger

	L       *lua.LState
	gm      *lua.LTable
	modTime time.Time

	stopped   bool
	color     Color
	lineWidth int
}

// NewSession creates an interpreter for path with the host API installed.
// Nothing is read from disk until Load.
func NewSession(path string, canvas *Canvas, opts SessionOptions) *Session {
	if opts.FrameFile == "" {
		opts.FrameFile = DefaultFrameFile
	}
	s := &Session{
		path:      path,
		canvas:    canvas,
		opts:      opts,
		log:       Logger().With("script", path),
		L:         lua.NewState(lua.Options{SkipOpenLibs: true}),
		color:     ColorWhite,
		lineWidth: 1,
	}
	s.openLibs()
	s.registerAPI()
	return s
}

func (s *Session) openLibs() {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		s.L.Push(s.L.NewFunction(lib.fn))
		s.L.Push(lua.LString(lib.name))
		s.L.Call(1, 0)
	}
}

// Load compiles the script, runs its top-level code and checks that it
// defines draw.
func (s *Session) Load() error {
	fn, err := s.L.LoadFile(s.path)
	if err != nil {
		return &ScriptError{Kind: ErrorLoad, Path: s.path, Err: err}
	}
	s.L.Push(fn)
	if err := s.L.PCall(0, 0, nil); err != nil {
		return &ScriptError{Kind: ErrorExec, Path: s.path, Err: err}
	}
	if _, ok := s.drawFunc(); !ok {
		return &ScriptError{Kind: ErrorValidate, Path: s.path, Err: ErrNoDrawFunc}
	}
	return nil
}

func (s *Session) drawFunc() (*lua.LFunction, bool) {
	fn, ok := s.L.GetGlobal(DrawFunc).(*lua.LFunction)
	return fn, ok
}

// Draw calls the script's draw with the elapsed milliseconds. It does nothing
// once the session is stopped. Any error stops the session so a broken draw
// reports once instead of every frame.
func (s *Session) Draw(elapsed float64) error {
	if s.stopped {
		return nil
	}
	fn, ok := s.drawFunc()
	if !ok {
		s.stopped = true
		return &ScriptError{Kind: ErrorDraw, Path: s.path, Err: ErrNoDrawFunc}
	}

	if s.opts.DrawTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.DrawTimeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	err := s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LNumber(elapsed))
	if err != nil {
		s.stopped = true
		return &ScriptError{Kind: ErrorDraw, Path: s.path, Err: err}
	}
	return nil
}

// Close releases the interpreter. The session must not be used afterwards.
func (s *Session) Close() {
	if s.L != nil {
		s.L.Close()
		s.L = nil
	}
}

// Path returns the script path.
func (s *Session) Path() string { return s.path }

// ModTime returns the modification time the script had when it was loaded.
func (s *Session) ModTime() time.Time { return s.modTime }

// Stop sets the stop flag: draw is no longer called.
func (s *Session) Stop() { s.stopped = true }

// Stopped reports whether the stop flag is set.
func (s *Session) Stopped() bool { return s.stopped }

// Color returns the current draw color.
func (s *Session) Color() Color { return s.color }

// SetColor sets the color used when a drawing call omits one.
func (s *Session) SetColor(c Color) { s.color = c }

// LineWidth returns the current line width.
func (s *Session) LineWidth() int { return s.lineWidth }

// SetLineWidth sets the width used by line. Widths below 1 become 1.
func (s *Session) SetLineWidth(w int) { s.lineWidth = max(w, 1) }

// luaPrint replaces the base library print so script output lands in the log.
func (s *Session) luaPrint(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.Get(i).String())
	}
	s.log.Info(strings.Join(parts, "\t"))
	return 0
}
