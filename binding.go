package livecanvas

import (
	lua "github.com/yuin/gopher-lua"
)

// hostFunc implements one entry of the script API. a addresses the
// arguments after the optional gm receiver.
type hostFunc func(s *Session, a args) int

// hostAPI is the complete set of functions exposed under the gm table.
var hostAPI = map[string]hostFunc{
	"clear":          apiClear,
	"background":     apiBackground,
	"set_pixel":      apiSetPixel,
	"get_pixel":      apiGetPixel,
	"fill_rect":      apiFillRect,
	"line":           apiLine,
	"blit":           apiBlit,
	"set_color":      apiSetColor,
	"set_line_width": apiSetLineWidth,
	"noloop":         apiNoLoop,
	"save_frame":     apiSaveFrame,
	"ease":           apiEase,
	"tween":          apiTween,
}

// globalNames maps the flat global spelling of each API function to its gm
// name.
var globalNames = map[string]string{
	"clear":        "clear",
	"background":   "background",
	"setPixel":     "set_pixel",
	"getPixel":     "get_pixel",
	"fillRect":     "fill_rect",
	"line":         "line",
	"blit":         "blit",
	"setColor":     "set_color",
	"setLineWidth": "set_line_width",
	"noLoop":       "noloop",
	"saveFrame":    "save_frame",
	"ease":         "ease",
	"tween":        "tween",
}

// registerAPI installs the read-only gm table, the flat globals, width,
// height and the logging print.
func (s *Session) registerAPI() {
	L := s.L
	s.gm = L.NewTable()

	methods := L.NewTable()
	funcs := make(map[string]*lua.LFunction, len(hostAPI))
	for name, fn := range hostAPI {
		f := L.NewFunction(func(L *lua.LState) int {
			return fn(s, s.argsFor(L))
		})
		funcs[name] = f
		L.SetField(methods, name, f)
	}
	w, h := lua.LNumber(s.canvas.Width()), lua.LNumber(s.canvas.Height())
	L.SetField(methods, "width", w)
	L.SetField(methods, "height", h)

	mt := L.NewTable()
	L.SetField(mt, "__index", methods)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("gm is read-only")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("locked"))
	L.SetMetatable(s.gm, mt)
	L.SetGlobal("gm", s.gm)

	for global, name := range globalNames {
		L.SetGlobal(global, funcs[name])
	}
	L.SetGlobal("print", L.NewFunction(s.luaPrint))
	s.protectGlobals(w, h)
	registerTweenType(L)
}

// readOnlyGlobals are served from the globals metatable so assignments to
// them reach __newindex and fail.
var readOnlyGlobals = [...]string{"width", "height"}

// protectGlobals exposes width and height as read-only globals. Scripts may
// still shadow them with locals.
func (s *Session) protectGlobals(w, h lua.LNumber) {
	L := s.L
	fixed := L.NewTable()
	L.SetField(fixed, "width", w)
	L.SetField(fixed, "height", h)

	mt := L.NewTable()
	L.SetField(mt, "__index", fixed)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		t, k, v := L.CheckTable(1), L.Get(2), L.Get(3)
		if name, ok := k.(lua.LString); ok {
			for _, ro := range readOnlyGlobals {
				if string(name) == ro {
					L.RaiseError("%s is read-only", ro)
				}
			}
		}
		L.RawSet(t, k, v)
		return 0
	}))
	L.SetMetatable(L.G.Global, mt)
}

// argsFor skips the receiver of gm:f(...) calls so both gm.f(x) and
// gm:f(x) see x as their first argument.
func (s *Session) argsFor(L *lua.LState) args {
	if L.GetTop() >= 1 && L.Get(1) == lua.LValue(s.gm) {
		return args{L: L, base: 2}
	}
	return args{L: L, base: 1}
}

// args reads host function arguments by zero-based position.
type args struct {
	L    *lua.LState
	base int
}

func (a args) n(i int) int { return a.base + i }

// has reports whether argument i was passed and is not nil.
func (a args) has(i int) bool {
	return a.L.GetTop() >= a.n(i) && a.L.Get(a.n(i)) != lua.LNil
}

func (a args) int(i int) int { return a.L.CheckInt(a.n(i)) }

func (a args) optInt(i, def int) int { return a.L.OptInt(a.n(i), def) }

func (a args) number(i int) float64 { return float64(a.L.CheckNumber(a.n(i))) }

// color reads r, g, b[, a] starting at i. With no arguments from i on, the
// session's current color is used.
func (a args) color(s *Session, i int) Color {
	if !a.has(i) {
		return s.color
	}
	return RGBA(a.int(i), a.int(i+1), a.int(i+2), a.optInt(i+3, 255))
}

func apiClear(s *Session, a args) int {
	s.canvas.Clear(a.color(s, 0))
	return 0
}

func apiBackground(s *Session, a args) int {
	s.canvas.Background(a.color(s, 0))
	return 0
}

func apiSetPixel(s *Session, a args) int {
	x, y := a.int(0), a.int(1)
	s.canvas.SetPixel(x, y, a.color(s, 2))
	return 0
}

func apiGetPixel(s *Session, a args) int {
	c := s.canvas.ColorAt(a.int(0), a.int(1))
	for _, v := range [4]uint8{c.R, c.G, c.B, c.A} {
		a.L.Push(lua.LNumber(v))
	}
	return 4
}

func apiFillRect(s *Session, a args) int {
	x, y, w, h := a.int(0), a.int(1), a.int(2), a.int(3)
	s.canvas.FillRect(x, y, w, h, a.color(s, 4))
	return 0
}

// apiLine accepts line(x1, y1, x2, y2[, width]) or
// line(x1, y1, x2, y2, r, g, b[, a[, width]]). An omitted color or width
// falls back to the session's current one.
func apiLine(s *Session, a args) int {
	x1, y1, x2, y2 := a.int(0), a.int(1), a.int(2), a.int(3)
	col, width := s.color, s.lineWidth
	switch {
	case a.has(5):
		col = a.color(s, 4)
		width = a.optInt(8, s.lineWidth)
	case a.has(4):
		width = a.int(4)
	}
	s.canvas.Line(x1, y1, x2, y2, col, width)
	return 0
}

// apiBlit returns true, or false plus a message when the canvas rejects
// the copy.
func apiBlit(s *Session, a args) int {
	data := blitData(a, 0)
	x, y, w, h := a.int(1), a.int(2), a.int(3), a.int(4)
	format := PixelFormatAuto
	if a.has(5) {
		format = PixelFormatRGB
		if lua.LVAsBool(a.L.Get(a.n(5))) {
			format = PixelFormatRGBA
		}
	}
	if err := s.canvas.Blit(data, x, y, w, h, format); err != nil {
		s.log.Warn("blit rejected", "error", err)
		a.L.Push(lua.LFalse)
		a.L.Push(lua.LString(err.Error()))
		return 2
	}
	a.L.Push(lua.LTrue)
	return 1
}

// blitData accepts a byte string or an array of channel values.
func blitData(a args, i int) []byte {
	switch v := a.L.Get(a.n(i)).(type) {
	case lua.LString:
		return []byte(v)
	case *lua.LTable:
		buf := make([]byte, v.Len())
		for k := range buf {
			buf[k] = ClampChannel(int(lua.LVAsNumber(v.RawGetInt(k + 1))))
		}
		return buf
	}
	a.L.ArgError(a.n(i), "string or table expected")
	return nil
}

func apiSetColor(s *Session, a args) int {
	s.SetColor(RGBA(a.int(0), a.int(1), a.int(2), a.optInt(3, 255)))
	return 0
}

func apiSetLineWidth(s *Session, a args) int {
	s.SetLineWidth(a.int(0))
	return 0
}

func apiNoLoop(s *Session, _ args) int {
	s.Stop()
	return 0
}

func apiSaveFrame(s *Session, a args) int {
	name := a.L.OptString(a.n(0), s.opts.FrameFile)
	if s.opts.Saver == nil {
		s.log.Warn("saveFrame ignored: no display to read back", "file", name)
		return 0
	}
	s.opts.Saver.SaveFrame(name)
	return 0
}
