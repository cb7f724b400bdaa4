package livecanvas

import "image/color"

// Canvas and window defaults used when a RunConfig leaves a field zero.
const (
	DefaultWidth     = 320
	DefaultHeight    = 240
	DefaultScale     = 2
	DefaultScript    = "game.lua"
	DefaultFrameFile = "frame.png"
	DefaultTitle     = "livecanvas"
)

// DrawFunc is the global a script must define. It is called once per frame
// with the milliseconds elapsed since the previous frame.
const DrawFunc = "draw"

// Color is a straight-alpha RGBA color with 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

var (
	// ColorWhite is the initial draw color of every session.
	ColorWhite = Color{255, 255, 255, 255}
	// ColorBlack is opaque black.
	ColorBlack = Color{0, 0, 0, 255}
	// ColorTransparent is the zero pixel a new canvas starts with.
	ColorTransparent = Color{}
)

// RGBA builds a Color from integer channels. Each channel is clamped to
// [0, 255]; out-of-range input never wraps.
func RGBA(r, g, b, a int) Color {
	return Color{ClampChannel(r), ClampChannel(g), ClampChannel(b), ClampChannel(a)}
}

// RGB builds an opaque Color from integer channels, clamped like RGBA.
func RGB(r, g, b int) Color {
	return RGBA(r, g, b, 255)
}

// ClampChannel clamps v to the range of a color channel.
func ClampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Pack returns c in canvas layout: 0xRRGGBBAA, red in the most significant
// byte and alpha in the least.
func (c Color) Pack() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// Unpack is the inverse of Color.Pack.
func Unpack(p uint32) Color {
	return Color{uint8(p >> 24), uint8(p >> 16), uint8(p >> 8), uint8(p)}
}

// NRGBA converts c to the standard library's straight-alpha color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Key identifies the few keys the frame driver reacts to.
type Key uint8

const (
	KeyEscape    Key = iota + 1 // quits
	KeyBackquote                // toggles the debug console
)

// Input is the result of polling a display once per frame.
type Input struct {
	Quit          bool
	ToggleConsole bool
}

// inputForKey maps a key press onto frame driver input.
func inputForKey(k Key) Input {
	switch k {
	case KeyEscape:
		return Input{Quit: true}
	case KeyBackquote:
		return Input{ToggleConsole: true}
	}
	return Input{}
}

// merge folds b into a. Polling may drain several events in one frame.
func (in Input) merge(b Input) Input {
	return Input{
		Quit:          in.Quit || b.Quit,
		ToggleConsole: in.ToggleConsole != b.ToggleConsole,
	}
}
