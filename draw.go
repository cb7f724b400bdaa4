package livecanvas

import (
	"errors"
	"fmt"
	"math"
)

// Blit failures. Blit never writes partially: a failing call leaves the
// canvas untouched.
var (
	ErrBlitOutOfBounds = errors.New("livecanvas: blit rectangle exceeds canvas bounds")
	ErrBlitShortData   = errors.New("livecanvas: blit data too short")
)

// PixelFormat describes the byte layout of data handed to Blit.
type PixelFormat uint8

const (
	PixelFormatAuto PixelFormat = iota // RGBA if len(data) >= w*h*4, else RGB
	PixelFormatRGB                     // 3 bytes per pixel, alpha 255
	PixelFormatRGBA                    // 4 bytes per pixel, straight alpha
)

// Clear sets every pixel to col.
func (c *Canvas) Clear(col Color) {
	p := col.Pack()
	for i := range c.pix {
		c.pix[i] = p
	}
}

// Background is Clear under the name sketches conventionally use.
func (c *Canvas) Background(col Color) {
	c.Clear(col)
}

// SetPixel writes one pixel. Coordinates outside the canvas are ignored.
func (c *Canvas) SetPixel(x, y int, col Color) {
	if !c.In(x, y) {
		return
	}
	c.pix[y*c.w+x] = col.Pack()
}

// FillRect fills the part of the rectangle (x, y, w, h) that lies on the
// canvas. Empty or fully off-canvas rectangles are a no-op.
func (c *Canvas) FillRect(x, y, w, h int, col Color) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, x1 := clipSpan(x, w, c.w)
	y0, y1 := clipSpan(y, h, c.h)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	p := col.Pack()
	for row := y0; row < y1; row++ {
		line := c.pix[row*c.w+x0 : row*c.w+x1]
		for i := range line {
			line[i] = p
		}
	}
}

// Line draws from (x1, y1) to (x2, y2), both ends included. A width of 1 or
// less draws a single-pixel line; wider lines are built from square brush
// stamps of side width centered on points interpolated along the line.
func (c *Canvas) Line(x1, y1, x2, y2 int, col Color, width int) {
	if width <= 1 {
		c.thinLine(x1, y1, x2, y2, col)
		return
	}

	dx, dy := x2-x1, y2-y1
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		c.stamp(x1, y1, width, col)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := x1 + int(math.Round(float64(dx)*t))
		py := y1 + int(math.Round(float64(dy)*t))
		c.stamp(px, py, width, col)
	}
}

// clipSpan clips [start, start+n) to [0, limit) without computing
// start+n when it could overflow. n must be positive.
func clipSpan(start, n, limit int) (lo, hi int) {
	if start >= limit {
		return 0, 0
	}
	lo, hi = max(start, 0), limit
	if start < 0 || n < limit-start {
		hi = min(start+n, limit)
	}
	return lo, hi
}

// stamp fills a width×width square centered on (x, y).
func (c *Canvas) stamp(x, y, width int, col Color) {
	half := width / 2
	c.FillRect(x-half, y-half, width, width, col)
}

// thinLine is Bresenham's algorithm over all octants.
func (c *Canvas) thinLine(x1, y1, x2, y2 int, col Color) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		c.SetPixel(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// Blit copies row-major pixel data into the rectangle (x, y, w, h). Unlike
// the other primitives Blit does not clip: the rectangle must lie entirely on
// the canvas and data must cover it, otherwise an error is returned and
// nothing is written.
func (c *Canvas) Blit(data []byte, x, y, w, h int, format PixelFormat) error {
	if w < 0 || h < 0 || x < 0 || y < 0 || x > c.w || y > c.h || w > c.w-x || h > c.h-y {
		return fmt.Errorf("%w: %dx%d at (%d,%d) on %dx%d canvas", ErrBlitOutOfBounds, w, h, x, y, c.w, c.h)
	}
	n := w * h
	if format == PixelFormatAuto {
		format = PixelFormatRGB
		if len(data) >= n*4 {
			format = PixelFormatRGBA
		}
	}
	bpp := 3
	if format == PixelFormatRGBA {
		bpp = 4
	}
	if len(data)/bpp < n {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrBlitShortData, n*bpp, len(data))
	}

	src := 0
	for row := y; row < y+h; row++ {
		dst := c.pix[row*c.w+x : row*c.w+x+w]
		for i := range dst {
			a := uint8(255)
			if bpp == 4 {
				a = data[src+3]
			}
			dst[i] = Color{data[src], data[src+1], data[src+2], a}.Pack()
			src += bpp
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
