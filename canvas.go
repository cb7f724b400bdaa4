package livecanvas

import (
	"errors"
	"fmt"
	"image"
)

// maxCanvasPixels bounds canvas allocations to 64M pixels (256 MiB).
const maxCanvasPixels = 1 << 26

// ErrInvalidSize is returned by NewCanvas for non-positive or oversized
// dimensions.
var ErrInvalidSize = errors.New("livecanvas: invalid canvas size")

// Canvas is the pixel buffer scripts draw into. Pixels are packed 0xRRGGBBAA,
// row-major with the origin at the top-left. A Canvas is owned by the host;
// sessions hold a reference for their lifetime but never replace it.
type Canvas struct {
	pix  []uint32
	w, h int
}

// NewCanvas allocates a zeroed (transparent black) canvas.
func NewCanvas(w, h int) (*Canvas, error) {
	if w <= 0 || h <= 0 || w > maxCanvasPixels/h {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return &Canvas{
		pix: make([]uint32, w*h),
		w:   w,
		h:   h,
	}, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.w
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.h
}

// Bounds returns the canvas rectangle, origin at (0, 0).
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.w, c.h)
}

// Pixels returns the backing buffer for direct access. len(Pixels()) is
// always Width()*Height(). Indexing is unchecked: callers must keep x and y
// within bounds themselves.
func (c *Canvas) Pixels() []uint32 {
	return c.pix
}

// In reports whether (x, y) addresses a pixel of the canvas.
func (c *Canvas) In(x, y int) bool {
	return x >= 0 && x < c.w && y >= 0 && y < c.h
}

// At returns the packed pixel at (x, y), or 0 outside the canvas.
func (c *Canvas) At(x, y int) uint32 {
	if !c.In(x, y) {
		return 0
	}
	return c.pix[y*c.w+x]
}

// ColorAt returns the pixel at (x, y) as a Color.
func (c *Canvas) ColorAt(x, y int) Color {
	return Unpack(c.At(x, y))
}

// Image returns a straight-alpha copy of the canvas.
func (c *Canvas) Image() *image.NRGBA {
	img := image.NewNRGBA(c.Bounds())
	for i, p := range c.pix {
		o := i * 4
		img.Pix[o] = uint8(p >> 24)
		img.Pix[o+1] = uint8(p >> 16)
		img.Pix[o+2] = uint8(p >> 8)
		img.Pix[o+3] = uint8(p)
	}
	return img
}

// writePremultiplied fills dst with premultiplied RGBA bytes, the layout GPU
// uploads expect. dst must hold at least 4*Width()*Height() bytes.
func (c *Canvas) writePremultiplied(dst []byte) {
	for i, p := range c.pix {
		r, g, b, a := uint8(p>>24), uint8(p>>16), uint8(p>>8), uint8(p)
		if a < 255 {
			r = uint8(uint16(r) * uint16(a) / 255)
			g = uint8(uint16(g) * uint16(a) / 255)
			b = uint8(uint16(b) * uint16(a) / 255)
		}
		o := i * 4
		dst[o] = r
		dst[o+1] = g
		dst[o+2] = b
		dst[o+3] = a
	}
}
