package livecanvas

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// HeadlessDisplay presents into an in-memory surface scaled by an integer
// factor with nearest-neighbour sampling. Input comes only from injected
// keys. It backs tests and windowless runs.
type HeadlessDisplay struct {
	keyQueue
	frameQueue

	scale     int
	surface   *image.NRGBA
	presented int
}

var _ Display = (*HeadlessDisplay)(nil)

// NewHeadlessDisplay returns a display magnifying the canvas by scale.
// Scales below 1 become 1.
func NewHeadlessDisplay(scale int) *HeadlessDisplay {
	return &HeadlessDisplay{scale: max(scale, 1)}
}

// Present scales the canvas onto the surface and flushes queued frame saves.
func (d *HeadlessDisplay) Present(c *Canvas) error {
	r := image.Rect(0, 0, c.Width()*d.scale, c.Height()*d.scale)
	if d.surface == nil || d.surface.Rect != r {
		d.surface = image.NewNRGBA(r)
	}
	src := c.Image()
	xdraw.NearestNeighbor.Scale(d.surface, r, src, src.Bounds(), xdraw.Src, nil)
	d.presented++
	d.flush(d.surface)
	return nil
}

// Poll returns the next injected key, if any.
func (d *HeadlessDisplay) Poll() Input {
	return d.pop()
}

// Surface returns the last presented surface, or nil before the first
// Present.
func (d *HeadlessDisplay) Surface() *image.NRGBA {
	return d.surface
}

// Presented returns how many frames were presented.
func (d *HeadlessDisplay) Presented() int {
	return d.presented
}

// Scale returns the magnification factor.
func (d *HeadlessDisplay) Scale() int {
	return d.scale
}
