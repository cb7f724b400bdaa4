package livecanvas

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// frameQueue collects saveFrame requests made during a draw call. Displays
// flush it right after presenting, so the saved image is the frame the
// request was made in.
type frameQueue struct {
	paths []string
}

// SaveFrame queues path.
func (q *frameQueue) SaveFrame(path string) {
	q.paths = append(q.paths, path)
}

// pending reports whether any request is queued.
func (q *frameQueue) pending() bool {
	return len(q.paths) > 0
}

// flush writes img to every queued path. Failures are logged and never
// returned: a failed save must not disturb the frame loop.
func (q *frameQueue) flush(img image.Image) {
	if len(q.paths) == 0 {
		return
	}
	for _, path := range q.paths {
		if err := writePNG(path, img); err != nil {
			Logger().Error("save frame failed", "file", path, "error", err)
			continue
		}
		Logger().Info("frame saved", "file", path)
	}
	q.paths = q.paths[:0]
}

// writePNG encodes img to path, creating parent directories as needed.
func writePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// unpremultiply converts premultiplied RGBA bytes read back from a GPU
// surface into a straight-alpha image.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}
