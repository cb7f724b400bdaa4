package livecanvas

import (
	"os"
	"path/filepath"
	"testing"
)

// writeScript writes src to name inside dir and returns the path.
func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func mustCanvas(t *testing.T, w, h int) *Canvas {
	t.Helper()
	c, err := NewCanvas(w, h)
	if err != nil {
		t.Fatalf("NewCanvas(%d, %d): %v", w, h, err)
	}
	return c
}

// loadSession creates and loads a session for src, failing the test on
// any load error.
func loadSession(t *testing.T, c *Canvas, src string, opts SessionOptions) *Session {
	t.Helper()
	path := writeScript(t, t.TempDir(), "sketch.lua", src)
	s := NewSession(path, c, opts)
	t.Cleanup(s.Close)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

// countPixels returns how many canvas pixels equal p.
func countPixels(c *Canvas, p uint32) int {
	n := 0
	for _, v := range c.Pixels() {
		if v == p {
			n++
		}
	}
	return n
}
