package livecanvas

import (
	"image/color"
	"path/filepath"
	"testing"
)

func TestHeadlessPresentScales(t *testing.T) {
	c := mustCanvas(t, 2, 1)
	c.SetPixel(0, 0, Color{255, 0, 0, 255})
	c.SetPixel(1, 0, Color{0, 255, 0, 255})

	d := NewHeadlessDisplay(3)
	if err := d.Present(c); err != nil {
		t.Fatalf("Present: %v", err)
	}
	s := d.Surface()
	if s.Bounds().Dx() != 6 || s.Bounds().Dy() != 3 {
		t.Fatalf("surface = %v, want 6x3", s.Bounds())
	}
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, color.NRGBA{255, 0, 0, 255}},
		{2, 2, color.NRGBA{255, 0, 0, 255}},
		{3, 0, color.NRGBA{0, 255, 0, 255}},
		{5, 2, color.NRGBA{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		if got := s.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("surface(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if d.Presented() != 1 {
		t.Errorf("Presented = %d, want 1", d.Presented())
	}
}

func TestHeadlessScaleFloor(t *testing.T) {
	if got := NewHeadlessDisplay(0).Scale(); got != 1 {
		t.Errorf("Scale = %d, want 1", got)
	}
	if got := NewHeadlessDisplay(-3).Scale(); got != 1 {
		t.Errorf("Scale = %d, want 1", got)
	}
}

func TestHeadlessSurfaceBeforePresent(t *testing.T) {
	if NewHeadlessDisplay(2).Surface() != nil {
		t.Error("surface exists before the first Present")
	}
}

func TestHeadlessSaveFrame(t *testing.T) {
	c := mustCanvas(t, 2, 2)
	c.Clear(Color{0, 0, 255, 255})
	out := filepath.Join(t.TempDir(), "frame.png")

	d := NewHeadlessDisplay(2)
	d.SaveFrame(out)
	if err := d.Present(c); err != nil {
		t.Fatalf("Present: %v", err)
	}
	img := readPNG(t, out)
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("saved size = %v, want 4x4", img.Bounds())
	}
	if d.pending() {
		t.Error("save still pending after Present")
	}
}
