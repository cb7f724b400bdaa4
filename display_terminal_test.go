package livecanvas

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func newSimDisplay(t *testing.T, cols, rows int, console *Console) (*TerminalDisplay, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	d, err := NewTerminalDisplay(screen, console)
	if err != nil {
		t.Fatalf("NewTerminalDisplay: %v", err)
	}
	t.Cleanup(d.Close)
	screen.SetSize(cols, rows)
	return d, screen
}

// pollUntil polls d until ok accepts the input or a second passes.
func pollUntil(t *testing.T, d *TerminalDisplay, ok func(Input) bool) Input {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if in := d.Poll(); ok(in) {
			return in
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected input never arrived")
	return Input{}
}

func TestTerminalPresentHalfBlocks(t *testing.T) {
	c := mustCanvas(t, 4, 4)
	c.FillRect(0, 0, 4, 1, Color{255, 0, 0, 255})
	c.FillRect(0, 1, 4, 1, Color{0, 255, 0, 255})
	c.FillRect(0, 2, 4, 2, Color{0, 0, 255, 255})

	d, screen := newSimDisplay(t, 4, 2, nil)
	if err := d.Present(c); err != nil {
		t.Fatalf("Present: %v", err)
	}

	tests := []struct {
		row    int
		fg, bg tcell.Color
	}{
		{0, tcell.NewRGBColor(255, 0, 0), tcell.NewRGBColor(0, 255, 0)},
		{1, tcell.NewRGBColor(0, 0, 255), tcell.NewRGBColor(0, 0, 255)},
	}
	for _, tt := range tests {
		mainc, _, style, _ := screen.GetContent(1, tt.row)
		if mainc != upperHalf {
			t.Errorf("row %d rune = %q, want %q", tt.row, mainc, upperHalf)
		}
		fg, bg, _ := style.Decompose()
		if fg != tt.fg || bg != tt.bg {
			t.Errorf("row %d colors = %v/%v, want %v/%v", tt.row, fg, bg, tt.fg, tt.bg)
		}
	}
	if s := d.Surface(); s.Bounds().Dx() != 4 || s.Bounds().Dy() != 4 {
		t.Errorf("surface = %v, want 4x4", s.Bounds())
	}
}

func TestTerminalConsoleRow(t *testing.T) {
	console := NewConsole()
	console.SetText("oops")
	console.Show()
	d, screen := newSimDisplay(t, 6, 3, console)
	if err := d.Present(mustCanvas(t, 6, 6)); err != nil {
		t.Fatalf("Present: %v", err)
	}
	var got []rune
	for col := 0; col < 4; col++ {
		mainc, _, _, _ := screen.GetContent(col, 2)
		got = append(got, mainc)
	}
	if string(got) != "oops" {
		t.Errorf("console row = %q, want %q", string(got), "oops")
	}
	if mainc, _, _, _ := screen.GetContent(0, 0); mainc != upperHalf {
		t.Errorf("canvas row rune = %q", mainc)
	}
}

func TestTerminalPollKeys(t *testing.T) {
	d, screen := newSimDisplay(t, 4, 2, nil)

	screen.InjectKey(tcell.KeyRune, '`', tcell.ModNone)
	pollUntil(t, d, func(in Input) bool { return in.ToggleConsole })

	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	pollUntil(t, d, func(in Input) bool { return in.Quit })
}

func TestTerminalSaveFrame(t *testing.T) {
	d, _ := newSimDisplay(t, 4, 2, nil)
	out := t.TempDir() + "/term.png"
	d.SaveFrame(out)
	if err := d.Present(mustCanvas(t, 8, 8)); err != nil {
		t.Fatalf("Present: %v", err)
	}
	img := readPNG(t, out)
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("saved size = %v, want 4x4", img.Bounds())
	}
}

func TestTerminalCloseWithFullQueue(t *testing.T) {
	d, screen := newSimDisplay(t, 4, 2, nil)

	// Nobody polls, so the reader ends up blocked on a full queue.
	deadline := time.Now().Add(2 * time.Second)
	for len(d.events) < cap(d.events) {
		if time.Now().After(deadline) {
			t.Fatalf("queue holds %d of %d events", len(d.events), cap(d.events))
		}
		screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
		time.Sleep(time.Millisecond)
	}
	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)

	d.Close()
	d.Close()
	select {
	case <-d.exited:
	case <-time.After(time.Second):
		t.Fatal("event reader still running after Close")
	}
}
