package livecanvas

import (
	"fmt"
	"time"
)

// fpsInterval is how often the displayed rate is refreshed.
const fpsInterval = 500 * time.Millisecond

// fpsLabel holds the FPS overlay text. The rate comes from the engine
// (ebiten.ActualFPS in the window display); the label only throttles how
// often it changes so the number stays readable.
type fpsLabel struct {
	last time.Time
	text string
}

// update refreshes the label from rate once fpsInterval has passed since
// the last refresh. It reports whether the text changed.
func (f *fpsLabel) update(now time.Time, rate float64) bool {
	if !f.last.IsZero() && now.Sub(f.last) < fpsInterval {
		return false
	}
	f.last = now
	f.text = fmt.Sprintf("FPS: %.2f", rate)
	return true
}

// Text returns the current label, empty before the first update.
func (f *fpsLabel) Text() string {
	return f.text
}
