package livecanvas

import (
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var (
	// windowClearColor fills the window behind the canvas.
	windowClearColor = color.NRGBA{0, 0, 10, 255}
	// consolePanelColor dims the frame under the console text.
	consolePanelColor = color.NRGBA{0, 0, 0, 160}
)

// debugGlyphWidth is the advance of ebitenutil's debug font.
const debugGlyphWidth = 6

// WindowDisplay shows the canvas in an Ebitengine window, magnified with
// nearest filtering, with the FPS counter and console drawn on top.
type WindowDisplay struct {
	frameQueue

	scale   int
	showFPS bool
	console *Console

	canvasImg *ebiten.Image
	upload    []byte
	readback  []byte
	panel     *ebiten.Image
	fps       fpsLabel
}

var _ Display = (*WindowDisplay)(nil)

// NewWindowDisplay creates the display. console may be nil.
func NewWindowDisplay(scale int, showFPS bool, console *Console) *WindowDisplay {
	return &WindowDisplay{
		scale:   max(scale, 1),
		showFPS: showFPS,
		console: console,
	}
}

// Present uploads the canvas. Compositing happens in draw, which Ebitengine
// calls after Update.
func (d *WindowDisplay) Present(c *Canvas) error {
	if d.canvasImg == nil || d.canvasImg.Bounds() != c.Bounds() {
		d.canvasImg = ebiten.NewImage(c.Width(), c.Height())
		d.upload = make([]byte, 4*c.Width()*c.Height())
	}
	c.writePremultiplied(d.upload)
	d.canvasImg.WritePixels(d.upload)
	return nil
}

// Poll reads this tick's key presses.
func (d *WindowDisplay) Poll() Input {
	return Input{
		Quit:          inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		ToggleConsole: inpututil.IsKeyJustPressed(ebiten.KeyBackquote),
	}
}

// draw composites the frame onto screen. Saved frames are read back after
// the canvas is drawn and before the overlays.
func (d *WindowDisplay) draw(screen *ebiten.Image) {
	screen.Fill(windowClearColor)
	if d.canvasImg != nil {
		var op ebiten.DrawImageOptions
		op.GeoM.Scale(float64(d.scale), float64(d.scale))
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(d.canvasImg, &op)
	}
	if d.pending() {
		b := screen.Bounds()
		if len(d.readback) != 4*b.Dx()*b.Dy() {
			d.readback = make([]byte, 4*b.Dx()*b.Dy())
		}
		screen.ReadPixels(d.readback)
		d.flush(unpremultiply(d.readback, b.Dx(), b.Dy()))
	}

	if d.showFPS {
		d.fps.update(time.Now(), ebiten.ActualFPS())
		ebitenutil.DebugPrintAt(screen, d.fps.Text(), 10, 10)
	}
	if d.console != nil && d.console.Shown() {
		d.drawConsole(screen)
	}
}

func (d *WindowDisplay) drawConsole(screen *ebiten.Image) {
	if d.panel == nil {
		d.panel = ebiten.NewImage(1, 1)
		d.panel.Fill(color.White)
	}
	b := screen.Bounds()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(b.Dx()), float64(b.Dy()))
	op.ColorScale.ScaleWithColor(consolePanelColor)
	screen.DrawImage(d.panel, &op)

	cols := max((b.Dx()-20)/debugGlyphWidth, 1)
	ebitenutil.DebugPrintAt(screen, wrapText(d.console.Text(), cols), 10, 40)
}

// wrapText hard-wraps s at cols characters per line, keeping existing
// newlines.
func wrapText(s string, cols int) string {
	var b strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		runes := []rune(line)
		for len(runes) > cols {
			b.WriteString(string(runes[:cols]))
			b.WriteByte('\n')
			runes = runes[cols:]
		}
		b.WriteString(string(runes))
	}
	return b.String()
}

// windowGame adapts a Driver to ebiten.Game. Update runs one driver frame;
// Draw composites what that frame presented.
type windowGame struct {
	driver  *Driver
	display *WindowDisplay
	w, h    int
}

func (g *windowGame) Update() error {
	if g.driver.Frame() {
		return ebiten.Termination
	}
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	g.display.draw(screen)
}

func (g *windowGame) Layout(_, _ int) (int, int) {
	return g.w * g.display.scale, g.h * g.display.scale
}
