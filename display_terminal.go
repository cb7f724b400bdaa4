package livecanvas

import (
	"fmt"
	"image"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	xdraw "golang.org/x/image/draw"
)

// upperHalf draws the top pixel as foreground and the bottom as background,
// giving two canvas rows per terminal row.
const upperHalf = '▀'

// TerminalDisplay renders the canvas into a terminal, sampling it down to
// the screen size. The console, when shown, takes the last terminal row.
type TerminalDisplay struct {
	frameQueue

	screen  tcell.Screen
	console *Console
	events  chan tcell.Event
	surface *image.NRGBA

	done      chan struct{} // closed by Close
	exited    chan struct{} // closed when readEvents returns
	closeOnce sync.Once
}

var _ Display = (*TerminalDisplay)(nil)

// NewTerminalDisplay initializes screen and starts reading its events.
// console may be nil.
func NewTerminalDisplay(screen tcell.Screen, console *Console) (*TerminalDisplay, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	screen.HideCursor()
	screen.Clear()

	d := &TerminalDisplay{
		screen:  screen,
		console: console,
		events:  make(chan tcell.Event, 64),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
	go d.readEvents()
	return d, nil
}

// readEvents forwards screen events until the screen is finalized or the
// display is closed.
func (d *TerminalDisplay) readEvents() {
	defer close(d.exited)
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			close(d.events)
			return
		}
		select {
		case d.events <- ev:
		case <-d.done:
			return
		}
	}
}

// Present samples the canvas onto the terminal cells and shows them.
func (d *TerminalDisplay) Present(c *Canvas) error {
	cols, rows := d.screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil
	}
	consoleRow := -1
	if d.console != nil && d.console.Shown() {
		consoleRow = rows - 1
	}

	r := image.Rect(0, 0, cols, rows*2)
	if d.surface == nil || d.surface.Rect != r {
		d.surface = image.NewNRGBA(r)
	}
	src := c.Image()
	xdraw.NearestNeighbor.Scale(d.surface, r, src, src.Bounds(), xdraw.Src, nil)

	for row := 0; row < rows; row++ {
		if row == consoleRow {
			continue
		}
		for col := 0; col < cols; col++ {
			top := d.surface.NRGBAAt(col, row*2)
			bottom := d.surface.NRGBAAt(col, row*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			d.screen.SetContent(col, row, upperHalf, nil, style)
		}
	}
	if consoleRow >= 0 {
		d.drawConsole(consoleRow, cols)
	}

	d.screen.Show()
	d.flush(d.surface)
	return nil
}

func (d *TerminalDisplay) drawConsole(row, cols int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	col := 0
	for _, ch := range d.console.Text() {
		if ch == '\n' || ch == '\t' {
			ch = ' '
		}
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if col+w > cols {
			break
		}
		d.screen.SetContent(col, row, ch, nil, style)
		col += w
	}
	for ; col < cols; col++ {
		d.screen.SetContent(col, row, ' ', nil, style)
	}
}

// Poll drains pending terminal events without blocking.
func (d *TerminalDisplay) Poll() Input {
	var in Input
	for {
		select {
		case ev, ok := <-d.events:
			if !ok {
				return in.merge(Input{Quit: true})
			}
			in = in.merge(d.handle(ev))
		default:
			return in
		}
	}
}

func (d *TerminalDisplay) handle(ev tcell.Event) Input {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return inputForKey(KeyEscape)
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'c' && ev.Modifiers()&tcell.ModCtrl != 0:
			return inputForKey(KeyEscape)
		case ev.Key() == tcell.KeyRune && ev.Rune() == '`':
			return inputForKey(KeyBackquote)
		}
	case *tcell.EventResize:
		d.screen.Sync()
	}
	return Input{}
}

// Surface returns the sampled image behind the last presented frame: one
// pixel per half cell.
func (d *TerminalDisplay) Surface() *image.NRGBA {
	return d.surface
}

// Close stops the event reader and restores the terminal. It is safe to
// call more than once.
func (d *TerminalDisplay) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
		d.screen.Fini()
	})
}
