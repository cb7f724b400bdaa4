// Package livecanvas is a live-coding canvas runtime for [Ebitengine].
//
// A Lua script paints a fixed-size pixel [Canvas] once per frame. The host
// watches the script file and, whenever it is saved, loads it into a fresh
// interpreter without restarting the process. Broken scripts are reported on
// an on-screen console and never take the host down.
//
// # Quick start
//
// The simplest way to get going is the livecanvas command:
//
//	livecanvas sketch.lua
//
// or, from Go, [Run]:
//
//	cfg := livecanvas.Defaults()
//	cfg.Script = "sketch.lua"
//	if err := livecanvas.Run(ctx, *cfg); err != nil {
//		log.Fatal(err)
//	}
//
// A script defines draw, which receives the milliseconds elapsed since the
// previous frame:
//
//	local x = 0
//	function draw(dt)
//		background(0, 0, 0)
//		x = (x + dt * 0.1) % width
//		fillRect(x, 100, 20, 20, 255, 80, 80)
//	end
//
// # Script API
//
// Every function is available both as a flat global (setPixel, fillRect,
// background, ...) and on the read-only gm table in snake case
// (gm.set_pixel, or gm:set_pixel as older sketches write it). Color
// arguments are r, g, b with an optional trailing alpha (default 255); each
// channel is clamped to [0, 255]. Omitted colors fall back to the color set
// with setColor, initially opaque white. line takes an optional width, either
// as its only argument after the endpoints or after a full r, g, b, a color;
// without one it uses the width set with setLineWidth, initially 1. width and
// height are read-only: assigning either raises an error.
//
// noLoop stops further draw calls until the script is next reloaded;
// saveFrame writes the presented frame to a PNG file. ease and tween expose
// [gween] easing curves.
//
// # Frames
//
// Each frame the [Driver] checks the script for changes, calls draw, presents
// the canvas through a [Display] and polls input. Three displays exist: an
// Ebitengine window, a terminal (via [tcell]) and a headless in-memory
// surface for tests and batch rendering.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [tcell]: https://github.com/gdamore/tcell
package livecanvas
