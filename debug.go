package livecanvas

import "time"

// frameStats holds per-frame timings. Only collected when the driver is in
// debug mode.
type frameStats struct {
	reloadTime  time.Duration
	drawTime    time.Duration
	presentTime time.Duration
	pollTime    time.Duration
	skipped     bool
}

// debugLog writes one frame's timings at debug level.
func (d *Driver) debugLog(stats frameStats) {
	if !d.debug {
		return
	}
	total := stats.reloadTime + stats.drawTime + stats.presentTime + stats.pollTime
	d.log.Debug("frame",
		"frame", d.frames,
		"reload", stats.reloadTime,
		"draw", stats.drawTime,
		"present", stats.presentTime,
		"poll", stats.pollTime,
		"total", total,
		"skipped", stats.skipped,
	)
}

// debugTimer measures a phase only when debug mode is on.
type debugTimer struct {
	on bool
	t0 time.Time
}

func (t *debugTimer) start() {
	if t.on {
		t.t0 = time.Now()
	}
}

func (t *debugTimer) lap() time.Duration {
	if !t.on {
		return 0
	}
	now := time.Now()
	d := now.Sub(t.t0)
	t.t0 = now
	return d
}
