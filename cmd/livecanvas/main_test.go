package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phanxgames/livecanvas"
)

// noConfig points -config at a file that does not exist so the working
// directory never leaks into a test.
func noConfig(t *testing.T) string {
	return "-config=" + filepath.Join(t.TempDir(), "none.yaml")
}

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"LIVECANVAS_SCRIPT", "LIVECANVAS_DISPLAY", "LIVECANVAS_SCALE",
		"LIVECANVAS_FRAME_FILE", "LIVECANVAS_DEBUG", "LIVECANVAS_LOG_LEVEL",
		"LIVECANVAS_DRAW_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestParseArgsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := parseArgs([]string{noConfig(t)}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cfg.Script != livecanvas.DefaultScript || cfg.Display != livecanvas.DisplayWindow {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseArgsFlags(t *testing.T) {
	clearEnv(t)
	cfg, err := parseArgs([]string{
		noConfig(t),
		"-display=headless", "-width=64", "-height=48", "-scale=3",
		"-frames=10", "-fps=false", "-draw-timeout=1s", "-log-format=json",
		"sketch.lua",
	}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cfg.Script != "sketch.lua" || cfg.Display != livecanvas.DisplayHeadless {
		t.Errorf("script %q display %q", cfg.Script, cfg.Display)
	}
	if cfg.Width != 64 || cfg.Height != 48 || cfg.Scale != 3 || cfg.Frames != 10 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ShowFPS || cfg.DrawTimeout != time.Second || cfg.Logging.Format != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseArgsPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "lc.yaml")
	if err := os.WriteFile(path, []byte("scale: 5\nwidth: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LIVECANVAS_SCALE", "6")

	cfg, err := parseArgs([]string{"-config=" + path}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cfg.Width != 100 || cfg.Scale != 6 {
		t.Errorf("width %d scale %d, want file width and env scale", cfg.Width, cfg.Scale)
	}

	cfg, err = parseArgs([]string{"-config=" + path, "-scale=7"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cfg.Scale != 7 {
		t.Errorf("scale = %d, flag should win", cfg.Scale)
	}
}

func TestParseArgsDerived(t *testing.T) {
	clearEnv(t)
	cfg, err := parseArgs([]string{noConfig(t), "-steps=steps.json"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cfg.Display != livecanvas.DisplayHeadless {
		t.Errorf("steps with the window display: display = %q", cfg.Display)
	}

	cfg, err = parseArgs([]string{noConfig(t), "-display=terminal", "-debug"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cfg.Logging.Output != terminalLogFile {
		t.Errorf("terminal log output = %q", cfg.Logging.Output)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("debug log level = %q", cfg.Logging.Level)
	}
}

func TestParseArgsErrors(t *testing.T) {
	clearEnv(t)
	tests := [][]string{
		{noConfig(t), "a.lua", "b.lua"},
		{noConfig(t), "-display=hologram"},
		{noConfig(t), "-scale=0"},
		{noConfig(t), "-nope"},
	}
	for _, argv := range tests {
		if _, err := parseArgs(argv, &bytes.Buffer{}); err == nil {
			t.Errorf("parseArgs(%v) succeeded", argv)
		}
	}
}

func TestRunHeadless(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	script := filepath.Join(dir, "game.lua")
	out := filepath.ToSlash(filepath.Join(dir, "out.png"))
	src := "function draw(dt) background(1, 2, 3) saveFrame(\"" + out + "\") noLoop() end"
	if err := os.WriteFile(script, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	code := run([]string{noConfig(t), "-display=headless", "-frames=3", "-log-level=error", script}, &stderr)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %q", code, stderr.String())
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("frame not saved: %v", err)
	}
}

func TestRunMissingScript(t *testing.T) {
	clearEnv(t)
	var stderr bytes.Buffer
	code := run([]string{noConfig(t), "-display=headless", "-log-level=error", filepath.Join(t.TempDir(), "gone.lua")}, &stderr)
	if code != exitFatal {
		t.Errorf("exit = %d, want %d", code, exitFatal)
	}
	if !strings.Contains(stderr.String(), "script not found") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunUsage(t *testing.T) {
	clearEnv(t)
	if code := run([]string{noConfig(t), "-bogus"}, &bytes.Buffer{}); code != exitUsage {
		t.Errorf("exit = %d, want %d", code, exitUsage)
	}
	if code := run([]string{"-h"}, &bytes.Buffer{}); code != exitOK {
		t.Errorf("-h exit = %d, want %d", code, exitOK)
	}
}
