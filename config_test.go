package livecanvas

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Script != "game.lua" || cfg.Width != 320 || cfg.Height != 240 || cfg.Scale != 2 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Display != DisplayWindow || !cfg.ShowFPS {
		t.Errorf("display = %q, fps = %v", cfg.Display, cfg.ShowFPS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "livecanvas.yaml")
	data := `script: sketch.lua
width: 160
height: 120
display: headless
draw_timeout: 250ms
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Script != "sketch.lua" || cfg.Width != 160 || cfg.Height != 120 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Display != DisplayHeadless {
		t.Errorf("display = %q", cfg.Display)
	}
	if cfg.DrawTimeout != 250*time.Millisecond {
		t.Errorf("draw timeout = %v", cfg.DrawTimeout)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	// Unset keys keep their defaults.
	if cfg.Scale != DefaultScale || cfg.Logging.Output != "stderr" {
		t.Errorf("defaults lost: scale %d output %q", cfg.Scale, cfg.Logging.Output)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Width != DefaultWidth {
		t.Errorf("width = %d, want default", cfg.Width)
	}
	if _, err := LoadConfig(""); err != nil {
		t.Errorf("empty path: %v", err)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("width: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LIVECANVAS_SCRIPT", "env.lua")
	t.Setenv("LIVECANVAS_DISPLAY", "terminal")
	t.Setenv("LIVECANVAS_SCALE", "4")
	t.Setenv("LIVECANVAS_FRAME_FILE", "env.png")
	t.Setenv("LIVECANVAS_DEBUG", "true")
	t.Setenv("LIVECANVAS_LOG_LEVEL", "warn")
	t.Setenv("LIVECANVAS_DRAW_TIMEOUT", "2s")

	cfg := Defaults()
	ApplyEnvOverrides(cfg)
	if cfg.Script != "env.lua" || cfg.Display != DisplayTerminal || cfg.Scale != 4 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.FrameFile != "env.png" || !cfg.Debug || cfg.Logging.Level != "warn" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.DrawTimeout != 2*time.Second {
		t.Errorf("draw timeout = %v", cfg.DrawTimeout)
	}
}

func TestApplyEnvOverridesIgnoresMalformed(t *testing.T) {
	t.Setenv("LIVECANVAS_SCALE", "big")
	t.Setenv("LIVECANVAS_DRAW_TIMEOUT", "soon")
	cfg := Defaults()
	ApplyEnvOverrides(cfg)
	if cfg.Scale != DefaultScale || cfg.DrawTimeout != 0 {
		t.Errorf("malformed values applied: scale %d timeout %v", cfg.Scale, cfg.DrawTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunConfig)
		want   string
	}{
		{"empty script", func(c *RunConfig) { c.Script = "" }, "script"},
		{"zero width", func(c *RunConfig) { c.Width = 0 }, "canvas size"},
		{"negative height", func(c *RunConfig) { c.Height = -1 }, "canvas size"},
		{"zero scale", func(c *RunConfig) { c.Scale = 0 }, "scale"},
		{"negative timeout", func(c *RunConfig) { c.DrawTimeout = -time.Second }, "timeout"},
		{"negative frames", func(c *RunConfig) { c.Frames = -1 }, "frames"},
		{"unknown display", func(c *RunConfig) { c.Display = "hologram" }, "display"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
