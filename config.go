package livecanvas

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Display kinds accepted by RunConfig.Display.
const (
	DisplayWindow   = "window"
	DisplayTerminal = "terminal"
	DisplayHeadless = "headless"
)

// LogConfig selects the slog handler built by NewLogger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	Output string `yaml:"output"` // stderr, stdout or a file path
}

// RunConfig holds everything Run needs to start a session. Zero values are
// replaced by the package defaults in Defaults.
type RunConfig struct {
	// Script is the path of the Lua file to run and watch.
	Script string `yaml:"script"`
	// Width and Height are the canvas size in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Scale is the integer factor the canvas is magnified by on the display.
	Scale int `yaml:"scale"`
	// Title is the window title.
	Title string `yaml:"title"`
	// Display is one of DisplayWindow, DisplayTerminal or DisplayHeadless.
	Display string `yaml:"display"`
	// FrameFile is the file saveFrame writes when called without a name.
	FrameFile string `yaml:"frame_file"`
	// ShowFPS draws the FPS counter in the window display.
	ShowFPS bool `yaml:"show_fps"`
	// Debug logs per-frame timing at debug level.
	Debug bool `yaml:"debug"`
	// DrawTimeout aborts a draw call that runs longer. Zero disables it.
	DrawTimeout time.Duration `yaml:"draw_timeout"`
	// Frames stops headless and terminal runs after this many frames.
	// Zero runs until quit.
	Frames int `yaml:"frames"`
	// Steps is an optional JSON step script driving a headless run.
	Steps string `yaml:"steps"`

	Logging LogConfig `yaml:"logging"`
}

// Defaults returns the configuration used when no file or flag says
// otherwise.
func Defaults() *RunConfig {
	return &RunConfig{
		Script:    DefaultScript,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Scale:     DefaultScale,
		Title:     DefaultTitle,
		Display:   DisplayWindow,
		FrameFile: DefaultFrameFile,
		ShowFPS:   true,
		Logging: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// LoadConfig reads a YAML config file on top of Defaults. A missing file is
// not an error: the defaults are returned.
func LoadConfig(path string) (*RunConfig, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies LIVECANVAS_* environment variables to cfg.
// Malformed numeric values are ignored.
func ApplyEnvOverrides(cfg *RunConfig) {
	if v := os.Getenv("LIVECANVAS_SCRIPT"); v != "" {
		cfg.Script = v
	}
	if v := os.Getenv("LIVECANVAS_DISPLAY"); v != "" {
		cfg.Display = v
	}
	if v := os.Getenv("LIVECANVAS_SCALE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scale = n
		}
	}
	if v := os.Getenv("LIVECANVAS_FRAME_FILE"); v != "" {
		cfg.FrameFile = v
	}
	if v := os.Getenv("LIVECANVAS_DEBUG"); v == "true" {
		cfg.Debug = true
	}
	if v := os.Getenv("LIVECANVAS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LIVECANVAS_DRAW_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.DrawTimeout = d
		}
	}
}

// Validate reports the first invalid field of cfg.
func (cfg *RunConfig) Validate() error {
	switch {
	case cfg.Script == "":
		return errors.New("config: script path is empty")
	case cfg.Width <= 0 || cfg.Height <= 0:
		return fmt.Errorf("config: canvas size %dx%d must be positive", cfg.Width, cfg.Height)
	case cfg.Scale <= 0:
		return fmt.Errorf("config: scale %d must be positive", cfg.Scale)
	case cfg.DrawTimeout < 0:
		return fmt.Errorf("config: draw timeout %v is negative", cfg.DrawTimeout)
	case cfg.Frames < 0:
		return fmt.Errorf("config: frames %d is negative", cfg.Frames)
	}
	switch cfg.Display {
	case DisplayWindow, DisplayTerminal, DisplayHeadless:
	default:
		return fmt.Errorf("config: unknown display %q", cfg.Display)
	}
	return nil
}
