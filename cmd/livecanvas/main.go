// Command livecanvas runs a Lua sketch against a pixel canvas and reloads it
// whenever the file is saved.
//
//	livecanvas [flags] [script.lua]
//
// With no script argument, game.lua in the working directory is used.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/phanxgames/livecanvas"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

// terminalLogFile receives logs when the terminal display owns stdout.
const terminalLogFile = "livecanvas.log"

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(argv []string, stderr io.Writer) int {
	cfg, err := parseArgs(argv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, "livecanvas:", err)
		return exitUsage
	}

	logger, closeLog, err := livecanvas.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(stderr, "livecanvas:", err)
		return exitFatal
	}
	defer closeLog()
	livecanvas.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := livecanvas.Run(ctx, *cfg); err != nil {
		logger.Error("startup failed", "error", err)
		fmt.Fprintln(stderr, "livecanvas:", err)
		return exitFatal
	}
	return exitOK
}

// parseArgs builds the run configuration: defaults, then the config file,
// then LIVECANVAS_* variables, then explicitly set flags and the script
// argument.
func parseArgs(argv []string, stderr io.Writer) (*livecanvas.RunConfig, error) {
	fs := flag.NewFlagSet("livecanvas", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath  = fs.String("config", "livecanvas.yaml", "YAML config file (optional)")
		display     = fs.String("display", "", "display: window, terminal or headless")
		width       = fs.Int("width", 0, "canvas width in pixels")
		height      = fs.Int("height", 0, "canvas height in pixels")
		scale       = fs.Int("scale", 0, "display magnification")
		frames      = fs.Int("frames", 0, "stop after this many frames (terminal, headless)")
		steps       = fs.String("steps", "", "JSON step script for headless runs")
		frameFile   = fs.String("frame-file", "", "default saveFrame file")
		showFPS     = fs.Bool("fps", true, "show the FPS counter")
		debug       = fs.Bool("debug", false, "log per-frame timings")
		drawTimeout = fs.Duration("draw-timeout", 0, "abort draw calls running longer (0 = never)")
		logLevel    = fs.String("log-level", "", "log level: debug, info, warn, error")
		logFormat   = fs.String("log-format", "", "log format: text or json")
	)
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("expected at most one script, got %d", fs.NArg())
	}

	cfg, err := livecanvas.LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}
	livecanvas.ApplyEnvOverrides(cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "display":
			cfg.Display = *display
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "scale":
			cfg.Scale = *scale
		case "frames":
			cfg.Frames = *frames
		case "steps":
			cfg.Steps = *steps
		case "frame-file":
			cfg.FrameFile = *frameFile
		case "fps":
			cfg.ShowFPS = *showFPS
		case "debug":
			cfg.Debug = *debug
		case "draw-timeout":
			cfg.DrawTimeout = *drawTimeout
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-format":
			cfg.Logging.Format = *logFormat
		}
	})
	if fs.NArg() == 1 {
		cfg.Script = fs.Arg(0)
	}
	if cfg.Steps != "" && cfg.Display == livecanvas.DisplayWindow {
		cfg.Display = livecanvas.DisplayHeadless
	}
	if cfg.Display == livecanvas.DisplayTerminal {
		switch cfg.Logging.Output {
		case "", "stderr", "stdout":
			cfg.Logging.Output = terminalLogFile
		}
	}
	if cfg.Debug && cfg.Logging.Level == "info" {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
