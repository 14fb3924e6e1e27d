package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/soocke/dotcount/app"
	"github.com/soocke/dotcount/app/session"
	"github.com/soocke/dotcount/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run returns the process exit code: 0 on normal close or help, 2 on invalid
// arguments, 1 on any other failure.
func run(args []string, stderr io.Writer) int {
	a, err := config.ParseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "dotcount:", err)
		return 2
	}

	cfgPath := a.ConfigPath
	if cfgPath == "" {
		cfgPath = config.FindDefault()
	}
	// Base config from file or defaults
	cfg, cfgErr := config.Load(cfgPath)
	a.Apply(cfg)

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if cfgErr != nil {
		logger.Warn("config not loaded, using defaults", "path", cfgPath, "error", cfgErr)
	}
	if cfgPath == "" {
		if p, err := config.DefaultPath(); err == nil {
			cfgPath = p
		}
	}

	opts := session.Options{ImagePath: a.ImagePath, MaskPath: a.MaskPath, ReferencePath: a.ReferencePath}
	if err := app.Run(opts, cfg, cfgPath, logger); err != nil {
		logger.Error("dotcount failed", "error", err)
		fmt.Fprintln(stderr, "dotcount:", err)
		return 1
	}
	return 0
}
