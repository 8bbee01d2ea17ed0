package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sketchbook/config"
	"github.com/pkg/profile"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/game.toml", "path to the TOML config")
	debug := flag.Bool("debug", false, "show loop metrics and log at debug level")
	profileMode := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	flag.Parse()

	cfg, found, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *debug {
		cfg.Debug.ShowMetrics = true
		cfg.Logging.Level = "debug"
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	if !found {
		logger.Info("config file not found, using defaults", zap.String("path", *configPath))
	}

	if stop := startProfile(*profileMode, logger); stop != nil {
		defer stop()
	}

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	// ebiten ticks once per frame; the screen loop does its own fixed steps.
	if cfg.Loop.FPSTarget > 0 {
		ebiten.SetTPS(int(cfg.Loop.FPSTarget))
	} else {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	}

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Fatal("app setup failed", zap.Error(err))
	}
	defer app.Close()

	logger.Info("starting",
		zap.Float64("ups", cfg.Loop.UPSTarget),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)
	if err := ebiten.RunGame(app); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game exited with error", zap.Error(err))
	}
}

func startProfile(mode string, logger *zap.Logger) func() {
	var opt func(*profile.Profile)
	switch mode {
	case "":
		return nil
	case "cpu":
		opt = profile.CPUProfile
	case "mem":
		opt = profile.MemProfileAllocs
	default:
		logger.Warn("unknown profile mode, profiling disabled", zap.String("mode", mode))
		return nil
	}
	p := profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	logger.Info("profiling", zap.String("mode", mode))
	return p.Stop
}
