package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Loop    LoopConfig    `toml:"loop"`
	Physics PhysicsConfig `toml:"physics"`
	Camera  CameraConfig  `toml:"camera"`
	Logging LoggingConfig `toml:"logging"`
	Debug   DebugConfig   `toml:"debug"`
	Prefabs PrefabsConfig `toml:"prefabs"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

type LoopConfig struct {
	UPSTarget      float64 `toml:"ups_target"`      // fixed updates per second
	FPSTarget      float64 `toml:"fps_target"`      // 0 = sync with display
	MaxAccumulator float64 `toml:"max_accumulator"` // seconds
}

type PhysicsConfig struct {
	GravityX           float64 `toml:"gravity_x"`
	GravityY           float64 `toml:"gravity_y"`
	VelocityIterations int     `toml:"velocity_iterations"`
	PositionIterations int     `toml:"position_iterations"`
}

type CameraConfig struct {
	DeadzoneWidth  float64 `toml:"deadzone_width"`
	DeadzoneHeight float64 `toml:"deadzone_height"`
	Lerp           float64 `toml:"lerp"`
	Zoom           float64 `toml:"zoom"`
	WorldWidth     float64 `toml:"world_width"`
	WorldHeight    float64 `toml:"world_height"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	ShowMetrics bool `toml:"show_metrics"`
}

type PrefabsConfig struct {
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
}

// FixedTimestep is the simulation slice in seconds.
func (l LoopConfig) FixedTimestep() float64 {
	if l.UPSTarget <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / l.UPSTarget
}

// Load overlays the TOML file at path on the defaults. A missing file is not
// an error: the defaults are returned and found reports false.
func Load(path string) (cfg *Config, found bool, err error) {
	cfg = defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, false, nil
		}
		return nil, false, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, false, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, false, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, true, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	if c.Loop.UPSTarget <= 0 {
		return fmt.Errorf("loop.ups_target must be > 0, got %v", c.Loop.UPSTarget)
	}
	if c.Loop.MaxAccumulator <= 0 {
		return fmt.Errorf("loop.max_accumulator must be > 0, got %v", c.Loop.MaxAccumulator)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Zoom <= 0 {
		return fmt.Errorf("camera.zoom must be > 0, got %v", c.Camera.Zoom)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "sketchbook",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Loop: LoopConfig{
			UPSTarget:      60,
			FPSTarget:      60,
			MaxAccumulator: 0.25,
		},
		Physics: PhysicsConfig{
			VelocityIterations: 6,
			PositionIterations: 2,
		},
		Camera: CameraConfig{
			DeadzoneWidth:  64,
			DeadzoneHeight: 48,
			Lerp:           0.1,
			Zoom:           1,
			WorldWidth:     2560,
			WorldHeight:    1440,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Debug: DebugConfig{
			ShowMetrics: true,
		},
		Prefabs: PrefabsConfig{
			Dir:   "prefabs",
			Watch: false,
		},
	}
}
