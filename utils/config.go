package utils

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the configuration for a simulation run
type Config struct {
	FrameRate      time.Duration `json:"frame_rate"`
	MaxGenerations int           `json:"max_generations"`
	CycleWindow    int           `json:"cycle_window"`
	UseMemoryPool  bool          `json:"use_memory_pool"`
	RandomDensity  float64       `json:"random_density"`
	Seed           int64         `json:"seed"`
	DisplayHeight  int           `json:"display_height"`
	DisplayWidth   int           `json:"display_width"`
	AliveGlyph     string        `json:"alive_glyph"`
	DeadGlyph      string        `json:"dead_glyph"`
	Screen         bool          `json:"screen"`
	ShowStats      bool          `json:"show_stats"`
}

// DefaultConfig returns the interactive defaults: one second per frame and no
// generation cap.
func DefaultConfig() Config {
	return Config{
		FrameRate:      time.Second,
		MaxGenerations: 0,
		CycleWindow:    0,
		UseMemoryPool:  true,
		RandomDensity:  0.5,
		AliveGlyph:     "█",
		DeadGlyph:      ".",
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, config.Validate()
}

// Validate rejects settings the simulation cannot run with
func (c Config) Validate() error {
	switch {
	case c.FrameRate < 0:
		return errors.Wrapf(ErrInvalidConfig, "frame_rate must be >= 0, got %v", c.FrameRate)
	case c.MaxGenerations < 0:
		return errors.Wrapf(ErrInvalidConfig, "max_generations must be >= 0, got %d", c.MaxGenerations)
	case c.CycleWindow < 0:
		return errors.Wrapf(ErrInvalidConfig, "cycle_window must be >= 0, got %d", c.CycleWindow)
	case c.RandomDensity < 0 || c.RandomDensity > 1:
		return errors.Wrapf(ErrInvalidConfig, "random_density must be within [0, 1], got %v", c.RandomDensity)
	case c.DisplayHeight < 0 || c.DisplayWidth < 0:
		return errors.Wrapf(ErrInvalidConfig, "display bounds must be >= 0, got %dx%d", c.DisplayHeight, c.DisplayWidth)
	case c.AliveGlyph == "" || c.DeadGlyph == "":
		return errors.Wrap(ErrInvalidConfig, "alive_glyph and dead_glyph must not be empty")
	}
	return nil
}

// Bind registers flags that override the loaded values. Call it after the
// config file has been read so the file values become the flag defaults.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.DurationVar(&c.FrameRate, "delay", c.FrameRate, "pause between generations")
	fs.IntVar(&c.MaxGenerations, "max-gens", c.MaxGenerations, "stop after this many generations (0 = run until steady)")
	fs.IntVar(&c.CycleWindow, "cycle-window", c.CycleWindow, "stop when a grid repeats within this many generations (0 = off)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 = time based)")
	fs.Float64Var(&c.RandomDensity, "density", c.RandomDensity, "probability of a live cell in random mode")
	fs.IntVar(&c.DisplayHeight, "height", c.DisplayHeight, "display rows (0 = query the terminal)")
	fs.IntVar(&c.DisplayWidth, "width", c.DisplayWidth, "display columns (0 = query the terminal)")
	fs.BoolVar(&c.Screen, "screen", c.Screen, "draw in place on the full terminal screen")
	fs.BoolVar(&c.ShowStats, "stats", c.ShowStats, "log per-generation statistics to stderr")
}
