// Package config loads the game's tuning from a YAML file, with a few
// environment overrides on top.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = eris.New("invalid config")

// Config is the on-disk configuration.
type Config struct {
	// TickSeconds is how long one simulation step animates.
	TickSeconds      float64 `yaml:"tick_seconds"`
	MaxUndo          int     `yaml:"max_undo"`
	DeferConsumption bool    `yaml:"defer_consumption"`
	Volume           float64 `yaml:"volume"`
	Mute             bool    `yaml:"mute"`
	LogLevel         string  `yaml:"log_level"`
	RandomWidth      int     `yaml:"random_width"`
	RandomHeight     int     `yaml:"random_height"`
}

// Default returns the built-in settings: six steps a second, unbounded
// undo and a 16x12 random puzzle.
func Default() Config {
	return Config{
		TickSeconds:  1.0 / 6,
		Volume:       0.8,
		LogLevel:     "info",
		RandomWidth:  16,
		RandomHeight: 12,
	}
}

// Load reads path over the defaults. A missing file is not an error when
// path is empty; environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, eris.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, eris.Wrapf(err, "parse config %s", path)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from HOMEBOUND_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("HOMEBOUND_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("HOMEBOUND_MUTE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return eris.Wrapf(ErrInvalidConfig, "HOMEBOUND_MUTE=%q", v)
		}
		c.Mute = b
	}
	if v, ok := lookup("HOMEBOUND_TICK_SECONDS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return eris.Wrapf(ErrInvalidConfig, "HOMEBOUND_TICK_SECONDS=%q", v)
		}
		c.TickSeconds = f
	}
	return nil
}

// Validate checks ranges and reports every problem at once.
func (c Config) Validate() error {
	var problems []string
	if c.TickSeconds <= 0 || c.TickSeconds > 5 {
		problems = append(problems, fmt.Sprintf("tick_seconds %v out of range (0, 5]", c.TickSeconds))
	}
	if c.MaxUndo < 0 {
		problems = append(problems, fmt.Sprintf("max_undo %d is negative", c.MaxUndo))
	}
	if c.Volume < 0 || c.Volume > 1 {
		problems = append(problems, fmt.Sprintf("volume %v out of range [0, 1]", c.Volume))
	}
	if _, err := c.Level(); err != nil {
		problems = append(problems, fmt.Sprintf("log_level %q", c.LogLevel))
	}
	if c.RandomWidth < 7 || c.RandomHeight < 7 {
		problems = append(problems, fmt.Sprintf("random size %dx%d below 7x7", c.RandomWidth, c.RandomHeight))
	}
	if len(problems) > 0 {
		return eris.Wrap(ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Tick returns TickSeconds as a duration.
func (c Config) Tick() time.Duration {
	return time.Duration(c.TickSeconds * float64(time.Second))
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, eris.Wrapf(ErrInvalidConfig, "log_level %q", c.LogLevel)
}

// EffectiveVolume is zero when muted.
func (c Config) EffectiveVolume() float64 {
	if c.Mute {
		return 0
	}
	return c.Volume
}
