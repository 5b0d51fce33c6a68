// Package config loads the studio configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"ColoringStudio/internal/state"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "COLORING_CONFIG"

// DefaultPath is used when EnvPath is unset.
const DefaultPath = "coloring.toml"

// Config holds every tunable of the studio and the gallery.
type Config struct {
	Canvas  Canvas         `toml:"canvas"`
	Brush   Brush          `toml:"brush"`
	Gallery Gallery        `toml:"gallery"`
	Assets  string         `toml:"assets"`
	Owner   string         `toml:"owner"`
	Log     string         `toml:"log_level"`
	Palette []state.Swatch `toml:"palette"`
	Heroes  []state.Hero   `toml:"heroes"`
}

type Canvas struct {
	Width           int     `toml:"width"`
	Height          int     `toml:"height"`
	TemplateOpacity float64 `toml:"template_opacity"`
	FrameRate       int     `toml:"frame_rate"`
}

type Brush struct {
	Color string  `toml:"color"`
	Width float64 `toml:"width"`
}

type Gallery struct {
	Port    int    `toml:"port"`
	Storage string `toml:"storage"`
	// Advertise publishes the gallery over mDNS.
	Advertise bool `toml:"advertise"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: Canvas{
			Width:           1024,
			Height:          1024,
			TemplateOpacity: 0.3,
			FrameRate:       60,
		},
		Brush:   Brush{Color: "#FF0000", Width: 10},
		Gallery: Gallery{Port: 8888, Storage: "artworks", Advertise: true},
		Assets:  "assets",
		Log:     "info",
		Palette: append([]state.Swatch(nil), state.DefaultPalette...),
		Heroes:  state.DefaultHeroes(),
	}
}

// Path returns the config file path from the environment or DefaultPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads path over the defaults. A missing file is not an error.
// Lists in the file replace the default lists whole.
func Load(path string) (Config, error) {
	def := Default()
	cfg := def
	// the decoder fills existing slice elements in place
	cfg.Palette, cfg.Heroes = nil, nil
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return def, nil
		}
		return def, fmt.Errorf("load config %s: %w", path, err)
	}
	if len(cfg.Palette) == 0 {
		cfg.Palette = def.Palette
	}
	if len(cfg.Heroes) == 0 {
		cfg.Heroes = def.Heroes
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges that would make the studio unusable.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.TemplateOpacity <= 0 || c.Canvas.TemplateOpacity > 1 {
		return fmt.Errorf("template_opacity %v must be in (0, 1]", c.Canvas.TemplateOpacity)
	}
	if c.Gallery.Port <= 0 || c.Gallery.Port > 65535 {
		return fmt.Errorf("gallery port %d out of range", c.Gallery.Port)
	}
	if len(c.Palette) == 0 {
		return errors.New("palette is empty")
	}
	return nil
}

// Level parses the configured log level, defaulting to info.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.Log))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
