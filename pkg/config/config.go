// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/vidplay/pkg/player"
	"github.com/user/vidplay/pkg/ports"
)

// ErrInvalidSize is returned by ParseSize for unrecognised size strings.
var ErrInvalidSize = errors.New("config: invalid window size")

// Size is a window size in pixels.
type Size struct {
	Width  int
	Height int
}

// Landscape standard sizes.
var (
	LandscapeSD  = Size{720, 480}
	LandscapeHD  = Size{1280, 720}
	LandscapeFHD = Size{1920, 1080}
)

// Portrait standard sizes.
var (
	PortraitSD  = Size{480, 720}
	PortraitHD  = Size{720, 1280}
	PortraitFHD = Size{1080, 1920}
)

// Config represents the full configuration for vidplay.
type Config struct {
	Title      string   `yaml:"title"`
	Backend    string   `yaml:"backend"`
	FFmpegPath string   `yaml:"ffmpeg_path"`
	Transform  string   `yaml:"transform"`
	StartMs    *float64 `yaml:"start_ms"`

	Window  WindowConfig  `yaml:"window"`
	Overlay OverlayConfig `yaml:"overlay"`

	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// WindowConfig controls the initial window size.
// An empty Size keeps the video's native dimensions.
type WindowConfig struct {
	Size     string `yaml:"size"`
	Portrait bool   `yaml:"portrait"`
}

// OverlayConfig styles the status readout.
type OverlayConfig struct {
	FontSize        float64 `yaml:"font_size"`
	FontPath        string  `yaml:"font_path"`
	Padding         int     `yaml:"padding"`
	TextColor       string  `yaml:"text_color"`
	BackgroundColor string  `yaml:"background_color"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Title:     player.DefaultTitle,
		Backend:   "auto",
		Transform: "none",
		Overlay: OverlayConfig{
			FontSize:        24,
			Padding:         10,
			TextColor:       "#ffffff",
			BackgroundColor: "#000000",
		},
		LogLevel: "info",
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(fs ports.FileSystem, path string) (Config, error) {
	cfg := Defaults()

	data, err := fs.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// WindowSize resolves the configured window size.
// ok is false when the native video size should be kept.
func (c Config) WindowSize() (size Size, ok bool, err error) {
	if c.Window.Size == "" || c.Window.Size == "native" {
		return Size{}, false, nil
	}
	size, err = ParseSize(c.Window.Size, c.Window.Portrait)
	if err != nil {
		return Size{}, false, err
	}
	return size, true, nil
}

// PlayerOverlay converts the overlay section to a player.Overlay.
func (c Config) PlayerOverlay() player.Overlay {
	o := player.DefaultOverlay()
	if c.Overlay.FontSize > 0 {
		o.FontSize = c.Overlay.FontSize
	}
	if c.Overlay.Padding >= 0 {
		o.Padding = c.Overlay.Padding
	}
	o.FontPath = c.Overlay.FontPath
	if c.Overlay.TextColor != "" {
		o.Foreground = ParseColor(c.Overlay.TextColor)
	}
	if c.Overlay.BackgroundColor != "" {
		o.Background = ParseColor(c.Overlay.BackgroundColor)
	}
	return o
}

// ParseSize parses "sd", "hd", "fhd" or "WIDTHxHEIGHT".
// Presets are swapped to portrait orientation when portrait is set.
func ParseSize(s string, portrait bool) (Size, error) {
	switch strings.ToLower(s) {
	case "sd":
		return pick(LandscapeSD, PortraitSD, portrait), nil
	case "hd":
		return pick(LandscapeHD, PortraitHD, portrait), nil
	case "fhd":
		return pick(LandscapeFHD, PortraitFHD, portrait), nil
	}

	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return Size{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return Size{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return Size{w, h}, nil
}

func pick(landscape, portrait Size, isPortrait bool) Size {
	if isPortrait {
		return portrait
	}
	return landscape
}

// ParseColor parses a #rrggbb hex color. Malformed input yields black.
func ParseColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.Black
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.Black
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
