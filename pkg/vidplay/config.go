// Package vidplay provides a high-level API for playing a video file in an
// SDL window with the status overlay and keyboard controls.
package vidplay

import (
	"fmt"

	"github.com/user/vidplay/pkg/adapters/smartsource"
	"github.com/user/vidplay/pkg/config"
	"github.com/user/vidplay/pkg/player"
	"github.com/user/vidplay/pkg/transform"
)

// Config represents a resolved playback session configuration.
type Config struct {
	Title      string
	Backend    smartsource.Backend
	FFmpegPath string

	// Transform is applied to every frame before the overlay; nil shows frames as decoded.
	Transform transform.Func
	// StartMs is the initial seek target; nil starts at the first frame.
	StartMs *float64

	// WindowSize overrides the native frame size when non-nil.
	WindowSize *config.Size
	Overlay    player.Overlay

	Debug    bool
	DebugDir string
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: Config{
			Title:    player.DefaultTitle,
			Backend:  smartsource.BackendAuto,
			Overlay:  player.DefaultOverlay(),
			DebugDir: "./debug",
		},
	}
}

// FromFileConfig creates a ConfigBuilder from a loaded configuration file,
// resolving the backend, transform and window size names.
func FromFileConfig(c config.Config) (*ConfigBuilder, error) {
	b := NewConfigBuilder()

	backend, err := smartsource.ParseBackend(c.Backend)
	if err != nil {
		return nil, err
	}
	fn, err := transform.ByName(c.Transform)
	if err != nil {
		return nil, err
	}
	size, ok, err := c.WindowSize()
	if err != nil {
		return nil, err
	}

	b.WithTitle(c.Title).
		WithBackend(backend).
		WithFFmpegPath(c.FFmpegPath).
		WithTransform(fn).
		WithOverlay(c.PlayerOverlay()).
		WithDebug(c.Debug)
	if c.DebugDir != "" {
		b.WithDebugDir(c.DebugDir)
	}
	if c.StartMs != nil {
		b.WithStartMs(*c.StartMs)
	}
	if ok {
		b.WithWindowSize(size.Width, size.Height)
	}
	return b, nil
}

// Build returns the final Config, applying validation and constraints.
func (b *ConfigBuilder) Build() (Config, error) {
	cfg := b.config

	if cfg.Title == "" {
		cfg.Title = player.DefaultTitle
	}
	if cfg.Backend == "" {
		cfg.Backend = smartsource.BackendAuto
	}
	if cfg.Overlay.FontSize <= 0 {
		cfg.Overlay.FontSize = player.DefaultOverlay().FontSize
	}
	if cfg.Overlay.Padding < 0 {
		cfg.Overlay.Padding = 0
	}
	if cfg.WindowSize != nil && (cfg.WindowSize.Width <= 0 || cfg.WindowSize.Height <= 0) {
		return Config{}, fmt.Errorf("%w: %dx%d", config.ErrInvalidSize, cfg.WindowSize.Width, cfg.WindowSize.Height)
	}
	if cfg.StartMs != nil && *cfg.StartMs < 0 {
		zero := 0.0
		cfg.StartMs = &zero
	}

	return cfg, nil
}

// WithTitle sets the caption suffix after the file name.
func (b *ConfigBuilder) WithTitle(title string) *ConfigBuilder {
	b.config.Title = title
	return b
}

// WithBackend selects the decoding backend.
func (b *ConfigBuilder) WithBackend(backend smartsource.Backend) *ConfigBuilder {
	b.config.Backend = backend
	return b
}

// WithFFmpegPath sets a custom ffmpeg binary.
func (b *ConfigBuilder) WithFFmpegPath(path string) *ConfigBuilder {
	b.config.FFmpegPath = path
	return b
}

// WithTransform sets the per-frame callback.
func (b *ConfigBuilder) WithTransform(fn transform.Func) *ConfigBuilder {
	b.config.Transform = fn
	return b
}

// WithStartMs sets the initial seek position in milliseconds.
// Negative values are clamped to 0 by Build.
func (b *ConfigBuilder) WithStartMs(ms float64) *ConfigBuilder {
	b.config.StartMs = &ms
	return b
}

// WithWindowSize overrides the initial window size.
func (b *ConfigBuilder) WithWindowSize(width, height int) *ConfigBuilder {
	b.config.WindowSize = &config.Size{Width: width, Height: height}
	return b
}

// WithOverlay sets the status readout style.
func (b *ConfigBuilder) WithOverlay(o player.Overlay) *ConfigBuilder {
	b.config.Overlay = o
	return b
}

// WithDebug enables dumping every displayed frame.
func (b *ConfigBuilder) WithDebug(enabled bool) *ConfigBuilder {
	b.config.Debug = enabled
	return b
}

// WithDebugDir sets where debug frames are written.
func (b *ConfigBuilder) WithDebugDir(dir string) *ConfigBuilder {
	b.config.DebugDir = dir
	return b
}
