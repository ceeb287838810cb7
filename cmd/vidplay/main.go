// Package main provides the CLI entry point for vidplay.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/adapters/mp4probe"
	"github.com/user/vidplay/pkg/adapters/osfilesystem"
	"github.com/user/vidplay/pkg/clock"
	"github.com/user/vidplay/pkg/config"
	"github.com/user/vidplay/pkg/ports"
	"github.com/user/vidplay/pkg/summarizer"
	"github.com/user/vidplay/pkg/thread"
	"github.com/user/vidplay/pkg/transform"
	"github.com/user/vidplay/pkg/vidplay"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Play    PlayCmd    `cmd:"" help:"Play a video file with keyboard scrubbing."`
	Probe   ProbeCmd   `cmd:"" help:"Print stream information for an MP4 file."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// PlayCmd defines the play subcommand.
type PlayCmd struct {
	Path string `arg:"" help:"Video file to play."`

	// Window
	Title    *string `short:"t" help:"Window title shown after the file name (default: Video Player)."`
	Size     *string `short:"s" help:"Initial window size: sd, hd, fhd or WIDTHxHEIGHT (default: native)."`
	Portrait bool    `help:"Use portrait orientation for size presets."`

	// Playback
	StartMs   *float64 `help:"Start position in milliseconds."`
	Transform *string  `help:"Per-frame transform (none, grayscale, invert)."`

	// Decoding
	Backend    *string `short:"b" help:"Decoding backend (auto, ffmpeg, opencv)."`
	FFmpegPath *string `help:"Path to the ffmpeg executable."`

	// Configuration file
	Config string `short:"c" type:"path" help:"YAML configuration file; flags override its values."`

	// Debug options
	Debug    bool    `short:"d" help:"Save every displayed frame as PNG."`
	DebugDir *string `help:"Directory for debug output (default: ./debug)."`

	// Logging options
	LogLevel *string `short:"l" help:"Log level (debug, info, warn, error)."`
	Quiet    bool    `short:"Q" help:"Suppress all log output."`
}

// ProbeCmd defines the probe subcommand.
type ProbeCmd struct {
	Path    string `arg:"" help:"MP4 file to inspect."`
	Summary string `short:"o" help:"Also write a Markdown summary to this file."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("vidplay"),
		kong.Description("Frame-accurate video player with a timecode overlay."),
		kong.UsageOnError(),
	)

	// SDL must own the main OS thread.
	var err error
	thread.Run(func() { err = ctx.Run() })
	ctx.FatalIfErrorf(err)
}

// Run executes the play command.
func (cmd *PlayCmd) Run() error {
	fileConfig, err := cmd.loadConfig()
	if err != nil {
		return err
	}
	cmd.applyOverrides(&fileConfig)

	var log ports.Logger
	if cmd.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(fileConfig.LogLevel))
	}

	builder, err := vidplay.FromFileConfig(fileConfig)
	if err != nil {
		return err
	}
	cfg, err := builder.Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := vidplay.Open(cmd.Path, cfg, log)
	if err != nil {
		return err
	}
	defer session.Close()

	info := session.Info()
	log.Debug("Using %s backend (%s)", string(info.Backend), string(info.Codec))

	if err := session.Run(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		log.Warn("Interrupted, shutting down...")
	}
	return nil
}

// loadConfig reads the configuration file when one is given.
func (cmd *PlayCmd) loadConfig() (config.Config, error) {
	if cmd.Config == "" {
		return config.Defaults(), nil
	}
	return config.LoadFromFile(osfilesystem.New(), cmd.Config)
}

// applyOverrides copies explicitly set flags over the file configuration.
func (cmd *PlayCmd) applyOverrides(c *config.Config) {
	if cmd.Title != nil {
		c.Title = *cmd.Title
	}
	if cmd.Size != nil {
		c.Window.Size = *cmd.Size
	}
	if cmd.Portrait {
		c.Window.Portrait = true
	}
	if cmd.StartMs != nil {
		c.StartMs = cmd.StartMs
	}
	if cmd.Transform != nil {
		c.Transform = *cmd.Transform
	}
	if cmd.Backend != nil {
		c.Backend = *cmd.Backend
	}
	if cmd.FFmpegPath != nil {
		c.FFmpegPath = *cmd.FFmpegPath
	}
	if cmd.Debug {
		c.Debug = true
	}
	if cmd.DebugDir != nil {
		c.DebugDir = *cmd.DebugDir
	}
	if cmd.LogLevel != nil {
		c.LogLevel = *cmd.LogLevel
	}
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run() error {
	info, err := mp4probe.Probe(cmd.Path)
	if err != nil {
		return err
	}

	fmt.Println(l10n.F("File: %s", cmd.Path))
	fmt.Println(l10n.F("Codec: %s", string(info.Codec)))
	fmt.Println(l10n.F("Size: %dx%d", info.Width, info.Height))
	fmt.Println(l10n.F("Frames: %d", info.FrameCount))
	fmt.Println(l10n.F("Frame rate: %.3f fps", info.FPS))
	fmt.Println(l10n.F("Duration: %s", clock.Format(info.DurationMs)))
	if info.Fragmented {
		fmt.Println(l10n.T("Layout: fragmented"))
	}
	if info.Rotation != 0 {
		fmt.Println(l10n.F("Rotation: %d degrees", info.Rotation))
	}

	if cmd.Summary == "" {
		return nil
	}

	var size int64
	if st, err := os.Stat(cmd.Path); err == nil {
		size = st.Size()
	}
	summary := summarizer.NewBuilder().
		WithFile(cmd.Path, size).
		WithProbe(info).
		Build()

	writer := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), osfilesystem.New())
	if err := writer.Write(cmd.Summary, summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	fmt.Println(l10n.F("Summary saved to %s", cmd.Summary))
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("vidplay version %s", version))
	fmt.Println(l10n.F("Transforms: %s", strings.Join(transform.Names(), ", ")))
	return nil
}
