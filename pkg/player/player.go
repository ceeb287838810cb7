// Package player implements the interactive playback controller: it pulls
// frames from a VideoSource, stamps the status overlay on them, shows them on
// a DisplaySurface and turns key presses into pause, play and seek requests.
package player

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/adapters/nullsink"
	"github.com/user/vidplay/pkg/ports"
)

// DefaultTitle is appended to the file name in the window caption.
const DefaultTitle = "Video Player"

// ErrOpen is returned when the video cannot be opened or decoded.
var ErrOpen = errors.New("player: cannot open video")

// Transform rewrites a frame before it is displayed.
type Transform func(image.Image) image.Image

// SourceOpener opens a video source for a path.
type SourceOpener func(path string) (ports.VideoSource, error)

// WindowOpener creates a display surface of the given size.
type WindowOpener func(width, height int) (ports.DisplaySurface, error)

// Options configures a Player.
type Options struct {
	Title    string
	Overlay  Overlay
	Renderer ports.Renderer // nil disables the overlay
	Sink     ports.DebugSink
	Logger   ports.Logger
	Now      func() time.Time
}

// Player drives one video source and one window.
type Player struct {
	path     string
	source   ports.VideoSource
	window   ports.DisplaySurface
	overlay  Overlay
	renderer ports.Renderer
	sink     ports.DebugSink
	logger   ports.Logger
	now      func() time.Time
	released bool
}

// WindowTitle builds the caption "<base name> - <title>".
func WindowTitle(path, title string) string {
	if title == "" {
		title = DefaultTitle
	}
	return fmt.Sprintf("%s - %s", filepath.Base(path), title)
}

// Open opens the video at path and a window sized to its frames.
// A source that cannot be opened yields an error wrapping ErrOpen.
func Open(path string, opts Options, openSource SourceOpener, openWindow WindowOpener) (*Player, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}

	w, h := src.Size()
	win, err := openWindow(w, h)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("create window: %w", err)
	}

	return New(path, src, win, opts), nil
}

// New wires an already opened source and window into a Player.
func New(path string, src ports.VideoSource, win ports.DisplaySurface, opts Options) *Player {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoop()
	}
	if opts.Sink == nil {
		opts.Sink = nullsink.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Overlay.FontSize == 0 {
		opts.Overlay = DefaultOverlay()
	}

	p := &Player{
		path:     path,
		source:   src,
		window:   win,
		overlay:  opts.Overlay,
		renderer: opts.Renderer,
		sink:     opts.Sink,
		logger:   opts.Logger.WithComponent("player"),
		now:      opts.Now,
	}

	w, h := src.Size()
	win.SetTitle(WindowTitle(path, opts.Title))
	win.Resize(w, h)

	p.logger.Debug("Opened %s: %dx%d, %d frames at %.2f fps", filepath.Base(path), w, h, src.FrameCount(), src.FPS())
	return p
}

// Source returns the underlying video source.
func (p *Player) Source() ports.VideoSource {
	return p.source
}

// Window returns the underlying display surface.
func (p *Player) Window() ports.DisplaySurface {
	return p.window
}

// Resize requests new window dimensions.
func (p *Player) Resize(width, height int) {
	if !p.window.Visible() {
		return
	}
	p.window.Resize(width, height)
}

// Prep rewinds to the first frame and hands it to callback without displaying
// it. callback receives nil when the frame cannot be read.
func (p *Player) Prep(callback func(image.Image)) {
	p.source.Seek(0)
	img, ok := p.source.Read()
	if !ok {
		p.logger.Warn("Could not read the first frame")
		img = nil
	}
	callback(img)
}

// Run plays the video until the window is closed, Escape is pressed or ctx
// is done. Playback starts paused on the first frame at startMs, or at the
// current position when startMs is nil. The source is released on return.
func (p *Player) Run(ctx context.Context, callback Transform, startMs *float64) error {
	defer p.release()

	total := p.source.FrameCount()
	fps := p.source.FPS()

	if startMs != nil {
		p.source.SeekMs(*startMs)
	}

	var s State
	for p.active(ctx) {
		img, ok := p.source.Read()
		s.Index = p.source.Position()
		s.OK = ok

		if ok {
			if err := p.present(img, callback, s.Index, total); err != nil {
				return err
			}
		} else {
			p.logger.Debug("End of stream at frame %d", s.Index)
			s.Delay = 0
		}

		for p.active(ctx) {
			key := p.window.PollKey(s.Delay)

			var action Action
			s, action = HandleKey(key, s, total, fps)
			if action.Quit {
				p.logger.Debug("Playback stopped by user")
				return nil
			}
			if action.Seek != NoSeek {
				p.source.Seek(action.Seek)
			}
			if action.Resume {
				break
			}
		}
	}

	return nil
}

// Close releases the source and destroys the window.
func (p *Player) Close() error {
	p.release()
	return p.window.Close()
}

func (p *Player) active(ctx context.Context) bool {
	return ctx.Err() == nil && p.window.Visible()
}

// present applies the callback, stamps the overlay and shows the frame.
// The reported rate covers the callback only and does not pace playback.
func (p *Player) present(img image.Image, callback Transform, index, total int) error {
	started := p.now()
	if callback != nil {
		img = callback(img)
	}
	var rate float64
	if elapsed := p.now().Sub(started); elapsed > 0 {
		rate = 1 / elapsed.Seconds()
	}

	if p.renderer != nil {
		text := StatusText(p.source.PositionMs(), index, total, rate)
		img = p.overlay.Draw(p.renderer, img, text)
	}

	if p.sink.Enabled() {
		if err := p.sink.SaveFrame(index, img); err != nil {
			p.logger.Warn("Failed to save debug frame %d: %s", index, err.Error())
		}
	}

	if err := p.window.Show(img); err != nil {
		return fmt.Errorf("show frame %d: %w", index, err)
	}
	return nil
}

func (p *Player) release() {
	if p.released {
		return
	}
	p.released = true
	if err := p.source.Close(); err != nil {
		p.logger.Warn("Failed to release video: %s", err.Error())
	}
}
