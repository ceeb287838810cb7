package vidplay

import (
	"context"

	"github.com/user/vidplay/pkg/adapters/filesink"
	"github.com/user/vidplay/pkg/adapters/ggrenderer"
	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/adapters/nullsink"
	"github.com/user/vidplay/pkg/adapters/osfilesystem"
	"github.com/user/vidplay/pkg/adapters/sdlwindow"
	"github.com/user/vidplay/pkg/adapters/smartsource"
	"github.com/user/vidplay/pkg/player"
	"github.com/user/vidplay/pkg/ports"
)

// Session is one opened video with its window.
type Session struct {
	player *player.Player
	config Config
	info   smartsource.Info
	log    ports.Logger
}

// Open opens path with the configured backend and creates an SDL window
// sized to the video. Errors opening the video wrap player.ErrOpen.
func Open(path string, cfg Config, log ports.Logger) (*Session, error) {
	if log == nil {
		log = logger.NewNoop()
	}

	var info smartsource.Info
	openSource := func(path string) (ports.VideoSource, error) {
		src, i, err := smartsource.Open(path, smartsource.Options{
			Backend:    cfg.Backend,
			FFmpegPath: cfg.FFmpegPath,
			Logger:     log,
		})
		info = i
		return src, err
	}
	openWindow := func(w, h int) (ports.DisplaySurface, error) {
		return sdlwindow.Open(w, h, sdlwindow.Options{
			Title:  player.WindowTitle(path, cfg.Title),
			Logger: log.WithComponent("sdl"),
		})
	}

	s, err := open(path, cfg, log, openSource, openWindow)
	if err != nil {
		return nil, err
	}
	s.info = info
	return s, nil
}

func open(path string, cfg Config, log ports.Logger, openSource player.SourceOpener, openWindow player.WindowOpener) (*Session, error) {
	if log == nil {
		log = logger.NewNoop()
	}
	renderer := ggrenderer.New()

	var sink ports.DebugSink = nullsink.New()
	if cfg.Debug {
		sink = filesink.New(cfg.DebugDir, osfilesystem.New(), renderer)
	}

	p, err := player.Open(path, player.Options{
		Title:    cfg.Title,
		Overlay:  cfg.Overlay,
		Renderer: renderer,
		Sink:     sink,
		Logger:   log,
	}, openSource, openWindow)
	if err != nil {
		return nil, err
	}

	src := p.Source()
	w, h := src.Size()
	log.Info("Opened %s: %dx%d, %d frames at %.2f fps", path, w, h, src.FrameCount(), src.FPS())

	if cfg.WindowSize != nil {
		p.Resize(cfg.WindowSize.Width, cfg.WindowSize.Height)
	}

	return &Session{player: p, config: cfg, log: log}, nil
}

// Info returns the backend and codec in use.
func (s *Session) Info() smartsource.Info {
	return s.info
}

// Player returns the underlying controller.
func (s *Session) Player() *player.Player {
	return s.player
}

// Run plays until the window is closed, Escape is pressed or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	// A paused player blocks in PollKey; wake it so cancellation is observed.
	if w, ok := s.player.Window().(interface{ Interrupt() }); ok {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				w.Interrupt()
			case <-done:
			}
		}()
	}

	return s.player.Run(ctx, s.config.Transform, s.config.StartMs)
}

// Close releases the video and destroys the window.
func (s *Session) Close() error {
	return s.player.Close()
}
