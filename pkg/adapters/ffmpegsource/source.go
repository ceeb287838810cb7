// Package ffmpegsource provides a VideoSource that decodes through an
// external ffmpeg process.
package ffmpegsource

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/adapters/mp4probe"
	"github.com/user/vidplay/pkg/ports"
)

var (
	// ErrFFmpegNotFound is returned when no ffmpeg executable can be located.
	ErrFFmpegNotFound = errors.New("ffmpeg not found")
	// ErrNotOpened is returned when the source is used after Close.
	ErrNotOpened = errors.New("ffmpeg source not opened")
)

// Options configures a Source.
type Options struct {
	// FFmpegPath overrides the ffmpeg lookup when non-empty.
	FFmpegPath string
	Logger     ports.Logger
}

// Source streams raw RGBA frames from an ffmpeg child process.
// The process is started lazily on the first Read after Open or Seek.
type Source struct {
	ffmpegPath string
	path       string
	info       mp4probe.Info
	log        ports.Logger

	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader
	stderr bytes.Buffer

	pos    int
	lastMs float64
	closed bool
}

// Open probes path and prepares a Source positioned at frame 0.
func Open(path string, opts Options) (*Source, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoop()
	}

	ffmpegPath, err := findFFmpeg(opts.FFmpegPath)
	if err != nil {
		return nil, err
	}

	info, err := mp4probe.Probe(path)
	if err != nil {
		log.Debug("Container metadata unavailable for %s, asking ffprobe: %s", path, err.Error())
		info, err = probeStream(ffmpegPath, path)
		if err != nil {
			return nil, fmt.Errorf("probe %s: %w", path, err)
		}
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("probe %s: invalid frame size %dx%d", path, info.Width, info.Height)
	}

	return &Source{
		ffmpegPath: ffmpegPath,
		path:       path,
		info:       info,
		log:        log,
	}, nil
}

// findFFmpeg searches for ffmpeg in PATH and common locations.
// If custom is set, it uses that path instead.
func findFFmpeg(custom string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, custom)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}

	path, err := exec.LookPath(execName)
	if err == nil {
		return path, nil
	}

	var commonPaths []string
	if runtime.GOOS == "windows" {
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files (x86)\ffmpeg\bin\ffmpeg.exe`,
		}
	} else {
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/opt/homebrew/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}

	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrFFmpegNotFound
}

// Available reports whether an ffmpeg executable can be located.
func Available(custom string) bool {
	_, err := findFFmpeg(custom)
	return err == nil
}

// Info returns the probed stream metadata.
func (s *Source) Info() mp4probe.Info {
	return s.info
}

// Read decodes the next frame. It returns false at the end of the stream,
// after Close, or when ffmpeg fails.
func (s *Source) Read() (image.Image, bool) {
	if s.closed || s.pos >= s.info.FrameCount {
		return nil, false
	}

	if s.cmd == nil {
		if err := s.start(); err != nil {
			s.log.Warn("Failed to start ffmpeg: %s", err.Error())
			return nil, false
		}
	}

	w, h := s.Size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if _, err := io.ReadFull(s.reader, img.Pix); err != nil {
		// stderr is written by the exec copier until Wait returns
		s.stop()
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			s.log.Warn("Failed to read frame %d: %s", s.pos, err.Error())
		} else if msg := s.stderr.String(); msg != "" {
			s.log.Debug("ffmpeg: %s", msg)
		}
		return nil, false
	}

	s.lastMs = frameTimeMs(s.pos, s.info.FPS)
	s.pos++
	return img, true
}

// Seek positions the stream so that the next Read returns frame.
// The target is clamped into [0, FrameCount].
func (s *Source) Seek(frame int) {
	frame = max(0, min(frame, s.info.FrameCount))
	if frame == s.pos && s.cmd != nil {
		return
	}
	s.stop()
	s.pos = frame
}

// SeekMs positions the stream at the frame presented at ms.
func (s *Source) SeekMs(ms float64) {
	s.Seek(frameForMs(ms, s.info.FPS))
}

// Position returns the index of the next frame to be read.
func (s *Source) Position() int {
	return s.pos
}

// PositionMs returns the presentation time of the last decoded frame.
func (s *Source) PositionMs() float64 {
	return s.lastMs
}

// FrameCount returns the total number of frames.
func (s *Source) FrameCount() int {
	return s.info.FrameCount
}

// FPS returns the nominal frame rate.
func (s *Source) FPS() float64 {
	return s.info.FPS
}

// Size returns the frame dimensions after display rotation.
func (s *Source) Size() (int, int) {
	return s.info.DisplaySize()
}

// Close stops ffmpeg. Further reads return false.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.stop()
	s.closed = true
	return nil
}

func (s *Source) start() error {
	if s.closed {
		return ErrNotOpened
	}

	s.stderr.Reset()
	cmd := exec.Command(s.ffmpegPath, buildArgs(s.path, seekTimeMs(s.pos, s.info.FPS))...)
	cmd.Stderr = &s.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	s.log.Debug("Started ffmpeg at frame %d", s.pos)
	s.cmd = cmd
	s.stdout = stdout
	w, h := s.Size()
	s.reader = bufio.NewReaderSize(stdout, w*h*4)
	return nil
}

func (s *Source) stop() {
	if s.cmd == nil {
		return
	}
	s.stdout.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.cmd.Wait()
	s.cmd = nil
	s.stdout = nil
	s.reader = nil
}

// buildArgs returns the ffmpeg arguments that stream path from seekMs as
// raw RGBA on stdout. ffmpeg applies the display rotation itself.
func buildArgs(path string, seekMs float64) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-ss", strconv.FormatFloat(seekMs/1000, 'f', 6, 64),
		"-i", path,
		"-an",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	}
}

func frameTimeMs(frame int, fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(frame) * 1000 / fps
}

// seekTimeMs returns an input seek time half a frame before frame, so that
// rounding can never place it after the frame's timestamp.
func seekTimeMs(frame int, fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return max((float64(frame)-0.5)*1000/fps, 0)
}

func frameForMs(ms float64, fps float64) int {
	if fps <= 0 || ms <= 0 {
		return 0
	}
	// frameForMs(frameTimeMs(n)) must return n.
	return int(ms*fps/1000 + 1e-6)
}
