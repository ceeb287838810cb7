// Package smartsource selects a VideoSource backend for a file.
package smartsource

import (
	"errors"
	"fmt"

	"github.com/user/vidplay/pkg/adapters/cvsource"
	"github.com/user/vidplay/pkg/adapters/ffmpegsource"
	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/adapters/mp4probe"
	"github.com/user/vidplay/pkg/ports"
)

// Backend represents the decoding implementation behind a VideoSource.
type Backend string

const (
	// BackendAuto prefers OpenCV when compiled in, else ffmpeg.
	BackendAuto Backend = "auto"
	// BackendFFmpeg decodes through an external ffmpeg process.
	BackendFFmpeg Backend = "ffmpeg"
	// BackendOpenCV decodes through gocv.
	BackendOpenCV Backend = "opencv"
)

// ErrUnknownBackend is returned for a backend name that is not recognised.
var ErrUnknownBackend = errors.New("smartsource: unknown backend")

// Info describes the selected source.
type Info struct {
	// Backend is the backend actually in use (never BackendAuto).
	Backend Backend
	// Codec is the detected codec, CodecUnknown when the container could not be probed.
	Codec mp4probe.Codec
}

// Options configures backend selection.
type Options struct {
	Backend    Backend
	FFmpegPath string
	Logger     ports.Logger
}

// ParseBackend converts a CLI or config value into a Backend.
// The empty string selects BackendAuto.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendFFmpeg, BackendOpenCV:
		return Backend(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// Open opens path with the requested backend.
//
// The selection flow:
//   - opencv: gocv only; fails with cvsource.ErrUnavailable in builds without it
//   - ffmpeg: external ffmpeg process
//   - auto: opencv when compiled in and able to open the file, then ffmpeg
func Open(path string, opts Options) (ports.VideoSource, Info, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoop()
	}

	switch opts.Backend {
	case BackendOpenCV:
		return openCV(path)

	case BackendFFmpeg:
		return openFFmpeg(path, opts, log)

	case "", BackendAuto:
		if cvsource.Compiled {
			src, info, err := openCV(path)
			if err == nil {
				return src, info, nil
			}
			log.Debug("OpenCV could not open %s, falling back to ffmpeg: %s", path, err.Error())
		}
		return openFFmpeg(path, opts, log)

	default:
		return nil, Info{}, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

func openCV(path string) (ports.VideoSource, Info, error) {
	src, err := cvsource.Open(path)
	if err != nil {
		return nil, Info{}, err
	}

	info := Info{Backend: BackendOpenCV, Codec: mp4probe.CodecUnknown}
	if probed, err := mp4probe.Probe(path); err == nil {
		info.Codec = probed.Codec
	}
	return src, info, nil
}

func openFFmpeg(path string, opts Options, log ports.Logger) (ports.VideoSource, Info, error) {
	src, err := ffmpegsource.Open(path, ffmpegsource.Options{
		FFmpegPath: opts.FFmpegPath,
		Logger:     log.WithComponent("ffmpeg"),
	})
	if err != nil {
		return nil, Info{}, err
	}
	return src, Info{Backend: BackendFFmpeg, Codec: src.Info().Codec}, nil
}
