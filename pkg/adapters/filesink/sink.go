// Package filesink writes displayed frames to disk for debugging.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/vidplay/pkg/ports"
)

// Sink saves every displayed frame as a PNG under baseDir/frames.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
	created  bool
}

// New creates a new Sink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveFrame saves a frame as frames/frame-NNNNNN.png. Revisited frames overwrite.
func (s *Sink) SaveFrame(index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames")
	if !s.created {
		if err := s.fs.MkdirAll(dir); err != nil {
			return err
		}
		s.created = true
	}

	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%06d.png", index))
	return s.fs.WriteFile(path, data)
}

var _ ports.DebugSink = (*Sink)(nil)
