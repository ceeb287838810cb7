//go:build !opencv

package cvsource

import "image"

// Compiled reports whether OpenCV support is built in.
const Compiled = false

// Source is a placeholder for builds without OpenCV.
type Source struct{}

// Open always fails with ErrUnavailable.
func Open(path string) (*Source, error) {
	return nil, ErrUnavailable
}

func (s *Source) Read() (image.Image, bool) { return nil, false }
func (s *Source) Seek(int)                  {}
func (s *Source) SeekMs(float64)            {}
func (s *Source) Position() int             { return 0 }
func (s *Source) PositionMs() float64       { return 0 }
func (s *Source) FrameCount() int           { return 0 }
func (s *Source) FPS() float64              { return 0 }
func (s *Source) Size() (int, int)          { return 0, 0 }
func (s *Source) Close() error              { return nil }
