//go:build opencv

package cvsource

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Compiled reports whether OpenCV support is built in.
const Compiled = true

// Source reads frames through gocv.VideoCapture.
type Source struct {
	video      *gocv.VideoCapture
	mat        gocv.Mat
	fps        float64
	frameCount int
	width      int
	height     int
	pos        int
	lastMs     float64
	closed     bool
}

// Open opens path with OpenCV.
func Open(path string) (*Source, error) {
	video, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}
	if !video.IsOpened() {
		video.Close()
		return nil, fmt.Errorf("open video: %s could not be opened", path)
	}
	// frames and reported size follow the container's display rotation
	video.Set(gocv.VideoCaptureOrientationAuto, 1)

	return &Source{
		video:      video,
		mat:        gocv.NewMat(),
		fps:        video.Get(gocv.VideoCaptureFPS),
		frameCount: int(video.Get(gocv.VideoCaptureFrameCount)),
		width:      int(video.Get(gocv.VideoCaptureFrameWidth)),
		height:     int(video.Get(gocv.VideoCaptureFrameHeight)),
	}, nil
}

// Read decodes the next frame.
func (s *Source) Read() (image.Image, bool) {
	if s.closed {
		return nil, false
	}
	if ok := s.video.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, false
	}

	img, err := s.mat.ToImage()
	if err != nil {
		return nil, false
	}
	s.lastMs = s.video.Get(gocv.VideoCapturePosMsec)
	s.pos = int(s.video.Get(gocv.VideoCapturePosFrames))
	return img, true
}

// Seek positions the capture so that the next Read returns frame.
func (s *Source) Seek(frame int) {
	frame = max(0, min(frame, s.frameCount))
	s.video.Set(gocv.VideoCapturePosFrames, float64(frame))
	s.pos = frame
}

// SeekMs positions the capture at ms.
func (s *Source) SeekMs(ms float64) {
	s.video.Set(gocv.VideoCapturePosMsec, max(ms, 0))
	s.pos = int(s.video.Get(gocv.VideoCapturePosFrames))
}

func (s *Source) Position() int       { return s.pos }
func (s *Source) PositionMs() float64 { return s.lastMs }
func (s *Source) FrameCount() int     { return s.frameCount }
func (s *Source) FPS() float64        { return s.fps }
func (s *Source) Size() (int, int)    { return s.width, s.height }

// Close releases the capture.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.mat.Close()
	return s.video.Close()
}
