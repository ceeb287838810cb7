package mocks

import (
	"image"
	"image/color"
	"math"

	"github.com/user/vidplay/pkg/ports"
)

// VideoSource simulates a decoded stream of solid-color frames.
// Frame i is filled with gray level i%256, so tests can tell frames apart.
type VideoSource struct {
	Frames int
	Rate   float64
	Width  int
	Height int

	// ReadFunc overrides Read when set.
	ReadFunc func() (image.Image, bool)
	SeekFunc func(frame int)
	CloseErr error

	pos    int
	lastMs float64

	// Recorded calls for verification
	SeekCalls   []int
	SeekMsCalls []float64
	ReadCount   int
	CloseCount  int
}

// NewVideoSource creates a source with the given frame count and rate.
func NewVideoSource(frames int, fps float64) *VideoSource {
	return &VideoSource{Frames: frames, Rate: fps, Width: 64, Height: 48}
}

func (m *VideoSource) Read() (image.Image, bool) {
	m.ReadCount++
	if m.ReadFunc != nil {
		return m.ReadFunc()
	}
	if m.pos >= m.Frames {
		return nil, false
	}
	img := FrameImage(m.Width, m.Height, m.pos)
	m.lastMs = float64(m.pos) * 1000 / m.Rate
	m.pos++
	return img, true
}

func (m *VideoSource) Seek(frame int) {
	m.SeekCalls = append(m.SeekCalls, frame)
	if m.SeekFunc != nil {
		m.SeekFunc(frame)
		return
	}
	m.pos = min(max(frame, 0), m.Frames)
}

func (m *VideoSource) SeekMs(ms float64) {
	m.SeekMsCalls = append(m.SeekMsCalls, ms)
	m.pos = min(max(int(math.Round(ms*m.Rate/1000)), 0), m.Frames)
}

func (m *VideoSource) Position() int {
	return m.pos
}

func (m *VideoSource) PositionMs() float64 {
	return m.lastMs
}

func (m *VideoSource) FrameCount() int {
	return m.Frames
}

func (m *VideoSource) FPS() float64 {
	return m.Rate
}

func (m *VideoSource) Size() (int, int) {
	return m.Width, m.Height
}

func (m *VideoSource) Close() error {
	m.CloseCount++
	return m.CloseErr
}

var _ ports.VideoSource = (*VideoSource)(nil)

// FrameImage returns the solid frame the mock source produces for index.
func FrameImage(width, height, index int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := color.RGBA{R: uint8(index), G: uint8(index), B: uint8(index), A: 255}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}
